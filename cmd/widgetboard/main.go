/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"widgetboard/internal/board"
	"widgetboard/internal/config"
	"widgetboard/internal/crash"
	"widgetboard/internal/domain"
	"widgetboard/internal/export"
	applog "widgetboard/internal/log"
	"widgetboard/internal/replay"
	"widgetboard/internal/storage"
	"widgetboard/internal/ui"
	"widgetboard/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "WidgetBoard: drag-and-drop dashboard")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  widgetboard version|-v|--version          Show version")
	fmt.Fprintln(w, "  widgetboard show [--json]                  Print the current layout")
	fmt.Fprintln(w, "  widgetboard reset [--yes]                  Remove all widgets (asks unless --yes)")
	fmt.Fprintln(w, "  widgetboard export pdf|png <out>           Render the layout to a file")
	fmt.Fprintln(w, "  widgetboard replay <script.yaml>           Run an interaction script against the layout")
	fmt.Fprintln(w, "  widgetboard config path                    Show the config file location")
	fmt.Fprintln(w, "  widgetboard config set-password            Store the Postgres password in the OS keychain (reads stdin)")
	fmt.Fprintln(w, "  widgetboard ui                             Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	cfg, cfgErr := config.Load()
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	defer func() { _ = applog.Close() }()
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}

	dataDir, _ := cfg.StorageDir()
	guard := &crash.Guard{Dir: dataDir}
	defer guard.Recover()

	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	ctx := context.Background()
	fail := func(msg string, err error) int {
		l.Error(msg, slog.Any("err", err))
		fmt.Fprintln(stdout, "Error:", err)
		return 1
	}
	withBoard := func(fn func(b *board.Board) error) int {
		b, err := board.Open(ctx, cfg)
		if err != nil {
			return fail("open board failed", err)
		}
		guard.SetFlush(b.Canvas.Flush)
		runErr := fn(b)
		closeErr := b.Close()
		if err := errors.Join(runErr, closeErr); err != nil {
			return fail(args[0]+" failed", err)
		}
		return 0
	}

	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, "WidgetBoard")
		fmt.Fprintln(stdout, version.String())
		return 0
	case "show":
		asJSON := len(args) > 1 && args[1] == "--json"
		return withBoard(func(b *board.Board) error { return show(stdout, b, asJSON) })
	case "reset":
		yes := len(args) > 1 && (args[1] == "--yes" || args[1] == "-y")
		return withBoard(func(b *board.Board) error {
			confirm := func(prompt string) bool {
				if yes {
					return true
				}
				fmt.Fprintf(stdout, "%s [y/N] ", prompt)
				line, _ := bufio.NewReader(stdin).ReadString('\n')
				answer := strings.ToLower(strings.TrimSpace(line))
				return answer == "y" || answer == "yes"
			}
			if b.Canvas.Reset(confirm) {
				fmt.Fprintln(stdout, "Dashboard reset.")
			} else {
				fmt.Fprintln(stdout, "Reset cancelled.")
			}
			return nil
		})
	case "export":
		if len(args) < 3 {
			fmt.Fprintln(stdout, "export requires a format (pdf|png) and <out>")
			usage(stdout)
			return 2
		}
		var fn func(l domain.Layout, out string, opt export.Options) error
		switch strings.ToLower(args[1]) {
		case "pdf":
			fn = export.LayoutPDF
		case "png":
			fn = export.LayoutPNG
		default:
			fmt.Fprintf(stdout, "unknown export format %q\n", args[1])
			return 2
		}
		out, _ := filepath.Abs(args[2])
		return withBoard(func(b *board.Board) error {
			if err := fn(b.Canvas.Snapshot(), out, b.ExportOptions("WidgetBoard: "+userLabel(b.User))); err != nil {
				return err
			}
			l.Info("exported layout", slog.String("format", args[1]), slog.String("out", out))
			fmt.Fprintln(stdout, "Exported to", out)
			return nil
		})
	case "replay":
		if len(args) < 2 {
			fmt.Fprintln(stdout, "replay requires <script.yaml>")
			usage(stdout)
			return 2
		}
		script, err := replay.LoadFile(args[1])
		if err != nil {
			return fail("load script failed", err)
		}
		return withBoard(func(b *board.Board) error {
			res, err := replay.NewRunner(b).Run(ctx, script)
			fmt.Fprintf(stdout, "Ran %d/%d steps; %d widgets on the board.\n", res.Steps, len(script.Steps), len(res.Layout.Widgets))
			return err
		})
	case "config":
		return configCmd(args[1:], stdin, stdout)
	case "ui":
		if err := ui.Run(cfg); err != nil {
			fmt.Fprintln(stdout, "Error:", err)
			return 1
		}
		return 0
	}

	usage(stdout)
	return 2
}

func show(w io.Writer, b *board.Board, asJSON bool) error {
	layout := b.Canvas.Snapshot()
	if asJSON {
		data, err := storage.Encode(layout)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	fmt.Fprintf(w, "User: %s\n", userLabel(b.User))
	fmt.Fprintf(w, "Widgets: %d (z counter %d)\n", len(layout.Widgets), layout.ZCounter)
	for _, wd := range layout.Stacked() {
		fmt.Fprintf(w, "  %-8s %-12s at (%g, %g) z=%d\n", wd.ID, b.Registry.Lookup(wd.Type).Label, wd.Position.X, wd.Position.Y, wd.ZIndex)
	}
	return nil
}

func configCmd(args []string, stdin io.Reader, stdout io.Writer) int {
	if len(args) == 0 {
		usage(stdout)
		return 2
	}
	switch args[0] {
	case "path":
		p, err := config.ConfigPath()
		if err != nil {
			fmt.Fprintln(stdout, "Error:", err)
			return 1
		}
		fmt.Fprintln(stdout, p)
		return 0
	case "set-password":
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout, "Error:", err)
			return 1
		}
		if err := config.SetPostgresPassword(strings.TrimRight(line, "\r\n")); err != nil {
			fmt.Fprintln(stdout, "Error:", err)
			return 1
		}
		fmt.Fprintln(stdout, "Password stored in the OS keychain.")
		return 0
	}
	usage(stdout)
	return 2
}

func userLabel(u string) string {
	if strings.TrimSpace(u) == "" {
		return storage.GuestUser
	}
	return u
}
