/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WB_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("WB_STORAGE_DIR", filepath.Join(dir, "data"))
	t.Setenv("WB_STORAGE_BACKEND", "file")
	t.Setenv("WB_USER", "tester")
	t.Setenv("WB_LOG_LEVEL", "error")
	return dir
}

func TestVersionAndUsage(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	if code := run([]string{"version"}, nil, &out); code != 0 || !strings.Contains(out.String(), "WidgetBoard") {
		t.Fatalf("version: code=%d out=%q", code, out.String())
	}
	out.Reset()
	if code := run([]string{"bogus"}, nil, &out); code != 2 || !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("unknown command: code=%d", code)
	}
}

func TestShowDefaultLayout(t *testing.T) {
	isolate(t)
	var out bytes.Buffer
	if code := run([]string{"show"}, nil, &out); code != 0 {
		t.Fatalf("show failed: %s", out.String())
	}
	s := out.String()
	if !strings.Contains(s, "User: tester") || !strings.Contains(s, "Widgets: 4 (z counter 104)") {
		t.Fatalf("show output = %q", s)
	}
	out.Reset()
	if code := run([]string{"show", "--json"}, nil, &out); code != 0 || !strings.Contains(out.String(), `"zCounter":104`) {
		t.Fatalf("show --json = %q", out.String())
	}
}

func TestReplayThenResetPersists(t *testing.T) {
	dir := isolate(t)
	script := filepath.Join(dir, "drag.yaml")
	body := "name: drop a clock\nsteps:\n  - down: {palette: clock}\n  - up: [700, 400]\n  - expect: {widgets: 5}\n"
	if err := os.WriteFile(script, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if code := run([]string{"replay", script}, nil, &out); code != 0 {
		t.Fatalf("replay failed: %s", out.String())
	}
	out.Reset()
	run([]string{"show"}, nil, &out)
	if !strings.Contains(out.String(), "Widgets: 5") {
		t.Fatalf("replayed drop not persisted: %q", out.String())
	}

	out.Reset()
	run([]string{"reset"}, strings.NewReader("n\n"), &out)
	if !strings.Contains(out.String(), "Reset cancelled.") {
		t.Fatalf("declined reset output = %q", out.String())
	}
	out.Reset()
	run([]string{"reset", "--yes"}, nil, &out)
	out.Reset()
	run([]string{"show"}, nil, &out)
	// the erased record falls back to the seed layout
	if !strings.Contains(out.String(), "Widgets: 4") {
		t.Fatalf("after reset: %q", out.String())
	}
}

func TestExportWritesFiles(t *testing.T) {
	dir := isolate(t)
	for _, f := range []string{"pdf", "png"} {
		out := filepath.Join(dir, "out", "layout."+f)
		var buf bytes.Buffer
		if code := run([]string{"export", f, out}, nil, &buf); code != 0 {
			t.Fatalf("export %s failed: %s", f, buf.String())
		}
		if st, err := os.Stat(out); err != nil || st.Size() == 0 {
			t.Fatalf("export %s produced nothing: %v", f, err)
		}
	}
	var buf bytes.Buffer
	if code := run([]string{"export", "svg", filepath.Join(dir, "x.svg")}, nil, &buf); code != 2 {
		t.Fatalf("unknown format code = %d", code)
	}
}

func TestConfigPath(t *testing.T) {
	dir := isolate(t)
	var out bytes.Buffer
	if code := run([]string{"config", "path"}, nil, &out); code != 0 {
		t.Fatalf("config path failed")
	}
	if strings.TrimSpace(out.String()) != filepath.Join(dir, "config.yaml") {
		t.Fatalf("path = %q", out.String())
	}
}
