/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package replay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"widgetboard/internal/board"
	"widgetboard/internal/dnd"
	"widgetboard/internal/domain"
	applog "widgetboard/internal/log"
	"widgetboard/internal/palette"
)

// ErrExpectation is wrapped by every failed expect step.
var ErrExpectation = errors.New("expectation failed")

// Result summarizes a run.
type Result struct {
	Steps  int
	Layout domain.Layout
}

// Runner plays scripts against one board.
type Runner struct {
	b     *board.Board
	focus string // widget id or palette token with keyboard focus
	log   *slog.Logger
}

// NewRunner returns a runner over b.
func NewRunner(b *board.Board) *Runner {
	return &Runner{b: b, log: applog.WithComponent("replay")}
}

// Run executes s step by step. It stops at the first failing step; the
// result then covers the steps run so far.
func (r *Runner) Run(ctx context.Context, s Script) (Result, error) {
	ctx = applog.ContextWith(ctx, slog.String("script", s.Name))
	r.log.InfoContext(ctx, "replay start", slog.Int("steps", len(s.Steps)))
	res := Result{}
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return r.result(res), err
		}
		sctx := applog.ContextWith(ctx, slog.Int("step", i+1))
		kind, err := st.kind()
		if err == nil {
			r.log.DebugContext(sctx, "step", slog.String("kind", kind))
			err = r.step(st)
		}
		if err != nil {
			r.log.WarnContext(sctx, "replay stopped", slog.Any("err", err))
			return r.result(res), fmt.Errorf("step %d (%s): %w", i+1, kind, err)
		}
		res.Steps++
	}
	r.log.InfoContext(ctx, "replay done", slog.Int("steps", res.Steps))
	return r.result(res), nil
}

func (r *Runner) result(res Result) Result {
	res.Layout = r.b.Canvas.Snapshot()
	return res
}

func (r *Runner) step(st Step) error {
	in := r.b.Input
	switch {
	case st.Down != nil:
		src, err := r.pressSource(*st.Down)
		if err != nil {
			return err
		}
		at := src.Rect.Center()
		if st.Down.At != nil {
			at = st.Down.At.point()
		}
		return in.PointerDown(at, src)
	case st.Move != nil:
		in.PointerMove(st.Move.point())
	case st.Up != nil:
		in.PointerUp(st.Up.point())
	case st.Key != "":
		var focused *dnd.Source
		if src, ok := r.focusedSource(); ok {
			focused = &src
		}
		in.Key(st.Key, focused)
	case st.Focus != "":
		r.focus = st.Focus
		if !strings.HasPrefix(st.Focus, palette.TokenPrefix) {
			r.b.Canvas.Focus(st.Focus)
		}
	case st.Content != nil:
		r.b.Canvas.ChangeContent(st.Content.Widget, st.Content.Value)
	case st.Reset != nil:
		answer := *st.Reset
		r.b.Canvas.Reset(func(string) bool { return answer })
	case st.Canvas != nil:
		c := st.Canvas
		r.b.Canvas.SetCanvasRect(domain.R(c.X, c.Y, c.W, c.H))
	case st.Expect != nil:
		return r.check(*st.Expect)
	}
	return nil
}

func (r *Runner) pressSource(p Press) (dnd.Source, error) {
	if p.Palette != "" {
		id := strings.TrimPrefix(p.Palette, palette.TokenPrefix)
		src, ok := r.b.PaletteSource(id)
		if !ok {
			return dnd.Source{}, fmt.Errorf("unknown palette entry %q", p.Palette)
		}
		return src, nil
	}
	src, ok := r.b.WidgetSource(p.Widget)
	if !ok {
		return dnd.Source{}, fmt.Errorf("unknown widget %q", p.Widget)
	}
	return src, nil
}

func (r *Runner) focusedSource() (dnd.Source, bool) {
	if r.focus == "" {
		return dnd.Source{}, false
	}
	if id, ok := strings.CutPrefix(r.focus, palette.TokenPrefix); ok {
		return r.b.PaletteSource(id)
	}
	return r.b.WidgetSource(r.focus)
}

func (r *Runner) check(e Expect) error {
	l := r.b.Canvas.Snapshot()
	var fails []string
	if e.Widgets != nil && len(l.Widgets) != *e.Widgets {
		fails = append(fails, fmt.Sprintf("widgets = %d, want %d", len(l.Widgets), *e.Widgets))
	}
	if e.ZCounter != nil && l.ZCounter != *e.ZCounter {
		fails = append(fails, fmt.Sprintf("zCounter = %d, want %d", l.ZCounter, *e.ZCounter))
	}
	for _, id := range sortedKeys(e.Position) {
		want := e.Position[id].point()
		w, ok := l.Find(id)
		switch {
		case !ok:
			fails = append(fails, fmt.Sprintf("widget %q missing", id))
		case w.Position != want:
			fails = append(fails, fmt.Sprintf("widget %q at (%g,%g), want (%g,%g)", id, w.Position.X, w.Position.Y, want.X, want.Y))
		}
	}
	for _, id := range sortedKeys(e.Z) {
		w, ok := l.Find(id)
		switch {
		case !ok:
			fails = append(fails, fmt.Sprintf("widget %q missing", id))
		case w.ZIndex != e.Z[id]:
			fails = append(fails, fmt.Sprintf("widget %q z = %d, want %d", id, w.ZIndex, e.Z[id]))
		}
	}
	for _, id := range e.Missing {
		if _, ok := l.Find(id); ok {
			fails = append(fails, fmt.Sprintf("widget %q still present", id))
		}
	}
	if e.Indicator != nil && r.b.Canvas.PendingDelete() != *e.Indicator {
		fails = append(fails, fmt.Sprintf("delete indicator = %v, want %v", !*e.Indicator, *e.Indicator))
	}
	if len(fails) > 0 {
		return fmt.Errorf("%w: %s", ErrExpectation, strings.Join(fails, "; "))
	}
	return nil
}

func (p XY) point() domain.Point { return domain.Pt(p.X, p.Y) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
