/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"testing"

	"widgetboard/internal/board"
	"widgetboard/internal/boundary"
	"widgetboard/internal/canvas"
	"widgetboard/internal/config"
	"widgetboard/internal/dnd"
	"widgetboard/internal/domain"
)

func openBoard(t *testing.T) *board.Board {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.Dir = t.TempDir()
	b, err := board.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open board: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSceneFollowsLiveDrag(t *testing.T) {
	b := openBoard(t)
	var st canvas.State
	b.Canvas.Subscribe(func(s canvas.State) { st = s })

	src, _ := b.WidgetSource("2")
	start := src.Rect.Center()
	if err := b.Input.PointerDown(start, src); err != nil {
		t.Fatal(err)
	}
	b.Input.PointerMove(start.Add(domain.Pt(10, 20)))

	sc := BuildScene(b, st, "")
	top := sc.Boxes[len(sc.Boxes)-1]
	if top.Widget.ID != "2" || !top.Dragging {
		t.Fatalf("dragged widget should render on top: %+v", top)
	}
	if top.Rect != domain.R(410, 70, 70, boundary.DefaultAssumedHeight) {
		t.Fatalf("rect = %+v", top.Rect)
	}
	// stored position is untouched until drop
	if w, _ := st.Layout.Find("2"); w.Position != domain.Pt(400, 50) {
		t.Fatalf("position = %+v", w.Position)
	}
	if sc.Origin != domain.Pt(board.PaletteWidth, 0) {
		t.Fatalf("origin = %+v", sc.Origin)
	}
}

func TestHitTestPrefersTopmost(t *testing.T) {
	b := openBoard(t)
	st := canvas.State{Layout: domain.Layout{Widgets: []domain.Widget{
		{ID: "low", Type: domain.TypeTextbox, Position: domain.Pt(0, 0), ZIndex: 1},
		{ID: "high", Type: domain.TypeTextbox, Position: domain.Pt(100, 100), ZIndex: 2},
	}}}
	sc := BuildScene(b, st, "low")
	if w, ok := sc.HitTest(domain.Pt(150, 150)); !ok || w.ID != "high" {
		t.Fatalf("hit = %+v %v", w, ok)
	}
	if w, ok := sc.HitTest(domain.Pt(50, 50)); !ok || w.ID != "low" {
		t.Fatalf("hit = %+v %v", w, ok)
	}
	if _, ok := sc.HitTest(domain.Pt(1000, 50)); ok {
		t.Fatalf("expected miss")
	}
	if !sc.Boxes[0].Focused {
		t.Fatalf("focused flag not set")
	}
}

func TestIndicatorLine(t *testing.T) {
	size := domain.Size{W: 800, H: 600}
	from, to, ok := IndicatorLine(canvas.Indicator{Active: true, Edge: boundary.EdgeRight, Along: 300}, size, 60)
	if !ok || from != domain.Pt(800, 270) || to != domain.Pt(800, 330) {
		t.Fatalf("line = %v %v %v", from, to, ok)
	}
	from, _, _ = IndicatorLine(canvas.Indicator{Active: true, Edge: boundary.EdgeBottom, Along: 100}, size, 20)
	if from != domain.Pt(90, 600) {
		t.Fatalf("bottom from = %v", from)
	}
	if _, _, ok := IndicatorLine(canvas.Indicator{}, size, 60); ok {
		t.Fatalf("inactive indicator should not draw")
	}
}

func TestKeyName(t *testing.T) {
	if keyName("Return") != dnd.KeyEnter || keyName("Left") != dnd.KeyLeft || keyName("Space") != dnd.KeySpace {
		t.Fatalf("unexpected key mapping")
	}
	if keyName("F1") != "" {
		t.Fatalf("unmapped keys should be empty")
	}
}
