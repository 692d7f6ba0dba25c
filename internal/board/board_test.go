/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"context"
	"testing"

	"widgetboard/internal/config"
	"widgetboard/internal/domain"
)

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.Dir = t.TempDir()
	cfg.General.User = "Ada"
	return cfg
}

func TestOpenSeedsDefaultLayout(t *testing.T) {
	b, err := Open(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()
	if got := len(b.Canvas.Snapshot().Widgets); got != 4 {
		t.Fatalf("widgets = %d, want 4", got)
	}
	if r := b.Canvas.CanvasRect(); r != domain.R(PaletteWidth, 0, 1200, 800) {
		t.Fatalf("canvas rect = %+v", r)
	}
}

func TestDragPersistsAcrossReopen(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	b, err := Open(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	src, ok := b.WidgetSource("1")
	if !ok {
		t.Fatalf("widget 1 not found")
	}
	start := src.Rect.Center()
	if err := b.Input.PointerDown(start, src); err != nil {
		t.Fatal(err)
	}
	b.Input.PointerUp(start.Add(domain.Pt(30, 40)))
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b2, err := Open(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer b2.Close()
	w, _ := b2.Canvas.Snapshot().Find("1")
	if w.Position != domain.Pt(80, 90) {
		t.Fatalf("position = %+v, want (80,90)", w.Position)
	}
}

func TestPaletteSourceDropsOnCanvas(t *testing.T) {
	b, err := Open(context.Background(), testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	src, ok := b.PaletteSource("clock")
	if !ok {
		t.Fatalf("clock entry missing")
	}
	if src.Rect.X >= PaletteWidth {
		t.Fatalf("palette entry should sit left of the canvas: %+v", src.Rect)
	}
	p := src.Rect.Min()
	_ = b.Input.PointerDown(p, src)
	b.Input.PointerUp(domain.Pt(PaletteWidth+100, 500))
	l := b.Canvas.Snapshot()
	if len(l.Widgets) != 5 {
		t.Fatalf("widgets = %d, want 5", len(l.Widgets))
	}
	var got domain.Widget
	for _, w := range l.Widgets {
		if w.Type == domain.TypeClock {
			got = w
		}
	}
	if got.Position != domain.Pt(100, 500) || got.ZIndex != 105 {
		t.Fatalf("clock = %+v", got)
	}
	if _, ok := b.PaletteSource("nope"); ok {
		t.Fatalf("unknown entry should not resolve")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "redis"
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatalf("expected error")
	}
}
