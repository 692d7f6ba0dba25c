/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package palette

import (
	"testing"

	"widgetboard/internal/dnd"
	"widgetboard/internal/domain"
	"widgetboard/internal/widgets"
)

func TestDefaultEntriesAndTokens(t *testing.T) {
	p := New(nil, nil, 0)
	if n := len(p.Entries()); n != 7 {
		t.Fatalf("entries = %d, want 7", n)
	}
	e, ok := p.Lookup("toolkit-clock")
	if !ok || e.Type != domain.TypeClock || e.Label != "World Clock" {
		t.Fatalf("lookup clock = %+v, %v", e, ok)
	}
	if _, ok := p.Lookup("clock"); ok {
		t.Fatalf("bare ids are not tokens")
	}
	if _, ok := p.Lookup("toolkit-missing"); ok {
		t.Fatalf("unknown token resolved")
	}
	src, ok := p.Source("chart", domain.R(0, 40, 180, 40))
	if !ok || src.ID != "toolkit-chart" || src.Type != domain.TypeExample || src.Origin != dnd.OriginPalette {
		t.Fatalf("source = %+v", src)
	}
}

func TestGhostFollowsSession(t *testing.T) {
	tr := dnd.NewTracker()
	p := New(widgets.Builtin(), nil, 0)
	p.Attach(tr)

	src, _ := p.Source("icon", domain.R(0, 200, 180, 40))
	if _, err := tr.Start(src, domain.Pt(30, 210)); err != nil {
		t.Fatal(err)
	}
	if !p.Dimmed("icon") || p.Dimmed("todo") {
		t.Fatalf("only the dragged entry should be dimmed")
	}
	_ = tr.Move(domain.Pt(100, 50))
	g := p.Ghost()
	// pointer (130,260) - offset (30,10)
	if !g.Active || g.Rect != domain.R(100, 250, widgets.IconWidth, 200) || g.Width != widgets.IconWidth {
		t.Fatalf("ghost = %+v", g)
	}
	_ = tr.End(domain.Pt(100, 50), "")
	if p.Ghost().Active || p.Dimmed("icon") {
		t.Fatalf("ghost should clear after drop")
	}
}

func TestCanvasSessionsIgnored(t *testing.T) {
	p := New(nil, nil, 0)
	p.HandleEvent(dnd.Event{Kind: dnd.EventStart, Session: dnd.Session{ActiveID: "toolkit-todo", Origin: dnd.OriginCanvas}})
	if p.Ghost().Active {
		t.Fatalf("canvas-origin sessions must not drive the ghost")
	}
}
