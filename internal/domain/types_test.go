/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLayoutJSONUsesRecordFieldNames(t *testing.T) {
	l := Layout{
		Widgets:  []Widget{{ID: "a", Type: TypeTextbox, Position: Point{X: 1.5, Y: 2}, ZIndex: 7, Content: "hi"}},
		ZCounter: 7,
	}
	b, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"widgets"`, `"zCounter":7`, `"position":{"x":1.5,"y":2}`, `"zIndex":7`, `"content":"hi"`, `"type":"textbox"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("expected %s in %s", want, s)
		}
	}
}

func TestDefaultLayoutSeed(t *testing.T) {
	l := DefaultLayout()
	if len(l.Widgets) != 4 {
		t.Fatalf("seed has %d widgets, want 4", len(l.Widgets))
	}
	for i, id := range []string{"1", "2", "3", "4"} {
		if l.Widgets[i].ID != id {
			t.Fatalf("widget %d id = %q, want %q", i, l.Widgets[i].ID, id)
		}
	}
	if w, _ := l.Find("3"); w.Type != TypeTextbox || w.Position.X != 50 {
		t.Fatalf("widget 3 should be a textbox at x=50: %+v", w)
	}
	if l.ZCounter != l.MaxZ() {
		t.Fatalf("zCounter %d should equal max z %d", l.ZCounter, l.MaxZ())
	}
	seen := map[int]bool{}
	for _, w := range l.Widgets {
		if seen[w.ZIndex] {
			t.Fatalf("duplicate zIndex %d in seed", w.ZIndex)
		}
		seen[w.ZIndex] = true
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	l := DefaultLayout()
	c := l.Clone()
	c.Widgets[0].Content = "changed"
	if l.Widgets[0].Content == "changed" {
		t.Fatalf("clone aliases original widgets")
	}
}

func TestStackedOrdersByZ(t *testing.T) {
	l := Layout{Widgets: []Widget{{ID: "a", ZIndex: 5}, {ID: "b", ZIndex: 2}, {ID: "c", ZIndex: 9}}}
	got := l.Stacked()
	if got[0].ID != "b" || got[1].ID != "a" || got[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if l.Widgets[0].ID != "a" {
		t.Fatalf("Stacked must not reorder the layout")
	}
}

func TestEmptyLayout(t *testing.T) {
	l := Empty()
	if l.ZCounter != ZBaseline || len(l.Widgets) != 0 || l.Widgets == nil {
		t.Fatalf("unexpected empty layout: %+v", l)
	}
	if l.MaxZ() != 0 {
		t.Fatalf("MaxZ of empty layout = %d", l.MaxZ())
	}
}

func TestRectAndClamp(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt(10, 20)) || !r.Contains(Pt(110, 70)) || r.Contains(Pt(111, 70)) {
		t.Fatalf("unexpected containment for %+v", r)
	}
	if c := r.Center(); c.X != 60 || c.Y != 45 {
		t.Fatalf("center = %+v", c)
	}
	if m := r.Translate(Pt(5, -5)).Min(); m.X != 15 || m.Y != 15 {
		t.Fatalf("translate min = %+v", m)
	}
	if Clamp(-3, 0, 10) != 0 || Clamp(12, 0, 10) != 10 || Clamp(4, 0, 10) != 4 {
		t.Fatalf("clamp mismatch")
	}
	if p := Pt(-1, 3).ClampMin(); p.X != 0 || p.Y != 3 {
		t.Fatalf("ClampMin = %+v", p)
	}
}

func TestSequenceIDs(t *testing.T) {
	gen := SequenceIDs("w")
	if a, b := gen(), gen(); a != "w1" || b != "w2" {
		t.Fatalf("got %q %q", a, b)
	}
	if id := NewWidgetID(); !strings.HasPrefix(id, "widget-") || len(id) != len("widget-")+36 {
		t.Fatalf("unexpected widget id %q", id)
	}
}
