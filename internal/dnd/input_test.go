/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dnd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"widgetboard/internal/domain"
)

func TestPointerSequence(t *testing.T) {
	tr := NewTracker()
	tr.Droppables().Set("canvas", domain.R(0, 0, 1000, 1000))
	var end Event
	tr.Subscribe(func(ev Event) {
		if ev.Kind == EventEnd {
			end = ev
		}
	})
	in := NewInput(tr, 0)
	if err := in.PointerDown(domain.Pt(60, 60), canvasSource("1", 50, 50)); err != nil {
		t.Fatal(err)
	}
	in.PointerMove(domain.Pt(80, 90))
	in.PointerUp(domain.Pt(110, 160))
	if end.Session.Delta != domain.Pt(50, 100) || end.DropTarget != "canvas" {
		t.Fatalf("end = %+v", end)
	}
	// stray moves after release are ignored
	in.PointerMove(domain.Pt(0, 0))
	if _, ok := tr.Active(); ok {
		t.Fatalf("no session expected")
	}
}

func TestKeyboardDrag(t *testing.T) {
	tr := NewTracker()
	tr.Droppables().Set("canvas", domain.R(0, 0, 1000, 1000))
	var events []Event
	tr.Subscribe(func(ev Event) { events = append(events, ev) })
	in := NewInput(tr, 0)
	src := canvasSource("2", 400, 50)

	if in.Key(KeyRight, &src) {
		t.Fatalf("arrow without session must not be consumed")
	}
	if !in.Key("space", &src) {
		t.Fatalf("space on focused source should start a drag")
	}
	in.Key(KeyRight, nil)
	in.Key(KeyRight, nil)
	in.Key(KeyDown, nil)
	in.Key(KeyEnter, nil)

	last := events[len(events)-1]
	if last.Kind != EventEnd {
		t.Fatalf("last kind = %v", last.Kind)
	}
	if last.Session.Delta != domain.Pt(2*DefaultKeyboardStep, DefaultKeyboardStep) {
		t.Fatalf("delta = %+v", last.Session.Delta)
	}
	if last.DropTarget != "canvas" {
		t.Fatalf("target = %q", last.DropTarget)
	}
}

func TestEscapeCancels(t *testing.T) {
	tr := NewTracker()
	var last Event
	tr.Subscribe(func(ev Event) { last = ev })
	in := NewInput(tr, 10)
	src := canvasSource("1", 0, 0)
	in.Key(KeyEnter, &src)
	in.Key(KeyLeft, nil)
	in.Key(KeyEscape, nil)
	if last.Kind != EventCancel || last.Session.Delta != domain.Pt(-10, 0) {
		t.Fatalf("last = %+v", last)
	}
}

func TestMissingSessionIsLogged(t *testing.T) {
	tr := NewTracker()
	var buf bytes.Buffer
	tr.log = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	in := NewInput(tr, 0)

	// the session is gone by the time the tracker is called
	in.note("pointer up", tr.EndAtPointer(domain.Pt(5, 5)))
	out := buf.String()
	if !strings.Contains(out, "op=\"pointer up\"") || !strings.Contains(out, ErrNoSession.Error()) {
		t.Fatalf("log = %q", out)
	}

	buf.Reset()
	in.note("key move", nil)
	if buf.Len() != 0 {
		t.Fatalf("nothing should be logged on success: %q", buf.String())
	}
}
