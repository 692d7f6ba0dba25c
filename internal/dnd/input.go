/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dnd

import (
	"log/slog"
	"strings"

	"widgetboard/internal/domain"
)

// DefaultKeyboardStep is the distance one arrow key press moves a drag.
const DefaultKeyboardStep = 25.0

// Key names understood by Input.Key. Matching is case-insensitive.
const (
	KeyLeft   = "ArrowLeft"
	KeyRight  = "ArrowRight"
	KeyUp     = "ArrowUp"
	KeyDown   = "ArrowDown"
	KeyEnter  = "Enter"
	KeySpace  = "Space"
	KeyEscape = "Escape"
)

// Input turns raw pointer and keyboard input into tracker calls.
// Pointer coordinates are client coordinates.
type Input struct {
	t    *Tracker
	step float64
}

// NewInput returns a translator feeding t. step <= 0 uses DefaultKeyboardStep.
func NewInput(t *Tracker, step float64) *Input {
	if step <= 0 {
		step = DefaultKeyboardStep
	}
	return &Input{t: t, step: step}
}

// PointerDown starts a session over src. A second press while a session is
// live is rejected with ErrSessionActive.
func (in *Input) PointerDown(p domain.Point, src Source) error {
	_, err := in.t.Start(src, p)
	return err
}

// PointerMove reports the pointer at p. Without a session it is ignored.
func (in *Input) PointerMove(p domain.Point) {
	s, ok := in.t.Active()
	if !ok {
		return
	}
	in.note("pointer move", in.t.Move(p.Sub(s.Start)))
}

// PointerUp releases the pointer at p; the drop target is whatever droppable
// contains p.
func (in *Input) PointerUp(p domain.Point) {
	s, ok := in.t.Active()
	if !ok {
		return
	}
	in.note("pointer up", in.t.EndAtPointer(p.Sub(s.Start)))
}

// Key handles a key press. focused is the draggable that currently has
// keyboard focus (nil if none); Space or Enter on it starts a keyboard drag
// from the centre of its rect. During a session arrows nudge by the step,
// Space/Enter drop and Escape cancels. Reports whether the key was consumed.
func (in *Input) Key(key string, focused *Source) bool {
	s, active := in.t.Active()
	if !active {
		if focused == nil || !(eq(key, KeySpace) || eq(key, KeyEnter)) {
			return false
		}
		_, err := in.t.Start(*focused, focused.Rect.Center())
		return err == nil
	}
	d := s.Delta
	switch {
	case eq(key, KeyLeft):
		d.X -= in.step
	case eq(key, KeyRight):
		d.X += in.step
	case eq(key, KeyUp):
		d.Y -= in.step
	case eq(key, KeyDown):
		d.Y += in.step
	case eq(key, KeySpace), eq(key, KeyEnter):
		in.note("key drop", in.t.EndAtPointer(d))
		return true
	case eq(key, KeyEscape):
		in.note("key cancel", in.t.Cancel())
		return true
	default:
		return false
	}
	in.note("key move", in.t.Move(d))
	return true
}

// note logs a tracker call that found no session, which happens when another
// goroutine ended the drag between Active and the call.
func (in *Input) note(op string, err error) {
	if err != nil {
		in.t.log.Debug("input ignored", slog.String("op", op), slog.Any("err", err))
	}
}

func eq(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), b) }
