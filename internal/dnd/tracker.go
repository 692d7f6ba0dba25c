/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dnd

import (
	"errors"
	"log/slog"
	"sync"

	"widgetboard/internal/domain"
	applog "widgetboard/internal/log"
)

var (
	// ErrSessionActive is returned by Start while another session is live.
	ErrSessionActive = errors.New("dnd: a drag session is already active")
	// ErrNoSession is returned by Move/End/Cancel when nothing is being dragged.
	ErrNoSession = errors.New("dnd: no active drag session")
)

// Tracker owns the one active Session and publishes its lifecycle.
//
// Publishing is serialized: events reach subscribers strictly in the order
// the tracker accepted them, even when input arrives from several goroutines.
// Handlers may read the tracker (Active) but must not start, move or end
// sessions from inside a callback.
type Tracker struct {
	publishMu sync.Mutex // serializes accept+dispatch

	mu      sync.Mutex
	active  *Session
	subs    []subscription
	nextSub int

	drops *Droppables
	log   *slog.Logger
}

type subscription struct {
	id int
	fn Handler
}

// NewTracker returns an idle tracker with an empty droppable registry.
func NewTracker() *Tracker {
	return &Tracker{drops: NewDroppables(), log: applog.WithComponent("dnd")}
}

// Droppables exposes the registry used to resolve drop targets by pointer.
func (t *Tracker) Droppables() *Droppables { return t.drops }

// Subscribe registers h and returns a function that removes it.
func (t *Tracker) Subscribe(h Handler) (unsubscribe func()) {
	t.mu.Lock()
	t.nextSub++
	id := t.nextSub
	t.subs = append(t.subs, subscription{id: id, fn: h})
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, s := range t.subs {
			if s.id == id {
				t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

// Active returns a copy of the live session, if any.
func (t *Tracker) Active() (Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return Session{}, false
	}
	return *t.active, true
}

// Start begins a session for src with the pointer pressed at pointer.
// The pointer offset is captured here, against the source rect as it is
// right now, and never recomputed.
func (t *Tracker) Start(src Source, pointer domain.Point) (Session, error) {
	t.publishMu.Lock()
	defer t.publishMu.Unlock()

	t.mu.Lock()
	if t.active != nil {
		cur := t.active.ActiveID
		t.mu.Unlock()
		t.log.Debug("drag start rejected", slog.String("id", src.ID), slog.String("active", cur))
		return Session{}, ErrSessionActive
	}
	s := Session{
		ActiveID:      src.ID,
		Origin:        src.Origin,
		Type:          src.Type,
		Start:         pointer,
		PointerOffset: pointer.Sub(src.Rect.Min()),
		SourceRect:    src.Rect,
	}
	t.active = &s
	subs := t.snapshotSubsLocked()
	t.mu.Unlock()

	t.log.Debug("drag start", slog.String("id", s.ActiveID), slog.String("origin", s.Origin.String()))
	dispatch(subs, Event{Kind: EventStart, Session: s})
	return s, nil
}

// Move records the cumulative displacement since Start.
func (t *Tracker) Move(delta domain.Point) error {
	t.publishMu.Lock()
	defer t.publishMu.Unlock()

	t.mu.Lock()
	if t.active == nil {
		t.mu.Unlock()
		return ErrNoSession
	}
	t.active.Delta = delta
	s := *t.active
	subs := t.snapshotSubsLocked()
	t.mu.Unlock()

	dispatch(subs, Event{Kind: EventMove, Session: s})
	return nil
}

// End finishes the session with the final displacement. dropTarget is the
// droppable under the pointer, or "" when released over nothing.
func (t *Tracker) End(delta domain.Point, dropTarget string) error {
	return t.finish(EventEnd, &delta, dropTarget)
}

// EndAtPointer finishes the session and resolves the drop target by
// hit-testing the final pointer position against registered droppables.
func (t *Tracker) EndAtPointer(delta domain.Point) error {
	t.mu.Lock()
	if t.active == nil {
		t.mu.Unlock()
		return ErrNoSession
	}
	p := t.active.Start.Add(delta)
	t.mu.Unlock()
	return t.finish(EventEnd, &delta, t.drops.At(p))
}

// Cancel aborts the session. Subscribers receive EventCancel carrying the
// last observed delta.
func (t *Tracker) Cancel() error {
	return t.finish(EventCancel, nil, "")
}

func (t *Tracker) finish(kind EventKind, delta *domain.Point, dropTarget string) error {
	t.publishMu.Lock()
	defer t.publishMu.Unlock()

	t.mu.Lock()
	if t.active == nil {
		t.mu.Unlock()
		return ErrNoSession
	}
	if delta != nil {
		t.active.Delta = *delta
	}
	s := *t.active
	t.active = nil
	subs := t.snapshotSubsLocked()
	t.mu.Unlock()

	t.log.Debug("drag "+kind.String(), slog.String("id", s.ActiveID), slog.String("target", dropTarget),
		slog.Float64("dx", s.Delta.X), slog.Float64("dy", s.Delta.Y))
	dispatch(subs, Event{Kind: kind, Session: s, DropTarget: dropTarget})
	return nil
}

func (t *Tracker) snapshotSubsLocked() []Handler {
	out := make([]Handler, len(t.subs))
	for i, s := range t.subs {
		out[i] = s.fn
	}
	return out
}

func dispatch(subs []Handler, ev Event) {
	for _, h := range subs {
		h(ev)
	}
}
