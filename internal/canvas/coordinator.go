/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package canvas owns the dashboard layout and applies drag sessions to it.
//
// The Coordinator is the only writer of the layout. Every mutation is
// serialized behind one lock and persisted before the call returns.
// Nothing here reports errors to the caller: stale ids and unknown drops
// are no-ops, and storage failures are logged while the in-memory layout
// stays authoritative.
package canvas

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"widgetboard/internal/boundary"
	"widgetboard/internal/dnd"
	"widgetboard/internal/domain"
	applog "widgetboard/internal/log"
	"widgetboard/internal/widgets"
)

// DroppableID is the drop target id the canvas registers with the tracker.
const DroppableID = "canvas"

// ResetPrompt is shown to the user before a reset.
const ResetPrompt = "Reset the dashboard? All widgets will be removed. This cannot be undone."

// Persister stores layout snapshots per user.
type Persister interface {
	Save(ctx context.Context, user string, l domain.Layout) error
	Erase(ctx context.Context, user string) error
}

// Indicator describes the directional delete marker shown while a widget
// hangs off the canvas.
type Indicator struct {
	Active bool
	Edge   boundary.Edge
	Along  float64
}

// State is what observers receive after every change.
type State struct {
	Layout    domain.Layout
	Indicator Indicator
	Dragging  string // id of the canvas widget being dragged, if any
}

// Options configures a Coordinator. Zero values pick sensible defaults.
type Options struct {
	User        string
	Registry    *widgets.Registry
	Monitor     *boundary.Monitor
	Store       Persister
	NewID       domain.IDGenerator
	SaveTimeout time.Duration
}

// Coordinator applies drag-session events, focus, content edits and resets
// to the layout.
type Coordinator struct {
	notifyMu sync.Mutex // serializes mutate+notify

	mu        sync.Mutex
	layout    domain.Layout
	rect      domain.Rect
	indicator Indicator
	dragging  string
	dirty     bool // last save failed

	user    string
	reg     *widgets.Registry
	monitor *boundary.Monitor
	store   Persister
	newID   domain.IDGenerator
	timeout time.Duration
	tracker *dnd.Tracker

	obsMu   sync.Mutex
	obs     []observer
	nextObs int

	log *slog.Logger
}

type observer struct {
	id int
	fn func(State)
}

// New returns a coordinator owning a copy of initial.
func New(initial domain.Layout, opts Options) *Coordinator {
	if opts.Registry == nil {
		opts.Registry = widgets.Builtin()
	}
	if opts.Monitor == nil {
		opts.Monitor = boundary.New(opts.Registry, 0, boundary.DefaultOvershoot)
	}
	if opts.NewID == nil {
		opts.NewID = domain.NewWidgetID
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 5 * time.Second
	}
	l := initial.Clone()
	if l.Widgets == nil {
		l.Widgets = []domain.Widget{}
	}
	return &Coordinator{
		layout:  l,
		user:    opts.User,
		reg:     opts.Registry,
		monitor: opts.Monitor,
		store:   opts.Store,
		newID:   opts.NewID,
		timeout: opts.SaveTimeout,
		log:     applog.WithComponent("canvas").With(slog.String("user", opts.User)),
	}
}

// Attach subscribes the coordinator to t and keeps the canvas droppable
// registered there. The returned func detaches it.
func (c *Coordinator) Attach(t *dnd.Tracker) (detach func()) {
	c.mu.Lock()
	c.tracker = t
	r := c.rect
	c.mu.Unlock()
	if r.W > 0 && r.H > 0 {
		t.Droppables().Set(DroppableID, r)
	}
	off := t.Subscribe(c.HandleEvent)
	return func() {
		off()
		t.Droppables().Remove(DroppableID)
		c.mu.Lock()
		if c.tracker == t {
			c.tracker = nil
		}
		c.mu.Unlock()
	}
}

// SetCanvasRect records the canvas client rectangle used for drop
// positions and boundary checks.
func (c *Coordinator) SetCanvasRect(r domain.Rect) {
	c.mu.Lock()
	c.rect = r
	t := c.tracker
	c.mu.Unlock()
	if t != nil {
		t.Droppables().Set(DroppableID, r)
	}
}

// CanvasRect returns the current canvas client rectangle.
func (c *Coordinator) CanvasRect() domain.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rect
}

// Subscribe registers fn for state changes. Observers may read the
// coordinator but must not mutate it from inside the callback.
func (c *Coordinator) Subscribe(fn func(State)) (unsubscribe func()) {
	c.obsMu.Lock()
	c.nextObs++
	id := c.nextObs
	c.obs = append(c.obs, observer{id: id, fn: fn})
	c.obsMu.Unlock()
	return func() {
		c.obsMu.Lock()
		defer c.obsMu.Unlock()
		for i, o := range c.obs {
			if o.id == id {
				c.obs = append(c.obs[:i:i], c.obs[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns a deep copy of the layout.
func (c *Coordinator) Snapshot() domain.Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout.Clone()
}

// Widgets returns the widgets in render order.
func (c *Coordinator) Widgets() []domain.Widget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout.Stacked()
}

// Indicator returns the current delete marker.
func (c *Coordinator) Indicator() Indicator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indicator
}

// PendingDelete reports whether releasing now would delete the dragged widget.
func (c *Coordinator) PendingDelete() bool { return c.Indicator().Active }

// Registry returns the widget type registry in use.
func (c *Coordinator) Registry() *widgets.Registry { return c.reg }

// Monitor returns the boundary monitor in use.
func (c *Coordinator) Monitor() *boundary.Monitor { return c.monitor }

// Flush retries a save that failed earlier and reports the outcome. Used on
// shutdown and crash paths where the caller wants the error. A layout with
// nothing pending is not written again.
func (c *Coordinator) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil || !c.dirty {
		return nil
	}
	ctx, cancel := c.saveContext()
	defer cancel()
	if err := c.store.Save(ctx, c.user, c.layout.Clone()); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

func (c *Coordinator) saveContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

// apply runs fn under the layout lock, persists when fn reports a layout
// change, then notifies observers if anything changed.
func (c *Coordinator) apply(op string, fn func() (layoutChanged, viewChanged bool)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	lc, vc := fn()
	if lc {
		c.persistLocked(op)
	}
	st := State{Layout: c.layout.Clone(), Indicator: c.indicator, Dragging: c.dragging}
	c.mu.Unlock()

	if lc || vc {
		c.notify(st)
	}
}

func (c *Coordinator) persistLocked(op string) {
	if c.store == nil {
		return
	}
	ctx, cancel := c.saveContext()
	defer cancel()
	if err := c.store.Save(ctx, c.user, c.layout.Clone()); err != nil {
		c.dirty = true
		applog.WithOperation(c.log, op).Warn("persist layout failed", slog.Any("err", err))
		return
	}
	c.dirty = false
}

func (c *Coordinator) notify(st State) {
	c.obsMu.Lock()
	fns := make([]func(State), len(c.obs))
	for i, o := range c.obs {
		fns[i] = o.fn
	}
	c.obsMu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}
