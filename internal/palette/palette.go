/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package palette provides the side toolkit of widget previews that start
// drag sessions. It never touches the layout; a drop on the canvas is
// handled by whoever consumes the tracker's end event.
package palette

import (
	"log/slog"
	"strings"
	"sync"

	"widgetboard/internal/boundary"
	"widgetboard/internal/dnd"
	"widgetboard/internal/domain"
	applog "widgetboard/internal/log"
	"widgetboard/internal/widgets"
)

// TokenPrefix marks drag-session ids that belong to palette entries.
const TokenPrefix = "toolkit-"

// Entry is one draggable preview.
type Entry struct {
	ID    string
	Label string
	Icon  string
	Type  domain.WidgetType
}

// DefaultEntries is the stock toolkit.
func DefaultEntries() []Entry {
	return []Entry{
		{ID: "textbox", Label: "Text Box", Icon: "TextFields", Type: domain.TypeTextbox},
		{ID: "chart", Label: "Chart", Icon: "BarChart", Type: domain.TypeExample},
		{ID: "image", Label: "Image", Icon: "Image", Type: domain.TypeExample},
		{ID: "table", Label: "Table", Icon: "TableChart", Type: domain.TypeExample},
		{ID: "todo", Label: "Todo List", Icon: "Checklist", Type: domain.TypeTodo},
		{ID: "icon", Label: "Icon", Icon: "EmojiEmotions", Type: domain.TypeIcon},
		{ID: "clock", Label: "World Clock", Icon: "Schedule", Type: domain.TypeClock},
	}
}

// Ghost is the overlay following the pointer while an entry is dragged.
// Rect is in client coordinates.
type Ghost struct {
	Active bool
	Entry  Entry
	Width  float64
	Rect   domain.Rect
}

// Palette holds the entries and the drag overlay state.
type Palette struct {
	reg     *widgets.Registry
	height  float64
	entries []Entry

	mu     sync.Mutex
	active string // entry id being dragged
	ghost  Ghost

	log *slog.Logger
}

// New returns a palette over entries; nil entries means DefaultEntries.
// height is the ghost height; <= 0 uses the boundary default.
func New(reg *widgets.Registry, entries []Entry, height float64) *Palette {
	if reg == nil {
		reg = widgets.Builtin()
	}
	if entries == nil {
		entries = DefaultEntries()
	}
	if height <= 0 {
		height = boundary.DefaultAssumedHeight
	}
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Palette{reg: reg, height: height, entries: cp, log: applog.WithComponent("palette")}
}

// Entries returns the entries in display order.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Token returns the drag-session id for an entry.
func Token(entryID string) string { return TokenPrefix + entryID }

// Lookup resolves a drag-session token back to its entry.
func (p *Palette) Lookup(token string) (Entry, bool) {
	id, ok := strings.CutPrefix(token, TokenPrefix)
	if !ok {
		return Entry{}, false
	}
	for _, e := range p.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Source builds the drag source for entryID as rendered at rect.
func (p *Palette) Source(entryID string, rect domain.Rect) (dnd.Source, bool) {
	e, ok := p.Lookup(Token(entryID))
	if !ok {
		return dnd.Source{}, false
	}
	return dnd.Source{ID: Token(e.ID), Origin: dnd.OriginPalette, Type: e.Type, Rect: rect}, true
}

// Attach subscribes the palette to t.
func (p *Palette) Attach(t *dnd.Tracker) (detach func()) {
	return t.Subscribe(p.HandleEvent)
}

// HandleEvent tracks palette-origin sessions to drive the ghost and the
// de-emphasis of the source entry.
func (p *Palette) HandleEvent(ev dnd.Event) {
	if ev.Session.Origin != dnd.OriginPalette {
		return
	}
	e, ok := p.Lookup(ev.Session.ActiveID)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	switch ev.Kind {
	case dnd.EventStart, dnd.EventMove:
		p.active = e.ID
		w := p.reg.Width(e.Type)
		tl := ev.Session.Pointer().Sub(ev.Session.PointerOffset)
		p.ghost = Ghost{Active: true, Entry: e, Width: w, Rect: domain.R(tl.X, tl.Y, w, p.height)}
	case dnd.EventEnd, dnd.EventCancel:
		if ev.Kind == dnd.EventEnd && ev.DropTarget == "" {
			p.log.Debug("palette item released outside any drop target", slog.String("entry", e.ID))
		}
		p.active = ""
		p.ghost = Ghost{}
	}
}

// Dimmed reports whether entryID is the source of the live drag.
func (p *Palette) Dimmed(entryID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active != "" && p.active == entryID
}

// Ghost returns the overlay state.
func (p *Palette) Ghost() Ghost {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ghost
}
