/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package dnd tracks the single active drag session and fans its lifecycle
// out to subscribers. The palette (which starts sessions) and the canvas
// (which consumes drops) never reference each other; both talk to a Tracker.
package dnd

import "widgetboard/internal/domain"

// Origin tells where a dragged thing lives.
type Origin int

const (
	OriginCanvas Origin = iota + 1
	OriginPalette
)

func (o Origin) String() string {
	switch o {
	case OriginCanvas:
		return "canvas"
	case OriginPalette:
		return "palette"
	default:
		return "unknown"
	}
}

// Source is a draggable element as seen at pointer-down.
// Rect is the element's client rectangle at that instant.
type Source struct {
	ID     string
	Origin Origin
	Type   domain.WidgetType // declared type carried by palette sources
	Rect   domain.Rect
}

// Session is one in-progress drag. Values are copies; the tracker owns the live one.
type Session struct {
	ActiveID      string
	Origin        Origin
	Type          domain.WidgetType
	Start         domain.Point // pointer-down position, client coordinates
	PointerOffset domain.Point // pointer-down minus source top-left, fixed for the session
	Delta         domain.Point // cumulative displacement since Start
	SourceRect    domain.Rect
}

// Pointer returns the current pointer position in client coordinates.
func (s Session) Pointer() domain.Point { return s.Start.Add(s.Delta) }

// EventKind enumerates session lifecycle notifications.
type EventKind int

const (
	EventStart EventKind = iota + 1
	EventMove
	EventEnd
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventMove:
		return "move"
	case EventEnd:
		return "end"
	case EventCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Event is delivered to every subscriber. DropTarget is only meaningful for
// EventEnd; an empty value means the pointer was released over no droppable.
type Event struct {
	Kind       EventKind
	Session    Session
	DropTarget string
}

// Handler receives session events synchronously, in arrival order.
type Handler func(Event)
