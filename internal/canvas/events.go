/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"log/slog"

	"widgetboard/internal/dnd"
	"widgetboard/internal/domain"
)

// HandleEvent applies one drag-session event. It is the tracker subscriber
// installed by Attach and may also be fed directly.
func (c *Coordinator) HandleEvent(ev dnd.Event) {
	s := ev.Session
	switch s.Origin {
	case dnd.OriginCanvas:
		switch ev.Kind {
		case dnd.EventStart:
			c.dragStart(s)
		case dnd.EventMove:
			c.dragMove(s)
		case dnd.EventEnd:
			c.dragEnd(s)
		case dnd.EventCancel:
			c.dragCancel(s)
		}
	case dnd.OriginPalette:
		if ev.Kind == dnd.EventEnd {
			c.paletteDrop(s, ev.DropTarget)
		}
	}
}

// Focus brings the widget to the front, exactly as a drag start does.
func (c *Coordinator) Focus(id string) {
	c.apply("focus", func() (bool, bool) {
		return c.bringToFrontLocked(id), false
	})
}

// ChangeContent replaces the opaque content of one widget. Position and
// z-order are untouched.
func (c *Coordinator) ChangeContent(id, content string) {
	c.apply("content", func() (bool, bool) {
		i := c.layout.Index(id)
		if i < 0 {
			c.log.Debug("content change for unknown widget", slog.String("id", id))
			return false, false
		}
		if c.layout.Widgets[i].Content == content {
			return false, false
		}
		c.layout.Widgets[i].Content = content
		return true, false
	})
}

// Reset empties the layout and erases the stored record, but only when
// confirm approves ResetPrompt. It reports whether the reset happened.
func (c *Coordinator) Reset(confirm func(prompt string) bool) bool {
	if confirm == nil || !confirm(ResetPrompt) {
		c.log.Debug("reset declined")
		return false
	}
	c.apply("reset", func() (bool, bool) {
		c.layout = domain.Empty()
		c.indicator = Indicator{}
		c.dragging = ""
		c.dirty = false
		if c.store != nil {
			ctx, cancel := c.saveContext()
			defer cancel()
			if err := c.store.Erase(ctx, c.user); err != nil {
				c.log.Warn("erase layout failed", slog.Any("err", err))
			}
		}
		return false, true
	})
	c.log.Info("layout reset")
	return true
}

func (c *Coordinator) dragStart(s dnd.Session) {
	c.apply("drag_start", func() (bool, bool) {
		if !c.bringToFrontLocked(s.ActiveID) {
			return false, false
		}
		c.dragging = s.ActiveID
		c.indicator = Indicator{}
		return true, true
	})
}

func (c *Coordinator) dragMove(s dnd.Session) {
	c.apply("drag_move", func() (bool, bool) {
		w, ok := c.layout.Find(s.ActiveID)
		if !ok {
			return false, c.clearDragLocked()
		}
		v := c.monitor.Evaluate(w, s.Delta, domain.Size{W: c.rect.W, H: c.rect.H})
		next := Indicator{Active: v.Out, Edge: v.Edge, Along: v.Along}
		if next == c.indicator {
			return false, false
		}
		c.indicator = next
		return false, true
	})
}

func (c *Coordinator) dragEnd(s dnd.Session) {
	c.apply("drag_end", func() (bool, bool) {
		view := c.clearDragLocked()
		i := c.layout.Index(s.ActiveID)
		if i < 0 {
			c.log.Debug("drag end for unknown widget", slog.String("id", s.ActiveID))
			return false, view
		}
		w := c.layout.Widgets[i]
		v := c.monitor.Evaluate(w, s.Delta, domain.Size{W: c.rect.W, H: c.rect.H})
		if v.Out {
			c.layout.Widgets = append(c.layout.Widgets[:i:i], c.layout.Widgets[i+1:]...)
			c.log.Info("widget removed", slog.String("id", w.ID), slog.String("edge", v.Edge.String()))
			return true, true
		}
		if s.Delta == (domain.Point{}) {
			return false, view
		}
		c.layout.Widgets[i].Position = w.Position.Add(s.Delta).ClampMin()
		return true, true
	})
}

func (c *Coordinator) dragCancel(dnd.Session) {
	c.apply("drag_cancel", func() (bool, bool) {
		return false, c.clearDragLocked()
	})
}

func (c *Coordinator) paletteDrop(s dnd.Session, target string) {
	c.apply("palette_drop", func() (bool, bool) {
		if target != DroppableID {
			return false, false
		}
		if s.Type == "" {
			c.log.Debug("palette drop without type", slog.String("token", s.ActiveID))
			return false, false
		}
		if !c.reg.Known(s.Type) {
			c.log.Warn("unknown widget type dropped, using generic renderer", slog.String("type", string(s.Type)))
		}
		pos := s.Pointer().Sub(c.rect.Min()).Sub(s.PointerOffset).ClampMin()
		z := c.nextZLocked()
		w := domain.Widget{
			ID:       c.newID(),
			Type:     s.Type,
			Position: pos,
			ZIndex:   z,
			Content:  c.reg.DefaultContent(s.Type),
		}
		c.layout.Widgets = append(c.layout.Widgets, w)
		c.log.Info("widget created", slog.String("id", w.ID), slog.String("type", string(w.Type)))
		return true, true
	})
}

// bringToFrontLocked gives id a z-index above every other widget.
func (c *Coordinator) bringToFrontLocked(id string) bool {
	i := c.layout.Index(id)
	if i < 0 {
		c.log.Debug("focus for unknown widget", slog.String("id", id))
		return false
	}
	c.layout.Widgets[i].ZIndex = c.nextZLocked()
	return true
}

// nextZLocked advances the counter past every z-index in use.
func (c *Coordinator) nextZLocked() int {
	z := max(c.layout.ZCounter, c.layout.MaxZ()) + 1
	c.layout.ZCounter = z
	return z
}

func (c *Coordinator) clearDragLocked() bool {
	changed := c.dragging != "" || c.indicator != (Indicator{})
	c.dragging = ""
	c.indicator = Indicator{}
	return changed
}
