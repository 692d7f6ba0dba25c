/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package widgets maps widget type tags to the per-type facts the canvas
// needs: display label, icon name, default content and preferred width.
// Renderers themselves live outside the core; lookups of unknown tags fall
// back to the generic placeholder entry.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"widgetboard/internal/domain"
)

const (
	// DefaultWidth is the rendered width of every type that does not declare one.
	DefaultWidth = 300.0
	// IconWidth is the compact width of icon widgets.
	IconWidth = 70.0
)

// Kind describes one widget type.
type Kind struct {
	Type           domain.WidgetType
	Label          string
	Icon           string
	DefaultContent string
	Width          float64
}

// Registry is a concurrency-safe type → Kind table.
type Registry struct {
	mu       sync.RWMutex
	kinds    map[domain.WidgetType]Kind
	fallback domain.WidgetType
}

// NewRegistry returns an empty registry whose fallback is the generic example type.
func NewRegistry() *Registry {
	return &Registry{kinds: map[domain.WidgetType]Kind{}, fallback: domain.TypeExample}
}

// Builtin returns a registry preloaded with the shipped widget types.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(Kind{Type: domain.TypeExample, Label: "Widget", Icon: "Widgets", Width: DefaultWidth})
	r.Register(Kind{Type: domain.TypeTextbox, Label: "Text Box", Icon: "TextFields", Width: DefaultWidth})
	r.Register(Kind{Type: domain.TypeTodo, Label: "Todo List", Icon: "Checklist", DefaultContent: `{"title":"Todo List","todos":[]}`, Width: DefaultWidth})
	r.Register(Kind{Type: domain.TypeIcon, Label: "Icon", Icon: "ArrowUpward", DefaultContent: "ArrowUpward", Width: IconWidth})
	r.Register(Kind{Type: domain.TypeClock, Label: "World Clock", Icon: "Schedule", DefaultContent: defaultClockRegions, Width: DefaultWidth})
	r.Register(Kind{Type: domain.TypeSentiment, Label: "Sentiment", Icon: "Mood", Width: DefaultWidth})
	return r
}

const defaultClockRegions = `[{"label":"New York","zone":"America/New_York"},{"label":"London","zone":"Europe/London"},{"label":"Tokyo","zone":"Asia/Tokyo"}]`

// Register adds or replaces a kind. Tags are normalized to lower case.
func (r *Registry) Register(k Kind) {
	k.Type = normalize(k.Type)
	if k.Width <= 0 {
		k.Width = DefaultWidth
	}
	r.mu.Lock()
	r.kinds[k.Type] = k
	r.mu.Unlock()
}

// Known reports whether t has its own entry.
func (r *Registry) Known(t domain.WidgetType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.kinds[normalize(t)]
	return ok
}

// Lookup returns the kind for t, or the fallback kind when t is unknown.
// The returned Kind always carries the requested tag so callers can keep it.
func (r *Registry) Lookup(t domain.WidgetType) Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if k, ok := r.kinds[normalize(t)]; ok {
		return k
	}
	k, ok := r.kinds[r.fallback]
	if !ok {
		k = Kind{Label: "Widget", Width: DefaultWidth}
	}
	k.Type = t
	return k
}

// Width returns the preferred rendered width for t.
func (r *Registry) Width(t domain.WidgetType) float64 { return r.Lookup(t).Width }

// DefaultContent returns the initial content for a freshly created widget of type t.
func (r *Registry) DefaultContent(t domain.WidgetType) string { return r.Lookup(t).DefaultContent }

// Types lists registered tags in sorted order.
func (r *Registry) Types() []domain.WidgetType {
	r.mu.RLock()
	out := make([]domain.WidgetType, 0, len(r.kinds))
	for t := range r.kinds {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func normalize(t domain.WidgetType) domain.WidgetType {
	return domain.WidgetType(strings.ToLower(strings.TrimSpace(string(t))))
}
