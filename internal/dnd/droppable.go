/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dnd

import (
	"sync"

	"widgetboard/internal/domain"
)

// Droppables is a registry of drop regions in client coordinates.
// Resolution is pointer-within: the region containing the pointer wins, and
// among overlapping regions the most recently registered one is on top.
type Droppables struct {
	mu      sync.RWMutex
	order   []string
	regions map[string]domain.Rect
}

func NewDroppables() *Droppables {
	return &Droppables{regions: map[string]domain.Rect{}}
}

// Set registers or updates the region for id.
func (d *Droppables) Set(id string, r domain.Rect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.regions[id]; !ok {
		d.order = append(d.order, id)
	}
	d.regions[id] = r
}

// Remove unregisters id.
func (d *Droppables) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.regions[id]; !ok {
		return
	}
	delete(d.regions, id)
	for i, o := range d.order {
		if o == id {
			d.order = append(d.order[:i:i], d.order[i+1:]...)
			break
		}
	}
}

// Rect returns the region registered for id.
func (d *Droppables) Rect(id string) (domain.Rect, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.regions[id]
	return r, ok
}

// At returns the id of the topmost region containing p, or "".
func (d *Droppables) At(p domain.Point) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := len(d.order) - 1; i >= 0; i-- {
		id := d.order[i]
		if d.regions[id].Contains(p) {
			return id
		}
	}
	return ""
}
