/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a layout snapshot to PDF or PNG for sharing and review.
// Widgets are drawn as labelled boxes in z-order at their canvas positions.
package export

import (
	"image/color"
	"strings"
	"unicode/utf8"

	"widgetboard/internal/boundary"
	"widgetboard/internal/domain"
	"widgetboard/internal/widgets"
)

const margin = 20.0

// Options controls both exporters. Units are canvas pixels, mapped 1:1 to PDF points.
type Options struct {
	Canvas        domain.Size // page size; zero fits the page to the widgets
	AssumedHeight float64     // widget box height; <= 0 uses the boundary default
	Title         string
	Registry      *widgets.Registry
}

// box is one widget prepared for drawing.
type box struct {
	Rect  domain.Rect
	Fill  color.RGBA
	Label string
	Text  string // full content, trimmed
}

var typeFill = map[domain.WidgetType]color.RGBA{
	domain.TypeTextbox:   {R: 255, G: 249, B: 196, A: 255},
	domain.TypeTodo:      {R: 200, G: 230, B: 201, A: 255},
	domain.TypeIcon:      {R: 187, G: 222, B: 251, A: 255},
	domain.TypeClock:     {R: 225, G: 190, B: 231, A: 255},
	domain.TypeSentiment: {R: 255, G: 204, B: 188, A: 255},
}

var genericFill = color.RGBA{R: 238, G: 238, B: 238, A: 255}

// plan lays the layout out for drawing and returns the page size.
func plan(l domain.Layout, opt Options) ([]box, domain.Size) {
	reg := opt.Registry
	if reg == nil {
		reg = widgets.Builtin()
	}
	h := opt.AssumedHeight
	if h <= 0 {
		h = boundary.DefaultAssumedHeight
	}
	stacked := l.Stacked()
	boxes := make([]box, 0, len(stacked))
	page := opt.Canvas
	fit := page.W <= 0 || page.H <= 0
	if fit {
		page = domain.Size{W: 200, H: 200}
	}
	for _, w := range stacked {
		k := reg.Lookup(w.Type)
		r := domain.R(w.Position.X, w.Position.Y, k.Width, h)
		fill, ok := typeFill[w.Type]
		if !ok {
			fill = genericFill
		}
		boxes = append(boxes, box{Rect: r, Fill: fill, Label: k.Label, Text: strings.TrimSpace(w.Content)})
		if fit {
			page.W = max(page.W, r.X+r.W+margin)
			page.H = max(page.H, r.Y+r.H+margin)
		}
	}
	return boxes, page
}

// Preview returns the first line of content cut to n runes.
func Preview(content string, n int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	if utf8.RuneCountInString(line) <= n {
		return line
	}
	r := []rune(line)
	return string(r[:n-1]) + "…"
}
