/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package replay drives a board from a YAML interaction script: pointer
// presses and moves, key presses, focus, content edits, resets and
// assertions on the resulting layout. It is used for headless runs and
// regression scripts.
//
// Example:
//
//	name: move the icon
//	steps:
//	  - down: {widget: "2"}
//	  - move: [700, 150]
//	  - up: [745, 150]
//	  - expect:
//	      widgets: 4
//	      position: {"2": [490, 50]}
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step holds exactly one action.
type Step struct {
	Down    *Press   `yaml:"down,omitempty"`
	Move    *XY      `yaml:"move,omitempty"`
	Up      *XY      `yaml:"up,omitempty"`
	Key     string   `yaml:"key,omitempty"`
	Focus   string   `yaml:"focus,omitempty"` // widget id or palette token
	Content *Content `yaml:"content,omitempty"`
	Reset   *bool    `yaml:"reset,omitempty"` // the answer to the confirmation
	Canvas  *Box     `yaml:"canvas,omitempty"`
	Expect  *Expect  `yaml:"expect,omitempty"`
}

// Press starts a pointer drag on a widget or a palette entry. At defaults
// to the centre of the source.
type Press struct {
	Widget  string `yaml:"widget,omitempty"`
	Palette string `yaml:"palette,omitempty"`
	At      *XY    `yaml:"at,omitempty"`
}

// Content replaces a widget's content.
type Content struct {
	Widget string `yaml:"widget"`
	Value  string `yaml:"value"`
}

// Box is a client-space rectangle.
type Box struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Expect asserts on the layout after the preceding steps.
type Expect struct {
	Widgets   *int           `yaml:"widgets,omitempty"`
	ZCounter  *int           `yaml:"zCounter,omitempty"`
	Position  map[string]XY  `yaml:"position,omitempty"`
	Z         map[string]int `yaml:"z,omitempty"`
	Missing   []string       `yaml:"missing,omitempty"`
	Indicator *bool          `yaml:"indicator,omitempty"`
}

// XY is a point written either as [x, y] or {x: .., y: ..}.
type XY struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p *XY) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		var v []float64
		if err := n.Decode(&v); err != nil {
			return err
		}
		if len(v) != 2 {
			return fmt.Errorf("line %d: point needs two numbers, got %d", n.Line, len(v))
		}
		p.X, p.Y = v[0], v[1]
		return nil
	}
	type plain XY
	return n.Decode((*plain)(p))
}

// kind names the single action a step carries, or reports an error when it
// carries none or several.
func (s Step) kind() (string, error) {
	var kinds []string
	if s.Down != nil {
		kinds = append(kinds, "down")
	}
	if s.Move != nil {
		kinds = append(kinds, "move")
	}
	if s.Up != nil {
		kinds = append(kinds, "up")
	}
	if s.Key != "" {
		kinds = append(kinds, "key")
	}
	if s.Focus != "" {
		kinds = append(kinds, "focus")
	}
	if s.Content != nil {
		kinds = append(kinds, "content")
	}
	if s.Reset != nil {
		kinds = append(kinds, "reset")
	}
	if s.Canvas != nil {
		kinds = append(kinds, "canvas")
	}
	if s.Expect != nil {
		kinds = append(kinds, "expect")
	}
	switch len(kinds) {
	case 0:
		return "", errors.New("empty step")
	case 1:
		return kinds[0], nil
	default:
		return "", fmt.Errorf("step has several actions %v", kinds)
	}
}

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(b []byte) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	for i, st := range s.Steps {
		if _, err := st.kind(); err != nil {
			return Script{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		if st.Down != nil && (st.Down.Widget == "") == (st.Down.Palette == "") {
			return Script{}, fmt.Errorf("step %d: down needs exactly one of widget or palette", i+1)
		}
		if st.Content != nil && st.Content.Widget == "" {
			return Script{}, fmt.Errorf("step %d: content needs a widget", i+1)
		}
	}
	return s, nil
}

// LoadFile reads and parses a script file.
func LoadFile(path string) (Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return Parse(b)
}
