/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator produces unique widget identifiers.
type IDGenerator func() string

// NewWidgetID returns "widget-<uuidv7>". v7 ids sort by creation time which
// keeps stored records readable.
func NewWidgetID() string {
	return "widget-" + uuid.Must(uuid.NewV7()).String()
}

// SequenceIDs returns a deterministic generator ("<prefix>1", "<prefix>2", ...)
// used by tests and replay scripts.
func SequenceIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}
