/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// wrapText breaks text into lines no wider than maxWidth pixels when drawn
// with face. Newlines force a break; words wider than a line are split by
// rune. At most maxLines lines are returned and a truncated last line ends
// with an ellipsis.
func wrapText(face font.Face, text string, maxWidth, maxLines int) []string {
	text = strings.TrimSpace(text)
	if text == "" || maxWidth <= 0 || maxLines <= 0 {
		return nil
	}
	limit := fixed.I(maxWidth)
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		cur := ""
		for _, word := range strings.Fields(para) {
			cand := word
			if cur != "" {
				cand = cur + " " + word
			}
			if font.MeasureString(face, cand) <= limit {
				cur = cand
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
			}
			for font.MeasureString(face, word) > limit {
				n := fitPrefix(face, word, limit)
				lines = append(lines, word[:n])
				word = word[n:]
			}
			cur = word
		}
		lines = append(lines, cur)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] += "…"
	}
	return lines
}

// fitPrefix returns the byte length of the longest prefix of s that fits in
// limit, never less than one rune.
func fitPrefix(face font.Face, s string, limit fixed.Int26_6) int {
	_, first := utf8.DecodeRuneInString(s)
	n := first
	for i, r := range s {
		if i == 0 {
			continue
		}
		end := i + utf8.RuneLen(r)
		if font.MeasureString(face, s[:end]) > limit {
			break
		}
		n = end
	}
	return n
}
