/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/basicfont"

	"widgetboard/internal/domain"
)

func TestLayoutPDFCreatesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "exports", "layout.pdf")
	if err := LayoutPDF(domain.DefaultLayout(), out, Options{Title: "Täst"}); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(b) < 5 || string(b[:5]) != "%PDF-" {
		t.Fatalf("not a pdf")
	}
}

func TestLayoutPNGSizeAndFill(t *testing.T) {
	out := filepath.Join(t.TempDir(), "layout.png")
	l := domain.Layout{Widgets: []domain.Widget{
		{ID: "a", Type: domain.TypeIcon, Position: domain.Pt(10, 10), ZIndex: 1},
		{ID: "b", Type: "hologram", Position: domain.Pt(100, 40), ZIndex: 2, Content: "first line\nsecond"},
	}, ZCounter: 2}
	if err := LayoutPNG(l, out, Options{Canvas: domain.Size{W: 640, H: 480}}); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Fatalf("bounds = %v", b)
	}
	// inside the generic box, away from its text
	got := color.RGBAModel.Convert(img.At(380, 220)).(color.RGBA)
	if got != genericFill {
		t.Fatalf("pixel = %v, want generic fill %v", got, genericFill)
	}
}

func TestFitPageToWidgets(t *testing.T) {
	_, page := plan(domain.DefaultLayout(), Options{})
	// todo at (400,300) is 300 wide and 200 tall
	if page.W != 720 || page.H != 520 {
		t.Fatalf("page = %+v, want 720x520", page)
	}
}

func TestPreviewCutsFirstLine(t *testing.T) {
	if got := Preview("  hello\nworld", 40); got != "hello" {
		t.Fatalf("Preview = %q", got)
	}
	if got := Preview("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("Preview = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	face := basicfont.Face7x13 // 7px per glyph
	got := wrapText(face, "hello world foo", 77, 5)
	if len(got) != 2 || got[0] != "hello world" || got[1] != "foo" {
		t.Fatalf("wrap = %q", got)
	}
	got = wrapText(face, "abcdefghijkl", 35, 5)
	if len(got) != 3 || got[0] != "abcde" || got[1] != "fghij" || got[2] != "kl" {
		t.Fatalf("long word = %q", got)
	}
	got = wrapText(face, "one\ntwo\nthree", 100, 2)
	if len(got) != 2 || got[1] != "two…" {
		t.Fatalf("truncated = %q", got)
	}
	if wrapText(face, "   ", 100, 3) != nil || wrapText(face, "x", 0, 3) != nil {
		t.Fatalf("empty input should yield no lines")
	}
}
