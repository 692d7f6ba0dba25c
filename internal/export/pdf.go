/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"widgetboard/internal/domain"
)

// LayoutPDF writes a single-page PDF of l to outPath.
func LayoutPDF(l domain.Layout, outPath string, opt Options) error {
	boxes, page := plan(l, opt)

	// Use points for 1:1 mapping from canvas pixels to PDF
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: page.W, Ht: page.H},
	})
	title := opt.Title
	if title == "" {
		title = "Dashboard layout"
	}
	pdf.SetTitle(title, true)
	pdf.SetAuthor("WidgetBoard", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: page.W, Ht: page.H})

	// Canvas frame
	setDrawColor(pdf, color.RGBA{R: 158, G: 158, B: 158, A: 255})
	pdf.SetLineWidth(0.5)
	pdf.Rect(0.5, 0.5, page.W-1, page.H-1, "D")

	// Built-in Helvetica keeps text vector without embedding
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, b := range boxes {
		setFillColor(pdf, b.Fill)
		setDrawColor(pdf, color.RGBA{A: 255})
		pdf.SetLineWidth(1)
		pdf.Rect(b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, "FD")

		pdf.SetFont("Helvetica", "B", 11)
		pdf.ClipRect(b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, false)
		pdf.Text(b.Rect.X+6, b.Rect.Y+16, tr(b.Label))
		if b.Text != "" {
			pdf.SetFont("Helvetica", "", 9)
			maxLines := int((b.Rect.H - 30) / 11)
			for i, ln := range pdf.SplitText(b.Text, b.Rect.W-12) {
				if i >= maxLines {
					break
				}
				pdf.Text(b.Rect.X+6, b.Rect.Y+30+float64(i)*11, tr(ln))
			}
		}
		pdf.ClipEnd()
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
