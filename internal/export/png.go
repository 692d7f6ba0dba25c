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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"widgetboard/internal/domain"
)

// LayoutPNG writes a raster preview of l to outPath.
func LayoutPNG(l domain.Layout, outPath string, opt Options) error {
	img := RenderImage(l, opt)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// RenderImage draws l into a new RGBA image.
func RenderImage(l domain.Layout, opt Options) *image.RGBA {
	boxes, page := plan(l, opt)
	pixW := int(math.Ceil(page.W))
	pixH := int(math.Ceil(page.H))

	img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	strokeRect(img, 0, 0, pixW-1, pixH-1, color.RGBA{158, 158, 158, 255})

	ink := color.RGBA{A: 255}
	for _, b := range boxes {
		x0 := int(math.Round(b.Rect.X))
		y0 := int(math.Round(b.Rect.Y))
		x1 := x0 + int(math.Round(b.Rect.W)) - 1
		y1 := y0 + int(math.Round(b.Rect.H)) - 1
		fillRect(img, x0, y0, x1, y1, b.Fill)
		strokeRect(img, x0, y0, x1, y1, ink)

		clip := img.SubImage(image.Rect(x0+1, y0+1, x1, y1)).(*image.RGBA)
		drawText(clip, x0+6, y0+16, b.Label, ink)
		face := basicfont.Face7x13
		lineH := face.Metrics().Height.Round()
		maxLines := (y1 - y0 - 32) / lineH
		for i, ln := range wrapText(face, b.Text, x1-x0-12, maxLines) {
			drawText(clip, x0+6, y0+32+i*lineH, ln, color.RGBA{66, 66, 66, 255})
		}
	}
	return img
}

func drawText(dst draw.Image, x, y int, s string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	draw.Draw(img, image.Rect(x0, y0, x1+1, y1+1), &image.Uniform{C: col}, image.Point{}, draw.Src)
}
