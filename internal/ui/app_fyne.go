//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fcanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"widgetboard/internal/board"
	"widgetboard/internal/canvas"
	"widgetboard/internal/config"
	"widgetboard/internal/crash"
	"widgetboard/internal/dnd"
	"widgetboard/internal/domain"
	"widgetboard/internal/export"
	applog "widgetboard/internal/log"
	"widgetboard/internal/palette"
)

// Run opens the user's board and shows the dashboard window until it is closed.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	dataDir, _ := cfg.StorageDir()
	guard := &crash.Guard{Dir: dataDir}
	defer guard.Recover()

	b, err := board.Open(context.Background(), cfg)
	if err != nil {
		return err
	}
	guard.SetFlush(b.Canvas.Flush)
	defer func() {
		if err := b.Close(); err != nil {
			l.Warn("close board", slog.Any("err", err))
		}
	}()

	fyneApp := app.NewWithID("widgetboard")
	w := fyneApp.NewWindow("WidgetBoard")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", int(board.PaletteWidth+cfg.Canvas.Width)), 800)
	winH := max(prefs.IntWithFallback("window.height", int(cfg.Canvas.Height)), 600)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	bc := newBoardCanvas(b, w)
	items := make([]fyne.CanvasObject, 0, len(b.Palette.Entries()))
	var paletteItems []*paletteItem
	for _, e := range b.Palette.Entries() {
		it := newPaletteItem(b, e)
		paletteItems = append(paletteItems, it)
		items = append(items, it)
	}
	left := container.NewVBox(append([]fyne.CanvasObject{widget.NewLabel("Toolkit"), widget.NewSeparator()}, items...)...)

	status := widget.NewLabel("Ready")
	resetBtn := widget.NewButton("Reset", func() {
		dialog.ShowConfirm("Reset dashboard", canvas.ResetPrompt, func(ok bool) {
			if b.Canvas.Reset(func(string) bool { return ok }) {
				status.SetText("Dashboard reset")
			}
		}, w)
	})
	exportTo := func(ext string, fn func(domain.Layout, string, export.Options) error) {
		out := filepath.Join(dataDir, "exports", fmt.Sprintf("layout-%s.%s", time.Now().Format("20060102-150405"), ext))
		if err := fn(b.Canvas.Snapshot(), out, b.ExportOptions("WidgetBoard")); err != nil {
			l.Error("export failed", slog.String("format", ext), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Exported " + out)
	}
	pdfBtn := widget.NewButton("Export PDF", func() { exportTo("pdf", export.LayoutPDF) })
	pngBtn := widget.NewButton("Export PNG", func() { exportTo("png", export.LayoutPNG) })
	top := container.NewHBox(resetBtn, pdfBtn, pngBtn)

	leftPane := container.NewGridWrap(fyne.NewSize(float32(board.PaletteWidth), float32(winH)), left)
	w.SetContent(container.NewBorder(top, status, leftPane, nil, bc))

	unsubCanvas := b.Canvas.Subscribe(func(st canvas.State) {
		fyne.Do(func() { bc.apply(st) })
	})
	defer unsubCanvas()
	unsubGhost := b.Tracker.Subscribe(func(ev dnd.Event) {
		if ev.Session.Origin != dnd.OriginPalette {
			return
		}
		fyne.Do(func() {
			bc.Refresh()
			for _, it := range paletteItems {
				it.Refresh()
			}
		})
	})
	defer unsubGhost()

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

var (
	canvasBg     = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	boxFill      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	boxStroke    = color.RGBA{R: 97, G: 97, B: 97, A: 255}
	focusStroke  = color.RGBA{R: 25, G: 118, B: 210, A: 255}
	deleteStroke = color.RGBA{R: 211, G: 47, B: 47, A: 255}
	ghostFill    = color.RGBA{R: 25, G: 118, B: 210, A: 60}
	textColor    = color.RGBA{R: 33, G: 33, B: 33, A: 255}
)

// boardCanvas draws the widgets and turns pointer and key input into drag
// sessions on the shared tracker.
type boardCanvas struct {
	widget.BaseWidget
	b   *board.Board
	win fyne.Window

	state   canvas.State
	focused string

	// pointer drag in progress on this widget
	dragging bool
	last     domain.Point
}

func newBoardCanvas(b *board.Board, w fyne.Window) *boardCanvas {
	bc := &boardCanvas{b: b, win: w, state: canvas.State{Layout: b.Canvas.Snapshot()}}
	bc.ExtendBaseWidget(bc)
	return bc
}

func (c *boardCanvas) apply(st canvas.State) {
	c.state = st
	if _, ok := st.Layout.Find(c.focused); !ok {
		c.focused = ""
	}
	c.Refresh()
}

func (c *boardCanvas) scene() Scene { return BuildScene(c.b, c.state, c.focused) }

func (c *boardCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := fcanvas.NewRectangle(canvasBg)
	bg.StrokeColor = boxStroke
	bg.StrokeWidth = 1
	r := &boardRenderer{c: c, bg: bg}
	r.Refresh()
	return r
}

// syncRect publishes the canvas client rectangle to the coordinator.
func (c *boardCanvas) syncRect(size fyne.Size) {
	abs := fyne.CurrentApp().Driver().AbsolutePositionForObject(c)
	c.b.Canvas.SetCanvasRect(domain.R(float64(abs.X), float64(abs.Y), float64(size.Width), float64(size.Height)))
}

func (c *boardCanvas) Tapped(e *fyne.PointEvent) {
	if w, ok := c.scene().HitTest(toPoint(e.Position)); ok {
		c.focused = w.ID
		c.b.Canvas.Focus(w.ID)
	} else {
		c.focused = ""
	}
	c.win.Canvas().Focus(c)
	c.Refresh()
}

// DoubleTapped opens the content editor for the widget under the pointer.
func (c *boardCanvas) DoubleTapped(e *fyne.PointEvent) {
	w, ok := c.scene().HitTest(toPoint(e.Position))
	if !ok {
		return
	}
	entry := widget.NewMultiLineEntry()
	entry.SetText(w.Content)
	dialog.ShowForm("Edit "+c.b.Registry.Lookup(w.Type).Label, "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Content", entry)},
		func(ok bool) {
			if ok {
				c.b.Canvas.ChangeContent(w.ID, entry.Text)
			}
		}, c.win)
}

func (c *boardCanvas) Dragged(e *fyne.DragEvent) {
	abs := toPoint(e.AbsolutePosition)
	if !c.dragging {
		c.dragging = true
		start := abs.Sub(domain.Pt(float64(e.Dragged.DX), float64(e.Dragged.DY)))
		local := start.Sub(c.b.Canvas.CanvasRect().Min())
		w, ok := c.scene().HitTest(local)
		if !ok {
			return
		}
		src, ok := c.b.WidgetSource(w.ID)
		if !ok {
			return
		}
		if err := c.b.Input.PointerDown(start, src); err != nil {
			applog.WithComponent("ui").Debug("drag start rejected", slog.Any("err", err))
			return
		}
	}
	c.last = abs
	c.b.Input.PointerMove(abs)
	c.Refresh()
}

func (c *boardCanvas) DragEnd() {
	if c.dragging {
		c.b.Input.PointerUp(c.last)
	}
	c.dragging = false
}

func (c *boardCanvas) FocusGained() { c.Refresh() }
func (c *boardCanvas) FocusLost()   { c.Refresh() }
func (c *boardCanvas) TypedRune(rune) {}

func (c *boardCanvas) TypedKey(ev *fyne.KeyEvent) {
	name := keyName(string(ev.Name))
	if name == "" {
		return
	}
	var focused *dnd.Source
	if src, ok := c.b.WidgetSource(c.focused); ok {
		focused = &src
	}
	if c.b.Input.Key(name, focused) {
		c.Refresh()
	}
}

type boardRenderer struct {
	c       *boardCanvas
	bg      *fcanvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *boardRenderer) Destroy()                     {}
func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardRenderer) MinSize() fyne.Size           { return fyne.NewSize(400, 300) }

func (r *boardRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.c.syncRect(size)
}

// Refresh rebuilds the drawable objects from the current scene.
func (r *boardRenderer) Refresh() {
	sc := r.c.scene()
	objs := []fyne.CanvasObject{r.bg}
	for _, bx := range sc.Boxes {
		rect := fcanvas.NewRectangle(boxFill)
		rect.StrokeColor = boxStroke
		rect.StrokeWidth = 1
		if bx.Focused {
			rect.StrokeColor = focusStroke
			rect.StrokeWidth = 2
		}
		if bx.Dragging && sc.Indicator.Active {
			rect.StrokeColor = deleteStroke
		}
		rect.CornerRadius = 4
		place(rect, bx.Rect)

		label := fcanvas.NewText(bx.Label, textColor)
		label.TextStyle = fyne.TextStyle{Bold: true}
		label.Move(fyne.NewPos(float32(bx.Rect.X+8), float32(bx.Rect.Y+6)))
		objs = append(objs, rect, label)
		if s := bx.Preview; s != "" {
			body := fcanvas.NewText(s, textColor)
			body.TextSize = 11
			body.Move(fyne.NewPos(float32(bx.Rect.X+8), float32(bx.Rect.Y+28)))
			objs = append(objs, body)
		}
	}
	size := r.c.Size()
	if from, to, ok := IndicatorLine(sc.Indicator, domain.Size{W: float64(size.Width), H: float64(size.Height)}, 80); ok {
		line := fcanvas.NewLine(deleteStroke)
		line.StrokeWidth = 6
		line.Position1 = fyne.NewPos(float32(from.X), float32(from.Y))
		line.Position2 = fyne.NewPos(float32(to.X), float32(to.Y))
		objs = append(objs, line)
	}
	if g := sc.Ghost; g.Active {
		ghost := fcanvas.NewRectangle(ghostFill)
		ghost.StrokeColor = focusStroke
		ghost.StrokeWidth = 1
		place(ghost, g.Rect.Translate(domain.Point{}.Sub(sc.Origin)))
		objs = append(objs, ghost)
	}
	r.objects = objs
	fcanvas.Refresh(r.c)
}

// paletteItem is one draggable toolkit entry.
type paletteItem struct {
	widget.BaseWidget
	b     *board.Board
	entry palette.Entry

	dragging bool
	last     domain.Point
}

func newPaletteItem(b *board.Board, e palette.Entry) *paletteItem {
	it := &paletteItem{b: b, entry: e}
	it.ExtendBaseWidget(it)
	return it
}

func (p *paletteItem) CreateRenderer() fyne.WidgetRenderer {
	bg := fcanvas.NewRectangle(boxFill)
	bg.StrokeColor = boxStroke
	bg.StrokeWidth = 1
	bg.CornerRadius = 4
	txt := fcanvas.NewText(p.entry.Label, textColor)
	return &paletteRenderer{p: p, bg: bg, txt: txt}
}

func (p *paletteItem) Dragged(e *fyne.DragEvent) {
	abs := toPoint(e.AbsolutePosition)
	if !p.dragging {
		p.dragging = true
		start := abs.Sub(domain.Pt(float64(e.Dragged.DX), float64(e.Dragged.DY)))
		pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(p)
		sz := p.Size()
		src, ok := p.b.Palette.Source(p.entry.ID, domain.R(float64(pos.X), float64(pos.Y), float64(sz.Width), float64(sz.Height)))
		if !ok {
			return
		}
		if err := p.b.Input.PointerDown(start, src); err != nil {
			return
		}
	}
	p.last = abs
	p.b.Input.PointerMove(abs)
}

func (p *paletteItem) DragEnd() {
	if p.dragging {
		p.b.Input.PointerUp(p.last)
	}
	p.dragging = false
}

type paletteRenderer struct {
	p   *paletteItem
	bg  *fcanvas.Rectangle
	txt *fcanvas.Text
}

func (r *paletteRenderer) Destroy() {}
func (r *paletteRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.txt}
}
func (r *paletteRenderer) MinSize() fyne.Size { return fyne.NewSize(float32(board.PaletteWidth-20), 40) }

func (r *paletteRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.txt.Move(fyne.NewPos(10, (size.Height-r.txt.MinSize().Height)/2))
}

func (r *paletteRenderer) Refresh() {
	// the entry being dragged stays visible but dimmed
	if r.p.b.Palette.Dimmed(r.p.entry.ID) {
		r.txt.Color = color.RGBA{R: 158, G: 158, B: 158, A: 255}
	} else {
		r.txt.Color = textColor
	}
	r.txt.Refresh()
	r.bg.Refresh()
}

func place(o fyne.CanvasObject, r domain.Rect) {
	o.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
	o.Resize(fyne.NewSize(float32(r.W), float32(r.H)))
}

func toPoint(p fyne.Position) domain.Point { return domain.Pt(float64(p.X), float64(p.Y)) }
