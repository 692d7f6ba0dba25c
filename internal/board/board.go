/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package board assembles a running dashboard from configuration: the layout
// store, the drag tracker and its input translator, the canvas coordinator
// and the palette. The CLI, the script runner and the desktop UI share it.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"widgetboard/internal/boundary"
	"widgetboard/internal/canvas"
	"widgetboard/internal/config"
	"widgetboard/internal/dnd"
	"widgetboard/internal/domain"
	"widgetboard/internal/export"
	applog "widgetboard/internal/log"
	"widgetboard/internal/palette"
	"widgetboard/internal/storage"
	"widgetboard/internal/widgets"
)

// Client-space geometry of the headless window: palette column on the left,
// canvas to its right.
const (
	PaletteWidth = 220.0
	entryPad     = 10.0
	entryHeight  = 40.0
	entryGap     = 10.0
)

// Board is one user's dashboard with everything wired.
type Board struct {
	Config   config.AppConfig
	User     string
	Store    storage.Store
	Layouts  *storage.Layouts
	Registry *widgets.Registry
	Monitor  *boundary.Monitor
	Tracker  *dnd.Tracker
	Input    *dnd.Input
	Canvas   *canvas.Coordinator
	Palette  *palette.Palette

	detach []func()
	log    *slog.Logger
}

// Open loads the user's layout from the configured backend and wires the
// drag pipeline around it.
func Open(ctx context.Context, cfg config.AppConfig) (*Board, error) {
	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	store, err := storage.Open(ctx, storage.Options{
		Backend:     cfg.Storage.Backend,
		Dir:         dir,
		PostgresDSN: cfg.ResolvedDSN(),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", backendName(cfg.Storage.Backend), err)
	}
	return New(ctx, cfg, store), nil
}

// New wires a board over an already open store. The board owns store.
func New(ctx context.Context, cfg config.AppConfig, store storage.Store) *Board {
	user := cfg.General.User
	layouts := storage.NewLayouts(store)
	reg := widgets.Builtin()
	mon := boundary.New(reg, cfg.Canvas.AssumedHeight, cfg.Canvas.DeleteOvershoot)
	tr := dnd.NewTracker()

	coord := canvas.New(layouts.Load(ctx, user), canvas.Options{
		User:     user,
		Registry: reg,
		Monitor:  mon,
		Store:    layouts,
	})
	pal := palette.New(reg, nil, mon.AssumedHeight())

	b := &Board{
		Config:   cfg,
		User:     user,
		Store:    store,
		Layouts:  layouts,
		Registry: reg,
		Monitor:  mon,
		Tracker:  tr,
		Input:    dnd.NewInput(tr, cfg.Canvas.KeyboardStep),
		Canvas:   coord,
		Palette:  pal,
		log:      applog.WithComponent("board").With(slog.String("user", storage.SlotKey(user))),
	}
	b.detach = append(b.detach, coord.Attach(tr), pal.Attach(tr))
	coord.SetCanvasRect(domain.R(PaletteWidth, 0, cfg.Canvas.Width, cfg.Canvas.Height))
	b.log.Info("board ready",
		slog.String("backend", backendName(cfg.Storage.Backend)),
		slog.Int("widgets", len(coord.Snapshot().Widgets)))
	return b
}

// CanvasSize is the configured canvas extent.
func (b *Board) CanvasSize() domain.Size {
	return domain.Size{W: b.Config.Canvas.Width, H: b.Config.Canvas.Height}
}

// PaletteSource returns the drag source for an entry laid out in the
// palette column.
func (b *Board) PaletteSource(entryID string) (dnd.Source, bool) {
	for i, e := range b.Palette.Entries() {
		if e.ID == entryID {
			y := entryPad + float64(i)*(entryHeight+entryGap)
			return b.Palette.Source(entryID, domain.R(entryPad, y, PaletteWidth-2*entryPad, entryHeight))
		}
	}
	return dnd.Source{}, false
}

// WidgetSource returns the drag source for a placed widget, in client
// coordinates.
func (b *Board) WidgetSource(id string) (dnd.Source, bool) {
	w, ok := b.Canvas.Snapshot().Find(id)
	if !ok {
		return dnd.Source{}, false
	}
	origin := b.Canvas.CanvasRect().Min()
	box := b.Monitor.Box(w, domain.Point{}).Translate(origin)
	return dnd.Source{ID: w.ID, Origin: dnd.OriginCanvas, Type: w.Type, Rect: box}, true
}

// ExportOptions returns export settings matching the board's geometry.
func (b *Board) ExportOptions(title string) export.Options {
	return export.Options{
		Canvas:        b.CanvasSize(),
		AssumedHeight: b.Monitor.AssumedHeight(),
		Title:         title,
		Registry:      b.Registry,
	}
}

// Close detaches the pipeline, flushes the layout and closes the store.
func (b *Board) Close() error {
	for _, d := range b.detach {
		d()
	}
	b.detach = nil
	return errors.Join(b.Canvas.Flush(), b.Store.Close())
}

func backendName(s string) string {
	if s == "" {
		return storage.BackendFile
	}
	return s
}
