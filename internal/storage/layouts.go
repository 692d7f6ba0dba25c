/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"widgetboard/internal/domain"
	applog "widgetboard/internal/log"
)

// SlotPrefix namespaces layout records inside a Store.
const SlotPrefix = "dashboard-layout:"

// GuestUser is used when no identity is configured.
const GuestUser = "guest"

//go:embed layout.schema.json
var layoutSchema []byte

var (
	schemaOnce   sync.Once
	schemaLoaded *gojsonschema.Schema
	schemaErr    error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schemaLoaded, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(layoutSchema))
	})
	return schemaLoaded, schemaErr
}

// SlotKey derives the storage key for a user identity. Identities are compared
// case-insensitively; an empty identity maps to the guest slot.
func SlotKey(user string) string {
	u := strings.ToLower(strings.TrimSpace(user))
	if u == "" {
		u = GuestUser
	}
	return SlotPrefix + u
}

// Layouts is the persistence adapter between the canvas and a Store.
type Layouts struct {
	store Store
	log   *slog.Logger
}

// NewLayouts wraps store.
func NewLayouts(store Store) *Layouts {
	return &Layouts{store: store, log: applog.WithComponent("storage")}
}

// Store returns the underlying slot store.
func (a *Layouts) Store() Store { return a.store }

// Encode serializes l as a persisted record.
func Encode(l domain.Layout) ([]byte, error) {
	if l.Widgets == nil {
		l.Widgets = []domain.Widget{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal layout: %w", err)
	}
	return b, nil
}

// Decode validates b against the record schema and parses it.
func Decode(b []byte) (domain.Layout, error) {
	sch, err := compiledSchema()
	if err != nil {
		return domain.Layout{}, fmt.Errorf("load schema: %w", err)
	}
	res, err := sch.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return domain.Layout{}, fmt.Errorf("parse record: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return domain.Layout{}, fmt.Errorf("invalid record: %s", strings.Join(msgs, "; "))
	}
	var l domain.Layout
	if err := json.Unmarshal(b, &l); err != nil {
		return domain.Layout{}, fmt.Errorf("decode record: %w", err)
	}
	if l.Widgets == nil {
		l.Widgets = []domain.Widget{}
	}
	return l, nil
}

// Save writes l to the user's slot.
func (a *Layouts) Save(ctx context.Context, user string, l domain.Layout) error {
	b, err := Encode(l)
	if err != nil {
		return err
	}
	if err := a.store.Put(ctx, SlotKey(user), b); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}

// Load returns the user's layout. A missing, unreadable or malformed record yields the
// default seed layout; the failure is logged, never returned.
func (a *Layouts) Load(ctx context.Context, user string) domain.Layout {
	l, err := a.Lookup(ctx, user)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.log.Warn("layout record unusable, using default", slog.String("slot", SlotKey(user)), slog.Any("err", err))
		}
		return domain.DefaultLayout()
	}
	return l
}

// Lookup is Load without the fallback: ErrNotFound when the slot is empty,
// a wrapped error when the record cannot be used.
func (a *Layouts) Lookup(ctx context.Context, user string) (domain.Layout, error) {
	b, err := a.store.Get(ctx, SlotKey(user))
	if err != nil {
		return domain.Layout{}, err
	}
	l, err := Decode(b)
	if err != nil {
		return domain.Layout{}, err
	}
	// keep new z values above every stored one
	if mz := l.MaxZ(); l.ZCounter < mz {
		l.ZCounter = mz
	}
	return l, nil
}

// Erase removes the user's record.
func (a *Layouts) Erase(ctx context.Context, user string) error {
	if err := a.store.Delete(ctx, SlotKey(user)); err != nil {
		return fmt.Errorf("erase layout: %w", err)
	}
	return nil
}
