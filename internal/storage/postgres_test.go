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
	"os"
	"reflect"
	"testing"
	"time"
)

// openPGForTest connects to WB_PG_DSN or skips.
func openPGForTest(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("WB_PG_DSN")
	if dsn == "" {
		t.Skipf("WB_PG_DSN not set; skipping Postgres tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostgresLayoutsRoundTrip(t *testing.T) {
	s := openPGForTest(t)
	ctx := context.Background()
	a := NewLayouts(s)
	user := "pg-test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = a.Erase(ctx, user) })

	want := sampleLayout()
	if err := a.Save(ctx, user, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := a.Load(ctx, user); !reflect.DeepEqual(got, want) {
		t.Fatalf("mismatch: %+v", got)
	}
	if err := a.Erase(ctx, user); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if _, err := a.Lookup(ctx, user); err == nil {
		t.Fatalf("record should be gone")
	}
}

func TestParseVersion(t *testing.T) {
	if v, err := parseVersion("migrations/0002_layouts_updated_idx.sql"); err != nil || v != 2 {
		t.Fatalf("parseVersion = %d, %v", v, err)
	}
	if _, err := parseVersion("nounderscore.sql"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected embedded migrations, got %d", len(entries))
	}
}
