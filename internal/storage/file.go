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
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

const (
	LayoutsDirName = "layouts"
	recordExt      = ".json"
)

// FileStore keeps each slot in its own file under <Dir>/layouts.
// File names are the hex SHA-256 of the slot key, so any user identity maps to a safe name.
type FileStore struct {
	Dir string
}

// NewFileStore creates the layouts directory under dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage dir is required")
	}
	if err := os.MkdirAll(filepath.Join(dir, LayoutsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create layouts dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

// PathFor returns the record file for slot.
func (s *FileStore) PathFor(slot string) string {
	sum := sha256.Sum256([]byte(slot))
	return filepath.Join(s.Dir, LayoutsDirName, hex.EncodeToString(sum[:])+recordExt)
}

func (s *FileStore) Get(_ context.Context, slot string) ([]byte, error) {
	b, err := os.ReadFile(s.PathFor(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	return b, nil
}

// Put writes data transactionally: to a temp file in the same directory, then rename over the target.
func (s *FileStore) Put(_ context.Context, slot string, data []byte) error {
	target := s.PathFor(slot)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure layouts dir: %w", err)
	}
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(target), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		return fmt.Errorf("write temp record: %w", err)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(target); err == nil {
		_ = os.Remove(target)
	}
	if err := os.Rename(temp, target); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, slot string) error {
	err := os.Remove(s.PathFor(slot))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove record: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}
