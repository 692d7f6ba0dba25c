/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func silenceStderr(t *testing.T) {
	t.Helper()
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	t.Cleanup(func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	})
}

func interceptExit(t *testing.T) *int {
	t.Helper()
	code := new(int)
	old := exitFn
	exitFn = func(c int) { *code = c }
	t.Cleanup(func() { exitFn = old })
	return code
}

func findReport(t *testing.T, root string) []byte {
	t.Helper()
	dir := filepath.Join(root, ReportsDirName)
	files, _ := os.ReadDir(dir)
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			b, err := os.ReadFile(filepath.Join(dir, f.Name()))
			if err != nil {
				t.Fatalf("read report: %v", err)
			}
			return b
		}
	}
	t.Fatalf("expected crash report under %s", dir)
	return nil
}

// TestGuardRecoverFlushesLayout ensures a panic produces a report, calls the
// flush installed after the guard was deferred, and requests exit code 2.
func TestGuardRecoverFlushesLayout(t *testing.T) {
	silenceStderr(t)
	code := interceptExit(t)
	root := t.TempDir()

	flushed := 0
	func() {
		g := &Guard{Dir: root}
		defer g.Recover()
		g.SetFlush(func() error { flushed++; return nil })
		panic("boom")
	}()

	if !bytes.Contains(findReport(t, root), []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic")
	}
	if flushed != 1 {
		t.Fatalf("flush called %d times, want 1", flushed)
	}
	if *code != 2 {
		t.Fatalf("expected exit code 2, got %d", *code)
	}
}

func TestRecoverSurvivesFlushError(t *testing.T) {
	silenceStderr(t)
	code := interceptExit(t)
	root := t.TempDir()
	func() {
		g := &Guard{Dir: root, Flush: func() error { return errors.New("disk gone") }}
		defer g.Recover()
		panic("second")
	}()
	if !bytes.Contains(findReport(t, root), []byte("Panic: second")) {
		t.Fatalf("report missing panic value")
	}
	if *code != 2 {
		t.Fatalf("expected exit code 2, got %d", *code)
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	code := interceptExit(t)
	func() {
		g := &Guard{Dir: t.TempDir()}
		defer g.Recover()
	}()
	if *code != 0 {
		t.Fatalf("exit should not be requested without a panic")
	}
}
