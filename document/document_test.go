// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package document_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/creachadair/vsent"
	"github.com/creachadair/vsent/document"
	"github.com/google/go-cmp/cmp"
)

// Both document types satisfy the interface.
var (
	_ vsent.Document = (*document.Buffer)(nil)
	_ vsent.Document = (*document.File)(nil)
)

func toStrings(lines [][]byte) []string {
	var out []string
	for _, line := range lines {
		out = append(out, string(line))
	}
	return out
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"\n", []string{""}},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\rb", []string{"a\rb"}},
	}
	for _, tc := range tests {
		got := toStrings(document.SplitLines(tc.input))
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("SplitLines(%q): (-want, +got)\n%s", tc.input, diff)
		}
	}
}

func TestBuffer(t *testing.T) {
	var zero document.Buffer
	if zero.Revision() != 0 || zero.Lines() != nil {
		t.Errorf("Zero buffer: revision %d, lines %q", zero.Revision(), zero.Lines())
	}

	b := document.NewBuffer("Check x.\nCheck y.\n")
	if got := b.Revision(); got != 1 {
		t.Errorf("Revision: got %d, want 1", got)
	}
	if diff := cmp.Diff([]string{"Check x.", "Check y."}, toStrings(b.Lines())); diff != "" {
		t.Errorf("Lines: (-want, +got)\n%s", diff)
	}

	b.Set("Check z.")
	if got := b.Revision(); got != 2 {
		t.Errorf("Revision: got %d, want 2", got)
	}
	if got, want := b.String(), "Check z."; got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.v")
	writeFile := func(text string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(text), 0600); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	writeFile("Check x.\n")

	f, err := document.OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile: unexpected error: %v", err)
	}
	if got := f.Path(); got != path {
		t.Errorf("Path: got %q, want %q", got, path)
	}
	if got := f.String(); got != "Check x." {
		t.Errorf("Content: got %q, want %q", got, "Check x.")
	}
	rev := f.Revision()

	// Reloading unchanged content keeps the revision.
	if err := f.Reload(); err != nil {
		t.Fatalf("Reload: unexpected error: %v", err)
	}
	if got := f.Revision(); got != rev {
		t.Errorf("Revision after no-op reload: got %d, want %d", got, rev)
	}

	writeFile("Check x.\nCheck y.\n")
	if err := f.Reload(); err != nil {
		t.Fatalf("Reload: unexpected error: %v", err)
	}
	if got := f.Revision(); got == rev {
		t.Errorf("Revision did not change after edit (%d)", got)
	}
	if diff := cmp.Diff([]string{"Check x.", "Check y."}, toStrings(f.Lines())); diff != "" {
		t.Errorf("Lines: (-want, +got)\n%s", diff)
	}

	if _, err := document.OpenFile(filepath.Join(t.TempDir(), "nonesuch.v"), nil); err == nil {
		t.Error("OpenFile(nonesuch): got nil error, want failure")
	}
}

func TestFileWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.v")
	if err := os.WriteFile(path, []byte("A.\n"), 0600); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := document.OpenFile(path, nil)
	if err != nil {
		t.Fatalf("OpenFile: unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- f.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// The watcher may not be installed yet; keep writing until it notices.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for wait := true; wait; {
		select {
		case <-changed:
			wait = false
		case <-tick.C:
			if err := os.WriteFile(path, []byte("A.\nB.\n"), 0600); err != nil {
				t.Fatalf("Write: %v", err)
			}
		case <-ctx.Done():
			t.Fatal("Timed out waiting for a change notification")
		}
	}
	if got := f.String(); got != "A.\nB." {
		t.Errorf("Content after change: got %q, want %q", got, "A.\nB.")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Watch: got %v, want %v", err, context.Canceled)
	}
}
