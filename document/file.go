// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
)

// A File is a document backed by a file on disk. Its content is read when it
// is opened and each time Reload is called; Watch reloads it automatically
// when the file changes.
type File struct {
	Buffer

	path string
	log  *slog.Logger
}

// OpenFile reads the file at path and returns a document for it.
// If logger == nil, logs are discarded.
func OpenFile(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	f := &File{path: path, log: logger}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the path of the file.
func (f *File) Path() string { return f.path }

// Reload re-reads the file. The revision advances only if the content
// changed.
func (f *File) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	lines := SplitLines(string(data))
	if f.Revision() != 0 && slices.EqualFunc(lines, f.Lines(), bytes.Equal) {
		return nil
	}
	f.SetLines(lines)
	return nil
}

// Watch reloads f whenever the file changes on disk, and calls changed (if
// non-nil) after each reload that altered its content. Watch blocks until
// ctx ends or the watcher fails.
//
// The directory containing the file is watched rather than the file itself,
// so that editors that save by renaming a new file into place are followed.
func (f *File) Watch(ctx context.Context, changed func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(f.path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %q: %w", filepath.Dir(abs), err)
	}
	f.log.Debug("watching", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if ev.Name != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			before := f.Revision()
			if err := f.Reload(); err != nil {
				// The file may be briefly missing while it is replaced.
				f.log.Debug("reload failed", "path", abs, "error", err)
				continue
			}
			if f.Revision() != before {
				f.log.Debug("file changed", "path", abs, "revision", f.Revision())
				if changed != nil {
					changed()
				}
			}

		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}
