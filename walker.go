// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"fmt"
	"path"
	"sync/atomic"

	"github.com/hashicorp/go-sah-extract/archive"
)

//go:generate mockgen -destination=mock_source_test.go -package=extract_test . Source

// Source provides the raw bytes of archive file entries. [*archive.Archive]
// implements Source. Implementations must be safe for concurrent use if
// extraction runs with a concurrency above 1.
type Source interface {
	FileData(f *archive.File) ([]byte, error)
}

// walker holds the state of one traversal of an archive tree
type walker struct {
	src Source
	t   Target
	cfg *Config

	dirs    atomic.Int64 // created directories
	files   atomic.Int64 // written files
	entries atomic.Int64 // directories and files, checked against MaxFiles
	size    atomic.Int64 // written bytes, checked against MaxExtractionSize
	errs    atomic.Int64 // errors returned by the traversal
}

func newWalker(src Source, t Target, cfg *Config) *walker {
	return &walker{
		src: src,
		t:   t,
		cfg: cfg,
	}
}

// run extracts folder into dst. rel is the archive path of folder, used for
// log output and errors.
func (w *walker) run(ctx context.Context, dst string, rel string, folder *archive.Directory) error {
	if w.cfg.Concurrency() > 1 {
		return w.runParallel(ctx, dst, rel, folder)
	}
	if err := w.extractDir(ctx, dst, rel, folder); err != nil {
		w.errs.Add(1)
		return err
	}
	return nil
}

// extractDir extracts d depth-first: the directory itself, its files, then
// each subdirectory.
func (w *walker) extractDir(ctx context.Context, dst string, rel string, d *archive.Directory) error {
	if err := w.enterDir(ctx, dst, rel, d); err != nil {
		return err
	}

	for _, child := range d.Directories {
		childDst, err := joinEntry(dst, child.Name)
		if err != nil {
			return err
		}
		if err := w.extractDir(ctx, childDst, path.Join(rel, child.Name), child); err != nil {
			return err
		}
	}

	return nil
}

// enterDir creates the directory for d and writes all files directly below it
func (w *walker) enterDir(ctx context.Context, dst string, rel string, d *archive.Directory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.cfg.CheckMaxFiles(w.entries.Add(1)); err != nil {
		return fmt.Errorf("cannot extract %s: %w", displayPath(rel), err)
	}

	if err := createDir(w.t, dst, w.cfg); err != nil {
		return err
	}
	w.dirs.Add(1)
	w.cfg.Logger().Debug("extracting folder", "path", displayPath(rel))

	for _, f := range d.Files {
		if err := w.extractFile(ctx, dst, rel, f); err != nil {
			return err
		}
	}
	return nil
}

// extractFile fetches the bytes of f and writes them to dst/f.Name
func (w *walker) extractFile(ctx context.Context, dst string, rel string, f *archive.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	filePath, err := joinEntry(dst, f.Name)
	if err != nil {
		return err
	}
	entryPath := path.Join(rel, f.Name)

	if err := w.cfg.CheckMaxFiles(w.entries.Add(1)); err != nil {
		return fmt.Errorf("cannot extract %s: %w", entryPath, err)
	}

	data, err := w.src.FileData(f)
	if err != nil {
		return &ArchiveReadError{Path: entryPath, Err: err}
	}

	size := int64(len(data))
	if err := w.cfg.CheckExtractionSize(w.size.Add(size)); err != nil {
		w.size.Add(-size)
		return fmt.Errorf("cannot extract %s: %w", entryPath, err)
	}

	if _, err := createFile(w.t, filePath, data, w.cfg); err != nil {
		w.size.Add(-size)
		return err
	}
	w.files.Add(1)
	return nil
}

// fill copies the counters of w into td
func (w *walker) fill(td *TelemetryData) {
	td.ExtractedDirs = w.dirs.Load()
	td.ExtractedFiles = w.files.Load()
	td.ExtractionSize = w.size.Load()
	td.ExtractionErrors = w.errs.Load()
}

// displayPath returns the archive path used in log output
func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
