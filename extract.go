// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-sah-extract/archive"
)

// Extract writes folder and everything below it into dst using t, reading
// file contents from src. dst corresponds to folder itself, it is created
// with all missing parents if it does not exist.
//
// The tree is walked depth-first. For every directory, the directory is
// created first, then its files are written, then its subdirectories are
// extracted. Existing files are overwritten unless [WithOverwrite] is false.
//
// A failure to fetch file bytes from src is returned as [*ArchiveReadError],
// a failure to create a directory or file as [*FilesystemError]. The first
// error stops the extraction, everything written up to this point stays in
// place.
//
// If cfg is nil, the default configuration is used. If t is nil, the files
// are written to disk.
func Extract(ctx context.Context, src Source, dst string, folder *archive.Directory, t Target, cfg *Config) error {
	if cfg == nil {
		cfg = NewConfig()
	}
	if t == nil {
		t = NewTargetDisk()
	}

	start := time.Now()
	td := &TelemetryData{ArchiveRoot: folder.Name}
	w := newWalker(src, t, cfg)

	err := w.run(ctx, dst, folder.Name, folder)

	w.fill(td)
	td.ExtractionDuration = time.Since(start)
	td.LastExtractionError = err
	cfg.TelemetryHook()(ctx, td)

	return err
}

// Unpack opens the archive consisting of the header file at headerPath and
// the data file at dataPath and extracts it into output. The archive's root
// folder is extracted to output/<root folder name>.
//
// A header or data file that cannot be opened or parsed is returned as
// [*ArchiveOpenError] before anything is written. See [Extract] for the
// errors of the extraction itself.
//
// If cfg is nil, the default configuration is used. If t is nil, the files
// are written to disk.
func Unpack(ctx context.Context, headerPath string, dataPath string, output string, t Target, cfg *Config) error {
	if cfg == nil {
		cfg = NewConfig()
	}
	if t == nil {
		t = NewTargetDisk()
	}

	start := time.Now()
	td := &TelemetryData{}
	w := newWalker(nil, t, cfg)

	err := unpack(ctx, headerPath, dataPath, output, w, td)

	w.fill(td)
	if err != nil && td.ExtractionErrors == 0 {
		td.ExtractionErrors = 1
	}
	td.ExtractionDuration = time.Since(start)
	td.LastExtractionError = err
	cfg.TelemetryHook()(ctx, td)

	return err
}

func unpack(ctx context.Context, headerPath string, dataPath string, output string, w *walker, td *TelemetryData) error {
	cfg := w.cfg

	// check header size before reading it into memory
	stat, err := os.Stat(headerPath)
	if err != nil {
		return &ArchiveOpenError{Header: headerPath, Data: dataPath, Err: err}
	}
	if err := cfg.CheckInputSize(stat.Size()); err != nil {
		return &ArchiveOpenError{Header: headerPath, Data: dataPath, Err: err}
	}

	cfg.Logger().Info("parsing archive", "header", headerPath, "data", dataPath)
	a, err := archive.Open(headerPath, dataPath, archive.WithNameEncoding(cfg.NameEncoding()))
	if err != nil {
		return &ArchiveOpenError{Header: headerPath, Data: dataPath, Err: err}
	}
	defer a.Close()

	root := a.Root
	td.ArchiveRoot = root.Name
	td.InputSize = a.HeaderSize() + a.DataSize()
	cfg.Logger().Info("parsed archive", "root", root.Name, "files", root.FileCount(), "directories", root.DirCount())

	// the root folder is the first path element below output, an empty
	// name extracts directly into output
	rootPath := output
	if len(root.Name) > 0 {
		if rootPath, err = joinEntry(output, root.Name); err != nil {
			return err
		}
	}

	if cfg.CheckFreeSpace() {
		if _, onDisk := w.t.(*TargetDisk); onDisk {
			if err := checkFreeSpace(rootPath, root.Size(), cfg); err != nil {
				return err
			}
		}
	}

	w.src = a
	if err := w.run(ctx, rootPath, root.Name, root); err != nil {
		return err
	}

	cfg.Logger().Info("finished extracting", "path", filepath.Clean(rootPath))
	return nil
}
