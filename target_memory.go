// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// TargetMemory is an in-memory filesystem implementation of [Target]. It is a map of
// slash separated paths to [MemoryEntry]. The MemoryEntry contains the file information
// and the file data. Paths must be relative, see [io/fs.ValidPath].
//
// TargetMemory is used for dry runs and tests. It is safe for concurrent use.
type TargetMemory struct {
	files sync.Map // map[string]*MemoryEntry
}

// NewTargetMemory creates a new in-memory filesystem.
func NewTargetMemory() *TargetMemory {
	return &TargetMemory{}
}

// memoryPath converts an os specific path into a key of the map
func memoryPath(p string) (string, error) {
	p = path.Clean(filepath.ToSlash(p))
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: %s", fs.ErrInvalid, p)
	}
	return p, nil
}

// CreateFile creates a new file in the in-memory filesystem. The file is created with the given mode.
// If the overwrite flag is set to false and the file already exists, an error is returned. If the overwrite
// flag is set to true, the file is overwritten. The parent directory must exist. If the file is created
// successfully, the number of bytes written is returned.
func (m *TargetMemory) CreateFile(p string, src io.Reader, mode fs.FileMode, overwrite bool) (int64, error) {
	p, err := memoryPath(p)
	if err != nil {
		return 0, err
	}

	// parent directory must exist
	if dir := path.Dir(p); dir != "." {
		e, ok := m.files.Load(dir)
		if !ok {
			return 0, fmt.Errorf("%w: %s", fs.ErrNotExist, dir)
		}
		if !e.(*MemoryEntry).FileInfo.IsDir() {
			return 0, fmt.Errorf("not a directory: %s", dir)
		}
	}

	if e, ok := m.files.Load(p); ok {
		if e.(*MemoryEntry).FileInfo.IsDir() {
			return 0, fmt.Errorf("%w: %s is a directory", fs.ErrExist, p)
		}
		if !overwrite {
			return 0, fmt.Errorf("%w: %s", fs.ErrExist, p)
		}
	}

	// write to buffer
	var buf bytes.Buffer
	n, err := io.Copy(&buf, src)
	if err != nil {
		return n, err
	}

	m.files.Store(p, &MemoryEntry{
		FileInfo: &MemoryFileInfo{name: path.Base(p), size: n, mode: mode.Perm(), modTime: time.Now()},
		Data:     buf.Bytes(),
	})
	return n, nil
}

// CreateDir creates a new directory and all missing parents in the in-memory filesystem.
// If the directory already exists, nothing is done. If a file exists at the path or
// one of its parents, an error is returned.
func (m *TargetMemory) CreateDir(p string, mode fs.FileMode) error {
	p, err := memoryPath(p)
	if err != nil {
		return err
	}
	if p == "." {
		return nil
	}

	// create parents first
	if dir := path.Dir(p); dir != "." {
		if err := m.CreateDir(dir, mode); err != nil {
			return err
		}
	}

	e, loaded := m.files.LoadOrStore(p, &MemoryEntry{
		FileInfo: &MemoryFileInfo{name: path.Base(p), mode: mode.Perm() | fs.ModeDir, modTime: time.Now()},
	})
	if loaded && !e.(*MemoryEntry).FileInfo.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", fs.ErrExist, p)
	}
	return nil
}

// Lstat returns the FileInfo for the given path. If the path does not exist, an error is returned.
func (m *TargetMemory) Lstat(p string) (fs.FileInfo, error) {
	p, err := memoryPath(p)
	if err != nil {
		return nil, err
	}
	if e, ok := m.files.Load(p); ok {
		return e.(*MemoryEntry).FileInfo, nil
	}
	return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, p)
}

// ReadFile returns the content of the file at the given path.
func (m *TargetMemory) ReadFile(p string) ([]byte, error) {
	p, err := memoryPath(p)
	if err != nil {
		return nil, err
	}
	e, ok := m.files.Load(p)
	if !ok {
		return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, p)
	}
	me := e.(*MemoryEntry)
	if me.FileInfo.IsDir() {
		return nil, fmt.Errorf("cannot read directory")
	}
	return me.Data, nil
}

// ReadDir returns the entries of the directory at the given path sorted by name.
func (m *TargetMemory) ReadDir(p string) ([]fs.DirEntry, error) {
	p, err := memoryPath(p)
	if err != nil {
		return nil, err
	}

	var entries []fs.DirEntry
	m.files.Range(func(entryPath, me any) bool {
		if entryPath.(string) != "." && path.Dir(entryPath.(string)) == p {
			entries = append(entries, me.(*MemoryEntry))
		}
		return true
	})

	// sort slice of entries based on name
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

// Paths returns all paths in the in-memory filesystem in lexical order.
func (m *TargetMemory) Paths() []string {
	var paths []string
	m.files.Range(func(p, _ any) bool {
		paths = append(paths, p.(string))
		return true
	})
	sort.Strings(paths)
	return paths
}

// MemoryEntry is an entry in the in-memory filesystem
type MemoryEntry struct {
	FileInfo fs.FileInfo
	Data     []byte
}

// Name returns the name of the entry
func (me *MemoryEntry) Name() string {
	return me.FileInfo.Name()
}

// IsDir returns true if the entry is a directory
func (me *MemoryEntry) IsDir() bool {
	return me.FileInfo.IsDir()
}

// Type returns the type bits of the entry
func (me *MemoryEntry) Type() fs.FileMode {
	return me.FileInfo.Mode().Type()
}

// Info returns the FileInfo of the entry
func (me *MemoryEntry) Info() (fs.FileInfo, error) {
	return me.FileInfo, nil
}

// MemoryFileInfo is a FileInfo implementation for the in-memory filesystem
type MemoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

// Name returns the base name of the file
func (fi *MemoryFileInfo) Name() string {
	return fi.name
}

// Size returns the length in bytes for regular files
func (fi *MemoryFileInfo) Size() int64 {
	return fi.size
}

// Mode returns the file mode bits
func (fi *MemoryFileInfo) Mode() fs.FileMode {
	return fi.mode
}

// ModTime returns the modification time
func (fi *MemoryFileInfo) ModTime() time.Time {
	return fi.modTime
}

// IsDir returns true if the file is a directory
func (fi *MemoryFileInfo) IsDir() bool {
	return fi.mode.IsDir()
}

// Sys returns nil
func (fi *MemoryFileInfo) Sys() any {
	return nil
}
