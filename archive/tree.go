// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive

import "path"

// Directory is a folder in the archive tree. Name is the folder's own name,
// not a path. A Directory owns its children and is not modified after the
// header has been parsed.
type Directory struct {
	Name        string
	Files       []*File
	Directories []*Directory
}

// File is a file entry in the archive tree. Offset and Length locate the
// file's bytes in the data file.
type File struct {
	Name    string
	Offset  uint64
	Length  uint32
	Version uint32
}

// WalkFunc is called by [Directory.Walk] for every directory in the tree.
// p is the slash separated path of the directory relative to the walk root,
// the root itself is reported as ".".
type WalkFunc func(p string, d *Directory) error

// Walk calls fn for d and all directories below it in pre-order. Walking
// stops at the first error returned by fn.
func (d *Directory) Walk(fn WalkFunc) error {
	return d.walk(".", fn)
}

func (d *Directory) walk(p string, fn WalkFunc) error {
	if err := fn(p, d); err != nil {
		return err
	}
	for _, child := range d.Directories {
		if err := child.walk(path.Join(p, child.Name), fn); err != nil {
			return err
		}
	}
	return nil
}

// FileCount returns the number of files in d and all of its subdirectories.
func (d *Directory) FileCount() int {
	n := len(d.Files)
	for _, child := range d.Directories {
		n += child.FileCount()
	}
	return n
}

// DirCount returns the number of directories below d, excluding d itself.
func (d *Directory) DirCount() int {
	n := len(d.Directories)
	for _, child := range d.Directories {
		n += child.DirCount()
	}
	return n
}

// Size returns the sum of the lengths of all files in the tree below d.
func (d *Directory) Size() uint64 {
	var n uint64
	for _, f := range d.Files {
		n += uint64(f.Length)
	}
	for _, child := range d.Directories {
		n += child.Size()
	}
	return n
}

// Dir returns the direct child directory with the given name or nil.
func (d *Directory) Dir(name string) *Directory {
	for _, child := range d.Directories {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// File returns the direct child file with the given name or nil.
func (d *Directory) File(name string) *File {
	for _, f := range d.Files {
		if f.Name == name {
			return f
		}
	}
	return nil
}
