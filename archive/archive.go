// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"os"

	"github.com/pkg/errors"
)

// ErrEntryOutOfBounds is returned if a file entry points outside of the data file.
var ErrEntryOutOfBounds = errors.New("entry out of bounds")

// Archive is an opened header/data pair. The tree is read from the header
// file on [Open], the data file stays open until [Archive.Close] is called.
//
// FileData is safe for concurrent use.
type Archive struct {
	// Root is the root folder of the archive tree
	Root *Directory

	header     Header
	headerSize int64
	data       *os.File
	dataSize   int64
}

// Open reads the header file at headerPath and opens the data file at dataPath.
func Open(headerPath string, dataPath string, opts ...Option) (*Archive, error) {
	o := newOptions(opts)

	raw, err := os.ReadFile(headerPath)
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	header, root, err := parseHeader(raw, o.nameEncoding)
	if err != nil {
		return nil, errors.Wrapf(err, "parse header %s", headerPath)
	}

	data, err := os.Open(dataPath)
	if err != nil {
		return nil, errors.Wrap(err, "open data file")
	}
	stat, err := data.Stat()
	if err != nil {
		data.Close()
		return nil, errors.Wrap(err, "stat data file")
	}
	if stat.IsDir() {
		data.Close()
		return nil, errors.Errorf("data file %s is a directory", dataPath)
	}

	return &Archive{
		Root:       root,
		header:     header,
		headerSize: int64(len(raw)),
		data:       data,
		dataSize:   stat.Size(),
	}, nil
}

// Header returns the fixed header fields.
func (a *Archive) Header() Header {
	return a.header
}

// HeaderSize returns the size of the header file in bytes.
func (a *Archive) HeaderSize() int64 {
	return a.headerSize
}

// DataSize returns the size of the data file in bytes.
func (a *Archive) DataSize() int64 {
	return a.dataSize
}

// FileData returns the raw bytes of f. An entry that points outside of the
// data file returns an error wrapping [ErrEntryOutOfBounds].
func (a *Archive) FileData(f *File) ([]byte, error) {
	if f == nil {
		return nil, errors.New("nil file entry")
	}
	if a.data == nil {
		return nil, errors.Wrap(os.ErrClosed, "archive")
	}

	end := f.Offset + uint64(f.Length)
	if end < f.Offset || end > uint64(a.dataSize) {
		return nil, errors.Wrapf(ErrEntryOutOfBounds, "%s: offset %d, length %d, data size %d", f.Name, f.Offset, f.Length, a.dataSize)
	}

	buf := make([]byte, f.Length)
	if n, err := a.data.ReadAt(buf, int64(f.Offset)); n < len(buf) {
		return nil, errors.Wrapf(err, "read %s", f.Name)
	}
	return buf, nil
}

// Close closes the data file. The tree stays usable, FileData fails afterwards.
func (a *Archive) Close() error {
	if a.data == nil {
		return nil
	}
	err := a.data.Close()
	a.data = nil
	return err
}
