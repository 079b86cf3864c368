// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

// Writer builds a new archive in memory and writes it as a header/data pair
// with [Writer.Save]. Entries keep the order in which they were added.
type Writer struct {
	root     *Directory
	contents map[*File][]byte
	version  uint32
	encoder  *encoding.Encoder
}

// NewWriter returns a Writer for an archive whose root folder is named rootName.
func NewWriter(rootName string, opts ...Option) *Writer {
	o := newOptions(opts)
	return &Writer{
		root:     &Directory{Name: rootName},
		contents: make(map[*File][]byte),
		encoder:  o.nameEncoding.NewEncoder(),
	}
}

// Root returns the root folder of the archive being built.
func (w *Writer) Root() *Directory {
	return w.root
}

// SetVersion sets the version field written to the header.
func (w *Writer) SetVersion(v uint32) {
	w.version = v
}

// AddDir adds the folder at the slash separated path p, including all
// missing parent folders, and returns it.
func (w *Writer) AddDir(p string) (*Directory, error) {
	d := w.root
	for _, name := range splitPath(p) {
		if d.File(name) != nil {
			return nil, errors.Errorf("cannot add folder %q: %q is a file", p, name)
		}
		child := d.Dir(name)
		if child == nil {
			child = &Directory{Name: name}
			d.Directories = append(d.Directories, child)
		}
		d = child
	}
	return d, nil
}

// AddFile adds a file with content data at the slash separated path p.
// Missing parent folders are added.
func (w *Writer) AddFile(p string, data []byte) error {
	parts := splitPath(p)
	if len(parts) == 0 {
		return errors.New("cannot add file without name")
	}
	if uint64(len(data)) > uint64(^uint32(0)) {
		return errors.Errorf("file %q too large: %d bytes", p, len(data))
	}

	d, err := w.AddDir(strings.Join(parts[:len(parts)-1], "/"))
	if err != nil {
		return err
	}

	name := parts[len(parts)-1]
	if d.File(name) != nil || d.Dir(name) != nil {
		return errors.Errorf("duplicate entry %q", p)
	}

	f := &File{Name: name, Length: uint32(len(data))}
	d.Files = append(d.Files, f)
	w.contents[f] = data
	return nil
}

// Save writes the data file to dataPath and the header file to headerPath.
// File offsets are assigned in tree order.
func (w *Writer) Save(headerPath string, dataPath string) error {
	if err := w.writeData(dataPath); err != nil {
		return errors.Wrap(err, "write data file")
	}
	if err := w.writeHeader(headerPath); err != nil {
		return errors.Wrap(err, "write header")
	}
	return nil
}

func (w *Writer) writeData(dataPath string) error {
	f, err := os.Create(dataPath)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	var offset uint64
	err = w.root.Walk(func(_ string, d *Directory) error {
		for _, entry := range d.Files {
			data := w.contents[entry]
			if _, err := bw.Write(data); err != nil {
				return err
			}
			entry.Offset = offset
			entry.Length = uint32(len(data))
			offset += uint64(len(data))
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func (w *Writer) writeHeader(headerPath string) error {
	f, err := os.Create(headerPath)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString(headerMagic); err != nil {
		return err
	}
	fixed := struct {
		Version   uint32
		FileCount uint32
		Reserved  [headerReservedSize]byte
	}{
		Version:   w.version,
		FileCount: uint32(w.root.FileCount()),
	}
	if err := binary.Write(bw, binary.LittleEndian, &fixed); err != nil {
		return err
	}
	if err := w.writeFolder(bw, w.root); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func (w *Writer) writeFolder(bw io.Writer, d *Directory) error {
	if err := w.writeName(bw, d.Name); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(d.Files))); err != nil {
		return err
	}
	for _, entry := range d.Files {
		if err := w.writeName(bw, entry.Name); err != nil {
			return err
		}
		fields := struct {
			Offset  uint64
			Length  uint32
			Version uint32
		}{entry.Offset, entry.Length, entry.Version}
		if err := binary.Write(bw, binary.LittleEndian, &fields); err != nil {
			return err
		}
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(d.Directories))); err != nil {
		return err
	}
	for _, child := range d.Directories {
		if err := w.writeFolder(bw, child); err != nil {
			return err
		}
	}
	return nil
}

// writeName writes name encoded, NUL terminated and length prefixed
func (w *Writer) writeName(bw io.Writer, name string) error {
	encoded, err := w.encoder.Bytes([]byte(name))
	if err != nil {
		return errors.Wrapf(err, "encode name %q", name)
	}
	if len(encoded)+1 > MaxNameLength {
		return errors.Wrapf(ErrNameTooLong, "%q", name)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(encoded)+1)); err != nil {
		return err
	}
	if _, err := bw.Write(append(encoded, 0)); err != nil {
		return err
	}
	return nil
}

// splitPath splits a slash separated path and drops empty elements
func splitPath(p string) []string {
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
