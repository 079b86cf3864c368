// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

// Header layout constants
const (
	headerMagic        = "SAH"
	headerReservedSize = 40

	// minimum encoded sizes, used to reject counts that cannot fit
	// into the remaining header bytes before allocating
	minNameSize   = 4
	minFileSize   = minNameSize + 8 + 4 + 4
	minFolderSize = minNameSize + 4 + 4

	// MaxFolderDepth is the deepest folder nesting accepted by the parser.
	MaxFolderDepth = 256

	// MaxNameLength is the longest encoded name accepted by the parser.
	MaxNameLength = 1 << 12
)

var (
	// ErrInvalidMagic is returned if the header does not start with "SAH".
	ErrInvalidMagic = errors.New("invalid header magic")

	// ErrTruncatedHeader is returned if the header ends before the tree is complete.
	ErrTruncatedHeader = errors.New("truncated header")

	// ErrMaxDepthExceeded is returned if folders are nested deeper than [MaxFolderDepth].
	ErrMaxDepthExceeded = errors.New("maximum folder depth exceeded")

	// ErrNameTooLong is returned if a name is longer than [MaxNameLength].
	ErrNameTooLong = errors.New("name too long")
)

// Header holds the fixed fields at the start of a header file.
type Header struct {
	Version   uint32
	FileCount uint32
}

// headerParser decodes the header tree from an in-memory copy of the header file.
type headerParser struct {
	r       *bytes.Reader
	decoder *encoding.Decoder
}

// parseHeader parses raw into the fixed header fields and the root folder.
func parseHeader(raw []byte, enc encoding.Encoding) (Header, *Directory, error) {
	p := &headerParser{
		r:       bytes.NewReader(raw),
		decoder: enc.NewDecoder(),
	}

	// check magic
	magic := make([]byte, len(headerMagic))
	if _, err := io.ReadFull(p.r, magic); err != nil {
		return Header{}, nil, p.truncated(err)
	}
	if string(magic) != headerMagic {
		return Header{}, nil, errors.Wrapf(ErrInvalidMagic, "got %q", magic)
	}

	var h Header
	var err error
	if h.Version, err = p.uint32(); err != nil {
		return Header{}, nil, errors.Wrap(err, "version")
	}
	if h.FileCount, err = p.uint32(); err != nil {
		return Header{}, nil, errors.Wrap(err, "file count")
	}
	if _, err := p.r.Seek(headerReservedSize, io.SeekCurrent); err != nil {
		return Header{}, nil, errors.Wrap(err, "skip reserved bytes")
	}
	if p.r.Len() == 0 {
		return Header{}, nil, errors.Wrap(ErrTruncatedHeader, "missing root folder")
	}

	root, err := p.folder(0)
	if err != nil {
		return Header{}, nil, err
	}
	return h, root, nil
}

// folder reads a folder and, recursively, all of its children
func (p *headerParser) folder(depth int) (*Directory, error) {
	if depth > MaxFolderDepth {
		return nil, ErrMaxDepthExceeded
	}

	name, err := p.name()
	if err != nil {
		return nil, errors.Wrap(err, "folder name")
	}

	fileCount, err := p.uint32()
	if err != nil {
		return nil, errors.Wrapf(err, "file count of folder %q", name)
	}
	if err := p.fits(fileCount, minFileSize); err != nil {
		return nil, errors.Wrapf(err, "%d files in folder %q", fileCount, name)
	}

	d := &Directory{
		Name:  name,
		Files: make([]*File, 0, fileCount),
	}
	for i := uint32(0); i < fileCount; i++ {
		f, err := p.file()
		if err != nil {
			return nil, errors.Wrapf(err, "file %d in folder %q", i, name)
		}
		d.Files = append(d.Files, f)
	}

	dirCount, err := p.uint32()
	if err != nil {
		return nil, errors.Wrapf(err, "folder count of folder %q", name)
	}
	if err := p.fits(dirCount, minFolderSize); err != nil {
		return nil, errors.Wrapf(err, "%d folders in folder %q", dirCount, name)
	}

	d.Directories = make([]*Directory, 0, dirCount)
	for i := uint32(0); i < dirCount; i++ {
		child, err := p.folder(depth + 1)
		if err != nil {
			return nil, errors.Wrapf(err, "in folder %q", name)
		}
		d.Directories = append(d.Directories, child)
	}

	return d, nil
}

func (p *headerParser) file() (*File, error) {
	name, err := p.name()
	if err != nil {
		return nil, errors.Wrap(err, "name")
	}

	var entry struct {
		Offset  uint64
		Length  uint32
		Version uint32
	}
	if err := binary.Read(p.r, binary.LittleEndian, &entry); err != nil {
		return nil, errors.Wrapf(p.truncated(err), "entry %q", name)
	}

	return &File{
		Name:    name,
		Offset:  entry.Offset,
		Length:  entry.Length,
		Version: entry.Version,
	}, nil
}

// name reads a length prefixed, NUL terminated name and decodes it
func (p *headerParser) name() (string, error) {
	n, err := p.uint32()
	if err != nil {
		return "", err
	}
	if n > MaxNameLength {
		return "", errors.Wrapf(ErrNameTooLong, "%d bytes", n)
	}
	if int64(n) > int64(p.r.Len()) {
		return "", errors.Wrapf(ErrTruncatedHeader, "name of %d bytes", n)
	}

	raw := make([]byte, n)
	if _, err := io.ReadFull(p.r, raw); err != nil {
		return "", p.truncated(err)
	}
	raw = bytes.TrimRight(raw, "\x00")

	decoded, err := p.decoder.Bytes(raw)
	if err != nil {
		return "", errors.Wrapf(err, "decode name %q", raw)
	}
	return string(decoded), nil
}

func (p *headerParser) uint32() (uint32, error) {
	var v uint32
	if err := binary.Read(p.r, binary.LittleEndian, &v); err != nil {
		return 0, p.truncated(err)
	}
	return v, nil
}

// fits checks that count entries of at least size bytes each can still be
// read from the header
func (p *headerParser) fits(count uint32, size int64) error {
	if int64(count)*size > int64(p.r.Len()) {
		return ErrTruncatedHeader
	}
	return nil
}

// truncated maps short reads to ErrTruncatedHeader
func (p *headerParser) truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedHeader
	}
	return err
}
