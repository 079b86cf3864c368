// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-sah-extract/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveTestArchive writes the archive built by w into dir and returns the paths
func saveTestArchive(t *testing.T, w *archive.Writer) (string, string) {
	t.Helper()
	dir := t.TempDir()
	headerPath := filepath.Join(dir, "data.sah")
	dataPath := filepath.Join(dir, "data.saf")
	require.NoError(t, w.Save(headerPath, dataPath))
	return headerPath, dataPath
}

// rawHeader assembles header bytes with the fixed fields followed by body
func rawHeader(version uint32, fileCount uint32, body ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("SAH")
	_ = binary.Write(&buf, binary.LittleEndian, version)
	_ = binary.Write(&buf, binary.LittleEndian, fileCount)
	buf.Write(make([]byte, 40))
	for _, b := range body {
		buf.Write(b)
	}
	return buf.Bytes()
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func TestOpenRoundTrip(t *testing.T) {
	w := archive.NewWriter("data")
	w.SetVersion(7)
	require.NoError(t, w.AddFile("a.txt", []byte("hello")))
	require.NoError(t, w.AddFile("sub/b.txt", []byte("world")))
	require.NoError(t, w.AddFile("sub/deeper/c.bin", []byte{0, 1, 2, 3}))
	require.NoError(t, w.AddFile("z.txt", nil))
	_, err := w.AddDir("empty")
	require.NoError(t, err)

	headerPath, dataPath := saveTestArchive(t, w)

	a, err := archive.Open(headerPath, dataPath)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, archive.Header{Version: 7, FileCount: 4}, a.Header())
	assert.Equal(t, int64(14), a.DataSize())

	root := a.Root
	require.NotNil(t, root)
	assert.Equal(t, "data", root.Name)
	require.Len(t, root.Files, 2)
	assert.Equal(t, "a.txt", root.Files[0].Name)
	assert.Equal(t, "z.txt", root.Files[1].Name)
	require.Len(t, root.Directories, 2)
	assert.Equal(t, "sub", root.Directories[0].Name)
	assert.Equal(t, "empty", root.Directories[1].Name)

	want := map[string]string{
		"a.txt":            "hello",
		"z.txt":            "",
		"sub/b.txt":        "world",
		"sub/deeper/c.bin": "\x00\x01\x02\x03",
	}
	got := map[string]string{}
	err = root.Walk(func(p string, d *archive.Directory) error {
		for _, f := range d.Files {
			data, err := a.FileData(f)
			if err != nil {
				return err
			}
			got[filepath.ToSlash(filepath.Join(p, f.Name))] = string(data)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpenNameEncoding(t *testing.T) {
	enc, err := archive.LookupEncoding("euc-kr")
	require.NoError(t, err)

	w := archive.NewWriter("데이터", archive.WithNameEncoding(enc))
	require.NoError(t, w.AddFile("방어구/무기.txt", []byte("sword")))
	headerPath, dataPath := saveTestArchive(t, w)

	// the header must not contain the utf-8 bytes
	raw, err := os.ReadFile(headerPath)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(raw, []byte("방어구")))

	a, err := archive.Open(headerPath, dataPath, archive.WithNameEncoding(enc))
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "데이터", a.Root.Name)
	items := a.Root.Dir("방어구")
	require.NotNil(t, items)
	f := items.File("무기.txt")
	require.NotNil(t, f)
	data, err := a.FileData(f)
	require.NoError(t, err)
	assert.Equal(t, "sword", string(data))
}

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		name        string
		expectError bool
	}{
		{name: ""},
		{name: "raw"},
		{name: "utf-8"},
		{name: "euc-kr"},
		{name: "windows-1252"},
		{name: "not-an-encoding", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := archive.LookupEncoding(tt.name)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, enc)
		})
	}
}

func TestOpenErrors(t *testing.T) {
	// a valid archive to derive broken headers from
	w := archive.NewWriter("data")
	require.NoError(t, w.AddFile("sub/a.txt", []byte("hello")))
	validHeader, dataPath := saveTestArchive(t, w)
	valid, err := os.ReadFile(validHeader)
	require.NoError(t, err)

	emptyName := append(le32(1), 0)

	tests := []struct {
		name   string
		header []byte
		noFile bool
		want   error
	}{
		{
			name:   "missing header",
			noFile: true,
		},
		{
			name:   "empty header",
			header: []byte{},
			want:   archive.ErrTruncatedHeader,
		},
		{
			name:   "invalid magic",
			header: append([]byte("SAF"), valid[3:]...),
			want:   archive.ErrInvalidMagic,
		},
		{
			name:   "missing root folder",
			header: rawHeader(0, 0),
			want:   archive.ErrTruncatedHeader,
		},
		{
			name:   "truncated tree",
			header: valid[:len(valid)-6],
			want:   archive.ErrTruncatedHeader,
		},
		{
			name:   "file count larger than header",
			header: rawHeader(0, 0, emptyName, le32(0xFFFFFFFF)),
			want:   archive.ErrTruncatedHeader,
		},
		{
			name:   "folder count larger than header",
			header: rawHeader(0, 0, emptyName, le32(0), le32(1000)),
			want:   archive.ErrTruncatedHeader,
		},
		{
			name:   "name too long",
			header: rawHeader(0, 0, le32(archive.MaxNameLength+1)),
			want:   archive.ErrNameTooLong,
		},
		{
			name:   "name longer than header",
			header: rawHeader(0, 0, le32(64), []byte("abc")),
			want:   archive.ErrTruncatedHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headerPath := filepath.Join(t.TempDir(), "data.sah")
			if !tt.noFile {
				require.NoError(t, os.WriteFile(headerPath, tt.header, 0644))
			}

			a, err := archive.Open(headerPath, dataPath)
			require.Error(t, err)
			assert.Nil(t, a)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			} else {
				assert.ErrorIs(t, err, os.ErrNotExist)
			}
		})
	}
}

func TestOpenMissingDataFile(t *testing.T) {
	w := archive.NewWriter("data")
	require.NoError(t, w.AddFile("a.txt", []byte("hello")))
	headerPath, _ := saveTestArchive(t, w)

	_, err := archive.Open(headerPath, filepath.Join(t.TempDir(), "missing.saf"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = archive.Open(headerPath, t.TempDir())
	assert.Error(t, err)
}

func TestOpenMaxDepth(t *testing.T) {
	w := archive.NewWriter("data")
	_, err := w.AddDir(strings.Repeat("d/", archive.MaxFolderDepth+2))
	require.NoError(t, err)
	headerPath, dataPath := saveTestArchive(t, w)

	_, err = archive.Open(headerPath, dataPath)
	assert.ErrorIs(t, err, archive.ErrMaxDepthExceeded)

	// the deepest accepted nesting
	w = archive.NewWriter("data")
	_, err = w.AddDir(strings.Repeat("d/", archive.MaxFolderDepth))
	require.NoError(t, err)
	headerPath, dataPath = saveTestArchive(t, w)

	a, err := archive.Open(headerPath, dataPath)
	require.NoError(t, err)
	assert.Equal(t, archive.MaxFolderDepth, a.Root.DirCount())
	assert.NoError(t, a.Close())
}

func TestFileData(t *testing.T) {
	w := archive.NewWriter("data")
	require.NoError(t, w.AddFile("a.txt", []byte("hello")))
	headerPath, dataPath := saveTestArchive(t, w)

	a, err := archive.Open(headerPath, dataPath)
	require.NoError(t, err)

	tests := []struct {
		name string
		file *archive.File
		want string
		err  error
	}{
		{
			name: "whole file",
			file: &archive.File{Name: "a", Offset: 0, Length: 5},
			want: "hello",
		},
		{
			name: "range",
			file: &archive.File{Name: "b", Offset: 1, Length: 3},
			want: "ell",
		},
		{
			name: "empty at end",
			file: &archive.File{Name: "c", Offset: 5, Length: 0},
			want: "",
		},
		{
			name: "length beyond end",
			file: &archive.File{Name: "d", Offset: 3, Length: 3},
			err:  archive.ErrEntryOutOfBounds,
		},
		{
			name: "offset beyond end",
			file: &archive.File{Name: "e", Offset: 100, Length: 1},
			err:  archive.ErrEntryOutOfBounds,
		},
		{
			name: "offset overflow",
			file: &archive.File{Name: "f", Offset: ^uint64(0), Length: 2},
			err:  archive.ErrEntryOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := a.FileData(tt.file)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}

	_, err = a.FileData(nil)
	assert.Error(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	_, err = a.FileData(a.Root.Files[0])
	assert.ErrorIs(t, err, os.ErrClosed)
}
