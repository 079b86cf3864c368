// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package archive reads and writes two-file game archives that consist of a
// header file (conventionally data.sah) and a data file (data.saf).
//
// The header describes a tree of folders and files. Every file entry points
// to a byte range in the data file. [Open] parses the header into a tree of
// [Directory] and [File] values and keeps the data file open, so the bytes of
// any entry can be fetched with [Archive.FileData]. [Writer] produces a new
// header/data pair, which is mostly useful to build archives for tests.
//
// The header layout is little endian:
//
//	magic     [3]byte  "SAH"
//	version   uint32
//	files     uint32   number of files in the whole tree
//	reserved  [40]byte
//	root      folder
//
// A folder is its name, a uint32 file count followed by the file entries, and
// a uint32 folder count followed by the child folders. A file entry is its
// name, a uint64 offset, a uint32 length and a uint32 version. Names are
// prefixed with a uint32 length that includes a trailing NUL byte.
package archive
