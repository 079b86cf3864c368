// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package extract writes the directory tree of a sah/saf archive to a
// [Target], either the local disk or memory.
//
// A sah/saf archive consists of a header file, describing the folders and
// files of the archive, and a data file holding the raw bytes of all files.
// The header is parsed by [github.com/hashicorp/go-sah-extract/archive].
//
// [Unpack] opens an archive and extracts its root folder below an output
// directory:
//
//	err := extract.Unpack(ctx, "data.sah", "data.saf", "extracted", nil, extract.NewConfig())
//
// [Extract] writes an already parsed folder to a destination path. Folders
// are walked depth-first: every directory is created before its files are
// written, and its files are written before its subdirectories.
//
// The extraction is configured with [Config]. Limits for the number of
// entries and the extracted size, the logger, concurrency, and a
// [TelemetryHook] that receives [TelemetryData] after every extraction can
// be set using the [ConfigOption] functions.
package extract
