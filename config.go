// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"io"
	"io/fs"
	"log/slog"

	"golang.org/x/text/encoding"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config provides a configuration struct and options to adjust the configuration.
//
// The configuration struct holds all configuration options for the extraction process.
// The configuration options can be adjusted using the option pattern style.
//
// The default configuration extracts the complete archive, overwrites existing
// files and refuses to write through symlinks in the output path.
type Config struct {
	// checkFreeSpace enables the free space check before extraction starts
	checkFreeSpace bool

	// concurrency is the number of workers extracting sibling subtrees
	concurrency int

	// customCreateDirMode is the file mode for created directories (respecting umask)
	customCreateDirMode fs.FileMode

	// customFileMode is the file mode for created files (respecting umask)
	customFileMode fs.FileMode

	// logger stream for extraction
	logger logger

	// maxExtractionSize is the maximum size over all extracted files.
	// Set value to -1 to disable the check.
	maxExtractionSize int64

	// maxFiles is the maximum of files and directories that are extracted.
	// Set value to -1 to disable the check.
	maxFiles int64

	// maxInputSize is the maximum size of the header file.
	// Set value to -1 to disable the check.
	maxInputSize int64

	// nameEncoding is the character encoding of names in the header
	nameEncoding encoding.Encoding

	// overwrite defines if existing files in the output are overwritten
	overwrite bool

	// telemetryHook is a function to consume telemetry data after finished extraction
	// Important: do not adjust this value after extraction started
	telemetryHook TelemetryHook

	// traverseSymlinks allows writing through symlinks in the output path
	traverseSymlinks bool
}

// CheckFreeSpace returns true if the free space of the output filesystem
// is checked before extraction starts.
func (c *Config) CheckFreeSpace() bool {
	return c.checkFreeSpace
}

// CheckMaxFiles checks if counter exceeds the configured maximum. If the maximum is exceeded,
// a [ErrMaxFilesExceeded] error is returned.
func (c *Config) CheckMaxFiles(counter int64) error {

	// check if disabled
	if c.MaxFiles() == -1 {
		return nil
	}

	// check value
	if counter > c.MaxFiles() {
		return ErrMaxFilesExceeded
	}
	return nil
}

// CheckExtractionSize checks if size exceeds configured maximum. If the maximum is exceeded,
// a [ErrMaxExtractionSizeExceeded] error is returned.
func (c *Config) CheckExtractionSize(size int64) error {

	// check if disabled
	if c.MaxExtractionSize() == -1 {
		return nil
	}

	// check value
	if size > c.MaxExtractionSize() {
		return ErrMaxExtractionSizeExceeded
	}
	return nil
}

// CheckInputSize checks if size exceeds configured maximum. If the maximum is exceeded,
// a [ErrMaxInputSizeExceeded] error is returned.
func (c *Config) CheckInputSize(size int64) error {

	// check if disabled
	if c.MaxInputSize() == -1 {
		return nil
	}

	// check value
	if size > c.MaxInputSize() {
		return ErrMaxInputSizeExceeded
	}
	return nil
}

// Concurrency returns the number of workers that extract sibling subtrees.
// A value of 1 extracts sequentially.
func (c *Config) Concurrency() int {
	return c.concurrency
}

// CustomCreateDirMode returns the file mode for created directories.
// (respecting umask)
func (c *Config) CustomCreateDirMode() fs.FileMode {
	return c.customCreateDirMode
}

// CustomFileMode returns the file mode for created files.
// (respecting umask)
func (c *Config) CustomFileMode() fs.FileMode {
	return c.customFileMode
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxExtractionSize returns the maximum size over all extracted files.
func (c *Config) MaxExtractionSize() int64 {
	return c.maxExtractionSize
}

// MaxFiles returns the maximum of files and directories that are extracted.
func (c *Config) MaxFiles() int64 {
	return c.maxFiles
}

// MaxInputSize returns the maximum size of the header file.
func (c *Config) MaxInputSize() int64 {
	return c.maxInputSize
}

// NameEncoding returns the character encoding of names in the header.
func (c *Config) NameEncoding() encoding.Encoding {
	return c.nameEncoding
}

// Overwrite returns true if files should be overwritten in the destination.
func (c *Config) Overwrite() bool {
	return c.overwrite
}

// TelemetryHook returns the telemetry hook.
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return defaultTelemetryHook
	}
	return c.telemetryHook
}

// TraverseSymlinks returns true if symlinks in the output path are followed.
func (c *Config) TraverseSymlinks() bool {
	return c.traverseSymlinks
}

const (
	defaultCheckFreeSpace      = false // don't check free space
	defaultConcurrency         = 1     // extract sequentially
	defaultCustomCreateDirMode = 0755  // default directory permissions rwxr-xr-x
	defaultCustomFileMode      = 0644  // default file permissions rw-r--r--
	defaultMaxExtractionSize   = -1    // extract everything
	defaultMaxFiles            = -1    // extract everything
	defaultMaxInputSize        = -1    // accept any header size
	defaultOverwrite           = true  // overwrite existing files
	defaultTraverseSymlinks    = false // don't traverse symlinks
)

var (
	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	// no operation telemetry hook
	defaultTelemetryHook = func(ctx context.Context, d *TelemetryData) {
		// noop
	}
)

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {

	// setup default values
	config := &Config{
		checkFreeSpace:      defaultCheckFreeSpace,
		concurrency:         defaultConcurrency,
		customCreateDirMode: defaultCustomCreateDirMode,
		customFileMode:      defaultCustomFileMode,
		logger:              defaultLogger,
		maxExtractionSize:   defaultMaxExtractionSize,
		maxFiles:            defaultMaxFiles,
		maxInputSize:        defaultMaxInputSize,
		overwrite:           defaultOverwrite,
		telemetryHook:       defaultTelemetryHook,
		traverseSymlinks:    defaultTraverseSymlinks,
	}

	// Loop through each option
	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithCheckFreeSpace options pattern function to check the free space of the
// output filesystem before extraction starts. The check is only performed
// on unix systems.
func WithCheckFreeSpace(check bool) ConfigOption {
	return func(c *Config) {
		c.checkFreeSpace = check
	}
}

// WithConcurrency options pattern function to set the number of workers that
// extract sibling subtrees in parallel. Values below 1 are treated as 1.
func WithConcurrency(workers int) ConfigOption {
	return func(c *Config) {
		if workers < 1 {
			workers = 1
		}
		c.concurrency = workers
	}
}

// WithCustomCreateDirMode options pattern function to set the file mode
// for created directories. (respecting umask)
func WithCustomCreateDirMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customCreateDirMode = mode
	}
}

// WithCustomFileMode options pattern function to set the file mode for
// created files. (respecting umask)
func WithCustomFileMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customFileMode = mode
	}
}

// WithInsecureTraverseSymlinks options pattern function to write through
// symlinks in the output path.
func WithInsecureTraverseSymlinks(traverse bool) ConfigOption {
	return func(c *Config) {
		c.traverseSymlinks = traverse
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMaxExtractionSize options pattern function to set maximum size over all
// extracted files. (-1 to disable check)
func WithMaxExtractionSize(maxExtractionSize int64) ConfigOption {
	return func(c *Config) {
		c.maxExtractionSize = maxExtractionSize
	}
}

// WithMaxFiles options pattern function to set maximum number of extracted
// files and directories. (-1 to disable check)
func WithMaxFiles(maxFiles int64) ConfigOption {
	return func(c *Config) {
		c.maxFiles = maxFiles
	}
}

// WithMaxInputSize options pattern function to set the maximum size of the
// header file. (-1 to disable check)
func WithMaxInputSize(maxInputSize int64) ConfigOption {
	return func(c *Config) {
		c.maxInputSize = maxInputSize
	}
}

// WithNameEncoding options pattern function to set the character encoding
// of names in the header, see [github.com/hashicorp/go-sah-extract/archive.LookupEncoding].
func WithNameEncoding(enc encoding.Encoding) ConfigOption {
	return func(c *Config) {
		c.nameEncoding = enc
	}
}

// WithOverwrite options pattern function specify if files should be overwritten in the destination.
func WithOverwrite(enable bool) ConfigOption {
	return func(c *Config) {
		c.overwrite = enable
	}
}

// WithTelemetryHook options pattern function to set a [TelemetryHook], which is called after extraction.
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}
