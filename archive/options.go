// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Option adjusts how an archive is read or written.
type Option func(*options)

type options struct {
	// nameEncoding is the character encoding of names in the header
	nameEncoding encoding.Encoding
}

func newOptions(opts []Option) *options {
	o := &options{
		nameEncoding: encoding.Nop,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithNameEncoding sets the character encoding of folder and file names in
// the header. Names are passed through unchanged by default.
func WithNameEncoding(enc encoding.Encoding) Option {
	return func(o *options) {
		if enc != nil {
			o.nameEncoding = enc
		}
	}
}

// LookupEncoding returns the encoding registered under name, e.g. "euc-kr"
// or "windows-1252". An empty name or "raw" returns [encoding.Nop].
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "raw":
		return encoding.Nop, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown name encoding %q", name)
	}
	return enc, nil
}
