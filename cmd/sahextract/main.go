// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/hashicorp/go-sah-extract/cmd"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main start go-sah-extract cli `sahextract`
func main() {
	cmd.Run(version, commit, date)
}
