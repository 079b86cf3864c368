// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build !(linux || darwin || freebsd)

package extract

import (
	"fmt"
	"runtime"
)

// canCheckFreeSpace reports if availableSpace is implemented for the current platform.
const canCheckFreeSpace = false

// availableSpace is not supported on this platform
func availableSpace(_ string) (uint64, error) {
	return 0, fmt.Errorf("free space check is not supported on this platform (%s)", runtime.GOOS)
}
