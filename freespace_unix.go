// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin || freebsd

package extract

import (
	"golang.org/x/sys/unix"
)

// canCheckFreeSpace reports if availableSpace is implemented for the current platform.
const canCheckFreeSpace = true

// availableSpace returns the number of bytes available to an unprivileged
// user on the filesystem that contains path.
func availableSpace(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
