//go:build linux

package backend

import "golang.org/x/sys/unix"

const ioctlGetTermios = unix.TCGETS
