//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package backend

import "golang.org/x/sys/unix"

// OutputTranslatesNewline reports whether the tty behind fd converts "\n"
// into "\r\n" on output (OPOST and ONLCR). When it does, a cursor_down of
// "\n" also returns the cursor to column 0. A descriptor that is not a tty
// reports true, the usual default.
func OutputTranslatesNewline(fd uintptr) bool {
	t, err := unix.IoctlGetTermios(int(fd), ioctlGetTermios)
	if err != nil {
		return true
	}
	return t.Oflag&unix.OPOST != 0 && t.Oflag&unix.ONLCR != 0
}
