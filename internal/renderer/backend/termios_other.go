//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package backend

// OutputTranslatesNewline always reports true on platforms without termios.
func OutputTranslatesNewline(fd uintptr) bool {
	return true
}
