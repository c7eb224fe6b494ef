// Package key decodes terminal input into key events.
//
// A terminal in raw mode delivers bytes: printable characters as UTF-8,
// control keys as C0 bytes, and everything else as ESC-prefixed sequences
// (CSI "\x1b[..." or SS3 "\x1bO..."). Decode turns one such unit into an
// Event; Reader does so over a stream.
//
//   - Key: which key was pressed, KeyRune for characters
//   - Modifier: Ctrl, Alt and Shift
//   - Event: a key, its rune and its modifiers
package key
