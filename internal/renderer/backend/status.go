package backend

import (
	"os"
	"time"
)

// Stat returns the modification time of a file.
type Stat func(f *os.File) (time.Time, bool)

// FileModTime stats f. A failed stat reports false.
func FileModTime(f *os.File) (time.Time, bool) {
	if f == nil {
		return time.Time{}, false
	}
	info, err := f.Stat()
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// TTYStatus is a snapshot of the modification times of stdout and stderr.
// Another process writing to the terminal changes them.
type TTYStatus struct {
	stdout, stderr time.Time
	okOut, okErr   bool
}

// StatusTracker records and compares TTYStatus snapshots.
type StatusTracker struct {
	Stdout *os.File
	Stderr *os.File
	Stat   Stat

	saved TTYStatus
}

// NewStatusTracker tracks the process's stdout and stderr.
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{Stdout: os.Stdout, Stderr: os.Stderr, Stat: FileModTime}
}

func (s *StatusTracker) snapshot() TTYStatus {
	stat := s.Stat
	if stat == nil {
		stat = FileModTime
	}
	var st TTYStatus
	st.stdout, st.okOut = stat(s.Stdout)
	st.stderr, st.okErr = stat(s.Stderr)
	return st
}

// Save records the current modification times.
func (s *StatusTracker) Save() {
	s.saved = s.snapshot()
}

// Changed reports whether stdout or stderr was modified since the last
// Save. A stat failure on either side counts as unchanged.
func (s *StatusTracker) Changed() bool {
	now := s.snapshot()
	if now.okOut && s.saved.okOut && !now.stdout.Equal(s.saved.stdout) {
		return true
	}
	if now.okErr && s.saved.okErr && !now.stderr.Equal(s.saved.stderr) {
		return true
	}
	return false
}
