// Package layout measures prompts: escape sequence lengths, line breaks and
// truncation to a maximum line width. Results are memoized in a Cache.
package layout

import (
	"slices"
	"sync"
	"sync/atomic"
)

// PromptCacheSize is how many prompt layouts a Cache remembers.
const PromptCacheSize = 12

// PromptLayout describes where lines start in a (possibly truncated) prompt
// and how wide they are.
type PromptLayout struct {
	// LineStarts holds rune offsets of each line in the truncated text.
	// The first entry is always 0.
	LineStarts    []int
	MaxLineWidth  int
	LastLineWidth int
}

// LineCount returns the number of lines in the prompt.
func (p PromptLayout) LineCount() int {
	return len(p.LineStarts)
}

func (p PromptLayout) clone() PromptLayout {
	p.LineStarts = slices.Clone(p.LineStarts)
	return p
}

type promptEntry struct {
	text     string
	maxWidth int
	trunc    string
	layout   PromptLayout
}

// Cache memoizes escape sequences seen in prompts and the layouts of recent
// prompts. It is safe for concurrent use; the lock only covers the
// in-memory computation.
type Cache struct {
	mu sync.Mutex
	// escapes is kept sorted for binary search.
	escapes [][]rune
	// prompts is most recently used first.
	prompts []promptEntry
	visual  [][]rune
	tabs    TabStops

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Escapes   int
	Prompts   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns the prompt cache hit rate (0.0 to 1.0).
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// NewCache creates an empty cache with default tab stops and no
// terminal-specific attribute sequences.
func NewCache() *Cache {
	return &Cache{tabs: NewTabStops(DefaultTabWidth)}
}

// SetVisualSequences sets the terminal attribute strings (bold, sgr0,
// underline and so on) recognized ahead of the generic escape forms.
// Both caches are cleared since earlier results may no longer hold.
func (c *Cache) SetVisualSequences(seqs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visual = c.visual[:0]
	for _, s := range seqs {
		if s != "" {
			c.visual = append(c.visual, []rune(s))
		}
	}
	c.clearLocked()
}

// SetTabWidth sets the tab width used when measuring prompts.
func (c *Cache) SetTabWidth(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tabs = NewTabStops(width)
	c.prompts = c.prompts[:0]
}

// Clear empties both caches.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Cache) clearLocked() {
	c.escapes = c.escapes[:0]
	c.prompts = c.prompts[:0]
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Escapes:   len(c.escapes),
		Prompts:   len(c.prompts),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// EscapeCodeLength returns the length in runes of the escape sequence at
// the start of code, or 0 if there is none.
func (c *Cache) EscapeCodeLength(code []rune) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.escapeCodeLength(code)
}

// Must be called with lock held.
func (c *Cache) escapeCodeLength(code []rune) int {
	if at(code, 0) != esc {
		return 0
	}
	if n := c.findEscapeCode(code); n != 0 {
		return n
	}
	n := EscapeLength(code, c.visual)
	if n > 0 {
		c.addEscapeCode(slices.Clone(code[:n]))
	}
	return n
}

// AddEscapeCode inserts s in sorted position unless already present.
func (c *Cache) AddEscapeCode(s []rune) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addEscapeCode(s)
}

func (c *Cache) addEscapeCode(s []rune) {
	pos, found := slices.BinarySearchFunc(c.escapes, s, slices.Compare[[]rune])
	if !found {
		c.escapes = slices.Insert(c.escapes, pos, s)
	}
}

// FindEscapeCode returns the length of a cached escape sequence that is a
// prefix of entry, or 0. Cached sequences are assumed to be prefix-free, so
// only the sorted predecessor needs checking.
func (c *Cache) FindEscapeCode(entry []rune) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findEscapeCode(entry)
}

func (c *Cache) findEscapeCode(entry []rune) int {
	pos, found := slices.BinarySearchFunc(c.escapes, entry, slices.Compare[[]rune])
	if found {
		return len(entry)
	}
	if pos > 0 {
		candidate := c.escapes[pos-1]
		if hasPrefix(entry, candidate) {
			return len(candidate)
		}
	}
	return 0
}

// findPromptLayout looks up a layout and promotes it to the front.
func (c *Cache) findPromptLayout(text string, maxWidth int) (promptEntry, bool) {
	for i, e := range c.prompts {
		if e.text == text && e.maxWidth == maxWidth {
			if i > 0 {
				copy(c.prompts[1:i+1], c.prompts[:i])
				c.prompts[0] = e
			}
			return e, true
		}
	}
	return promptEntry{}, false
}

// addPromptLayout pushes e to the front, evicting the oldest entry when full.
func (c *Cache) addPromptLayout(e promptEntry) {
	c.prompts = slices.Insert(c.prompts, 0, e)
	if len(c.prompts) > PromptCacheSize {
		c.prompts[len(c.prompts)-1] = promptEntry{}
		c.prompts = c.prompts[:PromptCacheSize]
		c.evictions.Add(1)
	}
}

// CalcPromptLayout splits text into lines and truncates each line to at most
// maxWidth columns, returning the truncated text and its layout.
func (c *Cache) CalcPromptLayout(text string, maxWidth int) (string, PromptLayout) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.findPromptLayout(text, maxWidth); ok {
		c.hits.Add(1)
		return e.trunc, e.layout.clone()
	}
	c.misses.Add(1)

	prompt := []rune(text)
	layout := PromptLayout{LineStarts: []int{0}}
	trunc := make([]rune, 0, len(prompt))

	runStart := 0
	for runStart < len(prompt) {
		width, runEnd := c.measureRunFrom(prompt, runStart)
		if width <= maxWidth {
			trunc = append(trunc, prompt[runStart:runEnd]...)
		} else {
			var run []rune
			run, width = c.truncateRun(slices.Clone(prompt[runStart:runEnd]), maxWidth, width)
			trunc = append(trunc, run...)
		}
		layout.LastLineWidth = width
		layout.MaxLineWidth = max(layout.MaxLineWidth, width)

		endc := at(prompt, runEnd)
		if endc == 0 {
			break
		}
		if endc == '\n' || endc == '\f' {
			layout.LineStarts = append(layout.LineStarts, len(trunc)+1)
			// A trailing newline leaves one empty last line.
			if runEnd == len(prompt)-1 {
				layout.LastLineWidth = 0
			}
		}
		trunc = append(trunc, endc)
		runStart = runEnd + 1
	}

	e := promptEntry{
		text:     text,
		maxWidth: maxWidth,
		trunc:    string(trunc),
		layout:   layout,
	}
	c.addPromptLayout(e)
	return e.trunc, layout.clone()
}

// MeasureRun returns the width of text up to its first run terminator.
func (c *Cache) MeasureRun(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, _ := c.measureRunFrom([]rune(text), 0)
	return w
}
