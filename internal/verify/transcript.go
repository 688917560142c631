package verify

import (
	"fmt"
	"sync"
)

// Transcript accumulates the deterministic log of one controller run. Lines
// are ordered by emission; tests assert on their structure.
type Transcript struct {
	mu    sync.Mutex
	lines []string
}

// Logf appends one formatted line.
func (t *Transcript) Logf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the accumulated lines.
func (t *Transcript) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}
