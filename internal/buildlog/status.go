package buildlog

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// isTerminal reports whether stdout is attached to a terminal. Computed
// once at startup, matching the teacher's package-level isTerminal var.
var isTerminal = isatty.IsTerminal(os.Stdout.Fd())

// Reporter prints one status line per worker slot (index 0 is reserved for
// overall progress), overwriting in place on a terminal via cursor-rewind
// escapes, and falling back to plain sequential lines when stdout isn't a
// terminal (CI logs, redirected output).
type Reporter struct {
	mu        sync.Mutex
	lines     []string
	lastPrint time.Time
	minPeriod time.Duration
}

// NewReporter returns a Reporter with slots+1 status lines (slot 0 is
// overall progress, slots 1..slots are per-worker).
func NewReporter(slots int) *Reporter {
	return &Reporter{
		lines:     make([]string, slots+1),
		minPeriod: 100 * time.Millisecond,
	}
}

// Update sets the status line for idx and repaints, unless a repaint
// happened too recently (throttled, as frequent repaints slow the program
// down — matching the teacher's updateStatus).
func (r *Reporter) Update(idx int, status string) {
	if !isTerminal {
		r.mu.Lock()
		defer r.mu.Unlock()
		fmt.Println(status)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if diff := len(r.lines[idx]) - len(status); diff > 0 {
		status += strings.Repeat(" ", diff)
	}
	r.lines[idx] = status
	if time.Since(r.lastPrint) < r.minPeriod {
		return
	}
	r.print()
}

// Refresh force-repaints every line regardless of the throttle, used after
// printing an out-of-band log line that would otherwise scroll the status
// block away.
func (r *Reporter) Refresh() {
	if !isTerminal {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.print()
}

// print must be called with mu held.
func (r *Reporter) print() {
	r.lastPrint = time.Now()
	maxLen := 0
	for _, line := range r.lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}
	for _, line := range r.lines {
		if len(line) < maxLen {
			line += strings.Repeat(" ", maxLen-len(line))
		}
		fmt.Println(line)
	}
	fmt.Printf("\033[%dA", len(r.lines)) // restore cursor position
}
