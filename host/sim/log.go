package sim

import "sync"

// LogRing keeps the most recent debug lines for the TUI's log pane.
// Registered as the core's DebugWriter.
type LogRing struct {
	mu    sync.Mutex
	lines []string
	size  int
}

func NewLogRing(size int) *LogRing {
	return &LogRing{size: size}
}

// Append adds a line, evicting the oldest once full
func (l *LogRing) Append(line string) {
	l.mu.Lock()
	l.lines = append(l.lines, line)
	if len(l.lines) > l.size {
		l.lines = l.lines[len(l.lines)-l.size:]
	}
	l.mu.Unlock()
}

// Tail returns up to n most recent lines, oldest first
func (l *LogRing) Tail(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.lines) {
		n = len(l.lines)
	}
	out := make([]string, n)
	copy(out, l.lines[len(l.lines)-n:])
	return out
}
