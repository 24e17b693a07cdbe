//go:build debug

package mcts

import (
	"fmt"
	"strings"
	"sync"
)

// traceLines bounds the number of search events a tree remembers.
const traceLines = 1024

// tracer keeps the latest search events of a tree. It is compiled in with the debug tag.
type tracer struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

func newTracer() *tracer { return &tracer{lines: make([]string, traceLines)} }

func (t *tracer) trace(format string, args ...interface{}) {
	t.mu.Lock()
	t.lines[t.next] = fmt.Sprintf(format, args...)
	t.next++
	if t.next == len(t.lines) {
		t.next = 0
		t.full = true
	}
	t.mu.Unlock()
}

// Trace returns the remembered search events, oldest first.
func (t *tracer) Trace() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var lines []string
	if t.full {
		lines = append(lines, t.lines[t.next:]...)
	}
	lines = append(lines, t.lines[:t.next]...)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
