//go:build !debug

package mcts

// tracer is a no-op unless built with the debug tag.
type tracer struct{}

func newTracer() *tracer { return nil }

func (t *tracer) trace(format string, args ...interface{}) {}

// Trace returns the remembered search events. It is always empty without the debug tag.
func (t *tracer) Trace() string { return "" }
