// Package asm holds a buffered sink for generated assembly text, so
// that tests can inspect the generator's output directly rather than
// through a fork/exec round-trip.
package asm

import (
	"strings"
	"sync"
)

// Buffer collects assembly lines, protected by a mutex so a generator
// could in principle be driven from more than one goroutine; the
// current generator is single-threaded and never contends on it.
type Buffer struct {
	lock  sync.Mutex
	lines []string
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{}
}

// Line appends one already-formatted assembly line, verbatim.
func (b *Buffer) Line(s string) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.lines = append(b.lines, s)
}

// Label appends a label definition: the name starting at column 0
// with a trailing colon.
func (b *Buffer) Label(name string) {
	b.Line(name + ":")
}

// Inst appends a single instruction, indented two spaces per the
// output format.
func (b *Buffer) Inst(s string) {
	b.Line("  " + s)
}

// Len reports how many lines have been appended so far.
func (b *Buffer) Len() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	return len(b.lines)
}

// String renders the buffered lines as a newline-terminated string.
func (b *Buffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()

	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}
