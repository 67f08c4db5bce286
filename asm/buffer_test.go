package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferOrdersLines(t *testing.T) {
	b := New()
	b.Label("main")
	b.Inst("push rbp")
	b.Inst("mov rbp, rsp")

	assert.Equal(t, "main:\n  push rbp\n  mov rbp, rsp\n", b.String())
	assert.Equal(t, 3, b.Len())
}

func TestEmptyBuffer(t *testing.T) {
	b := New()
	assert.Equal(t, "", b.String())
	assert.Equal(t, 0, b.Len())
}

func TestBufferIsConcurrencySafe(t *testing.T) {
	b := New()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			b.Inst("nop")
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Equal(t, 8, b.Len())
}
