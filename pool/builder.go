// Package pool provides sync.Pool-backed byte builders for wire encoding and
// path label construction.
package pool

import (
	"strconv"
	"sync"
)

// Builder is a reusable byte buffer for assembling encoded segments and
// concrete path labels (e.g. "OBX(2)-5") without per-call allocations.
type Builder struct {
	buf []byte
}

var builderPool = sync.Pool{
	New: func() any {
		return &Builder{buf: make([]byte, 0, 512)}
	},
}

// Acquire gets a Builder from the pool. Call Release when done.
func Acquire() *Builder {
	b := builderPool.Get().(*Builder)
	b.Reset()
	return b
}

// Release returns the Builder to the pool. Oversized buffers are dropped
// rather than pooled.
func (b *Builder) Release() {
	if b == nil {
		return
	}
	if cap(b.buf) <= 1<<16 {
		builderPool.Put(b)
	}
}

// Reset clears the buffer without deallocating.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Len returns the current buffer length.
func (b *Builder) Len() int {
	return len(b.buf)
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) {
	b.buf = append(b.buf, c)
}

// WriteString appends a string.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteInt appends the decimal representation of n.
func (b *Builder) WriteInt(n int) {
	b.buf = strconv.AppendInt(b.buf, int64(n), 10)
}

// WriteOccurrence appends a parenthesized occurrence or repetition index:
// "(n)".
func (b *Builder) WriteOccurrence(n int) {
	b.buf = append(b.buf, '(')
	b.buf = strconv.AppendInt(b.buf, int64(n), 10)
	b.buf = append(b.buf, ')')
}

// WritePart appends a dash-prefixed path part: "-n".
func (b *Builder) WritePart(n int) {
	b.buf = append(b.buf, '-')
	b.buf = strconv.AppendInt(b.buf, int64(n), 10)
}

// String returns the accumulated bytes as a string. This is the one
// allocation a Builder makes per use.
func (b *Builder) String() string {
	return string(b.buf)
}

// Bytes returns a copy of the accumulated bytes.
func (b *Builder) Bytes() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}

// BuildLabel constructs a string using a pooled Builder.
//
// Example:
//
//	label := pool.BuildLabel(func(b *pool.Builder) {
//	    b.WriteString("OBX")
//	    b.WriteOccurrence(2)
//	    b.WritePart(5)
//	})
func BuildLabel(fn func(*Builder)) string {
	b := Acquire()
	defer b.Release()
	fn(b)
	return b.String()
}
