package codec

// Buffer is an append-only byte buffer fed by the transport in arbitrary,
// non-aligned chunks. Decoders scan the unconsumed window returned by Bytes
// and release frame bytes from the head with Advance.
//
// Relative offsets into Bytes stay valid across Write calls: compaction only
// moves the window, never reorders or drops unconsumed bytes.
type Buffer struct {
	data []byte
	off  int
}

// NewBuffer returns a buffer with an initial capacity hint.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Write appends a chunk to the tail of the buffer.
func (b *Buffer) Write(p []byte) {
	b.compact()
	b.data = append(b.data, p...)
}

// Bytes returns the unconsumed window. The slice is only valid until the
// next Write or Advance call; decoders must copy frame bytes out.
func (b *Buffer) Bytes() []byte {
	return b.data[b.off:]
}

// Len reports the number of unconsumed bytes.
func (b *Buffer) Len() int {
	return len(b.data) - b.off
}

// Advance consumes n bytes from the head of the unconsumed window.
// It panics if n is negative or exceeds Len.
func (b *Buffer) Advance(n int) {
	if n < 0 || n > b.Len() {
		panic("codec: Advance past end of buffer")
	}
	b.off += n
}

const compactThreshold = 4 * 1024

// compact reclaims consumed head space before appending. Cheap cases first:
// a fully consumed buffer resets in place, otherwise bytes shift down once
// the dead prefix dominates the allocation.
func (b *Buffer) compact() {
	if b.off == 0 {
		return
	}
	if b.off == len(b.data) {
		b.data = b.data[:0]
		b.off = 0
		return
	}
	if b.off >= compactThreshold || b.off*2 >= len(b.data) {
		n := copy(b.data, b.data[b.off:])
		b.data = b.data[:n]
		b.off = 0
	}
}
