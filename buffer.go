package resp

// buffer accumulates the bytes handed to Feed.
//
// data[:pos] has been consumed, data[pos:] is the window still to be
// scanned. Invariant: 0 <= pos <= len(data) <= cap(data).
type buffer struct {
	data []byte
	pos  int
}

func (b *buffer) feed(p []byte) {
	b.data = append(b.data, p...)
}

// window returns the unconsumed bytes. The slice aliases the buffer and is
// only valid until the next feed or compact.
func (b *buffer) window() []byte {
	return b.data[b.pos:]
}

func (b *buffer) advance(n int) {
	b.pos += n
}

// length is the total buffered size, consumed prefix included.
func (b *buffer) length() int {
	return len(b.data)
}

func (b *buffer) hasData() bool {
	return b.pos < len(b.data)
}

// compact drops the consumed prefix once it reaches compactThreshold and
// reports whether it did. Only call it between tokens: the window moves to
// the start of data, so slices obtained from window become stale.
func (b *buffer) compact() bool {
	if b.pos < compactThreshold {
		return false
	}

	n := copy(b.data, b.data[b.pos:])
	b.data = b.data[:n]
	b.pos = 0

	// Release a large backing array once it is drained.
	if n == 0 && cap(b.data) > idleBufferCap {
		b.data = nil
	}
	return true
}

func (b *buffer) reset() {
	b.data = nil
	b.pos = 0
}
