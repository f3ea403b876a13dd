package internal

import (
	"bytes"
	"sync"
)

// ByteBufferPool recycles bytes.Buffer values. Buffers grown beyond maxSize
// are dropped instead of being returned to the pool.
type ByteBufferPool struct {
	pool    sync.Pool
	maxSize int
}

func NewByteBufferPool(initialSize, maxSize int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, initialSize))
			},
		},
		maxSize: maxSize,
	}
}

func (p *ByteBufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

func (p *ByteBufferPool) Put(buf *bytes.Buffer) {
	if p.maxSize > 0 && buf.Cap() > p.maxSize {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}
