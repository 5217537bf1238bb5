package pool

import "sync"

// BufferPool recycles fixed-size byte slices used as copy buffers when
// staging objects to and from storage.
type BufferPool struct {
	pool       sync.Pool
	bufferSize int
}

// NewBufferPool creates a pool handing out buffers of bufferSize bytes.
func NewBufferPool(bufferSize int) *BufferPool {
	if bufferSize <= 0 {
		bufferSize = 1 << 20
	}

	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return make([]byte, bufferSize)
			},
		},
		bufferSize: bufferSize,
	}
}

// Get returns a buffer from the pool.
func (p *BufferPool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put returns a buffer to the pool. Buffers of the wrong size are dropped.
func (p *BufferPool) Put(buf []byte) {
	if cap(buf) != p.bufferSize {
		return
	}
	p.pool.Put(buf[:p.bufferSize])
}

// BufferSize returns the size of buffers handed out by the pool.
func (p *BufferPool) BufferSize() int {
	return p.bufferSize
}
