package spe

import (
	"sync"

	"go.uber.org/atomic"
)

// readBufSize is the chunk size the async reader pulls from the port.
const readBufSize = 256

// maxLineSize bounds a single reply line; longer lines are reported as a
// read failure.
const maxLineSize = 4096

var readBufPool = NewBufferPool(readBufSize)

func getReadBuf() []byte  { return readBufPool.Get() }
func putReadBuf(b []byte) { readBufPool.Put(b) }

// BufferPool hands out fixed-size byte buffers.
type BufferPool struct {
	pool sync.Pool
	size int

	gets    atomic.Int64
	puts    atomic.Int64
	creates atomic.Int64
}

// NewBufferPool creates a pool of size-byte buffers.
func NewBufferPool(size int) *BufferPool {
	bp := &BufferPool{size: size}
	bp.pool.New = func() interface{} {
		bp.creates.Add(1)
		return make([]byte, size)
	}
	return bp
}

func (bp *BufferPool) Get() []byte {
	bp.gets.Add(1)
	return bp.pool.Get().([]byte)
}

// Put clears buf and returns it. Buffers of the wrong size are dropped.
func (bp *BufferPool) Put(buf []byte) {
	if len(buf) != bp.size {
		return
	}
	bp.puts.Add(1)
	clear(buf)
	bp.pool.Put(buf)
}

func (bp *BufferPool) Stats() PoolStats {
	return PoolStats{
		Size:    bp.size,
		Gets:    bp.gets.Load(),
		Puts:    bp.puts.Load(),
		Creates: bp.creates.Load(),
	}
}

// PoolStats contains buffer pool usage statistics.
type PoolStats struct {
	Size    int
	Gets    int64
	Puts    int64
	Creates int64
}

// HitRatio returns the share of Get calls served without allocating.
func (ps PoolStats) HitRatio() float64 {
	if ps.Gets == 0 {
		return 0.0
	}
	return 1.0 - (float64(ps.Creates) / float64(ps.Gets))
}
