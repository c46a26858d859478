package spe

import (
	"fmt"
	"testing"
)

func TestBufferPoolReuse(t *testing.T) {
	bp := NewBufferPool(64)

	buf := bp.Get()
	if len(buf) != 64 {
		t.Fatalf("expected 64 byte buffer, got %d", len(buf))
	}
	buf[0] = 'x'
	bp.Put(buf)

	// wrong sizes are not pooled
	bp.Put(make([]byte, 10))

	stats := bp.Stats()
	if stats.Gets != 1 || stats.Puts != 1 || stats.Creates != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.HitRatio() != 0 {
		t.Fatalf("expected hit ratio 0, got %v", stats.HitRatio())
	}
}

func TestBufferPoolClearsOnPut(t *testing.T) {
	bp := NewBufferPool(8)
	buf := bp.Get()
	copy(buf, "OWON")
	bp.Put(buf)

	for _, b := range buf {
		if b != 0 {
			t.Fatalf("buffer not cleared: %q", buf)
		}
	}
}

func TestPoolStatsHitRatio(t *testing.T) {
	if r := (PoolStats{}).HitRatio(); r != 0 {
		t.Fatalf("empty pool ratio = %v", r)
	}
	if r := (PoolStats{Gets: 4, Creates: 1}).HitRatio(); r != 0.75 {
		t.Fatalf("ratio = %v, want 0.75", r)
	}
}

// BenchmarkGetPooledBuffer measures buffer pool allocation performance
func BenchmarkGetPooledBuffer(b *testing.B) {
	for _, size := range []int{readBufSize, 1024, maxLineSize} {
		bp := NewBufferPool(size)
		b.Run(fmt.Sprintf("Size%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf := bp.Get()
				bp.Put(buf)
			}
		})
	}
}

// BenchmarkDirectAllocation measures direct allocation performance for comparison
func BenchmarkDirectAllocation(b *testing.B) {
	for _, size := range []int{readBufSize, 1024, maxLineSize} {
		b.Run(fmt.Sprintf("Size%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf := make([]byte, size)
				_ = buf
			}
		})
	}
}
