package buf

import (
	"os"
	"sync"
)

// Pool supplies reusable byte storage wrapped in acquired Mutable buffers.
// The returned buffer has capacity of at least size, is empty and ready for
// append, and returns its storage to the pool on the final release.
//
// The direct flag is an allocation-granularity hint: direct acquisitions are
// rounded up to a whole number of pages.
type Pool interface {
	Acquire(size int, direct bool) Mutable
}

// NonPooling is the fallback Pool used when no real pool is supplied. Its
// buffers are allocated on demand and simply discarded on release.
type NonPooling struct{}

func (o NonPooling) Acquire(size int, direct bool) Mutable {
	if direct {
		size = roundToPageSize(size)
	}

	return newCounted(NewFillSpan(make([]byte, size)), nil)
}

const (
	bucketSize4K   = 4 << 10
	bucketSize16K  = 16 << 10
	bucketSize64K  = 64 << 10
	bucketSize256K = 256 << 10
	bucketSize1M   = 1 << 20
)

var bucketSizes = [...]int{
	bucketSize4K,
	bucketSize16K,
	bucketSize64K,
	bucketSize256K,
	bucketSize1M,
}

var pageSize = os.Getpagesize()

func roundToPageSize(size int) int {
	if rest := size % pageSize; rest != 0 {
		size += pageSize - rest
	}

	return size
}

// BucketPool recycles storage through size-tiered sync.Pool buckets.
// Requests above the largest tier fall through to plain allocation and are
// not recycled.
type BucketPool struct {
	buckets [len(bucketSizes)]sync.Pool
}

func NewBucketPool() *BucketPool {
	pool := &BucketPool{}

	for i, sz := range bucketSizes {
		sz := sz
		pool.buckets[i].New = func() interface{} {
			return make([]byte, sz)
		}
	}

	return pool
}

func (o *BucketPool) Acquire(size int, direct bool) Mutable {
	if direct {
		size = roundToPageSize(size)
	}

	data := o.alloc(size)

	return newCounted(NewFillSpan(data), func() {
		o.free(data)
	})
}

func (o *BucketPool) alloc(size int) []byte {
	for i, sz := range bucketSizes {
		if size <= sz {
			return o.buckets[i].Get().([]byte)
		}
	}

	return make([]byte, size)
}

func (o *BucketPool) free(data []byte) {
	for i, sz := range bucketSizes {
		if cap(data) == sz {
			o.buckets[i].Put(data[:cap(data)])
			return
		}
	}
}
