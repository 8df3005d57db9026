package store

import (
	"sync"
	"time"

	"github.com/7phs/membuf/buf"
)

// record holds the accumulated value of a single key. Appends and reads are
// serialized; readers get retained slices and never block each other on the
// value itself.
type record struct {
	mu sync.Mutex

	value      *buf.Accumulator
	expiration time.Time
}

func newRecord(pool buf.Pool, direct bool, maxLength int) *record {
	return &record{
		value: buf.NewAccumulator(pool, direct, maxLength),
	}
}

func (o *record) append(buffer buf.Buffer, now, expiration time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	// An expired value is replaced, not resurrected.
	if o.isExpired(now) && !o.value.IsEmpty() {
		o.value.Clear()
	}

	if o.value.Space() < buffer.Remaining() {
		return ErrOutOfLimit
	}

	o.value.AppendBuffer(buffer)

	if expiration.After(o.expiration) {
		o.expiration = expiration
	}

	return nil
}

// slice returns a read view retaining the value; the caller releases it.
func (o *record) slice(now time.Time) (buf.Buffer, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.isExpired(now) {
		return nil, ErrKeyExpired
	}

	return o.value.Slice(), nil
}

func (o *record) expiredAt(now time.Time) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.isExpired(now)
}

func (o *record) isExpired(now time.Time) bool {
	return !o.expiration.After(now)
}

func (o *record) release() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.value.Release()
}
