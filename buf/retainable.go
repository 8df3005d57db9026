package buf

import "sync/atomic"

// Retainable is the ownership contract shared by all buffer variants.
//
// A retainable resource is in one of three states: in-pool (count 0, any
// release is a programming error), acquired (count 1, release reclaims the
// resource) or retained (count > 1, release only decrements).
type Retainable interface {
	// CanRetain reports whether Retain is supported. It is false for
	// wrappers over externally-owned memory.
	CanRetain() bool

	// Retain increments the ownership count. Calling it on a resource
	// that has not been acquired is a programming error.
	Retain()

	// Release decrements the ownership count and returns true exactly
	// when the count reaches zero, signaling that the backing resource
	// may be reclaimed.
	Release() bool

	// IsRetained reports whether there is more than one owner.
	IsRetained() bool
}

// ReferenceCounter is the minimal Retainable primitive. The zero value is in
// the in-pool state; NewReferenceCounter returns an acquired counter.
type ReferenceCounter struct {
	refs int32
}

func NewReferenceCounter() *ReferenceCounter {
	return &ReferenceCounter{
		refs: 1,
	}
}

func (o *ReferenceCounter) CanRetain() bool {
	return true
}

func (o *ReferenceCounter) Retain() {
	if atomic.AddInt32(&o.refs, 1) <= 1 {
		panic("membuf: retain of an unacquired buffer")
	}
}

func (o *ReferenceCounter) Release() bool {
	refs := atomic.AddInt32(&o.refs, -1)
	if refs < 0 {
		panic("membuf: release of an unacquired buffer")
	}

	return refs == 0
}

func (o *ReferenceCounter) IsRetained() bool {
	return atomic.LoadInt32(&o.refs) > 1
}
