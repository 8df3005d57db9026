package buf

import "math"

const (
	defaultAcquireSize = 4 << 10
	maxAllowedCapacity = math.MaxInt32
)

// Aggregator is a Mutable that owns exactly one pooled backing buffer and
// grows by reallocation: when an append would overflow, a larger pooled
// buffer is acquired, the content copied over and the old buffer released.
type Aggregator struct {
	pool        Pool
	direct      bool
	growBy      int
	maxCapacity int
	buffer      Mutable
}

// NewAggregator constructs an Aggregator growing by growBy bytes up to
// maxCapacity. A growBy <= 0 acquires a modest initial buffer and adopts its
// actual capacity as the grow step; maxCapacity <= 0 means the 2GB limit.
// A growBy greater than maxCapacity is a configuration error.
func NewAggregator(pool Pool, direct bool, growBy, maxCapacity int) (*Aggregator, error) {
	if pool == nil {
		pool = NonPooling{}
	}

	if maxCapacity <= 0 {
		maxCapacity = maxAllowedCapacity
	}

	o := &Aggregator{
		pool:        pool,
		direct:      direct,
		maxCapacity: maxCapacity,
	}

	if growBy <= 0 {
		acquireSize := defaultAcquireSize
		if acquireSize > maxCapacity {
			acquireSize = maxCapacity
		}

		o.buffer = pool.Acquire(acquireSize, direct)

		o.growBy = o.buffer.Span().Capacity()
		if o.growBy > maxCapacity {
			o.growBy = maxCapacity
		}

		return o, nil
	}

	if growBy > maxCapacity {
		return nil, ErrGrowByTooLarge
	}

	o.growBy = growBy
	o.buffer = pool.Acquire(growBy, direct)

	return o, nil
}

func (o *Aggregator) CanRetain() bool {
	return o.buffer.CanRetain()
}

func (o *Aggregator) Retain() {
	o.buffer.Retain()
}

func (o *Aggregator) Release() bool {
	return o.buffer.Release()
}

func (o *Aggregator) IsRetained() bool {
	return o.buffer.IsRetained()
}

func (o *Aggregator) Span() *Span {
	return o.buffer.Span()
}

func (o *Aggregator) Get() (byte, error) {
	return o.buffer.Get()
}

func (o *Aggregator) GetBytes(dst []byte) int {
	return o.buffer.GetBytes(dst)
}

func (o *Aggregator) Skip(n int) int {
	return o.buffer.Skip(n)
}

func (o *Aggregator) Remaining() int {
	return o.buffer.Remaining()
}

func (o *Aggregator) HasRemaining() bool {
	return o.buffer.HasRemaining()
}

func (o *Aggregator) IsEmpty() bool {
	return o.buffer.IsEmpty()
}

func (o *Aggregator) IsFull() bool {
	return o.Space() == 0
}

// Capacity reports the growable capacity: always the configured maximum,
// even when the pool provided larger backing storage.
func (o *Aggregator) Capacity() int {
	return o.maxCapacity
}

func (o *Aggregator) Space() int {
	space := o.maxCapacity - o.Remaining()
	if space < 0 {
		space = 0
	}

	return space
}

// Clear resets the aggregator. A backing buffer shared with a prior Copy or
// slice is released and replaced instead of being mutated in place.
func (o *Aggregator) Clear() {
	if o.buffer.IsRetained() {
		o.buffer.Release()
		o.buffer = o.pool.Acquire(o.growBy, o.direct)

		return
	}

	o.buffer.Clear()
}

func (o *Aggregator) Slice() Buffer {
	return o.buffer.Slice()
}

func (o *Aggregator) SliceN(n int) Buffer {
	return o.buffer.SliceN(n)
}

// Copy retains the backing buffer and returns an independent view over it.
// The aggregator keeps appending to its own buffer; the next growth or
// Clear leaves the copy untouched.
func (o *Aggregator) Copy() Buffer {
	backing := o.buffer
	backing.Retain()

	return WrapReleaser(backing.Span().Slice(), func() {
		backing.Release()
	})
}

func (o *Aggregator) AppendTo(dst *Span) bool {
	return o.buffer.AppendTo(dst)
}

func (o *Aggregator) PutTo(dst *Span) error {
	return o.buffer.PutTo(dst)
}

func (o *Aggregator) WriteTo(sink Sink, last bool, cb Callback) {
	o.buffer.WriteTo(sink, last, cb)
}

func (o *Aggregator) Append(src *Span) bool {
	o.ensureSpace(src.Remaining())

	return o.buffer.Append(src)
}

func (o *Aggregator) AppendBuffer(src Buffer) bool {
	if src.IsEmpty() {
		return true
	}

	return o.Append(src.Span())
}

func (o *Aggregator) AsMutable() (Mutable, error) {
	return o, nil
}

func (o *Aggregator) DetailString() string {
	return detailString("Aggregator", o)
}

// ensureSpace grows the backing buffer so that needed bytes fit, rounding up
// to the next multiple of the grow step and clamping to the configured
// maximum. The backing capacity never shrinks and growth stops at the
// maximum; a too-large append is then left partial for the caller.
func (o *Aggregator) ensureSpace(needed int) {
	span := o.buffer.Span()
	capacity := span.Capacity()

	// A retained backing buffer must not be compacted, so only the tail
	// counts as usable room; reallocation takes over from relocation.
	space := capacity - span.Remaining()
	if o.buffer.IsRetained() {
		space = span.TailSpace()
	}

	if needed <= space || capacity >= o.maxCapacity {
		return
	}

	newCapacity := (1 + (int64(capacity)+int64(needed))/int64(o.growBy)) * int64(o.growBy)
	if newCapacity > int64(o.maxCapacity) {
		newCapacity = int64(capacity) + int64(needed-space)
		if newCapacity > int64(o.maxCapacity) {
			newCapacity = int64(o.maxCapacity)
		}
	}

	if newCapacity <= 0 || newCapacity > maxAllowedCapacity {
		panic("membuf: aggregator capacity overflow")
	}

	ensured := o.pool.Acquire(int(newCapacity), o.direct)
	ensured.AppendBuffer(o.buffer)

	o.buffer.Release()
	o.buffer = ensured
}
