package buf

import "sync"

// Accumulator is a Mutable composing an ordered list of zero-copy fragments,
// each retaining a span of some source buffer. Appending never copies;
// a single contiguous view is produced lazily, only when requested.
type Accumulator struct {
	refs      *ReferenceCounter
	pool      Pool
	direct    bool
	maxLength int
	frags     []Buffer

	// releaseHook releases the parent of a sliced accumulator.
	releaseHook func()
}

// NewAccumulator constructs an Accumulator bounded by maxLength total bytes;
// maxLength <= 0 means the 2GB limit.
func NewAccumulator(pool Pool, direct bool, maxLength int) *Accumulator {
	if pool == nil {
		pool = NonPooling{}
	}

	if maxLength <= 0 {
		maxLength = maxAllowedCapacity
	}

	return &Accumulator{
		refs:      NewReferenceCounter(),
		pool:      pool,
		direct:    direct,
		maxLength: maxLength,
	}
}

func (o *Accumulator) CanRetain() bool {
	return o.refs.CanRetain()
}

func (o *Accumulator) Retain() {
	o.refs.Retain()
}

// Release decrements the ownership count; the final release clears the
// fragment list, releasing every fragment.
func (o *Accumulator) Release() bool {
	if !o.refs.Release() {
		return false
	}

	o.Clear()

	if o.releaseHook != nil {
		o.releaseHook()
	}

	return true
}

func (o *Accumulator) IsRetained() bool {
	return o.refs.IsRetained()
}

// Span returns a contiguous view of the accumulated bytes. With two or more
// fragments they are coalesced into one pooled buffer which replaces the
// fragment list, so the cost is paid at most once per accumulation.
func (o *Accumulator) Span() *Span {
	switch len(o.frags) {
	case 0:
		return NewSpan(nil)
	case 1:
		return o.frags[0].Span()
	default:
		combined := o.coalesce(true)
		o.frags = append(o.frags, combined)

		return combined.Span()
	}
}

func (o *Accumulator) Get() (byte, error) {
	for len(o.frags) > 0 {
		frag := o.frags[0]
		if frag.IsEmpty() {
			o.pruneFront()
			continue
		}

		b, err := frag.Get()

		if frag.IsEmpty() {
			o.pruneFront()
		}

		return b, err
	}

	return 0, ErrUnderflow
}

func (o *Accumulator) GetBytes(dst []byte) int {
	got := 0

	for got < len(dst) && len(o.frags) > 0 {
		frag := o.frags[0]

		got += frag.GetBytes(dst[got:])

		if !frag.IsEmpty() {
			break
		}

		o.pruneFront()
	}

	return got
}

func (o *Accumulator) Skip(n int) int {
	skipped := 0

	for skipped < n && len(o.frags) > 0 {
		frag := o.frags[0]

		skipped += frag.Skip(n - skipped)

		if !frag.IsEmpty() {
			break
		}

		o.pruneFront()
	}

	return skipped
}

func (o *Accumulator) Remaining() int {
	remaining := 0

	for _, frag := range o.frags {
		remaining += frag.Remaining()
	}

	return remaining
}

func (o *Accumulator) HasRemaining() bool {
	for _, frag := range o.frags {
		if !frag.IsEmpty() {
			return true
		}
	}

	return false
}

func (o *Accumulator) IsEmpty() bool {
	return !o.HasRemaining()
}

func (o *Accumulator) IsFull() bool {
	return o.Space() == 0
}

func (o *Accumulator) Capacity() int {
	return o.maxLength
}

func (o *Accumulator) Space() int {
	space := o.maxLength - o.Remaining()
	if space < 0 {
		space = 0
	}

	return space
}

func (o *Accumulator) Clear() {
	for _, frag := range o.frags {
		frag.Release()
	}

	o.frags = nil
}

// Slice returns an Accumulator over slices of every fragment, sharing this
// accumulator's reference count: releasing the slice releases one reference
// on the parent.
func (o *Accumulator) Slice() Buffer {
	frags := make([]Buffer, 0, len(o.frags))
	for _, frag := range o.frags {
		frags = append(frags, frag.Slice())
	}

	return o.sliceAccumulator(frags)
}

// SliceN is Slice bounded to the first n remaining bytes: fragments are taken
// from the front until n is covered, the last contributing fragment sliced to
// the exact length needed.
func (o *Accumulator) SliceN(n int) Buffer {
	frags := make([]Buffer, 0, len(o.frags))

	for _, frag := range o.frags {
		remaining := frag.Remaining()

		if remaining > n {
			frags = append(frags, frag.SliceN(n))
			break
		}

		frags = append(frags, frag.Slice())
		n -= remaining
	}

	return o.sliceAccumulator(frags)
}

func (o *Accumulator) sliceAccumulator(frags []Buffer) *Accumulator {
	o.Retain()

	return &Accumulator{
		refs:        NewReferenceCounter(),
		pool:        o.pool,
		direct:      o.direct,
		maxLength:   o.maxLength,
		frags:       frags,
		releaseHook: func() { o.Release() },
	}
}

// Copy coalesces all fragments into an independent pooled buffer without
// consuming or releasing them.
func (o *Accumulator) Copy() Buffer {
	return o.coalesce(false)
}

func (o *Accumulator) coalesce(take bool) Buffer {
	combined := o.pool.Acquire(o.Remaining(), o.direct)

	for _, frag := range o.frags {
		combined.Span().Append(frag.Span().Bytes())

		if take {
			frag.Release()
		}
	}

	if take {
		o.frags = nil
	}

	return combined
}

func (o *Accumulator) AppendTo(dst *Span) bool {
	for len(o.frags) > 0 {
		if !o.frags[0].AppendTo(dst) {
			return false
		}

		o.pruneFront()
	}

	return true
}

func (o *Accumulator) PutTo(dst *Span) error {
	for len(o.frags) > 0 {
		if err := o.frags[0].PutTo(dst); err != nil {
			return err
		}

		o.pruneFront()
	}

	return nil
}

// Append takes a zero-copy slice of as much of the source as fits below the
// maximum length and retains it as a new fragment, advancing the source
// cursor past the taken bytes. It returns false when only part of the source
// fit; the untaken suffix stays readable from the source.
func (o *Accumulator) Append(src *Span) bool {
	remaining := src.Remaining()
	if remaining == 0 {
		return true
	}

	room := o.maxLength - o.Remaining()

	if room >= remaining {
		o.frags = append(o.frags, Wrap(src.Slice()))
		src.Skip(remaining)

		return true
	}

	if room > 0 {
		o.frags = append(o.frags, Wrap(src.SliceN(room)))
		src.Skip(room)
	}

	return false
}

// AppendBuffer is Append retaining the source's own reference count instead
// of wrapping raw memory.
func (o *Accumulator) AppendBuffer(src Buffer) bool {
	remaining := src.Remaining()
	if remaining == 0 {
		return true
	}

	room := o.maxLength - o.Remaining()

	if room >= remaining {
		o.frags = append(o.frags, src.Slice())
		src.Skip(remaining)

		return true
	}

	if room > 0 {
		o.frags = append(o.frags, src.SliceN(room))
		src.Skip(room)
	}

	return false
}

// WriteTo drains the fragments into the sink in append order. The drain is
// non-blocking and resumable: it suspends at each sink write and resumes on
// its completion, possibly on a different goroutine. The callback fires
// exactly once, after the terminal write or immediately when there is
// nothing to write.
func (o *Accumulator) WriteTo(sink Sink, last bool, cb Callback) {
	switch len(o.frags) {
	case 0:
		cb(nil)
	case 1:
		frag := o.frags[0]

		frag.WriteTo(sink, last, func(err error) {
			if err == nil && !frag.HasRemaining() {
				o.pruneFront()
			}

			cb(err)
		})
	default:
		d := &drain{
			acc:  o,
			sink: sink,
			last: last,
			cb:   cb,
		}

		d.iterate()
	}
}

func (o *Accumulator) AsMutable() (Mutable, error) {
	return o, nil
}

func (o *Accumulator) DetailString() string {
	return detailString("Accumulator", o)
}

func (o *Accumulator) pruneFront() {
	o.frags[0].Release()
	o.frags = o.frags[1:]
}

// drain is the resumable state machine emptying an Accumulator into a sink.
// Each sink write is a suspension point; completions re-enter iterate, and
// the busy/again pair keeps synchronous completions from recursing.
type drain struct {
	acc  *Accumulator
	sink Sink
	last bool
	cb   Callback

	lastWritten bool

	mu    sync.Mutex
	busy  bool
	again bool
	done  bool
}

func (o *drain) iterate() {
	o.mu.Lock()
	if o.busy {
		o.again = true
		o.mu.Unlock()

		return
	}
	o.busy = true
	o.mu.Unlock()

	for {
		scheduled := o.process()
		if !scheduled {
			return
		}

		o.mu.Lock()
		if !o.again {
			o.busy = false
			o.mu.Unlock()

			return
		}
		o.again = false
		o.mu.Unlock()
	}
}

// process advances the drain until it schedules a sink write (returns true)
// or completes (returns false).
func (o *drain) process() bool {
	for {
		if len(o.acc.frags) == 0 {
			if o.last && !o.lastWritten {
				o.lastWritten = true
				o.sink.Write(true, NewSpan(nil), o.resume)

				return true
			}

			o.complete(nil)

			return false
		}

		frag := o.acc.frags[0]

		if frag.HasRemaining() {
			o.lastWritten = o.last && len(o.acc.frags) == 1
			frag.WriteTo(o.sink, o.lastWritten, o.resume)

			return true
		}

		o.acc.pruneFront()
	}
}

func (o *drain) resume(err error) {
	if err != nil {
		o.complete(err)
		return
	}

	o.iterate()
}

func (o *drain) complete(err error) {
	o.mu.Lock()
	if o.done {
		o.mu.Unlock()
		return
	}
	o.done = true
	o.mu.Unlock()

	o.cb(err)
}
