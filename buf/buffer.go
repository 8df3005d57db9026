package buf

// Buffer is a retainable view over a contiguous byte span. Slices share the
// backing storage and reference count of their source and must be released
// exactly once; Copy produces fully independent storage.
//
// Buffer instances have a single logical owner at a time; concurrent mutation
// requires external synchronization.
type Buffer interface {
	Retainable

	// Span returns the underlying span, never nil. On composite buffers
	// this may coalesce fragments into one contiguous pooled buffer.
	Span() *Span

	Get() (byte, error)
	GetBytes(dst []byte) int
	Skip(n int) int

	Remaining() int
	HasRemaining() bool
	IsEmpty() bool
	IsFull() bool
	Capacity() int
	Space() int

	Clear()

	// Slice returns a buffer sharing storage and reference count with an
	// independent cursor. The source is retained by this call; the slice
	// must be released exactly once.
	Slice() Buffer

	// SliceN is Slice bounded to the first n remaining bytes.
	SliceN(n int) Buffer

	// Copy returns a deep, independent copy of the remaining bytes.
	Copy() Buffer

	// AppendTo consumes from this buffer into dst, bounded by dst's room,
	// and reports whether the entire remaining content was copied.
	AppendTo(dst *Span) bool

	// PutTo is the strict variant of AppendTo: it fails with ErrOverflow
	// when dst cannot hold all remaining bytes, copying nothing.
	PutTo(dst *Span) error

	// WriteTo asynchronously hands the remaining bytes to the sink. The
	// callback is invoked exactly once after the sink consumed them.
	WriteTo(sink Sink, last bool, cb Callback)

	// AsMutable returns the append capability of this buffer, or
	// ErrReadOnly when the implementation does not support mutation.
	AsMutable() (Mutable, error)

	DetailString() string
}

// Mutable is a Buffer that additionally supports appending.
type Mutable interface {
	Buffer

	// Append copies as many source bytes as fit, advances the source
	// cursor by the amount consumed and reports whether the source was
	// fully consumed.
	Append(src *Span) bool

	// AppendBuffer is Append through the Buffer view, allowing zero-copy
	// implementations to retain the source instead of copying.
	AppendBuffer(src Buffer) bool
}

// Empty is a zero-capacity, non-retainable buffer.
var Empty = Wrap(NewSpan(nil))

// spanBuffer carries the span-derived operations shared by the single-span
// buffer variants.
type spanBuffer struct {
	span *Span
}

func (o *spanBuffer) Span() *Span {
	return o.span
}

func (o *spanBuffer) Get() (byte, error) {
	return o.span.Get()
}

func (o *spanBuffer) GetBytes(dst []byte) int {
	return o.span.GetBytes(dst)
}

func (o *spanBuffer) Skip(n int) int {
	return o.span.Skip(n)
}

func (o *spanBuffer) Remaining() int {
	return o.span.Remaining()
}

func (o *spanBuffer) HasRemaining() bool {
	return o.span.HasRemaining()
}

func (o *spanBuffer) IsEmpty() bool {
	return o.span.IsEmpty()
}

func (o *spanBuffer) IsFull() bool {
	return o.span.IsFull()
}

func (o *spanBuffer) Capacity() int {
	return o.span.Capacity()
}

func (o *spanBuffer) Space() int {
	return o.span.Space()
}

func (o *spanBuffer) Clear() {
	o.span.Clear()
}

func (o *spanBuffer) AppendTo(dst *Span) bool {
	n := dst.Append(o.span.Bytes())
	o.span.Skip(n)

	return o.span.IsEmpty()
}

func (o *spanBuffer) PutTo(dst *Span) error {
	if dst.TailSpace() < o.span.Remaining() {
		return ErrOverflow
	}

	n := dst.Append(o.span.Bytes())
	o.span.Skip(n)

	return nil
}

func (o *spanBuffer) WriteTo(sink Sink, last bool, cb Callback) {
	sink.Write(last, o.span, cb)
}

// sliceOf retains the source and wraps a zero-copy slice of its readable
// window sharing the source's reference count.
func sliceOf(source Buffer, span *Span) Buffer {
	if source.CanRetain() {
		source.Retain()
	}

	return WrapRetainable(span, source)
}

// copyOf returns an independent deep copy of the source's remaining bytes.
func copyOf(source Buffer) Buffer {
	data := make([]byte, source.Remaining())
	copy(data, source.Span().Bytes())

	return newCounted(NewSpan(data), nil)
}

// nonRetainable wraps externally-owned memory. It cannot be retained; its
// release is a no-op that always reports reclaimable.
type nonRetainable struct {
	spanBuffer
}

// Wrap returns a non-retainable, read-only Buffer over the given span. Use it
// for caller-provided or constant memory that must look like a Buffer.
func Wrap(span *Span) Buffer {
	return &nonRetainable{
		spanBuffer: spanBuffer{span: span},
	}
}

func (o *nonRetainable) CanRetain() bool {
	return false
}

func (o *nonRetainable) Retain() {
	panic("membuf: retain of a non-retainable buffer")
}

func (o *nonRetainable) Release() bool {
	return true
}

func (o *nonRetainable) IsRetained() bool {
	return false
}

func (o *nonRetainable) Slice() Buffer {
	return sliceOf(o, o.span.Slice())
}

func (o *nonRetainable) SliceN(n int) Buffer {
	return sliceOf(o, o.span.SliceN(n))
}

func (o *nonRetainable) Copy() Buffer {
	return copyOf(o)
}

func (o *nonRetainable) AsMutable() (Mutable, error) {
	return nil, ErrReadOnly
}

func (o *nonRetainable) DetailString() string {
	return detailString("NonRetainable", o)
}

// shared is a read-only view delegating ownership to a parent Retainable.
// Slices of other buffers are shared views.
type shared struct {
	spanBuffer

	parent Retainable
}

// WrapRetainable returns a Buffer over the given span whose ownership is
// governed by the parent's reference count.
func WrapRetainable(span *Span, parent Retainable) Buffer {
	return &shared{
		spanBuffer: spanBuffer{span: span},
		parent:     parent,
	}
}

func (o *shared) CanRetain() bool {
	return o.parent.CanRetain()
}

func (o *shared) Retain() {
	o.parent.Retain()
}

func (o *shared) Release() bool {
	return o.parent.Release()
}

func (o *shared) IsRetained() bool {
	return o.parent.IsRetained()
}

func (o *shared) Slice() Buffer {
	return sliceOf(o, o.span.Slice())
}

func (o *shared) SliceN(n int) Buffer {
	return sliceOf(o, o.span.SliceN(n))
}

func (o *shared) Copy() Buffer {
	return copyOf(o)
}

func (o *shared) AsMutable() (Mutable, error) {
	return nil, ErrReadOnly
}

func (o *shared) DetailString() string {
	return detailString("Shared", o)
}

// counted owns its reference count and optionally a releaser invoked on the
// final release. Pooled buffers and deep copies are counted buffers.
type counted struct {
	spanBuffer

	refs     ReferenceCounter
	releaser func()
}

func newCounted(span *Span, releaser func()) *counted {
	return &counted{
		spanBuffer: spanBuffer{span: span},
		refs:       ReferenceCounter{refs: 1},
		releaser:   releaser,
	}
}

// WrapReleaser returns a Mutable over the given span that invokes the
// releaser once, on the release that brings the ownership count to zero.
func WrapReleaser(span *Span, releaser func()) Mutable {
	return newCounted(span, releaser)
}

func (o *counted) CanRetain() bool {
	return true
}

func (o *counted) Retain() {
	o.refs.Retain()
}

func (o *counted) Release() bool {
	if !o.refs.Release() {
		return false
	}

	if o.releaser != nil {
		o.releaser()
	}

	return true
}

func (o *counted) IsRetained() bool {
	return o.refs.IsRetained()
}

func (o *counted) Slice() Buffer {
	return sliceOf(o, o.span.Slice())
}

func (o *counted) SliceN(n int) Buffer {
	return sliceOf(o, o.span.SliceN(n))
}

func (o *counted) Copy() Buffer {
	return copyOf(o)
}

func (o *counted) Append(src *Span) bool {
	// Compaction relocates bytes; with a slice or copy retaining this
	// storage it would corrupt their view.
	if src.Remaining() > o.span.TailSpace() && !o.IsRetained() {
		o.span.Compact()
	}

	n := o.span.Append(src.Bytes())
	src.Skip(n)

	return src.IsEmpty()
}

func (o *counted) AppendBuffer(src Buffer) bool {
	if src.IsEmpty() {
		return true
	}

	return o.Append(src.Span())
}

func (o *counted) AsMutable() (Mutable, error) {
	return o, nil
}

func (o *counted) DetailString() string {
	return detailString("Counted", o)
}
