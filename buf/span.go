package buf

// Span is a contiguous run of bytes with an independent read cursor and fill
// limit. Readable bytes are the window between the cursor and the limit;
// the rest of the capacity is room for appending.
type Span struct {
	data []byte
	pos  int
	lim  int
}

// NewSpan returns a span whose whole backing slice is readable.
func NewSpan(data []byte) *Span {
	return &Span{
		data: data,
		lim:  len(data),
	}
}

// NewFillSpan returns an empty span over the backing slice, ready for append.
func NewFillSpan(data []byte) *Span {
	return &Span{
		data: data,
	}
}

// Bytes returns the readable window. The slice aliases the backing storage.
func (o *Span) Bytes() []byte {
	return o.data[o.pos:o.lim]
}

func (o *Span) Capacity() int {
	return len(o.data)
}

func (o *Span) Remaining() int {
	return o.lim - o.pos
}

func (o *Span) HasRemaining() bool {
	return o.lim > o.pos
}

func (o *Span) IsEmpty() bool {
	return o.lim == o.pos
}

func (o *Span) Space() int {
	return len(o.data) - o.Remaining()
}

func (o *Span) IsFull() bool {
	return o.Space() == 0
}

func (o *Span) Get() (byte, error) {
	if o.pos >= o.lim {
		return 0, ErrUnderflow
	}

	b := o.data[o.pos]
	o.pos++

	return b, nil
}

// GetBytes consumes up to len(dst) bytes into dst and returns the number
// actually copied. An empty span copies nothing.
func (o *Span) GetBytes(dst []byte) int {
	n := copy(dst, o.data[o.pos:o.lim])
	o.pos += n

	return n
}

// Skip advances the read cursor by up to n bytes and returns the actual count.
func (o *Span) Skip(n int) int {
	if n <= 0 {
		return 0
	}

	if remaining := o.Remaining(); n > remaining {
		n = remaining
	}

	o.pos += n

	return n
}

// Append copies as many bytes of p as fit at the tail and returns the number
// copied. Bytes are never relocated; Compact reclaims consumed room.
func (o *Span) Append(p []byte) int {
	n := copy(o.data[o.lim:], p)
	o.lim += n

	return n
}

// TailSpace is the room available at the tail without relocating the
// readable window.
func (o *Span) TailSpace() int {
	return len(o.data) - o.lim
}

// Compact moves the readable window to the front of the storage, reclaiming
// the room of already consumed bytes. It must not be called while a slice
// aliasing this storage is outstanding.
func (o *Span) Compact() {
	if o.pos == 0 {
		return
	}

	copy(o.data, o.data[o.pos:o.lim])
	o.lim -= o.pos
	o.pos = 0
}

func (o *Span) Clear() {
	o.pos = 0
	o.lim = 0
}

// Slice returns a new span over the readable window, sharing backing storage
// with an independent cursor. The slice cannot append past the shared window.
func (o *Span) Slice() *Span {
	return NewSpan(o.data[o.pos:o.lim:o.lim])
}

// SliceN is Slice bounded to the first n readable bytes.
func (o *Span) SliceN(n int) *Span {
	if remaining := o.Remaining(); n > remaining {
		n = remaining
	}

	end := o.pos + n

	return NewSpan(o.data[o.pos:end:end])
}
