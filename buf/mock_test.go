package buf

import (
	"github.com/stretchr/testify/mock"
)

var (
	_ Sink   = (*mockSink)(nil)
	_ Sink   = (*gatedSink)(nil)
	_ Pool   = (*countingPool)(nil)
	_ Buffer = (*flakyBuffer)(nil)
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Write(last bool, span *Span, cb Callback) {
	m.Called(last, string(span.Bytes()))

	span.Skip(span.Remaining())
	cb(nil)
}

// gatedSink consumes each write but holds its callback until the test
// completes it, simulating a sink that finishes asynchronously.
type gatedSink struct {
	writes []string
	lasts  []bool
	cbs    []Callback
}

func (o *gatedSink) Write(last bool, span *Span, cb Callback) {
	o.writes = append(o.writes, string(span.Bytes()))
	o.lasts = append(o.lasts, last)
	o.cbs = append(o.cbs, cb)

	span.Skip(span.Remaining())
}

func (o *gatedSink) complete(i int, err error) {
	o.cbs[i](err)
}

// flakyBuffer simulates a buffer mutated concurrently with rendering: reads
// through its slices blow up after a few bytes.
type flakyBuffer struct {
	Buffer

	reads int
}

func (o *flakyBuffer) Slice() Buffer {
	return &flakySlice{
		Buffer: o.Buffer.Slice(),
		reads:  o.reads,
	}
}

type flakySlice struct {
	Buffer

	reads int
}

func (o *flakySlice) Get() (byte, error) {
	if o.reads == 0 {
		panic("buffer changed under the reader")
	}
	o.reads--

	return o.Buffer.Get()
}

type countingPool struct {
	inner Pool
	sizes []int
}

func newCountingPool() *countingPool {
	return &countingPool{
		inner: NonPooling{},
	}
}

func (o *countingPool) Acquire(size int, direct bool) Mutable {
	o.sizes = append(o.sizes, size)

	return o.inner.Acquire(size, direct)
}
