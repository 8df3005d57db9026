package buf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatorAppend(t *testing.T) {
	pool := newCountingPool()

	agg, err := NewAggregator(pool, false, 8, 32)
	require.NoError(t, err)

	assert.True(t, agg.Append(NewSpan([]byte("abcdef"))))
	assert.Equal(t, 6, agg.Remaining())
	assert.Equal(t, 32, agg.Capacity())
	assert.Equal(t, []int{8}, pool.sizes)

	assert.True(t, agg.Release())
}

func TestAggregatorGrowth(t *testing.T) {
	pool := newCountingPool()

	agg, err := NewAggregator(pool, false, 8, 32)
	require.NoError(t, err)

	assert.True(t, agg.Append(NewSpan([]byte("abcdef"))))
	assert.True(t, agg.Append(NewSpan([]byte("ghijkl"))))

	// One reallocation, rounded up to the next multiple of the grow step.
	assert.Equal(t, []int{8, 16}, pool.sizes)
	assert.Equal(t, 12, agg.Remaining())

	dst := make([]byte, 16)
	n := agg.GetBytes(dst)
	assert.Equal(t, "abcdefghijkl", string(dst[:n]))

	assert.True(t, agg.Release())
}

func TestAggregatorClampedGrowthAndPartialAppend(t *testing.T) {
	pool := newCountingPool()

	agg, err := NewAggregator(pool, false, 8, 32)
	require.NoError(t, err)

	assert.True(t, agg.Append(NewSpan([]byte("abcdefghijkl"))))

	src := NewSpan([]byte("mnopqrstuvwxyz0123456789"))
	assert.False(t, agg.Append(src))

	assert.Equal(t, []int{8, 24, 32}, pool.sizes)
	assert.Equal(t, 32, agg.Remaining())
	assert.True(t, agg.IsFull())
	assert.Equal(t, 0, agg.Space())

	// The untaken suffix stays readable from the source.
	assert.Equal(t, "6789", string(src.Bytes()))

	assert.True(t, agg.Release())
}

func TestAggregatorGrowByTooLarge(t *testing.T) {
	_, err := NewAggregator(nil, false, 64, 32)
	assert.Equal(t, ErrGrowByTooLarge, err)
}

func TestAggregatorDefaultGrowBy(t *testing.T) {
	agg, err := NewAggregator(nil, false, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, maxAllowedCapacity, agg.Capacity())
	assert.True(t, agg.Append(NewSpan([]byte("abc"))))
	assert.Equal(t, 3, agg.Remaining())

	assert.True(t, agg.Release())
}

func TestAggregatorAppendBuffer(t *testing.T) {
	agg, err := NewAggregator(nil, false, 8, 32)
	require.NoError(t, err)

	src := WrapReleaser(NewSpan([]byte("abc")), nil)
	assert.True(t, agg.AppendBuffer(src))
	assert.True(t, src.IsEmpty())
	assert.Equal(t, 3, agg.Remaining())

	assert.True(t, src.Release())
	assert.True(t, agg.Release())
}

func TestAggregatorCopy(t *testing.T) {
	agg, err := NewAggregator(nil, false, 8, 32)
	require.NoError(t, err)

	assert.True(t, agg.Append(NewSpan([]byte("hello"))))

	cp := agg.Copy()
	assert.True(t, agg.Append(NewSpan([]byte("!!"))))

	assert.Equal(t, "hello", string(cp.Span().Bytes()))
	assert.Equal(t, 7, agg.Remaining())

	assert.False(t, agg.Release())
	assert.True(t, cp.Release())
}

func TestAggregatorCopyStableAcrossAppend(t *testing.T) {
	pool := newCountingPool()

	agg, err := NewAggregator(pool, false, 8, 32)
	require.NoError(t, err)

	assert.True(t, agg.Append(NewSpan([]byte("abcdef"))))
	agg.Skip(4)

	cp := agg.Copy()
	assert.Equal(t, "ef", string(cp.Span().Bytes()))

	// The tail lacks room and the copy retains the backing buffer, so the
	// append reallocates instead of relocating the shared bytes.
	assert.True(t, agg.Append(NewSpan([]byte("wxyz"))))
	assert.Equal(t, []int{8, 16}, pool.sizes)

	dst := make([]byte, 8)
	n := agg.GetBytes(dst)
	assert.Equal(t, "efwxyz", string(dst[:n]))

	assert.Equal(t, "ef", string(cp.Span().Bytes()))

	assert.True(t, agg.Release())
	assert.True(t, cp.Release())
}

func TestAggregatorClearWhenRetained(t *testing.T) {
	pool := newCountingPool()

	agg, err := NewAggregator(pool, false, 8, 32)
	require.NoError(t, err)

	assert.True(t, agg.Append(NewSpan([]byte("hello"))))

	cp := agg.Copy()

	agg.Clear()
	assert.True(t, agg.IsEmpty())
	assert.Equal(t, []int{8, 8}, pool.sizes)

	// The copy keeps the old backing buffer alive.
	assert.Equal(t, "hello", string(cp.Span().Bytes()))
	assert.True(t, cp.Release())

	assert.True(t, agg.Append(NewSpan([]byte("world"))))
	assert.Equal(t, 5, agg.Remaining())

	assert.True(t, agg.Release())
}

func TestAggregatorClearReusesOwnBuffer(t *testing.T) {
	pool := newCountingPool()

	agg, err := NewAggregator(pool, false, 8, 32)
	require.NoError(t, err)

	assert.True(t, agg.Append(NewSpan([]byte("hello"))))

	agg.Clear()
	assert.True(t, agg.IsEmpty())
	assert.Equal(t, []int{8}, pool.sizes)

	assert.True(t, agg.Release())
}
