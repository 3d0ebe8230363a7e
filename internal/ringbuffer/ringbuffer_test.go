package ringbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopPreservesOrder(t *testing.T) {
	r := New[int](4)
	r.Push(1)
	r.Push(2)
	r.Push(3)

	v, ok := r.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = r.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	assert.Equal(t, 1, r.Len())
}

func TestPopOnEmptyReportsFalse(t *testing.T) {
	r := New[float32](4)
	_, ok := r.Pop()
	assert.False(t, ok)
}

func TestPushOverwritesOldestWhenFull(t *testing.T) {
	r := New[int](2) // rounds to capacity 2
	r.Push(1)
	r.Push(2)
	r.Push(3) // drops 1

	v, ok := r.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	r := New[int](5)
	assert.Equal(t, uint64(7), r.mask) // rounds up to 8, mask = 7
}
