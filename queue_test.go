package bufferstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := newQueue[int](nil)
	for i := range 20 {
		q.push(i)
	}
	require.Equal(t, 20, q.len())

	for i := range 20 {
		assert.Equal(t, i, q.pop())
	}
	assert.True(t, q.empty())
}

func TestQueueWrapAround(t *testing.T) {
	q := newQueue([]string{"a", "b", "c", "d"})

	assert.Equal(t, "a", q.pop())
	assert.Equal(t, "b", q.pop())
	q.push("e")
	q.push("f")
	assert.Equal(t, []string{"c", "d", "e", "f"}, q.items())

	// full and wrapped: growing must keep the order
	q.push("g")
	assert.Equal(t, []string{"c", "d", "e", "f", "g"}, q.items())
	assert.Equal(t, "c", q.pop())
}

func TestQueueFront(t *testing.T) {
	q := newQueue([][]byte{[]byte("abcd")})

	front := q.front()
	*front = (*front)[2:]

	assert.Equal(t, [][]byte{[]byte("cd")}, q.items())
}

func TestQueueItemsEmpty(t *testing.T) {
	q := newQueue[int](nil)
	items := q.items()
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
