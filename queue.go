package bufferstream

// queue is a growable FIFO ring of elements. It backs the stream buffer:
// appended to while collecting, replaced once, then drained.
type queue[T any] struct {
	data    []T
	readPos int
	size    int
}

// newQueue creates a queue holding items in order.
// The queue takes ownership of items.
func newQueue[T any](items []T) *queue[T] {
	return &queue[T]{data: items, size: len(items)}
}

// push appends v, growing the ring when full.
func (q *queue[T]) push(v T) {
	if q.size == len(q.data) {
		q.grow()
	}
	q.data[(q.readPos+q.size)%len(q.data)] = v
	q.size++
}

// front returns a pointer to the oldest element so callers can shrink it in place.
// It must not be called on an empty queue.
func (q *queue[T]) front() *T {
	return &q.data[q.readPos]
}

// pop removes the oldest element.
func (q *queue[T]) pop() T {
	var zero T
	v := q.data[q.readPos]
	q.data[q.readPos] = zero
	q.readPos = (q.readPos + 1) % len(q.data)
	q.size--
	if q.size == 0 {
		q.readPos = 0
	}
	return v
}

// items returns the queued elements in order without draining the queue.
func (q *queue[T]) items() []T {
	out := make([]T, 0, q.size)
	if q.size == 0 {
		return out
	}
	end := q.readPos + q.size
	if end <= len(q.data) {
		return append(out, q.data[q.readPos:end]...)
	}
	out = append(out, q.data[q.readPos:]...)
	return append(out, q.data[:end-len(q.data)]...)
}

func (q *queue[T]) len() int {
	return q.size
}

func (q *queue[T]) empty() bool {
	return q.size == 0
}

// grow doubles the capacity, unwrapping the ring so readPos becomes 0.
func (q *queue[T]) grow() {
	data := make([]T, max(2*len(q.data), 8))
	copy(data, q.items())
	q.data = data
	q.readPos = 0
}
