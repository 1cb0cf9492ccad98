package domain

// Queue is a FIFO buffer. The zero value is ready to use. It is not safe for concurrent use:
// queues are only touched from the server loop.
type Queue[T any] struct {
	items []T
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

func (q *Queue[T]) Push(item T) {
	q.items = append(q.items, item)
}

// Peek returns the oldest item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}

// Pop removes and returns the oldest item. An empty queue returns false.
func (q *Queue[T]) Pop() (T, bool) {
	item, ok := q.Peek()
	if !ok {
		return item, false
	}
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// PopN removes up to n items, oldest first.
func (q *Queue[T]) PopN(n int) []T {
	if n > len(q.items) {
		n = len(q.items)
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	copy(out, q.items[:n])
	clear(q.items[:n])
	q.items = q.items[n:]
	return out
}

func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Items returns a copy of the queued items, oldest first.
func (q *Queue[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
