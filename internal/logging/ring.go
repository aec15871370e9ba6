package logging

// Ring keeps the most recent items pushed into it, up to a fixed capacity.
// Once full, each Push drops the oldest item.
type Ring[T any] struct {
	items []T
	head  int // index of oldest item
	count int
}

// NewRing returns a Ring holding at most capacity items. A capacity below
// one is treated as one.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends item, evicting the oldest item when the ring is full.
func (r *Ring[T]) Push(item T) {
	r.items[(r.head+r.count)%len(r.items)] = item
	if r.count == len(r.items) {
		r.head = (r.head + 1) % len(r.items)
		return
	}
	r.count++
}

// Items returns the stored items oldest first.
func (r *Ring[T]) Items() []T {
	if r.count == 0 {
		return nil
	}
	out := make([]T, r.count)
	for i := range out {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}
	return out
}

// Len returns the number of stored items.
func (r *Ring[T]) Len() int { return r.count }

// Cap returns the capacity.
func (r *Ring[T]) Cap() int { return len(r.items) }
