package cellstyle

// memo holds a lazily computed value that is invalidated on write.
type memo[T any] struct {
	ok bool
	v  T
}

// get returns the cached value, computing it with fn when stale.
func (m *memo[T]) get(fn func() T) T {
	if !m.ok {
		m.v = fn()
		m.ok = true
	}
	return m.v
}

// valid reports whether a value is cached.
func (m *memo[T]) valid() bool { return m.ok }

// reset drops the cached value.
func (m *memo[T]) reset() {
	var zero T
	m.v = zero
	m.ok = false
}
