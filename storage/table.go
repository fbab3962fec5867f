package storage

import "sync"

// table is one keyed collection guarded by its own lock. Rows are stored by
// value and copied on the way in and out so callers never share memory with it.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]T
	order []string
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T]{rows: make(map[string]T), clone: clone}
}

func (t *table[T]) insert(id string, row T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = t.clone(row)
	return t.clone(row)
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(row), true
}

// update replaces the row with the result of fn applied to a private copy.
func (t *table[T]) update(id string, fn func(prev T, next *T)) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	next := t.clone(prev)
	fn(prev, &next)
	// fn may have assigned caller-owned pointers into next.
	t.rows[id] = t.clone(next)
	return t.clone(next), true
}

// filter returns copies of the rows accepted by keep, in insertion order.
func (t *table[T]) filter(keep func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if keep == nil || keep(&row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}

func (t *table[T]) has(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rows[id]
	return ok
}

func (t *table[T]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
