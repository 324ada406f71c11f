// Package store provides bounded, append-only in-memory sequences for
// readings, alerts, and maintenance tasks. When a sequence is full the
// oldest entry is silently evicted; eviction is a capacity policy, not a
// failure mode. Readers always get a copy, never the live slice.
package store

import "sync"

// Log is a fixed-capacity ordered sequence, oldest first. Safe for
// concurrent use.
type Log[T any] struct {
	mu       sync.Mutex
	capacity int
	items    []T
}

// NewLog creates a Log with the given capacity. Capacity must be
// positive; config validation enforces this before construction.
func NewLog[T any](capacity int) *Log[T] {
	return &Log[T]{
		capacity: capacity,
		items:    make([]T, 0, capacity),
	}
}

// Append adds an entry, evicting the oldest one when full.
func (l *Log[T]) Append(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.items) >= l.capacity {
		copy(l.items, l.items[1:])
		l.items = l.items[:len(l.items)-1]
	}
	l.items = append(l.items, item)
}

// Snapshot returns a copy of the current entries, most recent last.
func (l *Log[T]) Snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of stored entries.
func (l *Log[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Cap returns the configured capacity.
func (l *Log[T]) Cap() int { return l.capacity }

// Clear removes all entries, keeping the capacity.
func (l *Log[T]) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = l.items[:0]
}
