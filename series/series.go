// Package series holds chronological (date, value) sequences.
package series

import (
	"fmt"
	"iter"
	"slices"
	"time"
)

// Series stores values keyed by strictly increasing dates. Insertion order is
// the chronological order; there is no re-sorting.
type Series[T any] struct {
	days   []time.Time
	values []T
}

// New returns an empty series with room for n points.
func New[T any](n int) *Series[T] {
	return &Series[T]{days: make([]time.Time, 0, n), values: make([]T, 0, n)}
}

// Append adds a point after the latest one. It fails if on is not strictly
// after the latest date.
func (s *Series[T]) Append(on time.Time, v T) error {
	if n := len(s.days); n > 0 && !on.After(s.days[n-1]) {
		return fmt.Errorf("series: %s is not after %s", on.Format(time.DateOnly), s.days[n-1].Format(time.DateOnly))
	}
	s.days = append(s.days, on)
	s.values = append(s.values, v)
	return nil
}

// Len returns the number of points.
func (s *Series[T]) Len() int { return len(s.days) }

// Clear removes all points.
func (s *Series[T]) Clear() {
	s.days = s.days[:0]
	s.values = s.values[:0]
}

// At returns the i-th point.
func (s *Series[T]) At(i int) (time.Time, T) { return s.days[i], s.values[i] }

// First returns the earliest point, or zero values if empty.
func (s *Series[T]) First() (on time.Time, v T) {
	if len(s.days) == 0 {
		return
	}
	return s.days[0], s.values[0]
}

// Latest returns the latest point, or zero values if empty.
func (s *Series[T]) Latest() (on time.Time, v T) {
	last := len(s.days) - 1
	if last < 0 {
		return
	}
	return s.days[last], s.values[last]
}

// Dates returns a copy of the dates.
func (s *Series[T]) Dates() []time.Time { return slices.Clone(s.days) }

// Index returns the position of on, or -1.
func (s *Series[T]) Index(on time.Time) int {
	i, found := s.search(on)
	if !found {
		return -1
	}
	return i
}

// Get returns the value at exactly on.
func (s *Series[T]) Get(on time.Time) (T, bool) {
	if i := s.Index(on); i >= 0 {
		return s.values[i], true
	}
	var zero T
	return zero, false
}

// AsOf returns the point at on or, failing that, the most recent one before
// it. ok is false when on precedes every point.
func (s *Series[T]) AsOf(on time.Time) (day time.Time, v T, ok bool) {
	i, found := s.search(on)
	if found {
		return s.days[i], s.values[i], true
	}
	if i == 0 {
		return
	}
	return s.days[i-1], s.values[i-1], true
}

// All iterates over the points in chronological order.
func (s *Series[T]) All() iter.Seq2[time.Time, T] {
	return func(yield func(time.Time, T) bool) {
		for i, on := range s.days {
			if !yield(on, s.values[i]) {
				return
			}
		}
	}
}

func (s *Series[T]) search(on time.Time) (int, bool) {
	return slices.BinarySearchFunc(s.days, on, func(d, t time.Time) int {
		return d.Compare(t)
	})
}
