package store

import (
	"iter"
	"slices"
)

type sortedList struct {
	data []float64
}

var _ ReadingStore = (*sortedList)(nil)

// NewSortedList returns a store backed by a slice kept in ascending order.
// Insert and Remove are O(n); Min, Max, Median and Kth are O(1).
func NewSortedList() ReadingStore {
	return &sortedList{}
}

func (l *sortedList) Name() string {
	return "Sorted List (Insertion Sort)"
}

func (l *sortedList) Size() int {
	return len(l.data)
}

// Insert appends value and moves it left one insertion-sort step at a time.
func (l *sortedList) Insert(value float64) {
	l.data = append(l.data, value)
	for i := len(l.data) - 1; i > 0 && l.data[i] < l.data[i-1]; i-- {
		l.data[i], l.data[i-1] = l.data[i-1], l.data[i]
	}
}

func (l *sortedList) Remove(value float64) error {
	for i, v := range l.data {
		if v == value {
			l.data = slices.Delete(l.data, i, i+1)
			return nil
		}
	}
	return ErrorValueNotFound
}

func (l *sortedList) Min() (float64, error) {
	if len(l.data) == 0 {
		return 0, ErrorEmptyStore
	}
	return l.data[0], nil
}

func (l *sortedList) Max() (float64, error) {
	if len(l.data) == 0 {
		return 0, ErrorEmptyStore
	}
	return l.data[len(l.data)-1], nil
}

func (l *sortedList) Median() (float64, error) {
	if len(l.data) == 0 {
		return 0, ErrorEmptyStore
	}
	return median(len(l.data), func(k int) float64 { return l.data[k] }), nil
}

func (l *sortedList) Kth(k int) (float64, error) {
	if len(l.data) == 0 {
		return 0, ErrorEmptyStore
	}
	if k < 0 || k >= len(l.data) {
		return 0, ErrorRankOutOfRange
	}
	return l.data[k], nil
}

// RangeQuery stops at the first value above hi. Only valid while data stays
// sorted, which every mutation above preserves.
func (l *sortedList) RangeQuery(lo, hi float64, visit func(float64) bool) {
	for _, v := range l.data {
		if v > hi {
			return
		}
		if v >= lo && !visit(v) {
			return
		}
	}
}

func (l *sortedList) Ascend() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for _, v := range l.data {
			if !yield(v) {
				return
			}
		}
	}
}
