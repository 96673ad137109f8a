package store

import (
	"errors"
	"iter"
)

var (
	ErrorEmptyStore     = errors.New("EMPTY STORE")
	ErrorValueNotFound  = errors.New("VALUE NOT FOUND")
	ErrorRankOutOfRange = errors.New("RANK OUT OF RANGE")
	ErrorUnknownBackend = errors.New("UNKNOWN BACKEND")
)

// Backend names accepted by New.
const (
	BackendSortedList = "sortedlist"
	BackendOSTree     = "ostree"
	BackendBTree      = "btree"
)

// DefaultBTreeDegree is the degree used when the btree backend is built by name.
const DefaultBTreeDegree = 32

// ReadingStore is an ordered multiset of sensor readings. Equal readings are
// kept as distinct elements.
//
// Implementations are not safe for concurrent use.
type ReadingStore interface {
	// Name returns a stable human readable label of the backend.
	Name() string

	// Size returns the number of stored readings.
	Size() int

	// Insert adds one occurrence of value.
	Insert(value float64)

	// Remove deletes one occurrence of value, the first one met by the
	// backend's traversal. ErrorValueNotFound is returned and the store is
	// left untouched if value is absent.
	Remove(value float64) error

	// Min returns the smallest stored reading.
	Min() (float64, error)

	// Max returns the largest stored reading.
	Max() (float64, error)

	// Median returns the middle reading for an odd count, the mean of the
	// two middle readings otherwise.
	Median() (float64, error)

	// Kth returns the reading at 0-indexed rank k in ascending order.
	Kth(k int) (float64, error)

	// RangeQuery calls visit for every reading v with lo <= v <= hi in
	// ascending order. Returning false from visit stops the query.
	RangeQuery(lo, hi float64, visit func(float64) bool)

	// Ascend returns all readings in ascending order. Every call starts a
	// new pass; the store must not be mutated while a pass is running.
	Ascend() iter.Seq[float64]
}

// New returns an empty store of the named backend.
func New(backend string) (ReadingStore, error) {
	switch backend {
	case BackendSortedList:
		return NewSortedList(), nil
	case BackendOSTree:
		return NewOSTree(), nil
	case BackendBTree:
		return NewBTree(DefaultBTreeDegree), nil
	}
	return nil, ErrorUnknownBackend
}

// Backends lists every backend name accepted by New.
func Backends() []string {
	return []string{BackendSortedList, BackendOSTree, BackendBTree}
}

func median(n int, kth func(int) float64) float64 {
	if n%2 != 0 {
		return kth(n / 2)
	}
	lo, hi := kth((n-1)/2), kth(n/2)
	return (lo + hi) / 2
}
