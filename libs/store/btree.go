package store

import (
	"iter"

	gbt "github.com/google/btree"
)

type btree struct {
	tree *gbt.BTreeG[bnode]
	seq  uint64
}

// bnode breaks ties between equal readings by insertion order, which lets
// the btree hold duplicates.
type bnode struct {
	value float64
	seq   uint64
}

func (a bnode) less(b bnode) bool {
	if a.value != b.value {
		return a.value < b.value
	}
	return a.seq < b.seq
}

var _ ReadingStore = (*btree)(nil)

// NewBTree returns a store backed by a google/btree of the given degree.
// Kth and Median walk the tree, so they are O(k) rather than O(log n).
func NewBTree(degree int) ReadingStore {
	return &btree{tree: gbt.NewG[bnode](degree, bnode.less)}
}

func (t *btree) Name() string {
	return "B-Tree (google/btree)"
}

// Size returns the number of nodes in the tree
func (t *btree) Size() int {
	return t.tree.Len()
}

// Insert inserts value into the tree
func (t *btree) Insert(value float64) {
	t.seq++
	t.tree.ReplaceOrInsert(bnode{value: value, seq: t.seq})
}

// Remove deletes the earliest inserted occurrence of value.
func (t *btree) Remove(value float64) error {
	var found *bnode
	t.tree.AscendGreaterOrEqual(bnode{value: value}, func(item bnode) bool {
		if item.value == value {
			found = &item
		}
		return false
	})
	if found == nil {
		return ErrorValueNotFound
	}
	t.tree.Delete(*found)
	return nil
}

func (t *btree) Min() (float64, error) {
	item, ok := t.tree.Min()
	if !ok {
		return 0, ErrorEmptyStore
	}
	return item.value, nil
}

func (t *btree) Max() (float64, error) {
	item, ok := t.tree.Max()
	if !ok {
		return 0, ErrorEmptyStore
	}
	return item.value, nil
}

func (t *btree) Median() (float64, error) {
	n := t.tree.Len()
	if n == 0 {
		return 0, ErrorEmptyStore
	}
	return median(n, t.kth), nil
}

func (t *btree) Kth(k int) (float64, error) {
	n := t.tree.Len()
	if n == 0 {
		return 0, ErrorEmptyStore
	}
	if k < 0 || k >= n {
		return 0, ErrorRankOutOfRange
	}
	return t.kth(k), nil
}

func (t *btree) kth(k int) float64 {
	var value float64
	t.tree.Ascend(func(item bnode) bool {
		if k == 0 {
			value = item.value
			return false
		}
		k--
		return true
	})
	return value
}

func (t *btree) RangeQuery(lo, hi float64, visit func(float64) bool) {
	if lo > hi {
		return
	}
	t.tree.AscendGreaterOrEqual(bnode{value: lo}, func(item bnode) bool {
		if item.value > hi {
			return false
		}
		return visit(item.value)
	})
}

func (t *btree) Ascend() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		t.tree.Ascend(func(item bnode) bool {
			return yield(item.value)
		})
	}
}
