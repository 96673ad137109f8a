package store

import (
	"iter"

	"github.com/gammazero/deque"
)

// node owns its children. size counts the node and both subtrees.
type node struct {
	key         float64
	left, right *node
	size        int
}

// OSTree is an unbalanced binary search tree augmented with subtree sizes.
// Keys in a left subtree are strictly less than the node key, keys in a right
// subtree are greater or equal, so duplicates always go right.
//
// Nothing rebalances the tree: monotonic input degrades it to a chain and
// every operation to O(n).
type OSTree struct {
	root *node
}

var _ ReadingStore = (*OSTree)(nil)

// NewOSTree returns an empty order-statistics tree.
func NewOSTree() *OSTree {
	return &OSTree{}
}

func (t *OSTree) Name() string {
	return "Binary Search Tree (BST)"
}

// Size returns the number of nodes in the tree
func (t *OSTree) Size() int {
	return size(t.root)
}

// Insert inserts value into the tree
func (t *OSTree) Insert(value float64) {
	t.root = t.insert(t.root, value)
}

func (t *OSTree) insert(h *node, key float64) *node {
	if h == nil {
		return &node{key: key, size: 1}
	}
	if key < h.key {
		h.left = t.insert(h.left, key)
	} else {
		h.right = t.insert(h.right, key)
	}
	updateSize(h)
	return h
}

// Remove removes the first node holding value met on the search path.
func (t *OSTree) Remove(value float64) error {
	root, removed := t.remove(t.root, value)
	t.root = root
	if !removed {
		return ErrorValueNotFound
	}
	return nil
}

func (t *OSTree) remove(h *node, key float64) (*node, bool) {
	if h == nil {
		return nil, false
	}
	var removed bool
	switch {
	case key < h.key:
		h.left, removed = t.remove(h.left, key)
	case key > h.key:
		h.right, removed = t.remove(h.right, key)
	default:
		if h.left == nil {
			return h.right, true
		}
		if h.right == nil {
			return h.left, true
		}
		// Two children: take over the in-order successor's key.
		var successor float64
		h.right, successor = t.deleteMin(h.right)
		h.key = successor
		removed = true
	}
	if removed {
		updateSize(h)
	}
	return h, removed
}

// deleteMin unlinks the leftmost node of h and returns its key.
func (t *OSTree) deleteMin(h *node) (*node, float64) {
	if h.left == nil {
		return h.right, h.key
	}
	var key float64
	h.left, key = t.deleteMin(h.left)
	updateSize(h)
	return h, key
}

func (t *OSTree) Min() (float64, error) {
	if t.root == nil {
		return 0, ErrorEmptyStore
	}
	h := t.root
	for h.left != nil {
		h = h.left
	}
	return h.key, nil
}

func (t *OSTree) Max() (float64, error) {
	if t.root == nil {
		return 0, ErrorEmptyStore
	}
	h := t.root
	for h.right != nil {
		h = h.right
	}
	return h.key, nil
}

func (t *OSTree) Median() (float64, error) {
	n := size(t.root)
	if n == 0 {
		return 0, ErrorEmptyStore
	}
	return median(n, func(k int) float64 { return findKth(t.root, k).key }), nil
}

func (t *OSTree) Kth(k int) (float64, error) {
	n := size(t.root)
	if n == 0 {
		return 0, ErrorEmptyStore
	}
	if k < 0 || k >= n {
		return 0, ErrorRankOutOfRange
	}
	return findKth(t.root, k).key, nil
}

// findKth returns the node at rank k within the subtree of h.
// k must be in [0, size(h)).
func findKth(h *node, k int) *node {
	for h != nil {
		leftSize := size(h.left)
		switch {
		case k == leftSize:
			return h
		case k < leftSize:
			h = h.left
		default:
			k -= leftSize + 1
			h = h.right
		}
	}
	return nil
}

func (t *OSTree) RangeQuery(lo, hi float64, visit func(float64) bool) {
	if lo > hi {
		return
	}
	t.rangeQuery(t.root, lo, hi, visit)
}

// rangeQuery reports whether the traversal should go on.
func (t *OSTree) rangeQuery(h *node, lo, hi float64, visit func(float64) bool) bool {
	if h == nil {
		return true
	}
	if lo < h.key && !t.rangeQuery(h.left, lo, hi, visit) {
		return false
	}
	if h.key >= lo && h.key <= hi && !visit(h.key) {
		return false
	}
	// >= rather than >: duplicates of hi sit in the right subtree.
	if hi >= h.key {
		return t.rangeQuery(h.right, lo, hi, visit)
	}
	return true
}

// Ascend walks the tree in order with an explicit stack, so a degenerate
// chain does not translate into call depth.
func (t *OSTree) Ascend() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		var stack deque.Deque[*node]
		h := t.root
		for h != nil || stack.Len() > 0 {
			for ; h != nil; h = h.left {
				stack.PushBack(h)
			}
			h = stack.PopBack()
			if !yield(h.key) {
				return
			}
			h = h.right
		}
	}
}

// Height returns the number of nodes on the longest root to leaf path.
func (t *OSTree) Height() int {
	if t.root == nil {
		return 0
	}
	var level deque.Deque[*node]
	level.PushBack(t.root)
	height := 0
	for level.Len() > 0 {
		height++
		for i := level.Len(); i > 0; i-- {
			h := level.PopFront()
			if h.left != nil {
				level.PushBack(h.left)
			}
			if h.right != nil {
				level.PushBack(h.right)
			}
		}
	}
	return height
}

func size(h *node) int {
	if h == nil {
		return 0
	}
	return h.size
}

func updateSize(h *node) {
	h.size = 1 + size(h.left) + size(h.right)
}
