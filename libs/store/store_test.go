package store

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

type storeEnum int

const (
	enumsortedlist storeEnum = iota
	enumostree
	enumbtree
)

var allEnums = []storeEnum{enumsortedlist, enumostree, enumbtree}

func (e storeEnum) String() string {
	switch e {
	case enumsortedlist:
		return BackendSortedList
	case enumostree:
		return BackendOSTree
	case enumbtree:
		return BackendBTree
	}
	return "unknown"
}

func storeGen(enum storeEnum) ReadingStore {
	switch enum {
	case enumsortedlist:
		return NewSortedList()
	case enumostree:
		return NewOSTree()
	case enumbtree:
		// Small degree so that a few dozen values already split nodes.
		return NewBTree(2)
	}
	return nil
}

func forEachStore(t *testing.T, test func(t *testing.T, enum storeEnum)) {
	for _, enum := range allEnums {
		t.Run(enum.String(), func(t *testing.T) {
			test(t, enum)
		})
	}
}

func collect(s ReadingStore) []float64 {
	var values []float64
	for v := range s.Ascend() {
		values = append(values, v)
	}
	return values
}

func collectRange(s ReadingStore, lo, hi float64) []float64 {
	var values []float64
	s.RangeQuery(lo, hi, func(v float64) bool {
		values = append(values, v)
		return true
	})
	return values
}

func insertAll(s ReadingStore, values ...float64) {
	for _, v := range values {
		s.Insert(v)
	}
}

func TestNew(t *testing.T) {
	for _, name := range Backends() {
		s, err := New(name)
		require.NoError(t, err, "expecting backend %s to be known", name)
		require.Equal(t, 0, s.Size())
		require.NotEmpty(t, s.Name())
	}
	_, err := New("skiplist")
	require.ErrorIs(t, err, ErrorUnknownBackend)
}

func TestStoreBasics(t *testing.T) {
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		s := storeGen(enum)
		s.Insert(21.5)
		require.Equal(t, 1, s.Size(), "expecting len 1")
		require.NoError(t, s.Remove(21.5), "expecting no error when removing existed value")
		require.Equal(t, 0, s.Size(), "expecting len 0")
		require.ErrorIs(t, s.Remove(21.5), ErrorValueNotFound, "expecting error when removing nonexistent value")
		require.Equal(t, 0, s.Size())
	})
}

func TestStoreEmpty(t *testing.T) {
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		s := storeGen(enum)
		_, err := s.Min()
		require.ErrorIs(t, err, ErrorEmptyStore)
		_, err = s.Max()
		require.ErrorIs(t, err, ErrorEmptyStore)
		_, err = s.Median()
		require.ErrorIs(t, err, ErrorEmptyStore)
		_, err = s.Kth(0)
		require.ErrorIs(t, err, ErrorEmptyStore)
		require.Empty(t, collect(s))
		require.Empty(t, collectRange(s, -1e9, 1e9))
	})
}

func TestStoreZeroIsNotEmpty(t *testing.T) {
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		s := storeGen(enum)
		s.Insert(0)
		v, err := s.Min()
		require.NoError(t, err)
		require.Equal(t, 0.0, v)
		v, err = s.Median()
		require.NoError(t, err)
		require.Equal(t, 0.0, v)
	})
}

func TestStoreMedian(t *testing.T) {
	testCases := []struct {
		values []float64
		median float64
	}{
		{values: []float64{42}, median: 42},
		{values: []float64{1, 2}, median: 1.5},
		{values: []float64{5, 1, 4, 2, 3}, median: 3},
		{values: []float64{1, 2, 3, 4}, median: 2.5},
		{values: []float64{4, 3, 2, 1}, median: 2.5},
		{values: []float64{1, 2, 2, 3, 3, 4}, median: 2.5},
		{values: []float64{-1, -2, -3, -4, -5}, median: -3},
		{values: []float64{-1, 2, -3, 4, -5, 6}, median: 0.5},
		{values: []float64{7, 7, 7, 7}, median: 7},
	}
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		for i, tc := range testCases {
			s := storeGen(enum)
			insertAll(s, tc.values...)
			got, err := s.Median()
			require.NoError(t, err)
			require.Equal(t, tc.median, got, "expecting equal median at testcase %d", i)
		}
	})
}

func TestStoreRemoveExample(t *testing.T) {
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		s := storeGen(enum)
		insertAll(s, 5, 1, 4, 2, 3)
		require.Equal(t, []float64{1, 2, 3, 4, 5}, collect(s))
		require.NoError(t, s.Remove(3))
		require.Equal(t, []float64{1, 2, 4, 5}, collect(s))
		median, err := s.Median()
		require.NoError(t, err)
		require.Equal(t, 3.0, median)
	})
}

func TestStoreDuplicates(t *testing.T) {
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		s := storeGen(enum)
		insertAll(s, 2, 1, 2, 3, 2)
		require.Equal(t, 5, s.Size())
		require.Equal(t, []float64{1, 2, 2, 2, 3}, collect(s))
		require.Equal(t, []float64{2, 2, 2}, collectRange(s, 2, 2))

		require.NoError(t, s.Remove(2))
		require.Equal(t, []float64{1, 2, 2, 3}, collect(s))
		require.NoError(t, s.Remove(2))
		require.NoError(t, s.Remove(2))
		require.ErrorIs(t, s.Remove(2), ErrorValueNotFound)
		require.Equal(t, []float64{1, 3}, collect(s))
	})
}

func TestStoreMinMax(t *testing.T) {
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		s := storeGen(enum)
		insertAll(s, 30.1, 15.2, 44.9, 22.0, 15.2)
		minVal, err := s.Min()
		require.NoError(t, err)
		require.Equal(t, 15.2, minVal)
		maxVal, err := s.Max()
		require.NoError(t, err)
		require.Equal(t, 44.9, maxVal)

		require.NoError(t, s.Remove(44.9))
		maxVal, err = s.Max()
		require.NoError(t, err)
		require.Equal(t, 30.1, maxVal)
	})
}

func TestStoreKth(t *testing.T) {
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		s := storeGen(enum)
		insertAll(s, 9, 3, 7, 1, 5)
		for k, want := range []float64{1, 3, 5, 7, 9} {
			got, err := s.Kth(k)
			require.NoError(t, err)
			require.Equal(t, want, got, "expecting rank %d", k)
		}
		_, err := s.Kth(-1)
		require.ErrorIs(t, err, ErrorRankOutOfRange)
		_, err = s.Kth(5)
		require.ErrorIs(t, err, ErrorRankOutOfRange)
	})
}

func TestStoreRangeQuery(t *testing.T) {
	testCases := []struct {
		lo, hi   float64
		expected []float64
	}{
		{lo: 2, hi: 4, expected: []float64{2, 3, 4}},
		{lo: 0, hi: 10, expected: []float64{1, 2, 3, 4, 5}},
		{lo: 1, hi: 1, expected: []float64{1}},
		{lo: 5, hi: 5, expected: []float64{5}},
		{lo: 2.5, hi: 3.5, expected: []float64{3}},
		{lo: 5.5, hi: 9, expected: nil},
		{lo: -3, hi: 0.5, expected: nil},
		{lo: 4, hi: 2, expected: nil},
	}
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		s := storeGen(enum)
		insertAll(s, 3, 1, 4, 5, 2)
		for i, tc := range testCases {
			require.Equal(t, tc.expected, collectRange(s, tc.lo, tc.hi), "expecting equal range at testcase %d", i)
		}
	})
}

func TestStoreRangeQueryStop(t *testing.T) {
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		s := storeGen(enum)
		insertAll(s, 6, 2, 8, 1, 4, 3, 7, 5)
		var visited []float64
		s.RangeQuery(2, 7, func(v float64) bool {
			visited = append(visited, v)
			return len(visited) < 3
		})
		require.Equal(t, []float64{2, 3, 4}, visited)
	})
}

func TestStoreAscendRestart(t *testing.T) {
	forEachStore(t, func(t *testing.T, enum storeEnum) {
		s := storeGen(enum)
		insertAll(s, 3, 1, 2)
		seq := s.Ascend()
		for v := range seq {
			require.Equal(t, 1.0, v)
			break
		}
		var values []float64
		for v := range seq {
			values = append(values, v)
		}
		require.Equal(t, []float64{1, 2, 3}, values)
	})
}

// TestStoreRandomOperations replays one seeded script of inserts and removes
// on every backend and checks each checkpoint against a sorted reference.
func TestStoreRandomOperations(t *testing.T) {
	const steps = 2000
	rng := rand.New(rand.NewPCG(7, 11))
	type op struct {
		insert bool
		value  float64
	}
	script := make([]op, steps)
	for i := range script {
		// Few distinct values so that removes hit more often than not.
		script[i] = op{insert: rng.IntN(3) != 0, value: float64(rng.IntN(50)) / 2}
	}

	stores := make([]ReadingStore, len(allEnums))
	for i, enum := range allEnums {
		stores[i] = storeGen(enum)
	}
	var reference []float64
	for i, o := range script {
		removed := false
		if o.insert {
			reference = append(reference, o.value)
			slices.Sort(reference)
		} else if j := slices.Index(reference, o.value); j >= 0 {
			reference = slices.Delete(reference, j, j+1)
			removed = true
		}
		for j, s := range stores {
			if o.insert {
				s.Insert(o.value)
			} else if removed {
				require.NoError(t, s.Remove(o.value), "%s step %d", allEnums[j], i)
			} else {
				require.ErrorIs(t, s.Remove(o.value), ErrorValueNotFound, "%s step %d", allEnums[j], i)
			}
			require.Equal(t, len(reference), s.Size(), "%s step %d", allEnums[j], i)
		}
		if i%50 != 0 || len(reference) == 0 {
			continue
		}
		lo, hi := float64(rng.IntN(25)), float64(rng.IntN(25))
		for _, s := range stores {
			require.Equal(t, reference, collect(s), s.Name())
			checkQueries(t, s, reference, lo, hi)
		}
	}
}

func checkQueries(t *testing.T, s ReadingStore, reference []float64, lo, hi float64) {
	t.Helper()
	n := len(reference)
	minVal, err := s.Min()
	require.NoError(t, err)
	require.Equal(t, reference[0], minVal, s.Name())
	maxVal, err := s.Max()
	require.NoError(t, err)
	require.Equal(t, reference[n-1], maxVal, s.Name())

	expectedMedian := reference[n/2]
	if n%2 == 0 {
		expectedMedian = (reference[(n-1)/2] + reference[n/2]) / 2
	}
	med, err := s.Median()
	require.NoError(t, err)
	require.Equal(t, expectedMedian, med, s.Name())

	var expectedRange []float64
	for _, v := range reference {
		if v >= lo && v <= hi {
			expectedRange = append(expectedRange, v)
		}
	}
	require.Equal(t, expectedRange, collectRange(s, lo, hi), "%s range [%v, %v]", s.Name(), lo, hi)
}

func BenchmarkSortedListInsert(b *testing.B) {
	benchmarkInsert(b, enumsortedlist)
}

func BenchmarkOSTreeInsert(b *testing.B) {
	benchmarkInsert(b, enumostree)
}

func BenchmarkBTreeInsert(b *testing.B) {
	benchmarkInsert(b, enumbtree)
}

func benchmarkInsert(b *testing.B, enum storeEnum) {
	rng := rand.New(rand.NewPCG(1, 1))
	values := make([]float64, b.N)
	for i := range values {
		values[i] = 15 + rng.Float64()*30
	}
	s := storeGen(enum)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Insert(values[i])
	}
}

func BenchmarkSortedListMedian(b *testing.B) {
	benchmarkMedian(b, enumsortedlist)
}

func BenchmarkOSTreeMedian(b *testing.B) {
	benchmarkMedian(b, enumostree)
}

func BenchmarkBTreeMedian(b *testing.B) {
	benchmarkMedian(b, enumbtree)
}

func benchmarkMedian(b *testing.B, enum storeEnum) {
	rng := rand.New(rand.NewPCG(1, 1))
	s := storeGen(enum)
	for i := 0; i < 10000; i++ {
		s.Insert(15 + rng.Float64()*30)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Median()
	}
}

func BenchmarkSortedListRemove(b *testing.B) {
	benchmarkRemove(b, enumsortedlist)
}

func BenchmarkOSTreeRemove(b *testing.B) {
	benchmarkRemove(b, enumostree)
}

func BenchmarkBTreeRemove(b *testing.B) {
	benchmarkRemove(b, enumbtree)
}

func benchmarkRemove(b *testing.B, enum storeEnum) {
	b.StopTimer()
	rng := rand.New(rand.NewPCG(1, 1))
	values := make([]float64, b.N)
	for i := range values {
		values[i] = 15 + rng.Float64()*30
	}
	s := storeGen(enum)
	for i := 0; i < b.N; i++ {
		s.Insert(values[i])
	}
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Remove(values[i])
	}
}
