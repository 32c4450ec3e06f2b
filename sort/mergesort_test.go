package sort

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomData(r *rand.Rand, n int, max uint64) []uint64 {
	data := make([]uint64, n)
	for i := range data {
		data[i] = r.Uint64() % max
	}
	return data
}

func TestMerge(t *testing.T) {
	v1 := []uint64{1, 2, 5, 7, 11}
	v2 := []uint64{2, 3, 4, 5, 8, 9, 14}
	expected := []uint64{1, 2, 2, 3, 4, 5, 5, 7, 8, 9, 11, 14}

	assert.Equal(t, expected, Merge(v1, v2))
}

func TestMergeEmpty(t *testing.T) {
	tests := []struct {
		name  string
		left  []uint64
		right []uint64
		want  []uint64
	}{
		{"both nil", nil, nil, []uint64{}},
		{"left empty", []uint64{}, []uint64{3, 4}, []uint64{3, 4}},
		{"right empty", []uint64{1, 9}, nil, []uint64{1, 9}},
		{"disjoint ranges", []uint64{10, 11}, []uint64{1, 2}, []uint64{1, 2, 10, 11}},
		{"all equal", []uint64{7, 7}, []uint64{7}, []uint64{7, 7, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.left, tt.right))
		})
	}
}

func TestMergeProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for range 200 {
		a := randomData(r, r.Intn(50), 20)
		b := randomData(r, r.Intn(50), 20)
		slices.Sort(a)
		slices.Sort(b)

		merged := Merge(a, b)

		require.Len(t, merged, len(a)+len(b))
		assert.True(t, slices.IsSorted(merged))

		union := append(slices.Clone(a), b...)
		slices.Sort(union)
		assert.Equal(t, union, merged)
	}
}

func TestSequentialSort(t *testing.T) {
	v1 := []uint64{5, 1, 67, 2345, 875, 235, 573568, 8967, 325, 78, 252, 1, 8, 579, 324, 80}
	v2 := []uint64{1, 1, 5, 8, 67, 78, 80, 235, 252, 324, 325, 579, 875, 2345, 8967, 573568}

	assert.Equal(t, v2, SequentialSort(v1))
}

func TestSequentialSortBaseCases(t *testing.T) {
	assert.Empty(t, SequentialSort(nil))
	assert.Empty(t, SequentialSort([]uint64{}))
	assert.Equal(t, []uint64{42}, SequentialSort([]uint64{42}))
	assert.Equal(t, []uint64{0, ^uint64(0)}, SequentialSort([]uint64{^uint64(0), 0}))
}

func TestSequentialSortProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for range 100 {
		data := randomData(r, r.Intn(500), 1000)
		original := slices.Clone(data)

		sorted := SequentialSort(data)

		expected := slices.Clone(data)
		slices.Sort(expected)
		if len(expected) == 0 {
			assert.Empty(t, sorted)
		} else {
			assert.Equal(t, expected, sorted)
		}
		// 입력은 그대로여야 함
		assert.Equal(t, original, data)
		// 멱등성
		assert.Equal(t, sorted, SequentialSort(sorted))
	}
}

func BenchmarkSequentialSort(b *testing.B) {
	data := randomData(rand.New(rand.NewSource(42)), 100_000, 1_000_000)
	b.ResetTimer()
	for range b.N {
		SequentialSort(data)
	}
}
