package bench

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsort/kvdb"
	psort "parsort/sort"
)

func TestRun(t *testing.T) {
	opts := Options{
		Sizes:    []int{0, 500},
		Workers:  []int{1, 3},
		Runs:     2,
		Storages: append([]string{StorageMemory, StorageFile}, kvdb.Backends()...),
		Dir:      t.TempDir(),
		Seed:     42,
	}

	results, err := Run(opts)
	require.NoError(t, err)

	// 크기 2 x 저장소 5 x (표준정렬+머지 1회씩 + 병렬 2종 x 워커 2) x 반복 2
	assert.Len(t, results, 2*5*(1+1+2*2)*2)
	for _, r := range results {
		assert.Contains(t, Algorithms(), r.Algorithm)
		assert.GreaterOrEqual(t, r.Workers, 1)
		assert.NotEmpty(t, r.StorageType)
	}
}

func TestRunInvalidWorkers(t *testing.T) {
	_, err := Run(Options{Sizes: []int{10}, Workers: []int{0}, Storages: []string{StorageMemory}})
	assert.Equal(t, psort.ErrInvalidWorkers, errors.Cause(err))
}

func TestRunUnknownStorage(t *testing.T) {
	_, err := Run(Options{Sizes: []int{10}, Workers: []int{1}, Storages: []string{"tape"}, Dir: t.TempDir()})
	assert.Equal(t, kvdb.ErrUnknownBackend, errors.Cause(err))
}

func TestRunBenchmarkUnknownAlgorithm(t *testing.T) {
	_, err := runBenchmark("bogosort", []uint64{2, 1}, []uint64{1, 2}, 1)
	assert.Error(t, err)
}

func TestRunBenchmarkDetectsWrongOutput(t *testing.T) {
	// 정렬은 됐지만 입력의 순열이 아닌 결과는 실패해야 함
	_, err := runBenchmark(AlgoMergeSort, []uint64{3, 1, 2}, []uint64{1, 2, 4}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not the sorted input")

	res, err := runBenchmark(AlgoParallel, []uint64{3, 1, 2}, []uint64{1, 2, 3}, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Workers)
}

func TestReports(t *testing.T) {
	results := []Result{
		{Algorithm: AlgoParallel, DataSize: 10, Workers: 2, StorageType: StorageMemory, TestRun: 1, Duration: 2 * time.Millisecond, MemoryUsage: 100},
		{Algorithm: AlgoParallel, DataSize: 10, Workers: 2, StorageType: StorageMemory, TestRun: 2, Duration: 4 * time.Millisecond, MemoryUsage: 300},
		{Algorithm: AlgoStdlib, DataSize: 10, Workers: 1, StorageType: StorageMemory, TestRun: 1, Duration: time.Millisecond, MemoryUsage: 0},
	}

	summaries := summarize(results)
	require.Len(t, summaries, 2)
	assert.Equal(t, AlgoStdlib, summaries[0].Algorithm)
	assert.Equal(t, 3*time.Millisecond, summaries[1].AvgDuration)
	assert.Equal(t, uint64(200), summaries[1].AvgMemory)

	md := Markdown(results)
	assert.Contains(t, md, "## memory - 10개 데이터")
	assert.Contains(t, md, "병렬머지소트(트리)")

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "results.json")
	require.NoError(t, SaveJSON(jsonPath, results))
	require.NoError(t, SaveMarkdown(filepath.Join(dir, "results.md"), results))

	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded []Result
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, results, decoded)
}
