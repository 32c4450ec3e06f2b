// Package bench 정렬 알고리즘 벤치마크 (순차/병렬 머지소트, 표준 라이브러리 정렬 기준선).
package bench

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"

	"parsort/kvdb"
	"parsort/numio"
	psort "parsort/sort"
)

const (
	AlgoMergeSort    = "mergesort"
	AlgoParallel     = "parallel_mergesort"
	AlgoParallelFold = "parallel_mergesort_fold"
	AlgoStdlib       = "stdlib_sort"

	StorageMemory = "memory"
	StorageFile   = "file"
)

const (
	benchDatasetName  = "bench"
	defaultValueBound = 1_000_000
)

// Algorithms 벤치마크 대상 알고리즘
func Algorithms() []string {
	return []string{AlgoStdlib, AlgoMergeSort, AlgoParallel, AlgoParallelFold}
}

// Result 벤치마크 한 회의 결과
type Result struct {
	Algorithm    string        `json:"algorithm"`
	DataSize     int           `json:"data_size"`
	Workers      int           `json:"workers"`
	StorageType  string        `json:"storage_type"`
	TestRun      int           `json:"test_run"`
	Duration     time.Duration `json:"duration"`
	LoadDuration time.Duration `json:"load_duration"`
	MemoryUsage  uint64        `json:"memory_usage_bytes"`
	GoroutineNum int           `json:"goroutine_num"`
}

// Options 벤치마크 설정
type Options struct {
	Sizes    []int
	Workers  []int
	Runs     int
	Storages []string // memory, file, 또는 kvdb 백엔드 이름
	Dir      string   // file/kvdb 저장 위치
	Seed     int64
}

// DefaultOptions 원래 벤치마크와 같은 1천/1만/10만개 구성
func DefaultOptions() Options {
	return Options{
		Sizes:    []int{1000, 10000, 100000},
		Workers:  []int{1, 2, 4, runtime.NumCPU()},
		Runs:     3,
		Storages: []string{StorageMemory},
		Seed:     42,
	}
}

// loader 저장소 종류마다 매 회 데이터를 다시 읽어오는 함수
type loader func() ([]uint64, error)

// Run 크기 x 저장소 x 알고리즘 x 워커 수 x 반복 횟수만큼 실행
func Run(opts Options) ([]Result, error) {
	if opts.Runs < 1 {
		opts.Runs = 1
	}
	for _, w := range opts.Workers {
		if w < 1 {
			return nil, errors.Wrapf(psort.ErrInvalidWorkers, "bench workers %d", w)
		}
	}
	if opts.Dir == "" {
		dir, err := os.MkdirTemp("", "parsort-bench-")
		if err != nil {
			return nil, errors.Wrap(err, "bench dir")
		}
		defer os.RemoveAll(dir)
		opts.Dir = dir
	}

	var results []Result
	for _, size := range opts.Sizes {
		data := numio.Generate(size, opts.Seed, defaultValueBound)
		expected := slices.Clone(data)
		slices.Sort(expected)

		for _, storage := range opts.Storages {
			jww.INFO.Printf("benchmarking %d items (%s)", size, storage)

			load, cleanup, err := prepare(storage, opts.Dir, data)
			if err != nil {
				return nil, err
			}
			res, err := runStorage(storage, load, expected, opts)
			cleanup()
			if err != nil {
				return nil, err
			}
			results = append(results, res...)
		}
	}
	return results, nil
}

func runStorage(storage string, load loader, expected []uint64, opts Options) ([]Result, error) {
	var results []Result
	for _, algo := range Algorithms() {
		workers := opts.Workers
		if algo == AlgoMergeSort || algo == AlgoStdlib {
			workers = []int{1}
		}
		for _, w := range workers {
			for run := 1; run <= opts.Runs; run++ {
				jww.DEBUG.Printf("  %s workers=%d run=%d", algo, w, run)

				loadStart := time.Now()
				testData, err := load()
				if err != nil {
					return nil, err
				}
				loadTime := time.Since(loadStart)

				result, err := runBenchmark(algo, testData, expected, w)
				if err != nil {
					return nil, err
				}
				result.StorageType = storage
				result.DataSize = len(expected)
				result.TestRun = run
				result.LoadDuration = loadTime
				results = append(results, result)
			}
		}
	}
	return results, nil
}

// prepare 저장소에 데이터를 한 번 써두고, 매 회 읽어올 loader를 돌려준다
func prepare(storage, dir string, data []uint64) (loader, func(), error) {
	switch storage {
	case StorageMemory:
		load := func() ([]uint64, error) { return slices.Clone(data), nil }
		return load, func() {}, nil
	case StorageFile:
		filename := filepath.Join(dir, "bench_data.txt")
		if err := numio.WriteFile(filename, data); err != nil {
			return nil, nil, err
		}
		load := func() ([]uint64, error) { return numio.ReadFile(filename) }
		return load, func() { os.Remove(filename) }, nil
	}

	path := filepath.Join(dir, "bench_"+storage)
	store, err := kvdb.Open(storage, path)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Save(benchDatasetName, data); err != nil {
		store.Close()
		return nil, nil, err
	}
	load := func() ([]uint64, error) { return store.Load(benchDatasetName) }
	cleanup := func() {
		if err := store.Close(); err != nil {
			jww.WARN.Printf("close %s store: %v", storage, err)
		}
		os.RemoveAll(path)
	}
	return load, cleanup, nil
}

// runBenchmark 알고리즘 한 번 실행 후 결과가 expected와 같은지 검증.
// expected는 입력을 slices.Sort로 정렬한 것이므로, 같으면 입력의 정렬된 순열이다.
func runBenchmark(algorithm string, data, expected []uint64, workers int) (Result, error) {
	result := Result{
		Algorithm:    algorithm,
		Workers:      workers,
		GoroutineNum: runtime.NumGoroutine(),
	}

	var sorted []uint64
	stats := startStats()

	switch algorithm {
	case AlgoStdlib:
		slices.Sort(data)
		sorted = data
	case AlgoMergeSort:
		sorted = psort.SequentialSort(data)
	case AlgoParallel, AlgoParallelFold:
		strategy := psort.StrategyTree
		if algorithm == AlgoParallelFold {
			strategy = psort.StrategyFold
		}
		res, err := psort.Sort(data, psort.Config{Workers: workers, Strategy: strategy})
		if err != nil {
			return result, err
		}
		sorted = res.Sorted
	default:
		return result, errors.Errorf("unknown benchmark algorithm %q", algorithm)
	}

	result.Duration, result.MemoryUsage = stats.endStats()

	if !slices.Equal(sorted, expected) {
		return result, errors.Errorf("%s output is not the sorted input (workers=%d)", algorithm, workers)
	}
	return result, nil
}

// systemStats 실행 시간과 할당량 측정
type systemStats struct {
	startTime time.Time
	startMem  runtime.MemStats
}

func startStats() *systemStats {
	runtime.GC()

	s := &systemStats{}
	runtime.ReadMemStats(&s.startMem)
	s.startTime = time.Now()
	return s
}

func (s *systemStats) endStats() (time.Duration, uint64) {
	duration := time.Since(s.startTime)

	var end runtime.MemStats
	runtime.ReadMemStats(&end)
	return duration, end.TotalAlloc - s.startMem.TotalAlloc
}
