package sort

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Strategy 정렬된 청크들(SortedRun)을 최종 결과로 합치는 방식
type Strategy string

const (
	// StrategyTree 균형 분할정복 병합 트리, O(L·log W)
	StrategyTree Strategy = "tree"
	// StrategyFold 빈 결과에서 시작해 런을 하나씩 병합, O(L·W)
	StrategyFold Strategy = "fold"
)

// ErrUnknownStrategy 알 수 없는 병합 전략 이름
var ErrUnknownStrategy = errors.New("unknown merge strategy")

// ParseStrategy 문자열을 Strategy로 변환. 빈 문자열은 트리 병합.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyTree:
		return StrategyTree, nil
	case StrategyFold:
		return StrategyFold, nil
	}
	return "", errors.Wrapf(ErrUnknownStrategy, "%q", s)
}

// Config 병렬 정렬 파이프라인 설정.
// 고루틴을 띄우기 전에 한 번만 검증된다.
type Config struct {
	Workers  int
	Strategy Strategy
}

// DefaultConfig 워커 1개, 트리 병합
func DefaultConfig() Config {
	return Config{Workers: 1, Strategy: StrategyTree}
}

// Validate 워커 수와 전략을 검사
func (c Config) Validate() error {
	if c.Workers < 1 {
		return errors.Wrapf(ErrInvalidWorkers, "got %d", c.Workers)
	}
	if _, err := ParseStrategy(string(c.Strategy)); err != nil {
		return err
	}
	return nil
}

// Result 정렬 결과와 정렬 구간 소요 시간
type Result struct {
	Sorted  []uint64
	Chunks  int
	Elapsed time.Duration
}

// Sort 분할 -> 워커별 정렬 -> 병합 파이프라인.
// 입력은 읽기만 하며, 반환되는 Sorted는 항상 새로 할당된 슬라이스다.
func Sort(arr []uint64, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	strategy, _ := ParseStrategy(string(cfg.Strategy))

	start := time.Now()

	chunks, err := Partition(arr, cfg.Workers)
	if err != nil {
		return nil, err
	}

	runs, err := RunWorkers(chunks, SequentialSort)
	if err != nil {
		return nil, errors.Wrap(err, "parallel sort failed")
	}

	var sorted []uint64
	switch strategy {
	case StrategyFold:
		sorted = MergeFold(runs)
	default:
		sorted = MergeVectors(runs)
	}
	if sorted == nil {
		sorted = []uint64{}
	}

	return &Result{
		Sorted:  sorted,
		Chunks:  len(chunks),
		Elapsed: time.Since(start),
	}, nil
}

// ParallelSort 트리 병합을 쓰는 Sort 단축형
func ParallelSort(arr []uint64, workers int) ([]uint64, error) {
	res, err := Sort(arr, Config{Workers: workers, Strategy: StrategyTree})
	if err != nil {
		return nil, err
	}
	return res.Sorted, nil
}

// MergeVectors 정렬된 런들을 균형 트리로 병합.
// 런이 없으면 빈 결과, 하나면 그 런을 그대로 반환.
func MergeVectors(runs [][]uint64) []uint64 {
	switch len(runs) {
	case 0:
		return []uint64{}
	case 1:
		return runs[0]
	}

	mid := len(runs) / 2
	return Merge(MergeVectors(runs[:mid]), MergeVectors(runs[mid:]))
}

// MergeFold 빈 결과에서 시작해 런을 순서대로 하나씩 병합 (참조 구현)
func MergeFold(runs [][]uint64) []uint64 {
	switch len(runs) {
	case 0:
		return []uint64{}
	case 1:
		return runs[0]
	}

	sorted := []uint64{}
	for _, run := range runs {
		sorted = Merge(sorted, run)
	}
	return sorted
}
