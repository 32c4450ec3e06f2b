package bench

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var algoNames = map[string]string{
	AlgoStdlib:       "표준정렬(slices.Sort)",
	AlgoMergeSort:    "머지소트",
	AlgoParallel:     "병렬머지소트(트리)",
	AlgoParallelFold: "병렬머지소트(폴드)",
}

// SaveJSON 결과를 JSON 파일로 저장
func SaveJSON(filename string, results []Result) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer file.Close()

	writer := bufio.NewWriterSize(file, 32*1024)
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return errors.Wrapf(err, "encode %s", filename)
	}
	return writer.Flush()
}

// SaveMarkdown 결과를 마크다운 표로 저장
func SaveMarkdown(filename string, results []Result) error {
	return errors.Wrapf(os.WriteFile(filename, []byte(Markdown(results)), 0644), "write %s", filename)
}

type groupKey struct {
	storage string
	size    int
}

// Markdown 저장소/데이터 크기별 표와 평균 요약을 만든다
func Markdown(results []Result) string {
	var builder strings.Builder

	builder.WriteString("# 정렬 알고리즘 벤치마크 결과\n\n")
	fmt.Fprintf(&builder, "실행 시간: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&builder, "CPU 코어 수: %d\n", runtime.NumCPU())
	fmt.Fprintf(&builder, "GOMAXPROCS: %d\n\n", runtime.GOMAXPROCS(0))

	// 결과에 나타난 순서대로 그룹화
	var groups []groupKey
	byGroup := make(map[groupKey][]Result)
	for _, r := range results {
		key := groupKey{r.StorageType, r.DataSize}
		if _, ok := byGroup[key]; !ok {
			groups = append(groups, key)
		}
		byGroup[key] = append(byGroup[key], r)
	}

	for _, key := range groups {
		fmt.Fprintf(&builder, "## %s - %d개 데이터\n\n", key.storage, key.size)
		builder.WriteString("| 알고리즘 | 워커 | 테스트 | 실행시간 | 로드시간 | 메모리사용량 | 고루틴수 |\n")
		builder.WriteString("|----------|------|--------|----------|----------|--------------|----------|\n")
		for _, r := range byGroup[key] {
			fmt.Fprintf(&builder, "| %s | %d | %d | %v | %v | %d bytes | %d |\n",
				displayName(r.Algorithm), r.Workers, r.TestRun, r.Duration, r.LoadDuration,
				r.MemoryUsage, r.GoroutineNum)
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## 요약 통계\n\n")
	for _, key := range groups {
		fmt.Fprintf(&builder, "### %s - %d개 데이터 평균\n\n", key.storage, key.size)
		builder.WriteString("| 알고리즘 | 워커 | 평균 실행시간 | 평균 메모리사용량 |\n")
		builder.WriteString("|----------|------|---------------|-------------------|\n")
		for _, s := range summarize(byGroup[key]) {
			fmt.Fprintf(&builder, "| %s | %d | %v | %d bytes |\n",
				displayName(s.Algorithm), s.Workers, s.AvgDuration, s.AvgMemory)
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

// Summary 알고리즘/워커 수별 평균
type Summary struct {
	Algorithm   string
	Workers     int
	Count       int
	AvgDuration time.Duration
	AvgMemory   uint64
}

func summarize(results []Result) []Summary {
	type key struct {
		algo    string
		workers int
	}
	var order []key
	totals := make(map[key]*Summary)

	for _, r := range results {
		k := key{r.Algorithm, r.Workers}
		s, ok := totals[k]
		if !ok {
			s = &Summary{Algorithm: r.Algorithm, Workers: r.Workers}
			totals[k] = s
			order = append(order, k)
		}
		s.Count++
		s.AvgDuration += r.Duration
		s.AvgMemory += r.MemoryUsage
	}

	summaries := make([]Summary, 0, len(order))
	for _, k := range order {
		s := totals[k]
		s.AvgDuration /= time.Duration(s.Count)
		s.AvgMemory /= uint64(s.Count)
		summaries = append(summaries, *s)
	}
	slices.SortStableFunc(summaries, func(a, b Summary) int {
		return slices.Index(Algorithms(), a.Algorithm) - slices.Index(Algorithms(), b.Algorithm)
	})
	return summaries
}

func displayName(algo string) string {
	if name, ok := algoNames[algo]; ok {
		return name
	}
	return algo
}
