package sort

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// SortFunc 워커 하나가 자기 청크에 적용하는 정렬 함수
type SortFunc func([]uint64) []uint64

// WorkerError 워커가 SortedRun을 만들지 못하고 비정상 종료했을 때의 오류
type WorkerError struct {
	Chunk int
	Cause interface{}
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker for chunk %d failed: %v", e.Chunk, e.Cause)
}

// Unwrap 패닉 값이 error이면 그 오류를 돌려준다
func (e *WorkerError) Unwrap() error {
	err, _ := e.Cause.(error)
	return err
}

// errNoResult 패닉 없이 (runtime.Goexit 등으로) 종료된 워커의 원인
var errNoResult = errors.New("worker exited without a result")

// workerResult 워커 -> 수집기 단방향 메시지.
// 워커마다 용량 1짜리 채널 하나를 쓰므로 워커는 절대 블록되지 않는다.
type workerResult struct {
	run []uint64
	err error
}

// RunWorkers 청크마다 고루틴 하나를 띄워 fn으로 정렬하고, 청크 순서대로 결과를 모은다.
// * 완료 순서와 무관하게 runs[i]는 항상 chunks[i]의 결과.
// * 패닉하거나 결과 없이 끝난 워커는 WorkerError로 보고되며 수집이 멈추지 않는다.
func RunWorkers(chunks [][]uint64, fn SortFunc) ([][]uint64, error) {
	results := make([]chan workerResult, len(chunks))

	for id, chunk := range chunks {
		results[id] = make(chan workerResult, 1)
		go runWorker(id, chunk, fn, results[id])
	}

	runs := make([][]uint64, len(chunks))
	var firstErr error
	for id, ch := range results {
		// 실패가 있어도 모든 채널을 비워서 고루틴이 남지 않게 한다
		res := <-ch
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		runs[id] = res.run
		jww.DEBUG.Printf("received run from worker %d (%d items)", id, len(res.run))
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return runs, nil
}

func runWorker(id int, chunk []uint64, fn SortFunc, out chan<- workerResult) {
	finished := false
	defer func() {
		if finished {
			return
		}
		var cause interface{} = errNoResult
		if r := recover(); r != nil {
			cause = r
		}
		jww.ERROR.Printf("worker %d failed: %v", id, cause)
		out <- workerResult{err: &WorkerError{Chunk: id, Cause: cause}}
	}()

	jww.DEBUG.Printf("start worker %d", id)
	// 입력은 공유 읽기 전용이므로 워커는 자기 사본만 다룬다
	sorted := fn(slices.Clone(chunk))
	jww.DEBUG.Printf("worker %d done", id)
	out <- workerResult{run: sorted}
	finished = true
}
