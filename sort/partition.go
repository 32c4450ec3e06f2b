package sort

import (
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

// ErrInvalidWorkers 워커 수가 1 미만일 때 반환되는 설정 오류
var ErrInvalidWorkers = errors.New("worker count must be at least 1")

// Partition 입력을 workers개의 연속 구간으로 나눈다.
// 구간 id는 [id*L/W, (id+1)*L/W) 이며, 구간 크기 차이는 최대 1이다.
// L < W 이면 일부 구간은 비어 있다. 반환되는 청크는 입력의 뷰이므로 수정하면 안 된다.
func Partition(arr []uint64, workers int) ([][]uint64, error) {
	if workers < 1 {
		return nil, errors.Wrapf(ErrInvalidWorkers, "got %d", workers)
	}

	n := len(arr)
	chunks := make([][]uint64, workers)
	for id := range workers {
		lower := id * n / workers
		upper := (id + 1) * n / workers
		// cap을 잘라서 append가 이웃 청크를 덮어쓰지 못하게 한다
		chunks[id] = arr[lower:upper:upper]
		jww.DEBUG.Printf("chunk %d covers indices [%d, %d)", id, lower, upper)
	}
	return chunks, nil
}
