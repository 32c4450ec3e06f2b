// Package numio 한 줄에 정수 하나씩 쓰인 텍스트를 읽고 쓴다.
package numio

import (
	"bufio"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadFile 파일에서 숫자 목록을 읽는다
func ReadFile(filename string) ([]uint64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open input %s", filename)
	}
	defer file.Close()

	// 파일 크기 기반으로 슬라이스 미리 할당 (평균 6자리 + 개행)
	estimated := 0
	if info, err := file.Stat(); err == nil {
		estimated = int(info.Size() / 7)
	}

	data, err := read(file, estimated)
	return data, errors.Wrapf(err, "read %s", filename)
}

// Read 빈 줄은 건너뛰고, 숫자가 아닌 줄은 줄 번호와 함께 오류로 보고한다
func Read(r io.Reader) ([]uint64, error) {
	return read(r, 0)
}

func read(r io.Reader, estimated int) ([]uint64, error) {
	data := make([]uint64, 0, estimated)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), bufio.MaxScanTokenSize)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		num, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		data = append(data, num)
	}

	return data, scanner.Err()
}

// Write 한 줄에 하나씩 기록
func Write(w io.Writer, data []uint64) error {
	// 큰 버퍼 사용으로 I/O 성능 향상
	writer := bufio.NewWriterSize(w, 64*1024)
	buf := make([]byte, 0, 24)

	for _, num := range data {
		buf = strconv.AppendUint(buf[:0], num, 10)
		buf = append(buf, '\n')
		if _, err := writer.Write(buf); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// WriteFile 임시 파일에 쓴 뒤 rename 하므로, 중간에 중단되어도 잘린 출력 파일이 남지 않는다
func WriteFile(filename string, data []uint64) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*")
	if err != nil {
		return errors.Wrapf(err, "create output %s", filename)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "chmod %s", filename)
	}
	if err := Write(tmp, data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", filename)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", filename)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), filename), "rename to %s", filename)
}

// Generate 고정 시드로 재현 가능한 랜덤 데이터 생성. max가 0이면 전체 uint64 범위.
func Generate(size int, seed int64, max uint64) []uint64 {
	r := rand.New(rand.NewSource(seed))

	data := make([]uint64, size)
	for i := range data {
		if max == 0 {
			data[i] = r.Uint64()
		} else {
			data[i] = r.Uint64() % max
		}
	}
	return data
}
