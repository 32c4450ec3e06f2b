package kvdb

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"
)

// 키 레이아웃 (모든 백엔드 공통)
//   name 0x00                 -> 원소 개수 (big-endian uint64)
//   name 0x00 idx(8바이트 BE) -> 값 (big-endian uint64)
// 인덱스를 big-endian으로 두면 키 순서 = 원소 순서가 되어 순차 스캔으로 복원된다.

const (
	sep     byte = 0x00
	idxSize      = 8
)

func validateName(name string) error {
	if name == "" || strings.IndexByte(name, sep) >= 0 {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// prefixKey 데이터셋의 메타 키이자 모든 원소 키의 접두사
func prefixKey(name string) []byte {
	key := make([]byte, 0, len(name)+1)
	key = append(key, name...)
	return append(key, sep)
}

// upperBound 접두사 범위의 배타적 상한 (name 0x01)
func upperBound(name string) []byte {
	key := prefixKey(name)
	key[len(key)-1] = sep + 1
	return key
}

func elemKey(name string, idx uint64) []byte {
	key := make([]byte, 0, len(name)+1+idxSize)
	key = append(key, name...)
	key = append(key, sep)
	return binary.BigEndian.AppendUint64(key, idx)
}

func encodeValue(v uint64) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, 8), v)
}

func decodeValue(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errors.Errorf("corrupt value: want 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// nameOf 키에서 데이터셋 이름을 뽑는다. 메타 키일 때만 ok.
func nameOf(key []byte) (string, bool) {
	i := bytes.IndexByte(key, sep)
	if i <= 0 || i != len(key)-1 {
		return "", false
	}
	return string(key[:i]), true
}

// decoder 스캔 중 키/값을 받아 데이터셋을 복원한다
type decoder struct {
	prefix []byte
	data   []uint64
	want   uint64
	found  bool
}

func newDecoder(name string) *decoder {
	return &decoder{prefix: prefixKey(name)}
}

func (d *decoder) add(key, value []byte) error {
	if !bytes.HasPrefix(key, d.prefix) {
		return nil
	}
	v, err := decodeValue(value)
	if err != nil {
		return errors.Wrapf(err, "key %x", key)
	}
	if len(key) == len(d.prefix) {
		d.found = true
		d.want = v
		d.data = make([]uint64, 0, min(v, 1<<20))
		return nil
	}
	if len(key) != len(d.prefix)+idxSize {
		return errors.Errorf("corrupt key %x", key)
	}
	if idx := binary.BigEndian.Uint64(key[len(d.prefix):]); idx != uint64(len(d.data)) {
		return errors.Errorf("corrupt dataset %q: expected index %d, got %d",
			d.prefix[:len(d.prefix)-1], len(d.data), idx)
	}
	d.data = append(d.data, v)
	return nil
}

func (d *decoder) result(name string) ([]uint64, error) {
	if !d.found {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if uint64(len(d.data)) != d.want {
		return nil, errors.Errorf("corrupt dataset %q: expected %d items, got %d",
			name, d.want, len(d.data))
	}
	return d.data, nil
}
