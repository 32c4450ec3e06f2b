// Package kvdb 정수 시퀀스를 이름 붙은 데이터셋으로 임베디드 KV 저장소에 보관한다.
// bbolt, BadgerDB, PebbleDB 세 백엔드가 같은 키 레이아웃을 공유한다.
package kvdb

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	BackendBbolt  = "bbolt"
	BackendBadger = "badger"
	BackendPebble = "pebble"
)

var (
	// ErrNotFound 없는 데이터셋
	ErrNotFound = errors.New("dataset not found")
	// ErrUnknownBackend 지원하지 않는 백엔드 이름
	ErrUnknownBackend = errors.New("unknown kvdb backend")
	// ErrInvalidName 빈 이름이나 0x00 바이트를 포함한 이름
	ErrInvalidName = errors.New("invalid dataset name")
)

// Store 데이터셋 저장소
type Store interface {
	// Save 같은 이름의 데이터셋이 있으면 통째로 교체한다
	Save(name string, data []uint64) error
	Load(name string) ([]uint64, error)
	List() ([]string, error)
	Delete(name string) error
	Close() error
}

// Backends 지원하는 백엔드 목록
func Backends() []string {
	return []string{BackendBbolt, BackendBadger, BackendPebble}
}

// Open 백엔드 이름으로 저장소를 연다.
// bbolt는 path를 파일로, badger/pebble은 디렉터리로 사용한다.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendBbolt:
		return openBbolt(path)
	case BackendBadger:
		return openBadger(path)
	case BackendPebble:
		return openPebble(path)
	}
	return nil, errors.Wrapf(ErrUnknownBackend, "%q", backend)
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
