package kvdb

import (
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

type badgerStore struct {
	db *badger.DB
}

// openBadger path가 빈 문자열이면 인메모리 모드로 연다
func openBadger(path string) (*badgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	return openBadgerWithOptions(path, opts)
}

func openBadgerWithOptions(path string, opts badger.Options) (*badgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger %s", path)
	}
	jww.DEBUG.Printf("opened badger store at %q", path)
	return &badgerStore{db: db}, nil
}

// Save 기존 키 삭제와 새 키 쓰기를 한 트랜잭션으로 처리한다.
// 트랜잭션 한도를 넘는 큰 데이터셋만 saveBatched로 넘어간다.
func (s *badgerStore) Save(name string, data []uint64) error {
	if err := validateName(name); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := deleteInTxn(txn, prefixKey(name)); err != nil {
			return err
		}
		for i, v := range data {
			if err := txn.Set(elemKey(name, uint64(i)), encodeValue(v)); err != nil {
				return err
			}
		}
		return txn.Set(prefixKey(name), encodeValue(uint64(len(data))))
	})
	if errors.Is(err, badger.ErrTxnTooBig) {
		jww.WARN.Printf("dataset %q (%d items) exceeds one badger transaction, saving in batches", name, len(data))
		return s.saveBatched(name, data)
	}
	return errors.Wrapf(err, "save %q", name)
}

// saveBatched 여러 트랜잭션에 걸쳐 저장. 메타 키를 마지막 배치에 써서
// 쓰기가 끝나기 전에는 Load가 ErrNotFound를 돌려준다.
func (s *badgerStore) saveBatched(name string, data []uint64) error {
	if err := s.db.DropPrefix(prefixKey(name)); err != nil {
		return errors.Wrapf(err, "drop %q", name)
	}

	wb := s.db.NewWriteBatch()
	for i, v := range data {
		if err := wb.Set(elemKey(name, uint64(i)), encodeValue(v)); err != nil {
			wb.Cancel()
			return errors.Wrapf(err, "save %q[%d]", name, i)
		}
	}
	if err := wb.Flush(); err != nil {
		return errors.Wrapf(err, "flush %q", name)
	}
	return errors.Wrapf(s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(prefixKey(name), encodeValue(uint64(len(data))))
	}), "save %q", name)
}

func deleteInTxn(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *badgerStore) Load(name string) ([]uint64, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	dec := newDecoder(name)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = dec.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(dec.prefix); it.ValidForPrefix(dec.prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				return dec.add(item.Key(), v)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dec.result(name)
}

func (s *badgerStore) List() ([]string, error) {
	names := make(map[string]struct{})
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if name, ok := nameOf(it.Item().Key()); ok {
				names[name] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sortedNames(names), nil
}

func (s *badgerStore) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(prefixKey(name))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return err
	}
	return errors.Wrapf(s.db.DropPrefix(prefixKey(name)), "drop %q", name)
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
