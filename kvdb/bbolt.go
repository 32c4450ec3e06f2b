package kvdb

import (
	"bytes"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("datasets")

type bboltStore struct {
	db *bbolt.DB
}

func openBbolt(path string) (*bboltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open bbolt %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create bbolt bucket")
	}
	jww.DEBUG.Printf("opened bbolt store at %s", path)
	return &bboltStore{db: db}, nil
}

func (s *bboltStore) Save(name string, data []uint64) error {
	if err := validateName(name); err != nil {
		return err
	}
	// 삭제와 쓰기를 한 트랜잭션으로 처리
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if err := deletePrefix(b, prefixKey(name)); err != nil {
			return err
		}
		if err := b.Put(prefixKey(name), encodeValue(uint64(len(data)))); err != nil {
			return errors.Wrapf(err, "save %q", name)
		}
		for i, v := range data {
			if err := b.Put(elemKey(name, uint64(i)), encodeValue(v)); err != nil {
				return errors.Wrapf(err, "save %q[%d]", name, i)
			}
		}
		return nil
	})
}

func (s *bboltStore) Load(name string) ([]uint64, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	dec := newDecoder(name)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, v := c.Seek(dec.prefix); k != nil && bytes.HasPrefix(k, dec.prefix); k, v = c.Next() {
			if err := dec.add(k, v); err != nil {
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

func (s *bboltStore) List() ([]string, error) {
	names := make(map[string]struct{})
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, _ []byte) error {
			if name, ok := nameOf(k); ok {
				names[name] = struct{}{}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return sortedNames(names), nil
}

func (s *bboltStore) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b.Get(prefixKey(name)) == nil {
			return errors.Wrapf(ErrNotFound, "%q", name)
		}
		return deletePrefix(b, prefixKey(name))
	})
}

func (s *bboltStore) Close() error {
	return s.db.Close()
}

func deletePrefix(b *bbolt.Bucket, prefix []byte) error {
	c := b.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Seek(prefix) {
		if err := c.Delete(); err != nil {
			return errors.Wrapf(err, "delete %x", k)
		}
	}
	return nil
}
