package kvdb

import (
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
)

type pebbleStore struct {
	db *pebble.DB
}

func openPebble(path string) (*pebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble %s", path)
	}
	jww.DEBUG.Printf("opened pebble store at %s", path)
	return &pebbleStore{db: db}, nil
}

func (s *pebbleStore) Save(name string, data []uint64) error {
	if err := validateName(name); err != nil {
		return err
	}
	batch := s.db.NewBatch()
	defer batch.Close()

	if err := batch.DeleteRange(prefixKey(name), upperBound(name), nil); err != nil {
		return errors.Wrapf(err, "clear %q", name)
	}
	if err := batch.Set(prefixKey(name), encodeValue(uint64(len(data))), nil); err != nil {
		return errors.Wrapf(err, "save %q", name)
	}
	for i, v := range data {
		if err := batch.Set(elemKey(name, uint64(i)), encodeValue(v), nil); err != nil {
			return errors.Wrapf(err, "save %q[%d]", name, i)
		}
	}
	return errors.Wrapf(batch.Commit(pebble.Sync), "commit %q", name)
}

func (s *pebbleStore) Load(name string) ([]uint64, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	dec := newDecoder(name)
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefixKey(name),
		UpperBound: upperBound(name),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "iterate %q", name)
	}
	for it.First(); it.Valid(); it.Next() {
		if err := dec.add(it.Key(), it.Value()); err != nil {
			it.Close()
			return nil, err
		}
	}
	if err := it.Close(); err != nil {
		return nil, err
	}
	return dec.result(name)
}

func (s *pebbleStore) List() ([]string, error) {
	names := make(map[string]struct{})
	it, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	for it.First(); it.Valid(); it.Next() {
		if name, ok := nameOf(it.Key()); ok {
			names[name] = struct{}{}
		}
	}
	if err := it.Close(); err != nil {
		return nil, err
	}
	return sortedNames(names), nil
}

func (s *pebbleStore) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	_, closer, err := s.db.Get(prefixKey(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return err
	}
	closer.Close()
	return errors.Wrapf(s.db.DeleteRange(prefixKey(name), upperBound(name), pebble.Sync), "delete %q", name)
}

func (s *pebbleStore) Close() error {
	return s.db.Close()
}
