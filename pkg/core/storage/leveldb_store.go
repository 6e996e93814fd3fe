package storage

import (
	"bytes"
	"errors"
	"slices"

	"github.com/neocorex/neogo/pkg/core/storage/dbconfig"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore is a Store implementation backed by goleveldb.
type LevelDBStore struct {
	db *leveldb.DB
	ro *opt.ReadOptions
	wo *opt.WriteOptions
}

// NewLevelDBStore opens (creating if needed) a LevelDB-backed Store at the
// directory given in opts.
func NewLevelDBStore(opts dbconfig.LevelDBOptions) (*LevelDBStore, error) {
	level, err := leveldb.OpenFile(opts.DataDirectoryPath, &opt.Options{
		ReadOnly:    opts.ReadOnly,
		Filter:      filter.NewBloomFilter(10),
		Compression: opt.SnappyCompression,
	})
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{
		db: level,
		ro: new(opt.ReadOptions),
		wo: new(opt.WriteOptions),
	}, nil
}

// Get implements the Store interface.
func (s *LevelDBStore) Get(key []byte) ([]byte, error) {
	v, err := s.db.Get(key, s.ro)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	return v, err
}

// Put implements the Store interface.
func (s *LevelDBStore) Put(key, value []byte) error {
	return s.db.Put(key, value, s.wo)
}

// PutChangeSet implements the Store interface.
func (s *LevelDBStore) PutChangeSet(puts map[string][]byte, dels map[string][]byte) error {
	batch := new(leveldb.Batch)
	for k, v := range puts {
		batch.Put([]byte(k), v)
	}
	for k := range dels {
		batch.Delete([]byte(k))
	}
	return s.db.Write(batch, s.wo)
}

// Seek implements the Store interface.
func (s *LevelDBStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	lrange := util.BytesPrefix(rng.Prefix)
	if len(rng.Start) != 0 {
		lrange.Start = append(slices.Clone(rng.Prefix), rng.Start...)
	}
	iter := s.db.NewIterator(lrange, s.ro)
	defer iter.Release()
	if rng.Backwards {
		for ok := iter.Last(); ok; ok = iter.Prev() {
			if !f(iter.Key(), iter.Value()) {
				break
			}
		}
		return
	}
	for iter.Next() {
		if !f(iter.Key(), iter.Value()) {
			break
		}
	}
}

// SeekGC implements the Store interface.
func (s *LevelDBStore) SeekGC(rng SeekRange, keep func(k, v []byte) bool) error {
	batch := new(leveldb.Batch)
	s.Seek(rng, func(k, v []byte) bool {
		if !keep(k, v) {
			batch.Delete(bytes.Clone(k))
		}
		return true
	})
	if batch.Len() == 0 {
		return nil
	}
	return s.db.Write(batch, s.wo)
}

// Close implements the Store interface.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
