package storage

import (
	"slices"

	"github.com/neocorex/neogo/pkg/core/storage/dbconfig"
	"go.etcd.io/bbolt"
)

// Bucket is the single bucket all keys are stored under; bbolt supports
// multiple buckets, but the Store interface works with a single flat
// namespace disambiguated by KeyPrefix, so one bucket is enough.
var Bucket = []byte("neogo")

// BoltDBStore is a Store implementation backed by go.etcd.io/bbolt.
type BoltDBStore struct {
	db *bbolt.DB
}

// NewBoltDBStore opens (creating if needed) a BoltDB-backed Store at the
// file given in opts.
func NewBoltDBStore(opts dbconfig.BoltDBOptions) (*BoltDBStore, error) {
	db, err := bbolt.Open(opts.FilePath, 0600, &bbolt.Options{ReadOnly: opts.ReadOnly})
	if err != nil {
		return nil, err
	}
	if !opts.ReadOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(Bucket)
			return err
		})
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return &BoltDBStore{db: db}, nil
}

// Get implements the Store interface.
func (s *BoltDBStore) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(Bucket)
		if b == nil {
			return ErrKeyNotFound
		}
		v := b.Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		value = slices.Clone(v)
		return nil
	})
	return value, err
}

// Put implements the Store interface.
func (s *BoltDBStore) Put(key, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(Bucket).Put(key, value)
	})
}

// PutChangeSet implements the Store interface.
func (s *BoltDBStore) PutChangeSet(puts map[string][]byte, dels map[string][]byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(Bucket)
		for k, v := range puts {
			if err := b.Put([]byte(k), v); err != nil {
				return err
			}
		}
		for k := range dels {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Seek implements the Store interface.
func (s *BoltDBStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(Bucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		prefix := rng.Prefix
		startKey := append(slices.Clone(prefix), rng.Start...)

		if rng.Backwards {
			var k, v []byte
			if len(rng.Start) == 0 {
				// Position past the last key with this prefix, then step back.
				k, v = c.Seek(append(slices.Clone(prefix), 0xff))
				if k == nil {
					k, v = c.Last()
				} else {
					k, v = c.Prev()
				}
			} else {
				k, v = c.Seek(startKey)
				if k == nil || string(k) > string(startKey) {
					k, v = c.Prev()
				}
			}
			for ; k != nil && hasPrefix(k, prefix); k, v = c.Prev() {
				if !f(k, v) {
					break
				}
			}
			return nil
		}

		for k, v := c.Seek(startKey); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
			if !f(k, v) {
				break
			}
		}
		return nil
	})
	_ = err
}

func hasPrefix(k, prefix []byte) bool {
	return len(k) >= len(prefix) && string(k[:len(prefix)]) == string(prefix)
}

// SeekGC implements the Store interface.
func (s *BoltDBStore) SeekGC(rng SeekRange, keep func(k, v []byte) bool) error {
	var toDrop [][]byte
	s.Seek(rng, func(k, v []byte) bool {
		if !keep(k, v) {
			toDrop = append(toDrop, slices.Clone(k))
		}
		return true
	})
	if len(toDrop) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(Bucket)
		for _, k := range toDrop {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close implements the Store interface.
func (s *BoltDBStore) Close() error {
	return s.db.Close()
}
