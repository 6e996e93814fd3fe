package storage

import (
	"slices"
	"strings"
	"sync"
)

// MemCachedStore is a wrapper around a persistent Store that caches all
// writes in memory and flushes them to the underlying Store on Persist.
// It's used to batch changes belonging to a single block (or a single
// transaction) before they're known to be final.
type MemCachedStore struct {
	MemoryStore

	// private, when set, marks this store as owned by a single caller with
	// no concurrent access during Persist; used for short-lived, per-block
	// overlays where the extra bookkeeping of a shared cache isn't needed.
	private bool

	mut sync.RWMutex
	del map[string][]byte

	ps Store
}

// NewMemCachedStore creates a new MemCachedStore on top of the given
// persistent Store.
func NewMemCachedStore(ps Store) *MemCachedStore {
	return &MemCachedStore{
		MemoryStore: *NewMemoryStore(),
		del:         make(map[string][]byte),
		ps:          ps,
	}
}

// NewPrivateMemCachedStore creates a MemCachedStore intended for exclusive,
// non-concurrent use (e.g. a per-transaction DAO overlay).
func NewPrivateMemCachedStore(ps Store) *MemCachedStore {
	s := NewMemCachedStore(ps)
	s.private = true
	return s
}

// Get implements the Store interface.
func (s *MemCachedStore) Get(key []byte) ([]byte, error) {
	s.MemoryStore.mut.RLock()
	v, ok := s.MemoryStore.mem[string(key)]
	s.MemoryStore.mut.RUnlock()
	if ok {
		return v, nil
	}

	s.mut.RLock()
	_, deleted := s.del[string(key)]
	s.mut.RUnlock()
	if deleted {
		return nil, ErrKeyNotFound
	}
	return s.ps.Get(key)
}

// Put implements the Store interface.
func (s *MemCachedStore) Put(key, value []byte) error {
	vcopy := slices.Clone(value)
	s.MemoryStore.mut.Lock()
	s.MemoryStore.put(key, vcopy)
	s.MemoryStore.mut.Unlock()

	s.mut.Lock()
	delete(s.del, string(key))
	s.mut.Unlock()
	return nil
}

// Delete marks a key as removed, it will be propagated to the underlying
// Store on the next Persist.
func (s *MemCachedStore) Delete(key []byte) error {
	s.MemoryStore.mut.Lock()
	delete(s.MemoryStore.mem, string(key))
	s.MemoryStore.mut.Unlock()

	s.mut.Lock()
	s.del[string(key)] = nil
	s.mut.Unlock()
	return nil
}

// PutChangeSet implements the Store interface.
func (s *MemCachedStore) PutChangeSet(puts map[string][]byte, dels map[string][]byte) error {
	for k, v := range puts {
		if err := s.Put([]byte(k), v); err != nil {
			return err
		}
	}
	for k := range dels {
		if err := s.Delete([]byte(k)); err != nil {
			return err
		}
	}
	return nil
}

// GetBatch returns the set of pending changes, classifying each key as
// either "new" or already present in the underlying Store.
func (s *MemCachedStore) GetBatch() *MemBatch {
	var batch MemBatch

	s.MemoryStore.mut.RLock()
	for k, v := range s.MemoryStore.mem {
		_, err := s.ps.Get([]byte(k))
		batch.Put = append(batch.Put, KeyValueExists{
			KeyValue: KeyValue{Key: []byte(k), Value: v},
			Exists:   err == nil,
		})
	}
	s.MemoryStore.mut.RUnlock()

	s.mut.RLock()
	for k := range s.del {
		_, err := s.ps.Get([]byte(k))
		batch.Deleted = append(batch.Deleted, KeyValueExists{
			KeyValue: KeyValue{Key: []byte(k)},
			Exists:   err == nil,
		})
	}
	s.mut.RUnlock()

	return &batch
}

// Persist flushes all pending changes to the underlying Store. It returns
// the number of changes persisted.
func (s *MemCachedStore) Persist() (int, error) {
	return s.persist()
}

// PersistSync is the same as Persist, provided for API parity with
// backends whose Persist can be asynchronous; this implementation is
// always synchronous.
func (s *MemCachedStore) PersistSync() (int, error) {
	return s.persist()
}

func (s *MemCachedStore) persist() (int, error) {
	s.MemoryStore.mut.Lock()
	puts := s.MemoryStore.mem
	s.mut.Lock()
	dels := s.del
	s.mut.Unlock()
	s.MemoryStore.mut.Unlock()

	n := len(puts) + len(dels)
	if n == 0 {
		return 0, nil
	}

	err := s.ps.PutChangeSet(puts, dels)
	if err != nil {
		return 0, err
	}

	s.MemoryStore.mut.Lock()
	s.MemoryStore.mem = make(map[string][]byte)
	s.MemoryStore.mut.Unlock()
	s.mut.Lock()
	s.del = make(map[string][]byte)
	s.mut.Unlock()

	return n, nil
}

// Seek implements the Store interface, merging the pending overlay with
// the underlying persistent Store.
func (s *MemCachedStore) Seek(rng SeekRange, f func(k, v []byte) bool) {
	s.seekAll(rng, f)
}

func (s *MemCachedStore) seekAll(rng SeekRange, f func(k, v []byte) bool) {
	cmpFunc := getCmpFunc(rng.Backwards)
	prefix := rng.Prefix
	startKey := string(append(slices.Clone(prefix), rng.Start...))

	s.MemoryStore.mut.RLock()
	s.mut.RLock()
	var memList []KeyValue
	seen := make(map[string]struct{})
	for k, v := range s.MemoryStore.mem {
		if !strings.HasPrefix(k, string(prefix)) {
			continue
		}
		if rng.Backwards {
			if k > startKey && len(rng.Start) != 0 {
				continue
			}
		} else if k < startKey {
			continue
		}
		memList = append(memList, KeyValue{Key: []byte(k), Value: slices.Clone(v)})
		seen[k] = struct{}{}
	}
	for k := range s.del {
		seen[k] = struct{}{}
	}
	s.mut.RUnlock()
	s.MemoryStore.mut.RUnlock()

	var psList []KeyValue
	s.ps.Seek(rng, func(k, v []byte) bool {
		if _, ok := seen[string(k)]; ok {
			return true
		}
		psList = append(psList, KeyValue{Key: slices.Clone(k), Value: slices.Clone(v)})
		return true
	})

	merged := append(memList, psList...)
	slices.SortFunc(merged, func(a, b KeyValue) int {
		return cmpFunc(a.Key, b.Key)
	})
	for _, kv := range merged {
		if !f(kv.Key, kv.Value) {
			break
		}
	}
}

// SeekGC implements the Store interface, propagating the GC decision to
// the underlying persistent Store. Anything still pending in the overlay
// is left untouched; it will be reconsidered on the next Persist.
func (s *MemCachedStore) SeekGC(rng SeekRange, keep func(k, v []byte) bool) error {
	return s.ps.SeekGC(rng, keep)
}

// Close implements the Store interface. It closes both the cache and the
// underlying persistent Store.
func (s *MemCachedStore) Close() error {
	s.MemoryStore.mut.Lock()
	s.MemoryStore.mem = make(map[string][]byte)
	s.MemoryStore.mut.Unlock()
	s.mut.Lock()
	s.del = make(map[string][]byte)
	s.mut.Unlock()
	return s.ps.Close()
}
