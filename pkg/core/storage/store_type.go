package storage

import (
	"fmt"

	"github.com/neocorex/neogo/pkg/core/storage/dbconfig"
)

// NewStore creates a new Store instance for the backend named in cfg.Type.
func NewStore(cfg dbconfig.DBConfiguration) (Store, error) {
	switch cfg.Type {
	case dbconfig.LevelDB:
		return NewLevelDBStore(cfg.LevelDBOptions)
	case dbconfig.BoltDB:
		return NewBoltDBStore(cfg.BoltDBOptions)
	case dbconfig.InMemoryDB:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
