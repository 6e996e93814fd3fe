// Package dbconfig contains configuration for the persistent Store
// backends the node can use.
package dbconfig

// Recognized values for DBConfiguration.Type.
const (
	// LevelDB is the default on-disk storage engine, backed by
	// github.com/syndtr/goleveldb.
	LevelDB = "leveldb"
	// BoltDB is an alternate on-disk storage engine, backed by
	// go.etcd.io/bbolt.
	BoltDB = "boltdb"
	// InMemoryDB keeps all state in a process-local map; useful for tests
	// and ephemeral private networks.
	InMemoryDB = "inmemory"
)

// DBConfiguration is the configuration for the chosen storage backend.
type DBConfiguration struct {
	Type           string         `yaml:"Type"`
	LevelDBOptions LevelDBOptions `yaml:"LevelDBOptions"`
	BoltDBOptions  BoltDBOptions  `yaml:"BoltDBOptions"`
}

// LevelDBOptions configures the goleveldb-backed Store.
type LevelDBOptions struct {
	DataDirectoryPath string `yaml:"DataDirectoryPath"`
	ReadOnly          bool   `yaml:"ReadOnly"`
}

// BoltDBOptions configures the bbolt-backed Store.
type BoltDBOptions struct {
	FilePath string `yaml:"FilePath"`
	ReadOnly bool   `yaml:"ReadOnly"`
}
