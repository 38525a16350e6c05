/*
Package dbconfig is a micropackage holding the YAML-decodable
configuration for a Trie's NodeStore backend.
*/
package dbconfig

type (
	// DBConfiguration selects and parameterizes one NodeStore backend.
	// Supported Type values: "leveldb", "boltdb" or "inmemory" (the
	// default; fine for tests and short-lived CLI invocations, but
	// every node vanishes with the process).
	DBConfiguration struct {
		Type           string         `yaml:"Type"`
		LevelDBOptions LevelDBOptions `yaml:"LevelDBOptions"`
		BoltDBOptions  BoltDBOptions  `yaml:"BoltDBOptions"`
	}
	// LevelDBOptions configures the leveldb-backed NodeStore.
	LevelDBOptions struct {
		DataDirectoryPath string `yaml:"DataDirectoryPath"`
		ReadOnly          bool   `yaml:"ReadOnly"`
	}
	// BoltDBOptions configures the bbolt-backed NodeStore.
	BoltDBOptions struct {
		FilePath string `yaml:"FilePath"`
		ReadOnly bool   `yaml:"ReadOnly"`
	}
)
