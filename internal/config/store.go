package config

import (
	"fmt"
	"strings"
)

type Store struct {
	Driver StoreDriver `env:"STORE_DRIVER" envDefault:"json"`
	Path   string      `env:"STORE_PATH"`
}

// FilePath returns the configured path, or the driver's default file name.
func (s Store) FilePath() string {
	if s.Path != "" {
		return s.Path
	}
	return "discounted_products" + s.Driver.extension()
}

// StoreDriver selects the persistence backend of the catalog.
type StoreDriver uint8

const (
	StoreDriverJSON StoreDriver = iota
	StoreDriverCSV
	StoreDriverBolt
	StoreDriverSQLite
	StoreDriverMemory
)

var storeDriverNames = []string{"json", "csv", "bolt", "sqlite", "memory"}

// String returns the string representation of the store driver.
func (d StoreDriver) String() string {
	if int(d) < len(storeDriverNames) {
		return storeDriverNames[d]
	}
	return fmt.Sprintf("StoreDriver(%d)", d)
}

func (d StoreDriver) extension() string {
	switch d {
	case StoreDriverCSV:
		return ".csv"
	case StoreDriverBolt:
		return ".bolt"
	case StoreDriverSQLite:
		return ".db"
	default:
		return ".json"
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *StoreDriver) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range storeDriverNames {
		if n == name {
			*d = StoreDriver(i)
			return nil
		}
	}
	return fmt.Errorf("unknown store driver: %s", text)
}

func (d StoreDriver) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
