package store

import (
	"context"
	"fmt"
)

const (
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Backend selects and locates the KV backend.
type Backend struct {
	Driver      string
	DBPath      string
	DataDir     string
	DatabaseURL string
}

// OpenKV opens the backend named by b.Driver.
func OpenKV(ctx context.Context, b Backend) (KV, error) {
	switch b.Driver {
	case DriverSQLite, "":
		db, err := Open(b.DBPath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteKV(db), nil
	case DriverFile:
		return NewFileKV(b.DataDir)
	case DriverPostgres:
		return OpenPostgres(ctx, b.DatabaseURL)
	case DriverMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", b.Driver)
	}
}
