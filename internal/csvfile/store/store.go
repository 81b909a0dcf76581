// Package store holds the persistence backends for uploaded CSV files: an
// embedded SQLite database, a PostgreSQL pool and a map-backed store.
//
// Every backend keeps three tables (or their in-memory equivalent): file
// metadata, one JSON-encoded row per data record, and one cursor per file.
package store

import (
	"context"
	"io"

	"github.com/shandysiswandi/gocsv/internal/csvfile/usecase"
)

// Store is a usecase.Store that owns a connection to release on shutdown.
type Store interface {
	usecase.Store
	io.Closer
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
	_ Store = (*InMemoryStore)(nil)
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Options selects and configures a backend for Open.
type Options struct {
	Driver      string
	SQLiteDir   string
	SQLiteName  string
	PostgresURL string
}

// Open builds the backend named by opts.Driver, defaulting to SQLite.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverPostgres:
		return NewPostgresStore(ctx, opts.PostgresURL)
	case DriverMemory:
		return NewInMemoryStore(), nil
	default:
		return NewSQLiteStore(ctx, opts.SQLiteDir, opts.SQLiteName)
	}
}
