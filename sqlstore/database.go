package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second

	// Memory is the Path of a private in-memory database.
	Memory = ":memory:"
)

// Config contains the SQLite connection options.
type Config struct {
	// Path is the database file path, or Memory.
	Path string

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int
}

// Open opens the SQLite database of cfg with a single connection, so a Memory database lives
// as long as the returned *sql.DB.
func Open(cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("database path is blank")
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path,
		cfg.BusyTimeout*msPerSecond,
	)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if cfg.Path != Memory {
		db.SetConnMaxLifetime(time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "verifying database connection")
	}
	return db, nil
}
