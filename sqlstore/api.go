package sqlstore

import (
	"context"
	"database/sql"
)

type (
	// SQLCommon is the part of *sql.DB and *sql.Tx the store uses.
	SQLCommon interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	}

	sqlDb interface {
		BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	}
)
