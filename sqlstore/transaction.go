package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/moisespsena-go/tracederror"
	"github.com/pkg/errors"
)

// ErrInvalidTransaction the store database can't begin transactions
var ErrInvalidTransaction = errors.New("no valid transaction")

// Transaction execute func `f` with a store bound to a new sql.Tx. The transaction is committed
// when f succeeds, rolled back when it fails or panics.
func (this *Store) Transaction(ctx context.Context, f func(tx *Store) (err error)) (err error) {
	db, ok := this.db.(sqlDb)
	if !ok {
		return ErrInvalidTransaction
	}
	var tx *sql.Tx
	if tx, err = db.BeginTx(ctx, nil); err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			perr, ok := r.(error)
			if !ok {
				perr = fmt.Errorf("%v", r)
			}
			err = tracederror.New(errors.Wrap(perr, "transaction"))
		} else if err != nil {
			tx.Rollback()
			err = errors.Wrap(err, "transaction")
		} else {
			err = errors.Wrap(tx.Commit(), "commit")
		}
	}()

	clone := *this
	clone.db = tx
	return f(&clone)
}
