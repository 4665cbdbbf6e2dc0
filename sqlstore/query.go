package sqlstore

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	bitfield "github.com/moisespsena-go/aorm-bitfield"
)

// Query is the set of rows of a store matching a condition.
type Query struct {
	store *Store
	where string
	args  []interface{}
}

func (this *Query) whereSQL() string {
	if this.where == "" {
		return ""
	}
	return " WHERE " + QuoteConvert(this.store.quoter, this.where)
}

// UpdateAll runs one UPDATE statement setting values on every matched row. Values are written as
// given; *bitfield.Expr values are inlined with their arguments.
func (this *Query) UpdateAll(ctx context.Context, values map[string]interface{}) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}

	// Sort the column names so that the generated SQL is the same every time.
	var columns []string
	for c := range values {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	var (
		sqls []string
		vars []interface{}
		q    = this.store.quoter
	)
	for _, column := range columns {
		switch value := values[column].(type) {
		case *bitfield.Expr:
			sqls = append(sqls, fmt.Sprintf("%v = %v", Quote(q, column), QuoteConvert(q, value.SQL)))
			vars = append(vars, value.Args...)
		default:
			sqls = append(sqls, fmt.Sprintf("%v = ?", Quote(q, column)))
			vars = append(vars, value)
		}
	}

	query := fmt.Sprintf(
		"UPDATE %v SET %v%v",
		this.store.QuotedTableName(),
		strings.Join(sqls, ", "),
		this.whereSQL(),
	)
	return this.store.exec(ctx, query, append(vars, this.args...)...)
}

// Updates updates every matched row with values, which may hold symbolic bit field values and
// flag accessor keys.
func (this *Query) Updates(ctx context.Context, values map[string]interface{}) (int64, error) {
	return this.store.model.UpdateAll(ctx, this, values)
}

// Find returns the matched records.
func (this *Query) Find(ctx context.Context) (records []*bitfield.Record, err error) {
	s := this.store
	columns := s.model.ColumnNames()
	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = Quote(s.quoter, column)
	}
	query := fmt.Sprintf("SELECT %v FROM %v%v", strings.Join(quoted, ","), s.QuotedTableName(), this.whereSQL())

	s.logger.Debugf("%s %v", query, this.args)
	rows, err := s.db.QueryContext(ctx, query, this.args...)
	if err != nil {
		return nil, &QueryError{err, query, this.args}
	}
	defer rows.Close()

	for rows.Next() {
		values := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err = rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		row := make(bitfield.MapRow, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}
		records = append(records, s.model.Wrap(row))
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows")
	}
	return
}

// QueryError is the error of a statement, with its SQL and arguments.
type QueryError struct {
	err  error
	SQL  string
	Args []interface{}
}

// Cause returns the original error
func (e *QueryError) Cause() error {
	return e.err
}

func (e *QueryError) Error() string {
	var b bytes.Buffer
	b.WriteString(e.err.Error() + "\nBEGIN SQL >>\n" + e.SQL + "\n<< END SQL")
	if len(e.Args) > 0 {
		b.WriteString("\nSQL Args:\n")
		for i, arg := range e.Args {
			argValue := strings.Split(fmt.Sprint(arg), "\n")[0]
			if len(argValue) > 50 {
				argValue = argValue[0:50] + " ..."
			}
			b.WriteString(fmt.Sprintf("  - %v: %T(%s)\n", i, arg, argValue))
		}
	}
	return b.String()
}
