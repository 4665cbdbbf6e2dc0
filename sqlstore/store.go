package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/moisespsena-go/logging"
	"github.com/pkg/errors"

	bitfield "github.com/moisespsena-go/aorm-bitfield"
)

// Store persists the records of one model in one table.
type Store struct {
	db         SQLCommon
	model      *bitfield.Model
	table      string
	primaryKey string
	quoter     Quoter
	logger     logging.Logger
}

type Option func(s *Store)

func WithTable(name string) Option {
	return func(s *Store) { s.table = name }
}

func WithQuoter(q Quoter) Option {
	return func(s *Store) { s.quoter = q }
}

func WithLogger(log logging.Logger) Option {
	return func(s *Store) { s.logger = log }
}

// WithPrimaryKey sets the auto increment column filled after Create. Defaults to "id".
func WithPrimaryKey(column string) Option {
	return func(s *Store) { s.primaryKey = column }
}

func New(db SQLCommon, model *bitfield.Model, opt ...Option) *Store {
	s := &Store{db: db, model: model, primaryKey: "id", quoter: DefaultQuoter, logger: log}
	for _, opt := range opt {
		opt(s)
	}
	return s
}

func (this *Store) Model() *bitfield.Model {
	return this.model
}

// TableName returns the configured table, the model table or the plural of the model name.
func (this *Store) TableName() string {
	if this.table != "" {
		return this.table
	}
	if this.model.Table != "" {
		return this.model.Table
	}
	return inflection.Plural(bitfield.ToDBName(this.model.Name))
}

func (this *Store) QuotedTableName() string {
	return Quote(this.quoter, this.TableName())
}

func (this *Store) exec(ctx context.Context, query string, vars ...interface{}) (int64, error) {
	this.logger.Debugf("%s %v", query, vars)
	result, err := this.db.ExecContext(ctx, query, vars...)
	if err != nil {
		return 0, &QueryError{err, query, vars}
	}
	return result.RowsAffected()
}

// Insert inserts the declared columns of row and returns the last insert id.
func (this *Store) Insert(ctx context.Context, row bitfield.Row) (id int64, err error) {
	var columns, placeholders []string
	var vars []interface{}
	for _, column := range this.model.ColumnNames() {
		if value, ok := row.GetColumn(column); ok {
			columns = append(columns, Quote(this.quoter, column))
			placeholders = append(placeholders, "?")
			vars = append(vars, value)
		}
	}

	var query string
	if len(columns) == 0 {
		query = fmt.Sprintf("INSERT INTO %v DEFAULT VALUES", this.QuotedTableName())
	} else {
		query = fmt.Sprintf(
			"INSERT INTO %v (%v) VALUES (%v)",
			this.QuotedTableName(),
			strings.Join(columns, ","),
			strings.Join(placeholders, ","),
		)
	}

	this.logger.Debugf("%s %v", query, vars)
	result, err := this.db.ExecContext(ctx, query, vars...)
	if err != nil {
		return 0, &QueryError{err, query, vars}
	}
	return result.LastInsertId()
}

// Create builds a record from values, flag accessor keys included, and inserts it.
func (this *Store) Create(ctx context.Context, values map[string]interface{}) (*bitfield.Record, error) {
	record, err := this.model.Build(bitfield.MapConstructor, values)
	if err != nil {
		return nil, err
	}
	id, err := this.Insert(ctx, record)
	if err != nil {
		return nil, err
	}
	if this.primaryKey != "" {
		if _, declared := this.model.Column(this.primaryKey); declared {
			if v, ok := record.GetColumn(this.primaryKey); !ok || v == nil {
				if err = record.SetColumn(this.primaryKey, id); err != nil {
					return nil, errors.Wrap(err, "set primary key")
				}
			}
		}
	}
	return record, nil
}

func (this *Store) Where(cond string, args ...interface{}) *Query {
	return &Query{store: this, where: cond, args: args}
}

// All returns the query matching every row.
func (this *Store) All() *Query {
	return &Query{store: this}
}

// Find returns the records matching cond.
func (this *Store) Find(ctx context.Context, cond string, args ...interface{}) ([]*bitfield.Record, error) {
	return this.Where(cond, args...).Find(ctx)
}
