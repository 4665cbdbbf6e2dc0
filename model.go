package bitfield

import (
	"reflect"
	"sync"

	"github.com/moisespsena-go/logging"
)

// Model is the accessor registry of one entity type: its declared columns and every accessor
// name bound to it.
type Model struct {
	Name  string
	Table string
	// Type is the struct type of models created from Go values.
	Type reflect.Type
	// OnWarning receives accessor collisions. Defaults to logging them.
	OnWarning func(w *AccessorCollisionWarning)

	mu            sync.RWMutex
	logger        logging.Logger
	columns       []*Column
	columnsByName map[string]*Column
	accessors     map[string]*Binding
	bindings      map[string][]*Binding
	warnings      []*AccessorCollisionWarning
	sealed        bool

	// struct field index by column, only for struct models
	fieldIndex map[string][]int
}

func NewModel(name string) *Model {
	return &Model{
		Name:          name,
		columnsByName: map[string]*Column{},
		accessors:     map[string]*Binding{},
		bindings:      map[string][]*Binding{},
	}
}

func (this *Model) SetLogger(log logging.Logger) {
	this.logger = log
}

func (this *Model) getLogger() logging.Logger {
	if this.logger != nil {
		return this.logger
	}
	return log
}

// Reserve marks names as already existing on the entity type, so no flag accessor takes them.
func (this *Model) Reserve(names ...string) *Model {
	this.mu.Lock()
	defer this.mu.Unlock()
	for _, name := range names {
		if _, ok := this.accessors[name]; !ok {
			this.accessors[name] = &Binding{Name: name, Kind: AccessorReserved}
		}
	}
	return this
}

// Seal closes declarations. Called when the first record is wrapped or built.
func (this *Model) Seal() {
	this.mu.RLock()
	sealed := this.sealed
	this.mu.RUnlock()
	if !sealed {
		this.mu.Lock()
		this.sealed = true
		this.mu.Unlock()
	}
}

func (this *Model) Sealed() bool {
	this.mu.RLock()
	defer this.mu.RUnlock()
	return this.sealed
}

// Columns returns the declared columns in declaration order.
func (this *Model) Columns() []*Column {
	this.mu.RLock()
	defer this.mu.RUnlock()
	return append([]*Column(nil), this.columns...)
}

func (this *Model) ColumnNames() []string {
	this.mu.RLock()
	defer this.mu.RUnlock()
	names := make([]string, len(this.columns))
	for i, col := range this.columns {
		names[i] = col.Name
	}
	return names
}

func (this *Model) Column(name string) (col *Column, ok bool) {
	this.mu.RLock()
	defer this.mu.RUnlock()
	col, ok = this.columnsByName[name]
	return
}

// BitField returns the bit field column name.
func (this *Model) BitField(name string) (col *Column, ok bool) {
	if col, ok = this.Column(name); ok && !col.IsBitField() {
		return nil, false
	}
	return
}

func (this *Model) BitFields() (cols []*Column) {
	for _, col := range this.Columns() {
		if col.IsBitField() {
			cols = append(cols, col)
		}
	}
	return
}

// Accessor returns the binding of the accessor name.
func (this *Model) Accessor(name string) (b *Binding, ok bool) {
	this.mu.RLock()
	defer this.mu.RUnlock()
	b, ok = this.accessors[name]
	return
}

// Bindings returns the bindings compiled for the bit field column.
func (this *Model) Bindings(column string) []*Binding {
	this.mu.RLock()
	defer this.mu.RUnlock()
	return append([]*Binding(nil), this.bindings[column]...)
}

func (this *Model) Warnings() []*AccessorCollisionWarning {
	this.mu.RLock()
	defer this.mu.RUnlock()
	return append([]*AccessorCollisionWarning(nil), this.warnings...)
}

func (this *Model) warn(warnings ...*AccessorCollisionWarning) {
	for _, w := range warnings {
		if this.OnWarning != nil {
			this.OnWarning(w)
		} else {
			this.getLogger().Warningf("%s", w)
		}
	}
}

func (this *Model) bitField(name string) (*Column, error) {
	col, ok := this.BitField(name)
	if !ok {
		return nil, errWithModel(this, ErrUnknownColumn, name)
	}
	return col, nil
}

func (this *Model) flagErr(err error) error {
	if e, ok := err.(*UnknownFlagError); ok && e.Model == "" {
		e.Model = this.Name
	}
	return err
}

func (this *Model) String() string {
	return this.Name
}
