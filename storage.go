package bitfield

import (
	"database/sql"
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var DefaultStorage = NewStorage()

// Storage caches models by name and by struct type.
type Storage struct {
	mu     sync.RWMutex
	byType map[reflect.Type]*Model
	byName map[string]*Model
}

func NewStorage() *Storage {
	return &Storage{byType: map[reflect.Type]*Model{}, byName: map[string]*Model{}}
}

// Of returns the model of the struct value from the DefaultStorage.
func Of(value interface{}) (*Model, error) {
	return DefaultStorage.GetOrNew(value)
}

func (this *Storage) Get(name string) *Model {
	this.mu.RLock()
	defer this.mu.RUnlock()
	return this.byName[name]
}

// Named returns the model name, creating an empty one when missing.
func (this *Storage) Named(name string) *Model {
	this.mu.Lock()
	defer this.mu.Unlock()
	if model, ok := this.byName[name]; ok {
		return model
	}
	model := NewModel(name)
	this.byName[name] = model
	return model
}

// Models returns every stored model sorted by name.
func (this *Storage) Models() (models []*Model) {
	this.mu.RLock()
	defer this.mu.RUnlock()
	for _, model := range this.byName {
		models = append(models, model)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return
}

// GetOrNew returns the model of the struct (or pointer to struct) value, declaring it from the
// struct tags on first use.
func (this *Storage) GetOrNew(value interface{}) (model *Model, err error) {
	if value == nil {
		return nil, errors.New("nil value")
	}
	var reflectType reflect.Type
	if t, ok := value.(reflect.Type); ok {
		reflectType = indirectType(t)
	} else {
		reflectType = indirectType(reflect.TypeOf(value))
	}
	if reflectType.Kind() != reflect.Struct {
		return nil, errors.New("bad value type: " + reflectType.PkgPath() + "." + reflectType.Name())
	}

	this.mu.RLock()
	model = this.byType[reflectType]
	this.mu.RUnlock()
	if model != nil {
		return
	}

	if model, err = newStructModel(reflectType); err != nil {
		return nil, err
	}

	this.mu.Lock()
	defer this.mu.Unlock()
	if cached := this.byType[reflectType]; cached != nil {
		return cached, nil
	}
	this.byType[reflectType] = model
	this.byName[model.Name] = model
	return model, nil
}

// Wrap returns the record of the struct pointer value.
func (this *Storage) Wrap(value interface{}) (*Record, error) {
	model, err := this.GetOrNew(value)
	if err != nil {
		return nil, err
	}
	row, err := model.StructRow(value)
	if err != nil {
		return nil, err
	}
	return model.Wrap(row), nil
}

// newStructModel declares the columns of the exported fields of typ. The `_` field carries model
// tags: TABLE and RESERVED (comma separated accessor names). Ordinary columns are declared before
// bit fields, so flags never take a column name.
func newStructModel(typ reflect.Type) (*Model, error) {
	model := NewModel(typ.Name())
	model.Type = typ
	model.fieldIndex = map[string][]int{}

	if f, ok := typ.FieldByName("_"); ok && len(f.Index) == 1 {
		tags := parseFieldTagSetting(f)
		model.Table = tags.GetString("TABLE")
		model.Reserve(tags.GetStrings("RESERVED")...)
	}

	var bitFields []*Column
	for _, field := range reflect.VisibleFields(typ) {
		if field.Name == "_" || !field.IsExported() || (field.Anonymous && indirectType(field.Type).Kind() == reflect.Struct) {
			continue
		}
		tags := parseFieldTagSetting(field)
		if tags.Flag("-") {
			continue
		}

		col, err := structColumn(field, tags)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", typ.Name(), field.Name)
		}
		if _, dup := model.fieldIndex[col.Name]; dup {
			return nil, errors.Wrapf(ErrColumnRedeclared, "%s.%s: %q", typ.Name(), field.Name, col.Name)
		}
		model.fieldIndex[col.Name] = field.Index

		if col.IsBitField() {
			bitFields = append(bitFields, col)
		} else if _, err = model.Declare(col); err != nil {
			return nil, err
		}
	}

	for _, col := range bitFields {
		if _, err := model.Declare(col); err != nil {
			return nil, err
		}
	}
	return model, nil
}

var nullInt64Type = reflect.TypeOf(sql.NullInt64{})

func structColumn(field reflect.StructField, tags TagSetting) (col *Column, err error) {
	col = &Column{
		Name:        tags.GetString("COLUMN"),
		DataType:    tags.GetString("TYPE"),
		Flags:       tags.GetStrings("BITFIELD"),
		Prefix:      tags.GetString("BITFIELD_PREFIX"),
		RawAccessor: tags.GetString("BITFIELD_ACCESSOR"),
		Nullable:    field.Type.Kind() == reflect.Ptr || field.Type == nullInt64Type,
	}
	if col.MaxBits, err = tags.GetInt("BITFIELD_MAX_BITS"); err != nil {
		return nil, errors.Wrap(err, "BITFIELD_MAX_BITS")
	}
	if col.Name == "" {
		col.Name = ToDBName(field.Name)
	}
	if col.DataType == "" {
		col.DataType = dataTypeOf(field.Type)
	}
	if bits := fieldBits(field.Type); bits > 0 && col.IsBitField() && col.BitWidth() > bits {
		col.MaxBits = bits
	}
	return col, nil
}

// fieldBits returns the number of flags the integer field type can hold without losing bits, or 0
// when typ isn't an integer.
func fieldBits(typ reflect.Type) (bits int) {
	if typ == nullInt64Type {
		return MaxBits
	}
	switch typ = indirectType(typ); typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bits = typ.Bits() - 1
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		bits = typ.Bits()
	}
	if bits > MaxBits {
		bits = MaxBits
	}
	return
}

func dataTypeOf(typ reflect.Type) string {
	if typ == nullInt64Type {
		return "bigint"
	}
	switch indirectType(typ).Kind() {
	case reflect.Int8, reflect.Uint8:
		return "tinyint"
	case reflect.Int16, reflect.Uint16:
		return "smallint"
	case reflect.Int32, reflect.Uint32:
		return "integer"
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return "bigint"
	case reflect.Bool:
		return "boolean"
	case reflect.Float32, reflect.Float64:
		return "double"
	case reflect.String:
		return "text"
	}
	return ""
}
