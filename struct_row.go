package bitfield

import (
	"database/sql"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// StructRow is a Row over the fields of a struct pointer.
type StructRow struct {
	model *Model
	value reflect.Value
}

// StructRow returns the row of value, a pointer to the model struct type.
func (this *Model) StructRow(value interface{}) (*StructRow, error) {
	if this.Type == nil {
		return nil, errors.Errorf("%s: not a struct model", this.Name)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Type() != this.Type {
		return nil, errors.Errorf("%s: expected *%s, but got %T", this.Name, this.Type, value)
	}
	return &StructRow{model: this, value: rv.Elem()}, nil
}

// Interface returns the struct pointer.
func (this *StructRow) Interface() interface{} {
	return this.value.Addr().Interface()
}

func (this *StructRow) field(column string) (reflect.Value, bool) {
	index, ok := this.model.fieldIndex[column]
	if !ok {
		return reflect.Value{}, false
	}
	return this.value.FieldByIndex(index), true
}

func (this *StructRow) GetColumn(column string) (value interface{}, ok bool) {
	var field reflect.Value
	if field, ok = this.field(column); !ok {
		return
	}
	if field.Kind() == reflect.Ptr && field.IsNil() {
		return nil, true
	}
	return reflect.Indirect(field).Interface(), true
}

// SetColumn sets the field of column, converting value to the field type.
func (this *StructRow) SetColumn(column string, value interface{}) (err error) {
	field, ok := this.field(column)
	if !ok {
		return errWithModel(this.model, ErrUnknownColumn, column)
	}

	reflectValue, ok := value.(reflect.Value)
	if !ok {
		reflectValue = reflect.ValueOf(value)
	}

	fieldValue := field
	if !reflectValue.IsValid() {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	if convertible(reflectValue.Type(), fieldValue.Type()) {
		fieldValue.Set(reflectValue.Convert(fieldValue.Type()))
		return nil
	}
	if fieldValue.Kind() == reflect.Ptr {
		if fieldValue.IsNil() {
			fieldValue.Set(reflect.New(field.Type().Elem()))
		}
		fieldValue = fieldValue.Elem()
	}

	if convertible(reflectValue.Type(), fieldValue.Type()) {
		fieldValue.Set(reflectValue.Convert(fieldValue.Type()))
	} else if scanner, ok := fieldValue.Addr().Interface().(sql.Scanner); ok {
		err = scanner.Scan(reflectValue.Interface())
	} else {
		err = fmt.Errorf("could not convert argument of column %s from %s to %s", column, reflectValue.Type(), fieldValue.Type())
	}
	return
}

// convertible excludes the integer to string conversion, which makes runes.
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if to.Kind() == reflect.String {
		return from.Kind() == reflect.String || (from.Kind() == reflect.Slice && from.Elem().Kind() == reflect.Uint8)
	}
	return true
}

// NewStructConstructor returns the Constructor of new struct rows of the model.
func NewStructConstructor(model *Model) Constructor {
	return ConstructorFunc(func(values map[string]interface{}) (Row, error) {
		row, err := model.StructRow(reflect.New(model.Type).Interface())
		if err != nil {
			return nil, err
		}
		for column, value := range values {
			if err = row.SetColumn(column, value); err != nil {
				return nil, err
			}
		}
		return row, nil
	})
}
