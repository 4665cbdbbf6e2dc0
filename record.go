package bitfield

import (
	"github.com/pkg/errors"
)

// Record is a Row bound to its Model. Values written to bit field columns are encoded before they
// reach the wrapped row; every other column passes through.
type Record struct {
	Model *Model
	row   Row
}

// Wrap binds row to the model and closes the model declarations.
func (this *Model) Wrap(row Row) *Record {
	if r, ok := row.(*Record); ok && r.Model == this {
		return r
	}
	this.Seal()
	return &Record{Model: this, row: row}
}

// Row returns the wrapped row.
func (this *Record) Row() Row {
	return this.row
}

// GetColumn reads column. Bit field columns are read as int64, or nil when null.
func (this *Record) GetColumn(column string) (value interface{}, ok bool) {
	if value, ok = this.row.GetColumn(column); !ok {
		return
	}
	if col, isBitField := this.Model.BitField(column); isBitField {
		if raw, notNull, err := RawOf(value); err == nil {
			if notNull {
				return raw, true
			}
			if !col.Nullable {
				return int64(0), true
			}
			return nil, true
		}
	}
	return
}

// SetColumn writes column. On bit field columns, a symbolic value sets the bit of each named flag
// on top of the current value; an integer replaces the value.
func (this *Record) SetColumn(column string, value interface{}) error {
	col, ok := this.Model.BitField(column)
	if !ok {
		return this.row.SetColumn(column, value)
	}

	if symbol, ok := SymbolOf(value); ok {
		masks, err := col.masks(symbol.FlagNames())
		if err != nil {
			return this.Model.flagErr(err)
		}
		raw, _, err := this.Raw(column)
		if err != nil {
			return err
		}
		for _, mask := range masks {
			raw = SetBit(raw, mask, true)
		}
		return this.row.SetColumn(column, raw)
	}

	v, err := storeValue(col, value)
	if err != nil {
		return errors.Wrapf(err, "%s.%s", this.Model.Name, column)
	}
	return this.row.SetColumn(column, v)
}

// Raw returns the packed integer of column. ok is false when the stored value is null.
func (this *Record) Raw(column string) (raw int64, ok bool, err error) {
	if _, err = this.Model.bitField(column); err != nil {
		return
	}
	value, _ := this.row.GetColumn(column)
	if raw, ok, err = RawOf(value); err != nil {
		err = errors.Wrapf(err, "%s.%s", this.Model.Name, column)
	}
	return
}

func (this *Record) SetRaw(column string, raw int64) error {
	if _, err := this.Model.bitField(column); err != nil {
		return err
	}
	if err := checkRaw(raw); err != nil {
		return errors.Wrapf(err, "%s.%s", this.Model.Name, column)
	}
	return this.row.SetColumn(column, raw)
}

func (this *Record) flagBinding(name string) (*Binding, error) {
	b, ok := this.Model.Accessor(name)
	if !ok || b.Kind != AccessorFlag {
		return nil, errWithModel(this.Model, ErrUnknownAccessor, name)
	}
	return b, nil
}

// Flag returns the state of the flag accessor name.
func (this *Record) Flag(name string) (bool, error) {
	b, err := this.flagBinding(name)
	if err != nil {
		return false, err
	}
	raw, _, err := this.Raw(b.Column.Name)
	if err != nil {
		return false, err
	}
	return IsSet(raw, b.Mask), nil
}

// SetFlag sets or clears the flag accessor name and returns v.
func (this *Record) SetFlag(name string, v bool) (bool, error) {
	b, err := this.flagBinding(name)
	if err != nil {
		return false, err
	}
	raw, _, err := this.Raw(b.Column.Name)
	if err != nil {
		return false, err
	}
	if err = this.row.SetColumn(b.Column.Name, SetBit(raw, b.Mask, v)); err != nil {
		return false, err
	}
	return v, nil
}

// Flags returns the flags set on column, in declaration order.
func (this *Record) Flags(column string) ([]string, error) {
	col, err := this.Model.bitField(column)
	if err != nil {
		return nil, err
	}
	raw, _, err := this.Raw(column)
	if err != nil {
		return nil, err
	}
	return col.Decode(raw), nil
}

// SetFlags replaces the flags of column: flags in names are set, all others cleared.
func (this *Record) SetFlags(column string, names ...string) ([]string, error) {
	col, err := this.Model.bitField(column)
	if err != nil {
		return nil, err
	}
	masks, err := col.masks(names)
	if err != nil {
		return nil, this.Model.flagErr(err)
	}
	raw, _, err := this.Raw(column)
	if err != nil {
		return nil, err
	}
	var set int64
	for _, mask := range masks {
		set |= mask
	}
	for position := range col.Flags {
		mask := MaskOf(position)
		raw = SetBit(raw, mask, IsSet(set, mask))
	}
	if err = this.row.SetColumn(column, raw); err != nil {
		return nil, err
	}
	return col.Decode(raw), nil
}

// Get reads the accessor name: bool for flags, []string for aggregates, int64 (or nil) for raw
// accessors and the stored value for ordinary columns.
func (this *Record) Get(name string) (interface{}, error) {
	b, ok := this.Model.Accessor(name)
	if !ok {
		return nil, errWithModel(this.Model, ErrUnknownAccessor, name)
	}
	switch b.Kind {
	case AccessorFlag:
		return this.Flag(name)
	case AccessorAggregate:
		return this.Flags(b.Column.Name)
	case AccessorRaw:
		v, _ := this.GetColumn(b.Column.Name)
		return v, nil
	case AccessorColumn:
		v, _ := this.row.GetColumn(name)
		return v, nil
	}
	return nil, errWithModel(this.Model, ErrUnknownAccessor, name)
}

// Set writes the accessor name and returns what Get would read back.
func (this *Record) Set(name string, value interface{}) (interface{}, error) {
	b, ok := this.Model.Accessor(name)
	if !ok {
		return nil, errWithModel(this.Model, ErrUnknownAccessor, name)
	}
	switch b.Kind {
	case AccessorFlag:
		return this.SetFlag(name, Truth(value))
	case AccessorAggregate:
		if symbol, ok := SymbolOf(value); ok {
			return this.SetFlags(b.Column.Name, symbol.FlagNames()...)
		}
		if err := this.SetColumn(b.Column.Name, value); err != nil {
			return nil, err
		}
		return this.Flags(b.Column.Name)
	case AccessorRaw:
		if _, ok := SymbolOf(value); ok {
			return nil, errors.Wrapf(ErrInvalidRaw, "%s.%s: %v", this.Model.Name, name, value)
		}
		if err := this.SetColumn(b.Column.Name, value); err != nil {
			return nil, err
		}
		return this.Get(name)
	case AccessorColumn:
		if err := this.row.SetColumn(name, value); err != nil {
			return nil, err
		}
		return value, nil
	}
	return nil, errWithModel(this.Model, ErrUnknownAccessor, name)
}

// storeValue normalizes a non symbolic value of col: an int64, or nil for null on nullable
// columns. Null on other columns stores 0.
func storeValue(col *Column, value interface{}) (interface{}, error) {
	raw, ok, err := RawOf(value)
	if err != nil {
		return nil, err
	}
	if !ok {
		if col.Nullable {
			return nil, nil
		}
		return int64(0), nil
	}
	return raw, nil
}
