package bitfield

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FlagAssignment is a flag accessor given as a construction key.
type FlagAssignment struct {
	Binding *Binding
	Value   bool
}

// Partition is construction data split into column values, handed to the host constructor,
// and flag assignments, applied to the built row.
type Partition struct {
	Columns map[string]interface{}
	Flags   []FlagAssignment
}

// Partition splits values. Keys that aren't declared columns but are flag accessors become flag
// assignments, their values read with Truth. Bit field column values are encoded, raw accessor keys
// are moved to their column and unknown keys are passed to the host untouched. Giving a column both
// its aggregate and its raw accessor key fails with ErrValueConflict.
func (this *Model) Partition(values map[string]interface{}) (*Partition, error) {
	var (
		p     = &Partition{Columns: make(map[string]interface{}, len(values))}
		given = map[string]string{}
		errs  Errors
		keys  = maps.Keys(values)
	)
	slices.Sort(keys)

	for _, key := range keys {
		value := values[key]
		b, ok := this.Accessor(key)
		if !ok {
			p.Columns[key] = value
			continue
		}
		switch b.Kind {
		case AccessorFlag:
			p.Flags = append(p.Flags, FlagAssignment{b, Truth(value)})
		case AccessorAggregate, AccessorRaw:
			if from, dup := given[b.Column.Name]; dup {
				errs = errs.Add(errors.Wrapf(ErrValueConflict, "%s: %q and %q", this.Name, from, key))
				continue
			}
			given[b.Column.Name] = key
			v, err := this.columnValue(b.Column, value)
			if err != nil {
				errs = errs.Add(err)
				continue
			}
			p.Columns[b.Column.Name] = v
		default:
			p.Columns[key] = value
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// Build builds a row in two phases: the host constructor receives the column values, then the
// flag assignments are applied on the new row.
func (this *Model) Build(ctor Constructor, values map[string]interface{}) (*Record, error) {
	this.Seal()

	p, err := this.Partition(values)
	if err != nil {
		return nil, err
	}

	row, err := ctor.New(p.Columns)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: construct", this.Name)
	}

	record := this.Wrap(row)
	for _, assignment := range p.Flags {
		if _, err = record.SetFlag(assignment.Binding.Name, assignment.Value); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// columnValue returns the value stored for col: symbolic values are encoded from 0.
func (this *Model) columnValue(col *Column, value interface{}) (interface{}, error) {
	if symbol, ok := SymbolOf(value); ok {
		raw, err := col.Encode(symbol.FlagNames()...)
		if err != nil {
			return nil, this.flagErr(err)
		}
		return raw, nil
	}
	v, err := storeValue(col, value)
	if err != nil {
		return nil, errors.Wrapf(err, "%s.%s", this.Name, col.Name)
	}
	return v, nil
}
