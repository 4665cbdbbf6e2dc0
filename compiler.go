package bitfield

import (
	"github.com/pkg/errors"
)

// Declare declares col on the model. Bit field columns are compiled by Register, any other column,
// flagged or not, is an ordinary column and only takes its accessor name.
func (this *Model) Declare(col *Column) ([]*Binding, error) {
	if col.IsBitField() {
		return this.Register(col)
	}
	if len(col.Flags) > 0 {
		this.getLogger().Debugf("%s.%s: type %q isn't an integer type, flags ignored", this.Name, col.Name, col.DataType)
	}
	if col.Name == "" {
		return nil, errors.Errorf("%s: column name is blank", this.Name)
	}

	this.mu.Lock()
	defer this.mu.Unlock()

	if existing, ok := this.columnsByName[col.Name]; ok {
		if existing.Equal(col) {
			return nil, nil
		}
		return nil, errWithModel(this, ErrColumnRedeclared, col.Name)
	}
	if this.sealed {
		return nil, errWithModel(this, ErrModelSealed, col.Name)
	}
	if _, ok := this.accessors[col.Name]; ok {
		return nil, errWithModel(this, ErrAccessorExists, col.Name)
	}

	col = col.clone()
	this.columns = append(this.columns, col)
	this.columnsByName[col.Name] = col
	this.accessors[col.Name] = &Binding{Name: col.Name, Kind: AccessorColumn, Column: col}
	return nil, nil
}

// Register compiles the bit field column col: one boolean accessor per flag, the aggregate
// accessor under the column name and the raw accessor. Flags whose accessor name already exists
// are skipped with an AccessorCollisionWarning; the column keeps working for the others.
// Registering an equal column again returns the bindings of the first registration.
func (this *Model) Register(col *Column) (bindings []*Binding, err error) {
	if err = col.Validate(); err != nil {
		return nil, errors.Wrap(err, this.Name)
	}

	var warnings []*AccessorCollisionWarning
	if bindings, warnings, err = this.register(col.clone()); err != nil {
		return nil, err
	}
	this.warn(warnings...)
	return bindings, nil
}

func (this *Model) register(col *Column) (bindings []*Binding, warnings []*AccessorCollisionWarning, err error) {
	this.mu.Lock()
	defer this.mu.Unlock()

	if existing, ok := this.columnsByName[col.Name]; ok {
		if existing.IsBitField() && existing.Equal(col) {
			return append([]*Binding(nil), this.bindings[col.Name]...), nil, nil
		}
		return nil, nil, errWithModel(this, ErrColumnRedeclared, col.Name)
	}
	if this.sealed {
		return nil, nil, errWithModel(this, ErrModelSealed, col.Name)
	}

	rawName := col.RawAccessorName()
	for _, name := range []string{col.Name, rawName} {
		if _, ok := this.accessors[name]; ok {
			return nil, nil, errWithModel(this, ErrAccessorExists, name)
		}
	}
	if rawName == col.Name {
		return nil, nil, errWithModel(this, ErrAccessorExists, rawName)
	}

	for position, flag := range col.Flags {
		name := col.AccessorName(flag)
		if _, exists := this.accessors[name]; exists || name == col.Name || name == rawName {
			warnings = append(warnings, &AccessorCollisionWarning{Model: this.Name, Column: col.Name, Accessor: name})
			continue
		}
		b := &Binding{
			Name:        name,
			Kind:        AccessorFlag,
			Column:      col,
			Flag:        flag,
			Position:    position,
			Mask:        MaskOf(position),
			RawAccessor: rawName,
		}
		this.accessors[name] = b
		bindings = append(bindings, b)
	}

	aggregate := &Binding{Name: col.Name, Kind: AccessorAggregate, Column: col, Position: -1, RawAccessor: rawName}
	raw := &Binding{Name: rawName, Kind: AccessorRaw, Column: col, Position: -1, RawAccessor: rawName}
	this.accessors[aggregate.Name] = aggregate
	this.accessors[raw.Name] = raw
	bindings = append(bindings, aggregate, raw)

	this.columns = append(this.columns, col)
	this.columnsByName[col.Name] = col
	this.bindings[col.Name] = bindings
	this.warnings = append(this.warnings, warnings...)
	return append([]*Binding(nil), bindings...), warnings, nil
}
