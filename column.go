package bitfield

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// integerFamilies maps integer SQL types to the number of flags their signed storage can hold.
var integerFamilies = map[string]int{
	"tinyint":     7,
	"smallint":    15,
	"int2":        15,
	"smallserial": 15,
	"mediumint":   23,
	"int":         31,
	"integer":     31,
	"int4":        31,
	"serial":      31,
	"bigint":      63,
	"int8":        63,
	"bigserial":   63,
}

// IntegerFamilyWidth returns the flag capacity of the integer SQL type dataType. ok is false when
// dataType isn't an integer type. Display widths and modifiers are ignored: "INT(11) UNSIGNED".
func IntegerFamilyWidth(dataType string) (width int, ok bool) {
	typ := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexAny(typ, "( "); i >= 0 {
		typ = typ[:i]
	}
	width, ok = integerFamilies[typ]
	return
}

// Column declares a table column. It is a bit field when DataType is an integer type and Flags
// isn't empty, otherwise an ordinary column.
type Column struct {
	Name     string
	DataType string
	// Flags in bit order: Flags[i] is the bit 1<<i.
	Flags []string
	// Prefix is prepended to every flag accessor name.
	Prefix string
	// RawAccessor is the accessor of the packed integer. Defaults to "_" + Name.
	RawAccessor string
	Nullable    bool
	// MaxBits limits the number of flags. Zero derives the limit from DataType.
	MaxBits int
}

func (this *Column) IsBitField() bool {
	if len(this.Flags) == 0 {
		return false
	}
	_, ok := IntegerFamilyWidth(this.DataType)
	return ok
}

func (this *Column) RawAccessorName() string {
	if this.RawAccessor != "" {
		return this.RawAccessor
	}
	return "_" + this.Name
}

// AccessorName returns the accessor name of flag.
func (this *Column) AccessorName(flag string) string {
	return this.Prefix + flag
}

func (this *Column) BitWidth() int {
	if this.MaxBits > 0 {
		return this.MaxBits
	}
	if width, ok := IntegerFamilyWidth(this.DataType); ok {
		return width
	}
	return 0
}

func (this *Column) Validate() error {
	if this.Name == "" {
		return errors.New("column name is blank")
	}
	if !this.IsBitField() {
		return errors.Wrapf(ErrNotBitField, "column %q (type %q, %d flags)", this.Name, this.DataType, len(this.Flags))
	}
	if width := this.BitWidth(); len(this.Flags) > width || width > MaxBits {
		if width > MaxBits {
			width = MaxBits
		}
		return &BitWidthExceededError{Column: this.Name, Flags: len(this.Flags), Width: width}
	}
	for i, flag := range this.Flags {
		if flag == "" {
			return errors.Errorf("column %q: flag %d has a blank name", this.Name, i)
		}
		if slices.Index(this.Flags, flag) != i {
			return errors.Errorf("column %q: duplicate flag %q", this.Name, flag)
		}
	}
	return nil
}

// Position returns the bit position of name. Besides the flag itself, the flag accessor name
// (Prefix + flag) is accepted.
func (this *Column) Position(name string) (position int, ok bool) {
	if position = slices.Index(this.Flags, name); position >= 0 {
		return position, true
	}
	if this.Prefix != "" && strings.HasPrefix(name, this.Prefix) {
		if position = slices.Index(this.Flags, name[len(this.Prefix):]); position >= 0 {
			return position, true
		}
	}
	return -1, false
}

// Mask returns the mask of the flag name.
func (this *Column) Mask(name string) (mask int64, ok bool) {
	position, ok := this.Position(name)
	if !ok {
		return 0, false
	}
	return MaskOf(position), true
}

// Encode folds names into a packed integer starting from 0. Every name is resolved before the
// value is computed.
func (this *Column) Encode(names ...string) (raw int64, err error) {
	masks, err := this.masks(names)
	if err != nil {
		return 0, err
	}
	for _, mask := range masks {
		raw = SetBit(raw, mask, true)
	}
	return raw, nil
}

// Decode returns the flags set in raw, in declaration order.
func (this *Column) Decode(raw int64) []string {
	return DecodeAll(raw, this.Flags)
}

func (this *Column) masks(names []string) (masks []int64, err error) {
	masks = make([]int64, len(names))
	for i, name := range names {
		mask, ok := this.Mask(name)
		if !ok {
			return nil, &UnknownFlagError{Column: this.Name, Name: name}
		}
		masks[i] = mask
	}
	return
}

func (this *Column) Equal(other *Column) bool {
	return this.Name == other.Name &&
		strings.EqualFold(this.DataType, other.DataType) &&
		slices.Equal(this.Flags, other.Flags) &&
		this.Prefix == other.Prefix &&
		this.RawAccessorName() == other.RawAccessorName() &&
		this.Nullable == other.Nullable &&
		this.MaxBits == other.MaxBits
}

func (this *Column) clone() *Column {
	clone := *this
	clone.Flags = slices.Clone(this.Flags)
	return &clone
}
