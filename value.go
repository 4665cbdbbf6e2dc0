package bitfield

import (
	"database/sql"
	"database/sql/driver"
	"math"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// Symbol is a symbolic bit field value: one flag name or a list of flag names.
type Symbol interface {
	FlagNames() []string
}

// Name is a single flag.
type Name string

func (this Name) FlagNames() []string { return []string{string(this)} }

// Names is a list of flags.
type Names []string

func (this Names) FlagNames() []string { return this }

// SymbolOf returns the symbolic form of value. Strings made only of decimal digits are raw
// integers, not symbols.
func SymbolOf(value interface{}) (symbol Symbol, ok bool) {
	switch t := value.(type) {
	case Symbol:
		return t, true
	case string:
		if isDigits(t) {
			return nil, false
		}
		return Name(t), true
	case []string:
		return Names(t), true
	case []interface{}:
		names := make(Names, len(t))
		for i, v := range t {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			names[i] = s
		}
		return names, true
	}
	return nil, false
}

// RawOf reads value as a packed integer. ok is false when value is null.
func RawOf(value interface{}) (raw int64, ok bool, err error) {
	switch t := value.(type) {
	case nil:
		return 0, false, nil
	case int64:
		return t, true, checkRaw(t)
	case int:
		return int64(t), true, checkRaw(int64(t))
	case string:
		return parseRaw(t)
	case []byte:
		return parseRaw(string(t))
	case sql.NullInt64:
		if !t.Valid {
			return 0, false, nil
		}
		return t.Int64, true, checkRaw(t.Int64)
	case driver.Valuer:
		v, err := t.Value()
		if err != nil {
			return 0, false, errors.Wrap(err, "raw value")
		}
		return RawOf(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return 0, false, nil
		}
		return RawOf(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true, checkRaw(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), true, nil
		}
	}
	return 0, false, errors.Wrapf(ErrInvalidRaw, "%T(%v)", value, value)
}

// IsRaw reports whether value is already a plain non-negative integer (or null).
func IsRaw(value interface{}) bool {
	if _, ok := SymbolOf(value); ok {
		return false
	}
	_, _, err := RawOf(value)
	return err == nil
}

func parseRaw(s string) (int64, bool, error) {
	if !isDigits(s) {
		return 0, false, errors.Wrapf(ErrInvalidRaw, "%q", s)
	}
	raw, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, errors.Wrapf(ErrInvalidRaw, "%q", s)
	}
	return raw, true, nil
}

func checkRaw(raw int64) error {
	if raw < 0 {
		return errors.Wrapf(ErrInvalidRaw, "negative value %d", raw)
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
