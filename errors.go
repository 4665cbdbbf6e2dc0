package bitfield

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNotBitField column isn't an integer typed column with at least one flag
	ErrNotBitField = errors.New("column is not a bit field")
	// ErrModelSealed happens when declaring columns after the first record of the model was created
	ErrModelSealed = errors.New("model already has records, declarations are closed")
	// ErrColumnRedeclared a column with the same name but a different definition was already declared
	ErrColumnRedeclared = errors.New("column already declared with a different definition")
	// ErrAccessorExists the raw accessor name of a bit field is already bound on the model
	ErrAccessorExists = errors.New("accessor already exists")
	// ErrUnknownAccessor no accessor with the given name is bound on the model
	ErrUnknownAccessor = errors.New("unknown accessor")
	// ErrUnknownColumn no column with the given name is declared on the model
	ErrUnknownColumn = errors.New("unknown column")
	// ErrValueConflict the same bit field column got values from its aggregate and its raw accessor
	ErrValueConflict = errors.New("column value given more than once")
	// ErrInvalidRaw the stored value can't be read as a packed integer
	ErrInvalidRaw = errors.New("invalid raw bit field value")
)

// UnknownFlagError a symbolic value references a name that isn't a flag of the column.
type UnknownFlagError struct {
	Model  string
	Column string
	Name   string
}

func (this *UnknownFlagError) Error() string {
	if this.Model == "" {
		return fmt.Sprintf("unknown flag %q for column %q", this.Name, this.Column)
	}
	return fmt.Sprintf("%s: unknown flag %q for column %q", this.Model, this.Name, this.Column)
}

// BitWidthExceededError more flags than the storage integer can hold.
type BitWidthExceededError struct {
	Column string
	Flags  int
	Width  int
}

func (this *BitWidthExceededError) Error() string {
	return fmt.Sprintf("column %q declares %d flags, but its storage holds at most %d",
		this.Column, this.Flags, this.Width)
}

// AccessorCollisionWarning is a non-fatal notice: the flag accessor wasn't created because the
// name already exists on the model.
type AccessorCollisionWarning struct {
	Model    string
	Column   string
	Accessor string
}

func (this *AccessorCollisionWarning) Error() string {
	return fmt.Sprintf("accessor '%s' cannot be created, already exists", this.Accessor)
}

func (this *AccessorCollisionWarning) String() string {
	return this.Model + "." + this.Column + ": " + this.Error()
}

// Errors contains all happened errors
type Errors []error

func WalkErr(cb func(err error) (stop bool), errs ...error) (stop bool) {
	for _, err := range errs {
		if err == nil {
			continue
		}

		if cb(err) {
			return true
		}

		if cause := errors.Cause(err); cause != err {
			if WalkErr(cb, cause) {
				return true
			}
		}

		if errs, ok := err.(Errors); ok {
			if WalkErr(cb, errs...) {
				return true
			}
		} else if errs, ok := err.(interface{ Errors() []error }); ok {
			if WalkErr(cb, errs.Errors()...) {
				return true
			}
		}
	}
	return false
}

func IsError(expected error, err ...error) (is bool) {
	return WalkErr(func(err error) (stop bool) {
		return err == expected
	}, err...)
}

// IsUnknownFlag returns if err is, wraps or aggregates an UnknownFlagError
func IsUnknownFlag(err error) bool {
	return WalkErr(func(err error) (stop bool) {
		_, ok := err.(*UnknownFlagError)
		return ok
	}, err)
}

// IsBitWidthExceeded returns if err is, wraps or aggregates a BitWidthExceededError
func IsBitWidthExceeded(err error) bool {
	return WalkErr(func(err error) (stop bool) {
		_, ok := err.(*BitWidthExceededError)
		return ok
	}, err)
}

// Add adds an error
func (errs Errors) Add(newErrors ...error) Errors {
	for _, err := range newErrors {
		if err == nil {
			continue
		}

		if errors, ok := err.(Errors); ok {
			errs = errs.Add(errors...)
		} else {
			ok = true
			for _, e := range errs {
				if err == e {
					ok = false
				}
			}
			if ok {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// Err returns nil when empty, the only error when there is one, otherwise errs
func (errs Errors) Err() error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errs
	}
}

// Error format happened errors
func (errs Errors) Error() string {
	var errors = []string{}
	for _, e := range errs {
		errors = append(errors, e.Error())
	}
	return strings.Join(errors, "; ")
}

func errWithModel(model *Model, err error, name string) error {
	return errors.Wrapf(err, "%s: %q", model.Name, name)
}
