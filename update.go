package bitfield

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Updater is the host mechanism updating every matched row with values in one statement.
type Updater interface {
	UpdateAll(ctx context.Context, values map[string]interface{}) (rowsAffected int64, err error)
}

type UpdaterFunc func(ctx context.Context, values map[string]interface{}) (rowsAffected int64, err error)

func (f UpdaterFunc) UpdateAll(ctx context.Context, values map[string]interface{}) (int64, error) {
	return f(ctx, values)
}

type flagsUpdate struct {
	set, clear int64
}

// TranslateUpdate rewrites the update values of a bulk update. A symbolic bit field value becomes
// its packed integer, replacing every flag of the column on all matched rows. Raw accessor keys
// move to their column. Flag accessor keys set or clear one bit: they are folded into the column
// value when the column is also updated, otherwise they become an Expr; their values are read with
// Truth. Other keys are untouched. Giving a column both its aggregate and its raw accessor key
// fails with ErrValueConflict.
func (this *Model) TranslateUpdate(values map[string]interface{}) (map[string]interface{}, error) {
	var (
		result  = make(map[string]interface{}, len(values))
		pending = map[string]*flagsUpdate{}
		given   = map[string]string{}
		errs    Errors
		keys    = maps.Keys(values)
	)
	slices.Sort(keys)

	for _, key := range keys {
		value := values[key]
		b, ok := this.Accessor(key)
		if !ok {
			result[key] = value
			continue
		}
		switch b.Kind {
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
			result[b.Column.Name] = v
		case AccessorFlag:
			u := pending[b.Column.Name]
			if u == nil {
				u = &flagsUpdate{}
				pending[b.Column.Name] = u
			}
			if Truth(value) {
				u.set, u.clear = SetBit(u.set, b.Mask, true), SetBit(u.clear, b.Mask, false)
			} else {
				u.set, u.clear = SetBit(u.set, b.Mask, false), SetBit(u.clear, b.Mask, true)
			}
		default:
			result[key] = value
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}

	for column, u := range pending {
		if v, ok := result[column]; ok {
			raw, _, _ := RawOf(v)
			result[column] = SetBit(SetBit(raw, u.set, true), u.clear, false)
		} else {
			result[column] = FlagsExpr(column, u.set, u.clear)
		}
	}
	return result, nil
}

// UpdateAll translates values and hands them to updater, which runs one statement for every
// matched row.
func (this *Model) UpdateAll(ctx context.Context, updater Updater, values map[string]interface{}) (int64, error) {
	translated, err := this.TranslateUpdate(values)
	if err != nil {
		return 0, err
	}
	return updater.UpdateAll(ctx, translated)
}
