package bitfield_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bitfield "github.com/moisespsena-go/aorm-bitfield"
)

func TestTranslateUpdate(t *testing.T) {
	model := newUserModel(t, nil)

	tests := []struct {
		name   string
		values map[string]interface{}
		want   map[string]interface{}
	}{
		{
			"aggregate",
			map[string]interface{}{"status": []string{"active"}},
			map[string]interface{}{"status": int64(1)},
		},
		{
			"single name and other columns",
			map[string]interface{}{"status": "foo", "name": "x"},
			map[string]interface{}{"status": int64(4), "name": "x"},
		},
		{
			"empty list clears",
			map[string]interface{}{"status": []string{}},
			map[string]interface{}{"status": int64(0)},
		},
		{
			"raw accessor",
			map[string]interface{}{"_status": 3},
			map[string]interface{}{"status": int64(3)},
		},
		{
			"integer",
			map[string]interface{}{"status": 10},
			map[string]interface{}{"status": int64(10)},
		},
		{
			"set flag",
			map[string]interface{}{"active": true},
			map[string]interface{}{"status": bitfield.NewExpr("(COALESCE(`status`, 0) | ?)", int64(1))},
		},
		{
			"clear flag",
			map[string]interface{}{"foo": false},
			map[string]interface{}{"status": bitfield.NewExpr("(COALESCE(`status`, 0) - (COALESCE(`status`, 0) & ?))", int64(4))},
		},
		{
			"set and clear flags",
			map[string]interface{}{"active": false, "foo": true, "bar": true},
			map[string]interface{}{"status": bitfield.NewExpr(
				"((COALESCE(`status`, 0) | ?) - ((COALESCE(`status`, 0) | ?) & ?))", int64(12), int64(12), int64(1))},
		},
		{
			"flags folded into the column value",
			map[string]interface{}{"status": []string{"active", "inactive"}, "inactive": false, "bar": 1},
			map[string]interface{}{"status": int64(9)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.TranslateUpdate(tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateAll(t *testing.T) {
	model := newUserModel(t, nil)

	var calls []map[string]interface{}
	updater := bitfield.UpdaterFunc(func(ctx context.Context, values map[string]interface{}) (int64, error) {
		calls = append(calls, values)
		return 10, nil
	})

	n, err := model.UpdateAll(context.Background(), updater, map[string]interface{}{"status": []string{"active"}})
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]interface{}{"status": int64(1)}, calls[0])

	_, err = model.UpdateAll(context.Background(), updater, map[string]interface{}{"status": []string{"active", "nope"}})
	require.Error(t, err)
	assert.True(t, bitfield.IsUnknownFlag(err))
	var flagErr *bitfield.UnknownFlagError
	flagErr, _ = err.(*bitfield.UnknownFlagError)
	require.NotNil(t, flagErr)
	assert.Equal(t, "user", flagErr.Model)
	assert.Equal(t, "nope", flagErr.Name)
	assert.Len(t, calls, 1)
}

func TestUpdateAllValueConflict(t *testing.T) {
	model := newUserModel(t, nil)

	var calls int
	updater := bitfield.UpdaterFunc(func(ctx context.Context, values map[string]interface{}) (int64, error) {
		calls++
		return 0, nil
	})

	_, err := model.UpdateAll(context.Background(), updater, map[string]interface{}{"status": "foo", "_status": 3})
	require.Error(t, err)
	assert.True(t, bitfield.IsError(bitfield.ErrValueConflict, err), "%v", err)
	assert.Zero(t, calls)
}
