package bitfield_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bitfield "github.com/moisespsena-go/aorm-bitfield"
)

type Account struct {
	_ struct{} `bitfield:"TABLE:accounts;RESERVED:inactive"`

	ID     int64
	Name   string
	Status int           `bitfield:"BITFIELD:active,inactive,foo,bar"`
	Level  *int32        `sql:"TYPE:smallint" bitfield:"BITFIELD:low,high;BITFIELD_PREFIX:level_"`
	Perms  sql.NullInt64 `aorm:"column:permissions" bitfield:"BITFIELD:read,write;BITFIELD_ACCESSOR:perms_raw"`
	Secret string        `sql:"-"`
}

func TestStorageStructModel(t *testing.T) {
	storage := bitfield.NewStorage()
	model, err := storage.GetOrNew(&Account{})
	require.NoError(t, err)

	assert.Equal(t, "Account", model.Name)
	assert.Equal(t, "accounts", model.Table)
	assert.Equal(t, []string{"id", "name", "status", "level", "permissions"}, model.ColumnNames())

	status, ok := model.BitField("status")
	require.True(t, ok)
	assert.Equal(t, "bigint", status.DataType)
	assert.False(t, status.Nullable)

	level, ok := model.BitField("level")
	require.True(t, ok)
	assert.Equal(t, "smallint", level.DataType)
	assert.True(t, level.Nullable)

	perms, ok := model.BitField("permissions")
	require.True(t, ok)
	assert.True(t, perms.Nullable)

	b, ok := model.Accessor("inactive")
	require.True(t, ok)
	assert.Equal(t, bitfield.AccessorReserved, b.Kind)
	require.Len(t, model.Warnings(), 1)
	assert.Equal(t, "inactive", model.Warnings()[0].Accessor)

	for _, name := range []string{"active", "foo", "bar", "level_low", "level_high", "read", "write"} {
		b, ok := model.Accessor(name)
		require.True(t, ok, name)
		assert.Equal(t, bitfield.AccessorFlag, b.Kind, name)
	}
	_, ok = model.Accessor("perms_raw")
	assert.True(t, ok)
	_, ok = model.Column("secret")
	assert.False(t, ok)

	cached, err := storage.GetOrNew(Account{})
	require.NoError(t, err)
	assert.Same(t, model, cached)
	assert.Same(t, model, storage.Get("Account"))
	assert.Same(t, model, storage.Named("Account"))
	assert.Equal(t, []*bitfield.Model{model}, storage.Models())
}

func TestStorageWrap(t *testing.T) {
	storage := bitfield.NewStorage()
	account := &Account{ID: 1, Status: 5}
	record, err := storage.Wrap(account)
	require.NoError(t, err)

	assert.Equal(t, []string{"active", "foo"}, flags(t, record, "status"))
	_, err = record.SetFlag("foo", false)
	require.NoError(t, err)
	assert.Equal(t, 1, account.Status)

	v, err := record.Get("_level")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = record.SetFlag("level_high", true)
	require.NoError(t, err)
	require.NotNil(t, account.Level)
	assert.Equal(t, int32(2), *account.Level)

	_, err = record.SetFlags("permissions", "write")
	require.NoError(t, err)
	assert.Equal(t, sql.NullInt64{Int64: 2, Valid: true}, account.Perms)
	v, err = record.Get("perms_raw")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	require.NoError(t, record.SetColumn("status", []string{"bar"}))
	assert.Equal(t, 9, account.Status)

	require.NoError(t, record.SetColumn("level", nil))
	assert.Nil(t, account.Level)

	_, err = storage.Wrap(Account{})
	assert.Error(t, err)
	_, err = storage.Wrap(5)
	assert.Error(t, err)
}

func TestStructConstructor(t *testing.T) {
	storage := bitfield.NewStorage()
	model, err := storage.GetOrNew(&Account{})
	require.NoError(t, err)

	record, err := model.Build(bitfield.NewStructConstructor(model), map[string]interface{}{
		"id":     7,
		"name":   "joe",
		"active": true,
		"read":   true,
	})
	require.NoError(t, err)

	account := record.Row().(*bitfield.StructRow).Interface().(*Account)
	assert.Equal(t, int64(7), account.ID)
	assert.Equal(t, "joe", account.Name)
	assert.Equal(t, 1, account.Status)
	assert.Equal(t, sql.NullInt64{Int64: 1, Valid: true}, account.Perms)
	assert.Nil(t, account.Level)

	_, err = model.Build(bitfield.NewStructConstructor(model), map[string]interface{}{"missing": 1})
	assert.True(t, bitfield.IsError(bitfield.ErrUnknownColumn, err), "%v", err)
}

func TestStorageStructErrors(t *testing.T) {
	type TooWide struct {
		Flags int8 `bitfield:"BITFIELD:a,b,c,d,e,f,g,h"`
	}
	_, err := bitfield.NewStorage().GetOrNew(&TooWide{})
	assert.True(t, bitfield.IsBitWidthExceeded(err), "%v", err)

	_, err = bitfield.NewStorage().GetOrNew(5)
	assert.Error(t, err)
}

func TestStorageFlaggedNonIntegerField(t *testing.T) {
	type Labeled struct {
		Label string `bitfield:"BITFIELD:a,b"`
	}
	model, err := bitfield.NewStorage().GetOrNew(&Labeled{})
	require.NoError(t, err)

	_, ok := model.BitField("label")
	assert.False(t, ok)
	b, ok := model.Accessor("label")
	require.True(t, ok)
	assert.Equal(t, bitfield.AccessorColumn, b.Kind)

	labeled := &Labeled{}
	row, err := model.StructRow(labeled)
	require.NoError(t, err)
	require.NoError(t, model.Wrap(row).SetColumn("label", "a"))
	assert.Equal(t, "a", labeled.Label)
}

func TestStorageFieldWidth(t *testing.T) {
	type Unsigned16 struct {
		Status uint16 `bitfield:"BITFIELD:a,b,c,d,e,f,g,h,i,j,k,l,m,n,o,p"`
	}
	_, err := bitfield.NewStorage().GetOrNew(&Unsigned16{})
	assert.True(t, bitfield.IsBitWidthExceeded(err), "%v", err)

	type WideTag struct {
		Status int16 `sql:"TYPE:bigint" bitfield:"BITFIELD:a,b,c,d,e,f,g,h,i,j,k,l,m,n,o,p"`
	}
	_, err = bitfield.NewStorage().GetOrNew(&WideTag{})
	assert.True(t, bitfield.IsBitWidthExceeded(err), "%v", err)

	type Fits struct {
		Small  uint8  `bitfield:"BITFIELD:a,b"`
		Medium uint16 `bitfield:"BITFIELD:c,d"`
		Large  uint32 `bitfield:"BITFIELD:e,f"`
		Tagged int32  `sql:"TYPE:bigint" bitfield:"BITFIELD:g,h"`
	}
	model, err := bitfield.NewStorage().GetOrNew(&Fits{})
	require.NoError(t, err)

	tests := []struct {
		column   string
		dataType string
		width    int
	}{
		{"small", "tinyint", 7},
		{"medium", "smallint", 15},
		{"large", "integer", 31},
		{"tagged", "bigint", 31},
	}
	for _, tt := range tests {
		col, ok := model.BitField(tt.column)
		require.True(t, ok, tt.column)
		assert.Equal(t, tt.dataType, col.DataType, tt.column)
		assert.Equal(t, tt.width, col.BitWidth(), tt.column)
	}

	fits := &Fits{}
	row, err := model.StructRow(fits)
	require.NoError(t, err)
	record := model.Wrap(row)
	_, err = record.SetFlag("h", true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), fits.Tagged)
}
