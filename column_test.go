package bitfield_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bitfield "github.com/moisespsena-go/aorm-bitfield"
)

func TestIntegerFamilyWidth(t *testing.T) {
	tests := []struct {
		dataType string
		width    int
		ok       bool
	}{
		{"tinyint", 7, true},
		{"SMALLINT", 15, true},
		{"mediumint", 23, true},
		{"integer", 31, true},
		{"INT(11) UNSIGNED", 31, true},
		{"bigint", 63, true},
		{" int8 ", 63, true},
		{"varchar(10)", 0, false},
		{"text", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		width, ok := bitfield.IntegerFamilyWidth(tt.dataType)
		assert.Equal(t, tt.ok, ok, tt.dataType)
		assert.Equal(t, tt.width, width, tt.dataType)
	}
}

func TestColumnIsBitField(t *testing.T) {
	assert.True(t, (&bitfield.Column{Name: "status", DataType: "integer", Flags: []string{"a"}}).IsBitField())
	assert.False(t, (&bitfield.Column{Name: "status", DataType: "integer"}).IsBitField())
	assert.False(t, (&bitfield.Column{Name: "status", DataType: "varchar(255)", Flags: []string{"a"}}).IsBitField())
}

func TestColumnValidate(t *testing.T) {
	flags := func(n int) (flags []string) {
		for i := 0; i < n; i++ {
			flags = append(flags, string(rune('a'+i%26))+string(rune('a'+i/26)))
		}
		return
	}

	assert.NoError(t, (&bitfield.Column{Name: "f", DataType: "tinyint", Flags: flags(7)}).Validate())
	assert.NoError(t, (&bitfield.Column{Name: "f", DataType: "bigint", Flags: flags(63)}).Validate())

	err := (&bitfield.Column{Name: "f", DataType: "tinyint", Flags: flags(8)}).Validate()
	require.Error(t, err)
	assert.True(t, bitfield.IsBitWidthExceeded(err))
	assert.Equal(t, &bitfield.BitWidthExceededError{Column: "f", Flags: 8, Width: 7}, err)

	err = (&bitfield.Column{Name: "f", DataType: "bigint", Flags: flags(3), MaxBits: 2}).Validate()
	assert.True(t, bitfield.IsBitWidthExceeded(err))

	err = (&bitfield.Column{Name: "f", DataType: "bigint", Flags: flags(3), MaxBits: 64}).Validate()
	assert.True(t, bitfield.IsBitWidthExceeded(err))

	err = (&bitfield.Column{Name: "f", DataType: "text", Flags: flags(3)}).Validate()
	assert.True(t, bitfield.IsError(bitfield.ErrNotBitField, err))

	assert.Error(t, (&bitfield.Column{Name: "f", DataType: "integer", Flags: []string{"a", "b", "a"}}).Validate())
	assert.Error(t, (&bitfield.Column{Name: "f", DataType: "integer", Flags: []string{"a", ""}}).Validate())
	assert.Error(t, (&bitfield.Column{DataType: "integer", Flags: []string{"a"}}).Validate())
}

func TestColumnPosition(t *testing.T) {
	col := &bitfield.Column{Name: "level", DataType: "integer", Flags: []string{"low", "high"}, Prefix: "level_"}

	position, ok := col.Position("high")
	assert.True(t, ok)
	assert.Equal(t, 1, position)

	position, ok = col.Position("level_low")
	assert.True(t, ok)
	assert.Equal(t, 0, position)

	_, ok = col.Position("level_")
	assert.False(t, ok)
	_, ok = col.Position("medium")
	assert.False(t, ok)

	assert.Equal(t, "level_high", col.AccessorName("high"))
	assert.Equal(t, "_level", col.RawAccessorName())
}

func TestColumnEncodeUnknownFlag(t *testing.T) {
	col := &bitfield.Column{Name: "status", DataType: "integer", Flags: []string{"active", "inactive", "foo", "bar"}}

	raw, err := col.Encode("active", "nope", "foo")
	assert.Equal(t, int64(0), raw)
	require.Error(t, err)
	assert.True(t, bitfield.IsUnknownFlag(err))
	assert.Equal(t, &bitfield.UnknownFlagError{Column: "status", Name: "nope"}, err)

	raw, err = col.Encode()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), raw)
}
