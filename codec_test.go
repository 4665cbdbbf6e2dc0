package bitfield_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	bitfield "github.com/moisespsena-go/aorm-bitfield"
)

func TestIsSet(t *testing.T) {
	tests := []struct {
		raw, mask int64
		want      bool
	}{
		{0, 1, false},
		{1, 1, true},
		{5, 4, true},
		{5, 2, false},
		{5, 5, true},
		{5, 7, false},
		{1 << 62, 1 << 62, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bitfield.IsSet(tt.raw, tt.mask), "IsSet(%d, %d)", tt.raw, tt.mask)
	}
	assert.True(t, bitfield.IsSet(uint8(0xf0), uint8(0x10)))
	assert.False(t, bitfield.IsSet(int8(3), int8(4)))
}

func TestSetBit(t *testing.T) {
	tests := []struct {
		raw, mask int64
		desired   bool
		want      int64
	}{
		{0, 1, true, 1},
		{1, 1, true, 1},
		{1, 4, true, 5},
		{5, 4, false, 1},
		{1, 4, false, 1},
		{0, 2, false, 0},
		{15, 6, false, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bitfield.SetBit(tt.raw, tt.mask, tt.desired), "SetBit(%d, %d, %v)", tt.raw, tt.mask, tt.desired)
	}
}

func TestSetBitEveryPosition(t *testing.T) {
	others := int64(0x5555555555555555) & (1<<63 - 1)
	for position := 0; position < bitfield.MaxBits; position++ {
		mask := bitfield.MaskOf(position)
		assert.Equal(t, int64(1)<<uint(position), mask)

		set := bitfield.SetBit(others, mask, true)
		assert.True(t, bitfield.IsSet(set, mask), "position %d", position)
		assert.Equal(t, others&^mask, set&^mask, "position %d: other bits changed", position)

		cleared := bitfield.SetBit(set, mask, false)
		assert.False(t, bitfield.IsSet(cleared, mask), "position %d", position)
		assert.Equal(t, others&^mask, cleared, "position %d", position)

		assert.Equal(t, set, bitfield.SetBit(set, mask, true), "position %d: set is not idempotent", position)
		assert.Equal(t, cleared, bitfield.SetBit(cleared, mask, false), "position %d: clear is not idempotent", position)
		assert.GreaterOrEqual(t, set, int64(0))
	}
}

func TestDecodeAll(t *testing.T) {
	flags := []string{"active", "inactive", "foo", "bar"}

	assert.Equal(t, []string{"active", "foo"}, bitfield.DecodeAll(5, flags))
	assert.Equal(t, []string{"bar"}, bitfield.DecodeAll(8, flags))
	assert.Equal(t, flags, bitfield.DecodeAll(15, flags))

	empty := bitfield.DecodeAll(0, flags)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	// bits above the declared flags are ignored
	assert.Equal(t, []string{"inactive"}, bitfield.DecodeAll(2|64, flags))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	col := &bitfield.Column{Name: "status", DataType: "integer", Flags: []string{"active", "inactive", "foo", "bar"}}
	for raw := int64(0); raw < 16; raw++ {
		names := col.Decode(raw)
		encoded, err := bitfield.Encode(col, bitfield.Names(names))
		assert.NoError(t, err)
		assert.Equal(t, raw, encoded, "%v", names)
	}

	raw, err := bitfield.Encode(col, bitfield.Name("foo"))
	assert.NoError(t, err)
	assert.Equal(t, int64(4), raw)

	// repeated names set the bit once
	raw, err = col.Encode("foo", "foo", "active")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), raw)
}
