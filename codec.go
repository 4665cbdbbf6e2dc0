package bitfield

import "golang.org/x/exp/constraints"

// MaxBits is the largest number of flags a column can hold: raw values are int64.
const MaxBits = 63

// MaskOf returns the mask of the flag at position.
func MaskOf(position int) int64 { return 1 << uint(position) }

// IsSet reports whether every bit of mask is set in raw.
func IsSet[T constraints.Integer](raw, mask T) bool { return raw|mask == raw }

// SetBit returns raw with the bits of mask set, or cleared when desired is false.
func SetBit[T constraints.Integer](raw, mask T, desired bool) T {
	if desired {
		return raw | mask
	}
	return raw - raw&mask
}

// DecodeAll returns, in declaration order, the flags whose bit is set in raw.
func DecodeAll(raw int64, flags []string) []string {
	names := make([]string, 0, len(flags))
	if raw == 0 {
		return names
	}
	for i, flag := range flags {
		if IsSet(raw, MaskOf(i)) {
			names = append(names, flag)
		}
	}
	return names
}

// Encode folds the flags of value into a packed integer, starting from 0.
func Encode(col *Column, value Symbol) (int64, error) {
	return col.Encode(value.FlagNames()...)
}
