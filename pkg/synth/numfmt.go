package synth

import (
	"math"
	"strconv"
	"unicode/utf16"
)

// FormatInt32 renders v (a 64-bit signed literal, per spec §9's note
// that arithmetic/literal directives must be sign-aware) reinterpreted
// as a 32-bit signed integer, per the int_A_to_string directive.
func FormatInt32(v int64) string {
	return strconv.FormatInt(int64(int32(v)), 10)
}

// FormatInt64 renders v as a 64-bit signed decimal, per the
// long_int_A_to_string directive.
func FormatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

// FormatFloat32Bits reinterprets the low 32 bits of v as IEEE-754
// binary32 and renders its shortest round-tripping decimal form, per
// the float_A_to_string directive. The exact digit sequence is pinned
// by tests (spec §9 Open Question).
func FormatFloat32Bits(v int64) string {
	f := math.Float32frombits(uint32(v))
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// FormatFloat64Bits reinterprets v as IEEE-754 binary64 and renders its
// shortest round-tripping decimal form, per the double_A_to_string
// directive.
func FormatFloat64Bits(v int64) string {
	d := math.Float64frombits(uint64(v))
	return strconv.FormatFloat(d, 'g', -1, 64)
}

// UTF16Length returns s's length in UTF-16 code units, matching the
// target runtime's String.length() semantics for the
// Literal::Length_String_A directive.
func UTF16Length(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}
