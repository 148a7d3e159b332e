// Package pattern implements the pattern DSL data model (spec §3, §4.B)
// and the register-width analyzer (spec §4.C). It is pure data: no
// matching or synthesis control flow lives here (that is pkg/matcher and
// pkg/synth).
package pattern

// Register is a symbolic register placeholder. RegA-RegE are freely
// bindable; the Pair* variants denote the high half of a wide value
// whose low half is the corresponding base register, and are derived
// (base+1), never bound directly, per spec §3. RegE exists solely for
// the String family's coalesce-with-valueOf rules, which chain two
// StringBuilder.append calls through an intermediate String.valueOf
// result and so need a fifth independently-bindable slot (receiver,
// first argument, chained receiver, primitive, valueOf result).
type Register int

const (
	RegA Register = iota
	RegB
	RegC
	RegD
	RegE
	RegPairA
	RegPairB
	RegPairC
	RegPairD
)

// Base returns the non-pair register a pair placeholder is derived from,
// and whether r is a pair placeholder at all.
func (r Register) Base() (Register, bool) {
	switch r {
	case RegPairA:
		return RegA, true
	case RegPairB:
		return RegB, true
	case RegPairC:
		return RegC, true
	case RegPairD:
		return RegD, true
	default:
		return 0, false
	}
}

func (r Register) String() string {
	switch r {
	case RegA:
		return "A"
	case RegB:
		return "B"
	case RegC:
		return "C"
	case RegD:
		return "D"
	case RegE:
		return "E"
	case RegPairA:
		return "pair_A"
	case RegPairB:
		return "pair_B"
	case RegPairC:
		return "pair_C"
	case RegPairD:
		return "pair_D"
	default:
		return "Register(?)"
	}
}

// Literal is a symbolic 64-bit-literal placeholder. LitA is ordinary and
// bindable; the others are replacement-only computed directives.
type Literal int

const (
	LitA Literal = iota
	LitCompareStringsAB
	LitLengthStringA
)

// IsDirective reports whether l is a replacement-only computed value,
// forbidden in match elements per spec §4.D.
func (l Literal) IsDirective() bool {
	return l != LitA
}

// String is a symbolic string placeholder. StrA/StrB/StrEmpty are
// bindable (StrEmpty matches only the interned empty string); the rest
// are replacement-only directives that synthesize a new interned string
// from prior bindings.
type String int

const (
	StrA String = iota
	StrB
	StrEmpty
	StrBooleanAToString
	StrCharAToString
	StrIntAToString
	StrLongIntAToString
	StrFloatAToString
	StrDoubleAToString
	StrConcatAB
	StrConcatStringABooleanA
	StrConcatStringACharA
	StrConcatStringAIntA
	StrConcatStringALongIntA
	StrTypeAGetSimpleName
)

// IsDirective reports whether s is a replacement-only computed value.
func (s String) IsDirective() bool {
	switch s {
	case StrA, StrB, StrEmpty:
		return false
	default:
		return true
	}
}

// Type is a symbolic type placeholder; both variants are bindable.
type Type int

const (
	TypeA Type = iota
	TypeB
)
