package pattern

import "github.com/dexpeep/dexpeep/pkg/ir"

// PayloadKind discriminates the payload carried by a DexPattern element,
// per spec §3/§9: "the DSL's payload is naturally a sum type with six
// variants... implement as a discriminated union; do not paper over with
// inheritance."
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadMethod
	PayloadString
	PayloadLiteral
	PayloadType
	PayloadCopy
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadNone:
		return "none"
	case PayloadMethod:
		return "method"
	case PayloadString:
		return "string"
	case PayloadLiteral:
		return "literal"
	case PayloadType:
		return "type"
	case PayloadCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// DexPattern is one element of a match or replace sequence (spec §3):
// an accepted opcode set, ordered symbolic source placeholders, an
// optional dest placeholder, and exactly one payload.
type DexPattern struct {
	Opcodes []ir.Opcode

	Srcs []Register
	Dest *Register // nil means "no dest placeholder"

	PayloadKind PayloadKind
	Method      *ir.MethodHandle // PayloadMethod
	Str         String           // PayloadString
	Lit         Literal          // PayloadLiteral
	Typ         Type             // PayloadType
	CopyIndex   int              // PayloadCopy: index into matched instructions
}

// HasOpcode reports whether op is one of the element's accepted opcodes.
func (e *DexPattern) HasOpcode(op ir.Opcode) bool {
	for _, candidate := range e.Opcodes {
		if candidate == op {
			return true
		}
	}
	return false
}

// SingletonOpcode returns the element's sole opcode, panicking if the
// element does not carry exactly one — a replacement element's opcode
// set must be a singleton per spec §3.
func (e *DexPattern) SingletonOpcode() ir.Opcode {
	if len(e.Opcodes) != 1 {
		panic("pattern: replacement element must have exactly one opcode")
	}
	return e.Opcodes[0]
}

// --- §4.B helper factories ---

func destPtr(r Register) *Register {
	return &r
}

// Match builds a match-sequence element with no payload.
func Match(dest *Register, srcs []Register, opcodes ...ir.Opcode) DexPattern {
	return DexPattern{Opcodes: opcodes, Dest: dest, Srcs: srcs, PayloadKind: PayloadNone}
}

// MatchString builds a match-sequence element carrying a string
// placeholder payload (e.g. "const-string v, A").
func MatchString(dest *Register, s String, opcodes ...ir.Opcode) DexPattern {
	return DexPattern{Opcodes: opcodes, Dest: dest, PayloadKind: PayloadString, Str: s}
}

// MatchLiteral builds a match-sequence element carrying a literal
// placeholder payload (e.g. "const/4 v, A").
func MatchLiteral(dest *Register, l Literal, opcodes ...ir.Opcode) DexPattern {
	return DexPattern{Opcodes: opcodes, Dest: dest, PayloadKind: PayloadLiteral, Lit: l}
}

// MatchType builds a match-sequence element carrying a type placeholder
// payload (e.g. "const-class v, A").
func MatchType(dest *Register, t Type, opcodes ...ir.Opcode) DexPattern {
	return DexPattern{Opcodes: opcodes, Dest: dest, PayloadKind: PayloadType, Typ: t}
}

// MatchInvoke builds a match-sequence invoke element bound to a specific
// interned method handle, with the given source-register placeholders
// (receiver first, then arguments). The element has no dest; an invoke's
// result is matched by a following move-result element.
func MatchInvoke(method *ir.MethodHandle, srcs []Register, opcodes ...ir.Opcode) DexPattern {
	return DexPattern{Opcodes: opcodes, Srcs: srcs, PayloadKind: PayloadMethod, Method: method}
}

// ReplaceNone builds a replacement element with no payload, e.g. a bare
// move or arithmetic op.
func ReplaceNone(op ir.Opcode, dest *Register, srcs ...Register) DexPattern {
	return DexPattern{Opcodes: []ir.Opcode{op}, Dest: dest, Srcs: srcs, PayloadKind: PayloadNone}
}

// ReplaceInvoke builds a replacement invoke element; ArgWordCount is
// derived from len(srcs) at synthesis time.
func ReplaceInvoke(op ir.Opcode, method *ir.MethodHandle, srcs ...Register) DexPattern {
	return DexPattern{Opcodes: []ir.Opcode{op}, Srcs: srcs, PayloadKind: PayloadMethod, Method: method}
}

// ReplaceString builds a const-string replacement element whose value is
// the given string directive.
func ReplaceString(dest Register, s String) DexPattern {
	return DexPattern{Opcodes: []ir.Opcode{ir.OpConstString}, Dest: destPtr(dest), PayloadKind: PayloadString, Str: s}
}

// ReplaceLiteral builds a const-family replacement element whose value is
// the given literal directive.
func ReplaceLiteral(op ir.Opcode, dest Register, l Literal) DexPattern {
	return DexPattern{Opcodes: []ir.Opcode{op}, Dest: destPtr(dest), PayloadKind: PayloadLiteral, Lit: l}
}

// ReplaceCopy builds a replacement element that deep-clones the matched
// instruction at copyIndex verbatim.
func ReplaceCopy(copyIndex int) DexPattern {
	return DexPattern{PayloadKind: PayloadCopy, CopyIndex: copyIndex}
}
