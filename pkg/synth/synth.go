// Package synth implements the replacement synthesizer of spec §4.E:
// it materializes concrete instructions from a successful Matcher's
// bindings, evaluating the computed string/literal directives along the
// way. Every error here is a programmer error in a rule declaration —
// missing bindings, unsupported replacement opcodes, or the match-only
// `empty` string placeholder used as a replacement value — and is
// reported by panicking, per spec
// §7 ("fatal assertion... no runtime recovery is attempted").
package synth

import (
	"fmt"

	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/pattern"
)

// replacementOpcodes is the fixed set of opcode classes spec §4.E.2
// allows a replacement element to synthesize.
var replacementOpcodes = map[ir.Opcode]bool{
	ir.OpInvokeDirect:     true,
	ir.OpInvokeStatic:     true,
	ir.OpInvokeVirtual:    true,
	ir.OpMove16:           true,
	ir.OpMoveResult:       true,
	ir.OpMoveResultObject: true,
	ir.OpNegInt:           true,
	ir.OpConstString:      true,
	ir.OpConst4:           true,
	ir.OpConst16:          true,
	ir.OpConst:            true,
}

// Synthesize builds the concrete replacement instruction sequence for a
// pattern that has just matched, per spec §4.E. strPool is used to
// intern any strings the replacement directives compute.
func Synthesize(strPool *ir.StringPool, p *pattern.Pattern, matched []*ir.Instruction, bindings *pattern.Bindings) []*ir.Instruction {
	out := make([]*ir.Instruction, 0, len(p.ReplaceSeq))
	for _, e := range p.ReplaceSeq {
		if e.PayloadKind == pattern.PayloadCopy {
			out = append(out, mustCopySource(p, matched, e.CopyIndex).Clone())
			continue
		}
		out = append(out, synthesizeElement(strPool, e, bindings))
	}
	return out
}

func mustCopySource(p *pattern.Pattern, matched []*ir.Instruction, idx int) *ir.Instruction {
	if idx < 0 || idx >= len(matched) {
		panic(fmt.Sprintf("synth: pattern %q: copy index %d out of range (matched %d instructions)", p.Name, idx, len(matched)))
	}
	return matched[idx]
}

func synthesizeElement(strPool *ir.StringPool, e pattern.DexPattern, b *pattern.Bindings) *ir.Instruction {
	op := e.SingletonOpcode()
	if !replacementOpcodes[op] {
		panic(fmt.Sprintf("synth: unsupported replacement opcode %s", op))
	}

	insn := ir.NewInstruction(op)
	if e.Dest != nil {
		insn.SetDest(resolveRegister(*e.Dest, b))
	}
	if len(e.Srcs) > 0 {
		srcs := make([]ir.Register, len(e.Srcs))
		for i, placeholder := range e.Srcs {
			srcs[i] = resolveRegister(placeholder, b)
		}
		insn.SetSrcs(srcs...)
		insn.ArgWordCount = len(srcs)
	}

	switch e.PayloadKind {
	case pattern.PayloadNone:
		// nothing further
	case pattern.PayloadMethod:
		if e.Method == nil {
			panic("synth: method payload element has no method handle")
		}
		insn.SetMethod(e.Method)
	case pattern.PayloadString:
		value := evaluateStringDirective(e.Str, b)
		insn.SetString(strPool.Intern(value))
	case pattern.PayloadLiteral:
		insn.SetLiteral(evaluateLiteralDirective(e.Lit, b))
	case pattern.PayloadType:
		insn.SetType(mustType(e.Typ, b))
	default:
		panic(fmt.Sprintf("synth: unknown payload kind %v", e.PayloadKind))
	}
	return insn
}

func resolveRegister(placeholder pattern.Register, b *pattern.Bindings) ir.Register {
	if base, isPair := placeholder.Base(); isPair {
		baseVal, ok := b.Regs[base]
		if !ok {
			panic(fmt.Sprintf("synth: missing binding for register %s (needed to derive %s)", base, placeholder))
		}
		return baseVal + 1
	}
	val, ok := b.Regs[placeholder]
	if !ok {
		panic(fmt.Sprintf("synth: missing binding for register %s", placeholder))
	}
	return val
}

func mustStr(placeholder pattern.String, b *pattern.Bindings) *ir.StringHandle {
	val, ok := b.Strs[placeholder]
	if !ok {
		panic(fmt.Sprintf("synth: missing binding for string placeholder %d", placeholder))
	}
	return val
}

func mustLit(placeholder pattern.Literal, b *pattern.Bindings) int64 {
	val, ok := b.Lits[placeholder]
	if !ok {
		panic(fmt.Sprintf("synth: missing binding for literal placeholder %d", placeholder))
	}
	return val
}

func mustType(placeholder pattern.Type, b *pattern.Bindings) *ir.TypeHandle {
	val, ok := b.Typs[placeholder]
	if !ok {
		panic(fmt.Sprintf("synth: missing binding for type placeholder %d", placeholder))
	}
	return val
}

// evaluateStringDirective implements spec §4.E.4.
func evaluateStringDirective(s pattern.String, b *pattern.Bindings) string {
	switch s {
	case pattern.StrA:
		return mustStr(pattern.StrA, b).Value
	case pattern.StrB:
		return mustStr(pattern.StrB, b).Value
	case pattern.StrEmpty:
		panic("synth: `empty` is a match-only string placeholder and cannot be used as a replacement value")
	case pattern.StrBooleanAToString:
		if mustLit(pattern.LitA, b) != 0 {
			return "true"
		}
		return "false"
	case pattern.StrCharAToString:
		return EncodeCodeUnit(uint16(mustLit(pattern.LitA, b)))
	case pattern.StrIntAToString:
		return FormatInt32(mustLit(pattern.LitA, b))
	case pattern.StrLongIntAToString:
		return FormatInt64(mustLit(pattern.LitA, b))
	case pattern.StrFloatAToString:
		return FormatFloat32Bits(mustLit(pattern.LitA, b))
	case pattern.StrDoubleAToString:
		return FormatFloat64Bits(mustLit(pattern.LitA, b))
	case pattern.StrConcatAB:
		return mustStr(pattern.StrA, b).Value + mustStr(pattern.StrB, b).Value
	case pattern.StrConcatStringABooleanA:
		return mustStr(pattern.StrA, b).Value + evaluateStringDirective(pattern.StrBooleanAToString, b)
	case pattern.StrConcatStringACharA:
		return mustStr(pattern.StrA, b).Value + evaluateStringDirective(pattern.StrCharAToString, b)
	case pattern.StrConcatStringAIntA:
		return mustStr(pattern.StrA, b).Value + evaluateStringDirective(pattern.StrIntAToString, b)
	case pattern.StrConcatStringALongIntA:
		return mustStr(pattern.StrA, b).Value + evaluateStringDirective(pattern.StrLongIntAToString, b)
	case pattern.StrTypeAGetSimpleName:
		return ir.SimpleName(mustType(pattern.TypeA, b).Descriptor)
	default:
		panic(fmt.Sprintf("synth: unknown string directive %d", s))
	}
}

// evaluateLiteralDirective implements spec §4.E.5.
func evaluateLiteralDirective(l pattern.Literal, b *pattern.Bindings) int64 {
	switch l {
	case pattern.LitA:
		return mustLit(pattern.LitA, b)
	case pattern.LitCompareStringsAB:
		// Safe as identity comparison: the string table interns
		// uniquely, so pointer equality implies value equality (spec
		// §8 property 5).
		if mustStr(pattern.StrA, b) == mustStr(pattern.StrB, b) {
			return 1
		}
		return 0
	case pattern.LitLengthStringA:
		return UTF16Length(mustStr(pattern.StrA, b).Value)
	default:
		panic(fmt.Sprintf("synth: unknown literal directive %d", l))
	}
}
