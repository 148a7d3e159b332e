package catalog

import (
	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/pattern"
)

// arithRules implements spec §4.F's Arith family: x*1 -> x, x*-1 -> -x,
// x/1 -> x, x/-1 -> -x (to neg-int), and x+0 -> x, all collapsing to a
// move/16 or neg-int depending on sign, each guarded by a predicate
// that inspects the matched instruction's literal (spec §9: the literal
// must be read sign-aware — "negative one is -1, not 0xffff...").
func arithRules() []*pattern.Pattern {
	return []*pattern.Pattern{
		mulDivByOne("Arith_MulDivLit_Pos1"),
		mulDivByNegOne("Arith_MulDivLit_Neg1"),
		addZero("Arith_AddLit_Zero"),
	}
}

// firstLiteralEquals builds a predicate that accepts a full match only
// when the first matched instruction's literal equals want (spec §4.F:
// "a predicate over the matched literal value (the predicate inspects
// matched_instructions.front().literal())").
func firstLiteralEquals(want int64) pattern.Predicate {
	return func(_ *pattern.Bindings, matched []*ir.Instruction) bool {
		return matched[0].Literal() == want
	}
}

func mulDivByOne(name string) *pattern.Pattern {
	return buildSingleInsnArithRule(name, []ir.Opcode{ir.OpMulIntLit8, ir.OpMulIntLit16, ir.OpDivIntLit8, ir.OpDivIntLit16}, 1, ir.OpMove16)
}

func mulDivByNegOne(name string) *pattern.Pattern {
	return buildSingleInsnArithRule(name, []ir.Opcode{ir.OpMulIntLit8, ir.OpMulIntLit16, ir.OpDivIntLit8, ir.OpDivIntLit16}, -1, ir.OpNegInt)
}

func addZero(name string) *pattern.Pattern {
	return buildSingleInsnArithRule(name, []ir.Opcode{ir.OpAddIntLit8, ir.OpAddIntLit16}, 0, ir.OpMove16)
}

// buildSingleInsnArithRule matches a single lit-arithmetic instruction
// "dest = src OP #literal", guarded by literal == want, and replaces it
// with a single replaceOp instruction "dest = replaceOp(src)" (move/16
// is unary-identity shaped here: dest := src; neg-int negates).
func buildSingleInsnArithRule(name string, opcodes []ir.Opcode, want int64, replaceOp ir.Opcode) *pattern.Pattern {
	dest := pattern.RegA
	match := []pattern.DexPattern{
		pattern.MatchLiteral(&dest, pattern.LitA, opcodes...),
	}
	match[0].Srcs = []pattern.Register{pattern.RegB}

	replaceDest := pattern.RegA
	replace := []pattern.DexPattern{
		pattern.ReplaceNone(replaceOp, &replaceDest, pattern.RegB),
	}
	return pattern.NewPattern(name, match, replace, firstLiteralEquals(want))
}
