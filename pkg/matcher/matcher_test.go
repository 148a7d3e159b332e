package matcher

import (
	"testing"

	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/pattern"
)

func selfMovePattern() *pattern.Pattern {
	dest := pattern.RegA
	match := []pattern.DexPattern{
		pattern.Match(&dest, []pattern.Register{pattern.RegA}, ir.OpMove),
	}
	return pattern.NewPattern("test_self_move", match, nil, nil)
}

func TestTryMatch_SingleElementSuccess(t *testing.T) {
	m := New(selfMovePattern())
	insn := ir.NewInstruction(ir.OpMove).SetDest(3).SetSrcs(3)
	if !m.TryMatch(insn) {
		t.Fatal("expected self-move v3,v3 to match")
	}
	if len(m.Matched()) != 1 || m.Matched()[0] != insn {
		t.Fatalf("Matched() = %v, want [insn]", m.Matched())
	}
}

func TestTryMatch_DestSrcMismatchFails(t *testing.T) {
	m := New(selfMovePattern())
	insn := ir.NewInstruction(ir.OpMove).SetDest(3).SetSrcs(4)
	if m.TryMatch(insn) {
		t.Fatal("expected move v3,v4 (not a self-move) to fail")
	}
}

// twoElementPattern matches "const/4 a, lit; move b, a" as a fixture for
// the retry-at-position-1 heuristic.
func twoElementPattern() *pattern.Pattern {
	a, b := pattern.RegA, pattern.RegB
	match := []pattern.DexPattern{
		pattern.MatchLiteral(&a, pattern.LitA, ir.OpConst4),
		pattern.Match(&b, []pattern.Register{pattern.RegA}, ir.OpMove),
	}
	return pattern.NewPattern("test_const_then_move", match, nil, nil)
}

func TestTryMatch_RetryAtPositionOne(t *testing.T) {
	m := New(twoElementPattern())

	first := ir.NewInstruction(ir.OpConst4).SetDest(1).SetLiteral(5)
	second := ir.NewInstruction(ir.OpConst4).SetDest(1).SetLiteral(9) // breaks element 1, but itself starts element 0
	third := ir.NewInstruction(ir.OpMove).SetDest(2).SetSrcs(1)

	if m.TryMatch(first) {
		t.Fatal("first instruction alone should not complete the match")
	}
	if m.TryMatch(second) {
		t.Fatal("second instruction alone should not complete the match either")
	}
	if !m.TryMatch(third) {
		t.Fatal("third instruction should complete the match against the retried const/4")
	}
	if len(m.Matched()) != 2 || m.Matched()[0] != second {
		t.Fatalf("expected the retried instruction to anchor the match, got %v", m.Matched())
	}
}

func TestTryMatch_HeuristicBlindSpotBeyondPositionOne(t *testing.T) {
	// Pattern "a b c" against input "a b a b c" (spec §8 scenario 7): the
	// true "a b c" suffix at positions 3-5 is never found, because the
	// retry heuristic only rescues a failure at cursor==1. The failure
	// here happens at cursor==2 (third instruction breaks the match right
	// before "c"), so the second "a" is consumed and discarded instead of
	// being retried as a fresh element-0 candidate. This is the
	// documented limitation, not a bug to fix.
	a, b, c := pattern.RegA, pattern.RegB, pattern.RegC
	match := []pattern.DexPattern{
		pattern.Match(&a, nil, ir.OpNop),
		pattern.Match(&b, nil, ir.OpConst),
		pattern.Match(&c, nil, ir.OpConstString),
	}
	p := pattern.NewPattern("test_a_b_c", match, nil, nil)
	m := New(p)

	insns := []*ir.Instruction{
		ir.NewInstruction(ir.OpNop).SetDest(0),         // a
		ir.NewInstruction(ir.OpConst).SetDest(0),       // b
		ir.NewInstruction(ir.OpNop).SetDest(0),         // a (would start the real match, but is lost)
		ir.NewInstruction(ir.OpConst).SetDest(0),       // b
		ir.NewInstruction(ir.OpConstString).SetDest(0), // c
	}

	matchedFull := false
	for _, insn := range insns {
		if m.TryMatch(insn) {
			matchedFull = true
		}
	}
	if matchedFull {
		t.Fatal("expected the heuristic to miss the trailing a b c, demonstrating its known blind spot")
	}
}

func TestTryMatch_WidthRefusal(t *testing.T) {
	// Arith_MulDivLit_Pos1-shaped rule: replacement is move/16 (16-bit
	// both sides), so even a huge register number is accepted; verify the
	// opposite with a replacement opcode whose dest is narrow (4 bits).
	dest := pattern.RegA
	match := []pattern.DexPattern{
		pattern.Match(&dest, []pattern.Register{pattern.RegA}, ir.OpMove),
	}
	replace := []pattern.DexPattern{
		pattern.ReplaceNone(ir.OpNegInt, &dest, pattern.RegA),
	}
	p := pattern.NewPattern("test_width_refusal", match, replace, nil)
	m := New(p)

	insn := ir.NewInstruction(ir.OpMove).SetDest(20).SetSrcs(20) // doesn't fit 4 bits
	if m.TryMatch(insn) {
		t.Fatal("register 20 should not fit neg-int's 4-bit width limit")
	}

	m.Reset()
	small := ir.NewInstruction(ir.OpMove).SetDest(5).SetSrcs(5)
	if !m.TryMatch(small) {
		t.Fatal("register 5 should fit within a 4-bit width limit")
	}
}
