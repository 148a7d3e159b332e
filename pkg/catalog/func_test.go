package catalog

import (
	"testing"

	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/matcher"
	"github.com/dexpeep/dexpeep/pkg/synth"
)

func TestFuncRules_FoldClassGetSimpleName(t *testing.T) {
	methods := ir.NewMethodPool()
	types := ir.NewTypePool()
	strPool := ir.NewStringPool()
	rule := funcRules(methods)[0] // Fold_Class_GetSimpleName

	typ := types.Intern("Ljava/util/ArrayList;")
	insns := []*ir.Instruction{
		ir.NewInstruction(ir.OpConstClass).SetDest(0).SetType(typ),
		ir.NewInstruction(ir.OpInvokeVirtual).SetSrcs(0).SetMethod(methods.Intern("Ljava/lang/Class;", "getSimpleName", "()Ljava/lang/String;")),
		ir.NewInstruction(ir.OpMoveResultObject).SetDest(1),
	}

	mm := matcher.New(rule)
	var full bool
	for _, insn := range insns {
		full = mm.TryMatch(insn)
	}
	if !full {
		t.Fatal("expected the const-class+getSimpleName() chain to match")
	}
	out := synth.Synthesize(strPool, rule, mm.Matched(), mm.Bindings())
	if len(out) != 2 {
		t.Fatalf("expected a 2-instruction replacement, got %d: %v", len(out), out)
	}
	if out[0].Op != ir.OpConstClass || out[0].GetType() != typ {
		t.Fatalf("expected the const-class instruction copied verbatim first, got %v", out[0])
	}
	if out[1].Op != ir.OpConstString || out[1].GetString().Value != "ArrayList" {
		t.Fatalf("expected const-string v1, \"ArrayList\" second, got %v", out[1])
	}
	if out[1].Dest() != 1 {
		t.Fatalf("expected the simple-name string to land in the original result register, got %v", out[1])
	}
}

func TestFuncRules_RejectsMismatchedMethod(t *testing.T) {
	methods := ir.NewMethodPool()
	types := ir.NewTypePool()
	rule := funcRules(methods)[0]

	typ := types.Intern("Ljava/util/ArrayList;")
	m := matcher.New(rule)
	insn := ir.NewInstruction(ir.OpConstClass).SetDest(0).SetType(typ)
	if m.TryMatch(insn) || len(m.Matched()) != 1 {
		t.Fatal("expected const-class to start the match (one element matched, match not yet complete)")
	}
	other := methods.Intern("Ljava/lang/Class;", "getName", "()Ljava/lang/String;")
	next := ir.NewInstruction(ir.OpInvokeVirtual).SetSrcs(0).SetMethod(other)
	if m.TryMatch(next) || len(m.Matched()) != 0 {
		t.Fatal("getName() must not match a getSimpleName()-specific rule")
	}
}
