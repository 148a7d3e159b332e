package catalog

import (
	"testing"

	"github.com/dexpeep/dexpeep/pkg/ir"
)

func TestNew_BuildsAllFamilies(t *testing.T) {
	c := New(ir.NewMethodPool())
	all := c.AllRules()
	if len(all) == 0 {
		t.Fatal("expected New to assemble a non-empty catalog")
	}
	want := []string{
		"Remove_Redundant_Move",
		"Arith_MulDivLit_Pos1",
		"Coalesce_InitVoid_AppendString",
		"Coalesce_AppendString_AppendString",
		"Coalesce_AppendString_AppendValueOfBoolean",
		"Coalesce_AppendString_AppendValueOfChar",
		"Coalesce_AppendString_AppendValueOfInt",
		"Coalesce_AppendString_AppendValueOfLong",
		"Fold_ValueOf_Boolean",
		"Fold_ValueOf_Char",
		"Fold_ValueOf_Int",
		"Fold_ValueOf_Long",
		"Fold_ValueOf_Float",
		"Fold_ValueOf_Double",
		"Fold_StringLength",
		"Fold_StringEquals",
		"Remove_AppendEmptyString",
		"Fold_Class_GetSimpleName",
	}
	for _, name := range want {
		if _, ok := c.ByName(name); !ok {
			t.Errorf("expected catalog to contain rule %q", name)
		}
	}
}

func TestDefaultRules_ExcludesDisabledByDefault(t *testing.T) {
	c := New(ir.NewMethodPool())

	if _, ok := c.ByName("Remove_AppendEmptyString"); !ok {
		t.Fatal("Remove_AppendEmptyString should still be present in AllRules")
	}
	for _, p := range c.DefaultRules() {
		if p.Name == "Remove_AppendEmptyString" {
			t.Fatal("Remove_AppendEmptyString must be excluded from DefaultRules per spec §9")
		}
	}
	if len(c.DefaultRules()) != len(c.AllRules())-1 {
		t.Fatalf("expected exactly one rule disabled by default, got %d fewer", len(c.AllRules())-len(c.DefaultRules()))
	}
}

func TestByName_LookupSucceedsAndFails(t *testing.T) {
	c := New(ir.NewMethodPool())

	if _, ok := c.ByName("Remove_Redundant_Move"); !ok {
		t.Fatal("expected Remove_Redundant_Move to be a known rule name")
	}
	if _, ok := c.ByName("Not_A_Real_Rule"); ok {
		t.Fatal("expected an unknown rule name to report not-found")
	}
}

func TestNames_ReturnsAllRuleNames(t *testing.T) {
	c := New(ir.NewMethodPool())
	names := c.Names()
	if len(names) != len(c.AllRules()) {
		t.Fatalf("expected Names() to list every rule, got %d want %d", len(names), len(c.AllRules()))
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			t.Fatalf("duplicate name %q in Names()", n)
		}
		seen[n] = true
	}
}
