package catalog

import (
	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/pattern"
)

// funcRules implements spec §4.F's Func family: resolving a Class object's
// simple name at compile time when the Class literal itself is a compile-
// time constant (const-class).
//
//	const-class  c, A
//	invoke-virtual {c}, Class.getSimpleName()Ljava/lang/String;
//	move-result-object n
//
// becomes:
//
//	const-class  c, A        ; kept: c may still be live past this point
//	const-string n, simple_name(A)
func funcRules(methods *ir.MethodPool) []*pattern.Pattern {
	getSimpleName := methods.Intern("Ljava/lang/Class;", "getSimpleName", "()Ljava/lang/String;")

	c, n := pattern.RegA, pattern.RegB
	match := []pattern.DexPattern{
		pattern.MatchType(&c, pattern.TypeA, ir.OpConstClass),
		pattern.MatchInvoke(getSimpleName, []pattern.Register{c}, ir.OpInvokeVirtual),
		pattern.Match(&n, nil, ir.OpMoveResultObject),
	}
	replace := []pattern.DexPattern{
		pattern.ReplaceCopy(0),
		pattern.ReplaceString(n, pattern.StrTypeAGetSimpleName),
	}
	return []*pattern.Pattern{
		pattern.NewPattern("Fold_Class_GetSimpleName", match, replace, nil),
	}
}
