package catalog

import (
	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/pattern"
)

// stringMethods holds the interned method handles the String family
// matches against. Patterns reference these handles by identity (spec
// §4.D.3 "method: require the instruction's method handle to equal the
// element's"), so they must be interned from the same ir.MethodPool the
// instructions under optimization were built with.
type stringMethods struct {
	sbInit        *ir.MethodHandle
	sbInitString  *ir.MethodHandle
	sbAppendStr   *ir.MethodHandle
	valueOfBool   *ir.MethodHandle
	valueOfChar   *ir.MethodHandle
	valueOfInt    *ir.MethodHandle
	valueOfLong   *ir.MethodHandle
	valueOfFloat  *ir.MethodHandle
	valueOfDouble *ir.MethodHandle
	stringLength  *ir.MethodHandle
	stringEquals  *ir.MethodHandle
}

func internStringMethods(methods *ir.MethodPool) *stringMethods {
	const sb = "Ljava/lang/StringBuilder;"
	const str = "Ljava/lang/String;"
	return &stringMethods{
		sbInit:        methods.Intern(sb, "<init>", "()V"),
		sbInitString:  methods.Intern(sb, "<init>", "(Ljava/lang/String;)V"),
		sbAppendStr:   methods.Intern(sb, "append", "(Ljava/lang/String;)Ljava/lang/StringBuilder;"),
		valueOfBool:   methods.Intern(str, "valueOf", "(Z)Ljava/lang/String;"),
		valueOfChar:   methods.Intern(str, "valueOf", "(C)Ljava/lang/String;"),
		valueOfInt:    methods.Intern(str, "valueOf", "(I)Ljava/lang/String;"),
		valueOfLong:   methods.Intern(str, "valueOf", "(J)Ljava/lang/String;"),
		valueOfFloat:  methods.Intern(str, "valueOf", "(F)Ljava/lang/String;"),
		valueOfDouble: methods.Intern(str, "valueOf", "(D)Ljava/lang/String;"),
		stringLength:  methods.Intern(str, "length", "()I"),
		stringEquals:  methods.Intern(str, "equals", "(Ljava/lang/Object;)Z"),
	}
}

var const32 = []ir.Opcode{ir.OpConst4, ir.OpConst16, ir.OpConst}
var constWide = []ir.Opcode{ir.OpConstWide16, ir.OpConstWide32, ir.OpConstWide}

// stringRules implements spec §4.F's String family: StringBuilder
// init/append coalescing (spec §8 scenarios 1-2), its four
// coalesce-with-valueOf variants (folding a trailing
// append(String.valueOf(primitive)) into the same constant-concatenation
// rewrite via the StrConcatStringA*A directives), and constant folding of
// String.valueOf/length/equals over interned string/literal constants
// (spec §8 scenario 3). Remove_AppendEmptyString is built but excluded
// from the default catalog by the caller, per spec §9.
func stringRules(methods *ir.MethodPool) []*pattern.Pattern {
	m := internStringMethods(methods)
	return []*pattern.Pattern{
		coalesceInitVoidAppendString(m),
		coalesceAppendStringAppendString(m),
		coalesceAppendValueOfBoolean(m),
		coalesceAppendValueOfChar(m),
		coalesceAppendValueOfInt(m),
		coalesceAppendValueOfLong(m),
		foldValueOfBoolean(m),
		foldValueOfChar(m),
		foldValueOfInt(m),
		foldValueOfLong(m),
		foldValueOfFloat(m),
		foldValueOfDouble(m),
		foldStringLength(m),
		foldStringEquals(m),
		removeAppendEmptyString(m), // disabled by default; see catalog.go
	}
}

// coalesceInitVoidAppendString implements spec §8 scenario 1:
//
//	invoke-direct {sb}, <init>()V
//	const-string  str, A
//	invoke-virtual {sb, str}, append(String)SB
//	move-result-object sb
//
// becomes:
//
//	const-string  str, A
//	invoke-direct {sb, str}, <init>(String)V
func coalesceInitVoidAppendString(m *stringMethods) *pattern.Pattern {
	sb, str := pattern.RegA, pattern.RegB
	match := []pattern.DexPattern{
		pattern.MatchInvoke(m.sbInit, []pattern.Register{sb}, ir.OpInvokeDirect),
		pattern.MatchString(&str, pattern.StrA, ir.OpConstString),
		pattern.MatchInvoke(m.sbAppendStr, []pattern.Register{sb, str}, ir.OpInvokeVirtual),
		pattern.Match(&sb, nil, ir.OpMoveResultObject),
	}
	replace := []pattern.DexPattern{
		pattern.MatchString(&str, pattern.StrA, ir.OpConstString),
		pattern.ReplaceInvoke(ir.OpInvokeDirect, m.sbInitString, sb, str),
	}
	return pattern.NewPattern("Coalesce_InitVoid_AppendString", match, replace, nil)
}

// coalesceAppendStringAppendString implements spec §8 scenario 2:
//
//	const-string  a, A
//	invoke-virtual {sb, a}, append(String)SB
//	move-result-object sb2
//	const-string  b, B
//	invoke-virtual {sb2, b}, append(String)SB
//
// becomes:
//
//	const-string  a, concat(A, B)
//	invoke-virtual {sb, a}, append(String)SB
func coalesceAppendStringAppendString(m *stringMethods) *pattern.Pattern {
	sb, a, sb2, b := pattern.RegA, pattern.RegB, pattern.RegC, pattern.RegD
	match := []pattern.DexPattern{
		pattern.MatchString(&a, pattern.StrA, ir.OpConstString),
		pattern.MatchInvoke(m.sbAppendStr, []pattern.Register{sb, a}, ir.OpInvokeVirtual),
		pattern.Match(&sb2, nil, ir.OpMoveResultObject),
		pattern.MatchString(&b, pattern.StrB, ir.OpConstString),
		pattern.MatchInvoke(m.sbAppendStr, []pattern.Register{sb2, b}, ir.OpInvokeVirtual),
	}
	replace := []pattern.DexPattern{
		pattern.ReplaceString(a, pattern.StrConcatAB),
		pattern.ReplaceInvoke(ir.OpInvokeVirtual, m.sbAppendStr, sb, a),
	}
	return pattern.NewPattern("Coalesce_AppendString_AppendString", match, replace, nil)
}

// coalesceAppendValueOf implements the four chained-append variants of
// spec §8 scenario 2, where the second operand isn't a compile-time
// string constant but a String.valueOf(primitive) result:
//
//	const-string  a, A
//	invoke-virtual {sb, a}, append(String)SB
//	move-result-object sb2
//	const         prim, N
//	invoke-static {prim}, String.valueOf(...)String
//	move-result-object tmp
//	invoke-virtual {sb2, tmp}, append(String)SB
//
// becomes:
//
//	const-string  a, concat(A, directive(N))
//	invoke-virtual {sb, a}, append(String)SB
func coalesceAppendValueOf(name string, m *stringMethods, valueOfMethod *ir.MethodHandle, litOpcodes []ir.Opcode, wide bool, directive pattern.String) *pattern.Pattern {
	sb, a, sb2, prim, tmp := pattern.RegA, pattern.RegB, pattern.RegC, pattern.RegD, pattern.RegE
	valueOfSrcs := []pattern.Register{prim}
	if wide {
		valueOfSrcs = []pattern.Register{prim, pattern.RegPairD}
	}
	match := []pattern.DexPattern{
		pattern.MatchString(&a, pattern.StrA, ir.OpConstString),
		pattern.MatchInvoke(m.sbAppendStr, []pattern.Register{sb, a}, ir.OpInvokeVirtual),
		pattern.Match(&sb2, nil, ir.OpMoveResultObject),
		pattern.MatchLiteral(&prim, pattern.LitA, litOpcodes...),
		pattern.MatchInvoke(valueOfMethod, valueOfSrcs, ir.OpInvokeStatic),
		pattern.Match(&tmp, nil, ir.OpMoveResultObject),
		pattern.MatchInvoke(m.sbAppendStr, []pattern.Register{sb2, tmp}, ir.OpInvokeVirtual),
	}
	replace := []pattern.DexPattern{
		pattern.ReplaceString(a, directive),
		pattern.ReplaceInvoke(ir.OpInvokeVirtual, m.sbAppendStr, sb, a),
	}
	return pattern.NewPattern(name, match, replace, nil)
}

func coalesceAppendValueOfBoolean(m *stringMethods) *pattern.Pattern {
	return coalesceAppendValueOf("Coalesce_AppendString_AppendValueOfBoolean", m, m.valueOfBool, const32, false, pattern.StrConcatStringABooleanA)
}

func coalesceAppendValueOfChar(m *stringMethods) *pattern.Pattern {
	return coalesceAppendValueOf("Coalesce_AppendString_AppendValueOfChar", m, m.valueOfChar, const32, false, pattern.StrConcatStringACharA)
}

func coalesceAppendValueOfInt(m *stringMethods) *pattern.Pattern {
	return coalesceAppendValueOf("Coalesce_AppendString_AppendValueOfInt", m, m.valueOfInt, const32, false, pattern.StrConcatStringAIntA)
}

func coalesceAppendValueOfLong(m *stringMethods) *pattern.Pattern {
	return coalesceAppendValueOf("Coalesce_AppendString_AppendValueOfLong", m, m.valueOfLong, constWide, true, pattern.StrConcatStringALongIntA)
}

// foldValueOf builds a "const <lit>; invoke-static valueOf(...); move-
// result-object dest" -> "const-string dest, <directive>" rule, for the
// non-wide valueOf overloads (boolean/char/int/float all take a single
// source register).
func foldValueOf(name string, method *ir.MethodHandle, directive pattern.String) *pattern.Pattern {
	src, dest := pattern.RegA, pattern.RegB
	match := []pattern.DexPattern{
		pattern.MatchLiteral(&src, pattern.LitA, const32...),
		pattern.MatchInvoke(method, []pattern.Register{src}, ir.OpInvokeStatic),
		pattern.Match(&dest, nil, ir.OpMoveResultObject),
	}
	replace := []pattern.DexPattern{
		pattern.ReplaceString(dest, directive),
	}
	return pattern.NewPattern(name, match, replace, nil)
}

func foldValueOfBoolean(m *stringMethods) *pattern.Pattern {
	return foldValueOf("Fold_ValueOf_Boolean", m.valueOfBool, pattern.StrBooleanAToString)
}

func foldValueOfChar(m *stringMethods) *pattern.Pattern {
	return foldValueOf("Fold_ValueOf_Char", m.valueOfChar, pattern.StrCharAToString)
}

func foldValueOfInt(m *stringMethods) *pattern.Pattern {
	return foldValueOf("Fold_ValueOf_Int", m.valueOfInt, pattern.StrIntAToString)
}

func foldValueOfFloat(m *stringMethods) *pattern.Pattern {
	return foldValueOf("Fold_ValueOf_Float", m.valueOfFloat, pattern.StrFloatAToString)
}

// foldValueOfLong implements the wide (two-register) valueOf(long)
// overload: the source occupies register pair (src, src+1), expressed
// with the pair_A placeholder (spec §3).
func foldValueOfLong(m *stringMethods) *pattern.Pattern {
	src, dest := pattern.RegA, pattern.RegB
	match := []pattern.DexPattern{
		pattern.MatchLiteral(&src, pattern.LitA, constWide...),
		pattern.MatchInvoke(m.valueOfLong, []pattern.Register{src, pattern.RegPairA}, ir.OpInvokeStatic),
		pattern.Match(&dest, nil, ir.OpMoveResultObject),
	}
	replace := []pattern.DexPattern{
		pattern.ReplaceString(dest, pattern.StrLongIntAToString),
	}
	return pattern.NewPattern("Fold_ValueOf_Long", match, replace, nil)
}

// foldValueOfDouble mirrors foldValueOfLong for the wide double overload.
func foldValueOfDouble(m *stringMethods) *pattern.Pattern {
	src, dest := pattern.RegA, pattern.RegB
	match := []pattern.DexPattern{
		pattern.MatchLiteral(&src, pattern.LitA, constWide...),
		pattern.MatchInvoke(m.valueOfDouble, []pattern.Register{src, pattern.RegPairA}, ir.OpInvokeStatic),
		pattern.Match(&dest, nil, ir.OpMoveResultObject),
	}
	replace := []pattern.DexPattern{
		pattern.ReplaceString(dest, pattern.StrDoubleAToString),
	}
	return pattern.NewPattern("Fold_ValueOf_Double", match, replace, nil)
}

// foldStringLength implements "x".length() constant folding:
//
//	const-string s, A
//	invoke-virtual {s}, String.length()I
//	move-result n
//
// becomes: const n, len(A)   (spec §8's Literal::Length_String_A).
func foldStringLength(m *stringMethods) *pattern.Pattern {
	s, n := pattern.RegA, pattern.RegB
	match := []pattern.DexPattern{
		pattern.MatchString(&s, pattern.StrA, ir.OpConstString),
		pattern.MatchInvoke(m.stringLength, []pattern.Register{s}, ir.OpInvokeVirtual),
		pattern.Match(&n, nil, ir.OpMoveResult),
	}
	replace := []pattern.DexPattern{
		pattern.ReplaceLiteral(ir.OpConst, n, pattern.LitLengthStringA),
	}
	return pattern.NewPattern("Fold_StringLength", match, replace, nil)
}

// foldStringEquals implements spec §8 scenario 3:
//
//	const-string a, A
//	const-string b, B
//	invoke-virtual {a, b}, String.equals(Object)Z
//	move-result r
//
// becomes: const/4 r, (A == B ? 1 : 0).
func foldStringEquals(m *stringMethods) *pattern.Pattern {
	a, b, r := pattern.RegA, pattern.RegB, pattern.RegC
	match := []pattern.DexPattern{
		pattern.MatchString(&a, pattern.StrA, ir.OpConstString),
		pattern.MatchString(&b, pattern.StrB, ir.OpConstString),
		pattern.MatchInvoke(m.stringEquals, []pattern.Register{a, b}, ir.OpInvokeVirtual),
		pattern.Match(&r, nil, ir.OpMoveResult),
	}
	replace := []pattern.DexPattern{
		pattern.ReplaceLiteral(ir.OpConst4, r, pattern.LitCompareStringsAB),
	}
	return pattern.NewPattern("Fold_StringEquals", match, replace, nil)
}

// removeAppendEmptyString would drop an append("") call entirely. It
// shipped disabled upstream over verification concerns (spec §9); it is
// listed in catalog.AllRules but left out of catalog.DefaultRules.
func removeAppendEmptyString(m *stringMethods) *pattern.Pattern {
	sb, empty := pattern.RegA, pattern.RegB
	match := []pattern.DexPattern{
		pattern.MatchString(&empty, pattern.StrEmpty, ir.OpConstString),
		pattern.MatchInvoke(m.sbAppendStr, []pattern.Register{sb, empty}, ir.OpInvokeVirtual),
		pattern.Match(&sb, nil, ir.OpMoveResultObject),
	}
	return pattern.NewPattern("Remove_AppendEmptyString", match, nil, nil)
}
