// Package matcher implements the streaming, per-pattern matcher of spec
// §4.D: an incremental state machine that binds symbolic placeholders to
// concrete register numbers, interned handles, and literals as
// instructions arrive, with the "ProGuard heuristic" one-step backtrack
// on failure at the second match position.
package matcher

import (
	"fmt"

	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/pattern"
)

// Matcher is the per-pattern streaming matcher state of spec §3's
// "Matcher state": a cursor into pattern.MatchSeq, the instructions
// matched so far, and the bindings accumulated along the way.
type Matcher struct {
	Pattern  *pattern.Pattern
	cursor   int
	matched  []*ir.Instruction
	bindings *pattern.Bindings
}

// New creates a Matcher for p, initially reset.
func New(p *pattern.Pattern) *Matcher {
	m := &Matcher{Pattern: p, bindings: pattern.NewBindings()}
	m.Reset()
	return m
}

// Reset returns the matcher to its initial state, per spec §4.D.
func (m *Matcher) Reset() {
	m.cursor = 0
	m.matched = m.matched[:0]
	m.bindings.Reset()
}

// Matched returns the instructions matched so far (valid after a
// successful TryMatch, before the next Reset).
func (m *Matcher) Matched() []*ir.Instruction {
	return m.matched
}

// Bindings returns the matcher's current bindings (valid after a
// successful TryMatch, before the next Reset).
func (m *Matcher) Bindings() *pattern.Bindings {
	return m.bindings
}

// TryMatch feeds one instruction to the matcher. It returns true iff
// insn completes a full match of m.Pattern.MatchSeq (and the pattern's
// optional predicate, if any, accepts the result).
func (m *Matcher) TryMatch(insn *ir.Instruction) bool {
	element := &m.Pattern.MatchSeq[m.cursor]
	if m.tryElement(element, insn) {
		return m.advance(insn)
	}

	// Retry-at-position-1 heuristic (spec §4.D): a failure right after
	// the first element already matched gets one retry of the *current*
	// instruction against element 0, since the instruction that broke
	// the sequence might itself start a fresh match.
	if m.cursor == 1 {
		m.Reset()
		first := &m.Pattern.MatchSeq[0]
		if m.tryElement(first, insn) {
			return m.advance(insn)
		}
	}

	m.Reset()
	return false
}

// advance records insn as matched and moves the cursor forward,
// completing the match (subject to the predicate) if the cursor has
// reached the end of the match sequence.
func (m *Matcher) advance(insn *ir.Instruction) bool {
	m.matched = append(m.matched, insn)
	m.cursor++
	if m.cursor < len(m.Pattern.MatchSeq) {
		return false
	}
	if m.Pattern.Predicate != nil && !m.Pattern.Predicate(m.bindings, m.matched) {
		m.Reset()
		return false
	}
	return true
}

// tryElement implements the element match procedure of spec §4.D.
func (m *Matcher) tryElement(e *pattern.DexPattern, insn *ir.Instruction) bool {
	if !e.HasOpcode(insn.Op) {
		return false
	}
	if insn.SrcsSize() != len(e.Srcs) {
		return false
	}
	wantsDest := e.Dest != nil
	if (insn.DestsSize() == 1) != wantsDest {
		return false
	}

	if wantsDest && !m.bindRegister(*e.Dest, insn.Dest()) {
		return false
	}
	for i, placeholder := range e.Srcs {
		if !m.bindRegister(placeholder, insn.Src(i)) {
			return false
		}
	}

	switch e.PayloadKind {
	case pattern.PayloadNone:
		return true
	case pattern.PayloadString:
		return m.bindString(e.Str, insn.GetString())
	case pattern.PayloadLiteral:
		if !insn.HasLiteral() {
			return false
		}
		return m.bindLiteral(e.Lit, insn.Literal())
	case pattern.PayloadMethod:
		return insn.GetMethod() != nil && insn.GetMethod() == e.Method
	case pattern.PayloadType:
		return m.bindType(e.Typ, insn.GetType())
	case pattern.PayloadCopy:
		panic("matcher: copy payload is replacement-only and must never appear in a match element")
	default:
		panic(fmt.Sprintf("matcher: unknown payload kind %v", e.PayloadKind))
	}
}

// bindRegister implements spec §4.D step 2, including pair-register
// derivation (spec §3: a pair placeholder must equal base+1).
func (m *Matcher) bindRegister(placeholder pattern.Register, concrete ir.Register) bool {
	if base, isPair := placeholder.Base(); isPair {
		baseVal, ok := m.bindings.Regs[base]
		if !ok {
			// The base must be bound by an earlier element in the same
			// match for a pair reference to make sense.
			return false
		}
		return concrete == baseVal+1
	}

	if bound, ok := m.bindings.Regs[placeholder]; ok {
		return bound == concrete
	}
	limit := m.Pattern.WidthLimit(placeholder)
	if !fitsWidth(concrete, limit) {
		return false
	}
	m.bindings.Regs[placeholder] = concrete
	return true
}

func fitsWidth(r ir.Register, w ir.Width) bool {
	if r < 0 {
		return false
	}
	return uint64(r) < (uint64(1) << uint(w))
}

func (m *Matcher) bindString(placeholder pattern.String, handle *ir.StringHandle) bool {
	if handle == nil {
		return false
	}
	if placeholder == pattern.StrEmpty {
		return handle.Value == ""
	}
	if bound, ok := m.bindings.Strs[placeholder]; ok {
		return bound == handle
	}
	m.bindings.Strs[placeholder] = handle
	return true
}

func (m *Matcher) bindLiteral(placeholder pattern.Literal, value int64) bool {
	if bound, ok := m.bindings.Lits[placeholder]; ok {
		return bound == value
	}
	m.bindings.Lits[placeholder] = value
	return true
}

func (m *Matcher) bindType(placeholder pattern.Type, handle *ir.TypeHandle) bool {
	if handle == nil {
		return false
	}
	if bound, ok := m.bindings.Typs[placeholder]; ok {
		return bound == handle
	}
	m.bindings.Typs[placeholder] = handle
	return true
}
