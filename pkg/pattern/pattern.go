package pattern

import "github.com/dexpeep/dexpeep/pkg/ir"

// Bindings holds a Matcher's placeholder -> concrete-value maps (spec
// §3's "Matcher state"). It lives in this package, not pkg/matcher, so
// that a Pattern's optional Predicate can be expressed in terms of it
// without pkg/pattern depending on pkg/matcher.
type Bindings struct {
	Regs map[Register]ir.Register
	Strs map[String]*ir.StringHandle
	Lits map[Literal]int64
	Typs map[Type]*ir.TypeHandle
}

// NewBindings returns an empty binding set.
func NewBindings() *Bindings {
	return &Bindings{
		Regs: make(map[Register]ir.Register),
		Strs: make(map[String]*ir.StringHandle),
		Lits: make(map[Literal]int64),
		Typs: make(map[Type]*ir.TypeHandle),
	}
}

// Reset clears all bindings in place, for per-block/per-attempt reuse
// without reallocating the maps.
func (b *Bindings) Reset() {
	for k := range b.Regs {
		delete(b.Regs, k)
	}
	for k := range b.Strs {
		delete(b.Strs, k)
	}
	for k := range b.Lits {
		delete(b.Lits, k)
	}
	for k := range b.Typs {
		delete(b.Typs, k)
	}
}

// Predicate is a rule's optional acceptance check over the bindings
// produced by a full match and the matched instructions themselves
// (spec §4.F's arithmetic rules inspect matched_instructions.front()).
type Predicate func(b *Bindings, matched []*ir.Instruction) bool

// Pattern is an immutable, named match/replace rule (spec §3). Patterns
// are built once at startup via NewPattern and never mutated afterward.
type Pattern struct {
	Name       string
	MatchSeq   []DexPattern
	ReplaceSeq []DexPattern
	Predicate  Predicate

	// widthLimits maps each symbolic register mentioned in ReplaceSeq to
	// the narrowest encoding width any replacement opcode requires of
	// it, per spec §4.C. Absent entries mean "no restriction" (16).
	widthLimits map[Register]ir.Width
}

// NewPattern builds a Pattern and precomputes its register-width limits.
// Every replacement element's opcode set must be a singleton (spec §3);
// NewPattern panics if that invariant is violated, since a pattern
// declaration with a non-singleton replacement opcode set is a
// programmer error caught at startup, not a runtime condition.
func NewPattern(name string, match, replace []DexPattern, predicate Predicate) *Pattern {
	for _, e := range replace {
		if e.PayloadKind != PayloadCopy && len(e.Opcodes) != 1 {
			panic("pattern " + name + ": replacement element must have a singleton opcode set")
		}
	}
	p := &Pattern{Name: name, MatchSeq: match, ReplaceSeq: replace, Predicate: predicate}
	p.widthLimits = computeWidthLimits(replace)
	return p
}

// WidthLimit returns the encoding-width limit for symbolic register r,
// defaulting to 16 bits (no restriction) per spec §4.C.
func (p *Pattern) WidthLimit(r Register) ir.Width {
	if w, ok := p.widthLimits[r]; ok {
		return w
	}
	return ir.Width16
}

// computeWidthLimits implements spec §4.C: for each replacement element,
// compute min(dest-width, src-width) for its singleton opcode, and give
// every symbolic register that element mentions (as dest or as any
// source) the minimum of its running limit and that value. Copy
// elements carry no opcode and no symbolic operands, so they contribute
// nothing.
func computeWidthLimits(replace []DexPattern) map[Register]ir.Width {
	limits := make(map[Register]ir.Width)
	for _, e := range replace {
		if e.PayloadKind == PayloadCopy {
			continue
		}
		op := e.SingletonOpcode()
		destWidth, hasDest := ir.DestWidth(op)
		if !hasDest {
			destWidth = 0
		}
		dw := effectiveWidth(destWidth)
		sw := effectiveWidth(ir.SrcWidth(op))
		elementLimit := dw
		if sw < elementLimit {
			elementLimit = sw
		}

		mentioned := make([]Register, 0, len(e.Srcs)+1)
		if e.Dest != nil {
			mentioned = append(mentioned, *e.Dest)
		}
		mentioned = append(mentioned, e.Srcs...)

		for _, r := range mentioned {
			if cur, ok := limits[r]; !ok || elementLimit < cur {
				limits[r] = elementLimit
			}
		}
	}
	return limits
}

func effectiveWidth(w ir.Width) ir.Width {
	if w == 0 {
		return ir.Width16
	}
	return w
}
