// Package peephole implements spec §4.G's per-method driver: it owns no
// matching or synthesis logic itself, only the scan/splice/reset loop
// that drives pkg/matcher and pkg/synth over a method's blocks and
// accumulates pkg/peephole.Stats.
package peephole

import (
	"fmt"

	"github.com/dexpeep/dexpeep/pkg/catalog"
	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/matcher"
	"github.com/dexpeep/dexpeep/pkg/pattern"
	"github.com/dexpeep/dexpeep/pkg/synth"
)

// NewEnabledCatalog resolves a config disable-list against the built-in
// catalog (spec §6): disabling an unknown rule name is not an error, it
// is accepted and reported back as a warning string, per §7's
// silent-ignore-but-observable requirement.
func NewEnabledCatalog(cat *catalog.Catalog, disable []string) ([]*pattern.Pattern, []string) {
	disabled := make(map[string]bool, len(disable))
	var warnings []string
	for _, name := range disable {
		if _, ok := cat.ByName(name); !ok {
			warnings = append(warnings, fmt.Sprintf("peephole: disabled rule %q is not a known rule name, ignoring", name))
			continue
		}
		disabled[name] = true
	}

	var rules []*pattern.Pattern
	for _, p := range cat.DefaultRules() {
		if !disabled[p.Name] {
			rules = append(rules, p)
		}
	}
	return rules, warnings
}

// Driver runs a fixed rule set over a MethodSource's blocks.
type Driver struct {
	rules   []*pattern.Pattern
	strPool *ir.StringPool
}

// NewDriver builds a Driver for rules, interning synthesized strings
// through strPool.
func NewDriver(rules []*pattern.Pattern, strPool *ir.StringPool) *Driver {
	return &Driver{rules: rules, strPool: strPool}
}

// Run optimizes every block of every method the source exposes and
// returns the accumulated statistics. Per spec §5, each method is
// processed single-threaded; Stats.Merge is available to a caller that
// chooses to run Driver.Run concurrently across methods.
func (d *Driver) Run(source MethodSource) *Stats {
	stats := NewStats()
	for _, method := range source.Methods() {
		for _, block := range method.Blocks {
			d.optimizeBlock(block, stats)
		}
	}
	return stats
}

// optimizeBlock implements spec §4.G: a single left-to-right scan of the
// block feeding every enabled rule's Matcher in parallel, in catalog
// order, splicing in the first full match's synthesized replacement and
// resuming the scan immediately after it. Per spec §1, matches never
// cross block boundaries — matchers are built fresh per block and never
// shared across blocks. Each match is spliced into the block as soon as
// it is found, before the scan moves on; edits are not queued until the
// end of the block. The replacement is computed in full, inserted after
// the matched run via Block.InsertAfter, and only then is the matched run
// removed via Block.Remove — block.Instructions is never re-sliced by
// hand. The scan then resumes at the instruction that followed the
// matched run, so a replacement is never itself rescanned.
func (d *Driver) optimizeBlock(block *ir.Block, stats *Stats) bool {
	matchers := make([]*matcher.Matcher, len(d.rules))
	for i, p := range d.rules {
		matchers[i] = matcher.New(p)
	}

	changed := false
	i := 0
	for i < len(block.Instructions) {
		won := -1
		for idx, m := range matchers {
			if m.TryMatch(block.Instructions[i]) {
				won = idx
				break
			}
		}
		if won < 0 {
			i++
			continue
		}

		m := matchers[won]
		matched := append([]*ir.Instruction(nil), m.Matched()...)
		bindings := m.Bindings()
		replacement := synth.Synthesize(d.strPool, m.Pattern, matched, bindings)

		anchor := matched[len(matched)-1]
		block.InsertAfter(anchor, replacement)
		for _, old := range matched {
			block.Remove(old)
		}

		stats.record(m.Pattern.Name, len(matched), len(replacement))
		changed = true

		// The instruction stream just changed underneath every matcher;
		// none of their in-progress state is still valid.
		for _, mm := range matchers {
			mm.Reset()
		}
		start := i - len(matched) + 1
		i = start + len(replacement)
	}

	return changed
}
