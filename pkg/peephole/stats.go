package peephole

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// RuleStats accumulates the activity of a single rule across a run.
type RuleStats struct {
	Matches  int
	Removed  int
	Inserted int
}

// Stats accumulates the statistics spec §6/§8 property 8 require: total
// instructions removed and inserted, plus a per-rule breakdown. Each
// method is optimized single-threaded (spec §5), so Stats is updated
// synchronously by the driver; a caller parallelizing across methods
// merges per-worker Stats with Merge.
type Stats struct {
	Removed  int
	Inserted int
	PerRule  map[string]RuleStats
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{PerRule: make(map[string]RuleStats)}
}

// record folds one successful replacement into the statistics: ruleName
// matched matchLen instructions and synthesized replacedLen in their place.
func (s *Stats) record(ruleName string, matchLen, replacedLen int) {
	s.Removed += matchLen
	s.Inserted += replacedLen
	rs := s.PerRule[ruleName]
	rs.Matches++
	rs.Removed += matchLen
	rs.Inserted += replacedLen
	s.PerRule[ruleName] = rs
}

// Merge folds other's counts into s, for combining per-worker statistics
// from a parallel-by-method optimization run.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	s.Removed += other.Removed
	s.Inserted += other.Inserted
	for name, rs := range other.PerRule {
		cur := s.PerRule[name]
		cur.Matches += rs.Matches
		cur.Removed += rs.Removed
		cur.Inserted += rs.Inserted
		s.PerRule[name] = cur
	}
}

// NetDelta is the instruction-count change across the run (non-positive,
// per spec §8's size non-increase property, assuming every rule in the
// catalog upholds it).
func (s *Stats) NetDelta() int {
	return s.Inserted - s.Removed
}

// Report renders a human-facing, color-highlighted summary for the CLI's
// --trace flag.
func (s *Stats) Report() string {
	var b strings.Builder
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Fprintln(&b, "peephole: optimization report")
	fmt.Fprintf(&b, "  instructions removed:  %s\n", green.Sprint(s.Removed))
	fmt.Fprintf(&b, "  instructions inserted: %s\n", yellow.Sprint(s.Inserted))
	fmt.Fprintf(&b, "  net change:            %d\n", s.NetDelta())

	if len(s.PerRule) == 0 {
		fmt.Fprintln(&b, "  (no rules matched)")
		return b.String()
	}

	names := make([]string, 0, len(s.PerRule))
	for name := range s.PerRule {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(&b, "  by rule:")
	for _, name := range names {
		rs := s.PerRule[name]
		fmt.Fprintf(&b, "    %-36s matches=%-4d removed=%-4d inserted=%-4d\n",
			name, rs.Matches, rs.Removed, rs.Inserted)
	}
	return b.String()
}
