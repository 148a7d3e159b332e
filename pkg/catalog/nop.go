package catalog

import (
	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/pattern"
)

// nopRules implements spec §4.F's Nop family: remove self-moves, where
// the move's source and destination are the same register.
func nopRules() []*pattern.Pattern {
	return []*pattern.Pattern{
		removeRedundantMove("Remove_Redundant_Move", ir.OpMove),
		removeRedundantMove("Remove_Redundant_Move_Object", ir.OpMoveObject),
	}
}

func removeRedundantMove(name string, op ir.Opcode) *pattern.Pattern {
	dest := pattern.RegA
	match := []pattern.DexPattern{
		pattern.Match(&dest, []pattern.Register{pattern.RegA}, op),
	}
	return pattern.NewPattern(name, match, nil, nil)
}
