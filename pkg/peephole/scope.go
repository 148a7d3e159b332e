package peephole

import "github.com/dexpeep/dexpeep/pkg/ir"

// MethodSource stands in for the external scope walker and CFG builder
// spec §1/§6 place outside this system's boundary: "the driver is handed
// a method's basic blocks by a caller that owns class/method enumeration
// and control-flow construction". The driver only ever calls Methods; it
// never enumerates classes or builds blocks itself.
type MethodSource interface {
	Methods() []*ir.Method
}

// StaticMethodSource is the simplest MethodSource: a fixed slice, useful
// for the CLI's --demo mode and for tests that hand-build a single
// method's blocks.
type StaticMethodSource []*ir.Method

func (s StaticMethodSource) Methods() []*ir.Method {
	return s
}
