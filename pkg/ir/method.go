package ir

// Block is a basic block: a maximal straight-line instruction sequence.
// Building blocks from a method's bytecode (control-flow analysis) is
// out of scope for this module (spec §1) — Block is just the container
// the driver edits via InsertAfter/Remove, per spec §6's outbound
// interface.
type Block struct {
	Instructions []*Instruction
}

// NewBlock wraps an existing instruction sequence as a block.
func NewBlock(insns ...*Instruction) *Block {
	return &Block{Instructions: insns}
}

// InsertAfter inserts newInsns immediately after anchor. anchor must be
// present in the block (identity comparison on the pointer).
func (b *Block) InsertAfter(anchor *Instruction, newInsns []*Instruction) {
	idx := b.indexOf(anchor)
	if idx < 0 {
		return
	}
	out := make([]*Instruction, 0, len(b.Instructions)+len(newInsns))
	out = append(out, b.Instructions[:idx+1]...)
	out = append(out, newInsns...)
	out = append(out, b.Instructions[idx+1:]...)
	b.Instructions = out
}

// Remove deletes insn from the block (identity comparison on the
// pointer). A no-op if insn is not present.
func (b *Block) Remove(insn *Instruction) {
	idx := b.indexOf(insn)
	if idx < 0 {
		return
	}
	b.Instructions = append(b.Instructions[:idx], b.Instructions[idx+1:]...)
}

func (b *Block) indexOf(insn *Instruction) int {
	for i, candidate := range b.Instructions {
		if candidate == insn {
			return i
		}
	}
	return -1
}

// Method is a method's code, as a sequence of basic blocks. Per spec §1,
// the class/method scope walker that enumerates methods containing code
// and the CFG builder that partitions a method's bytecode into blocks
// are external collaborators; Method here is only the minimal surface
// the driver and tests need.
type Method struct {
	Name   string
	Blocks []*Block
}

// NewMethod wraps a sequence of blocks as a method's code.
func NewMethod(name string, blocks ...*Block) *Method {
	return &Method{Name: name, Blocks: blocks}
}
