// Package ir models the subset of a register-based bytecode IR that the
// peephole optimizer needs: opcodes, operand widths, and instructions.
// Construction of this IR, control-flow graph building, and the class/
// method scope walker all live outside this module — they are consumed
// here only through the narrow surface in method.go.
package ir

import "fmt"

// Opcode identifies an instruction kind. The values are this package's own
// sequential ordinals; they are not the target bytecode's numeric opcode
// codes.
type Opcode uint16

const (
	OpNop Opcode = iota

	OpConst4
	OpConst16
	OpConst
	OpConstWide16
	OpConstWide32
	OpConstWide
	OpConstString
	OpConstClass

	OpMove
	OpMoveObject
	OpMove16
	OpMoveResult
	OpMoveResultObject

	OpInvokeDirect
	OpInvokeStatic
	OpInvokeVirtual
	OpInvokeSuper
	OpInvokeInterface
	OpInvokeDirectRange
	OpInvokeStaticRange
	OpInvokeVirtualRange
	OpInvokeSuperRange
	OpInvokeInterfaceRange

	OpNegInt
	OpAddIntLit8
	OpAddIntLit16
	OpMulIntLit8
	OpMulIntLit16
	OpDivIntLit8
	OpDivIntLit16
)

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", uint16(op))
}

var opcodeNames = map[Opcode]string{
	OpNop:                  "nop",
	OpConst4:                "const/4",
	OpConst16:               "const/16",
	OpConst:                 "const",
	OpConstWide16:           "const-wide/16",
	OpConstWide32:           "const-wide/32",
	OpConstWide:             "const-wide",
	OpConstString:           "const-string",
	OpConstClass:            "const-class",
	OpMove:                  "move",
	OpMoveObject:            "move-object",
	OpMove16:                "move/16",
	OpMoveResult:            "move-result",
	OpMoveResultObject:      "move-result-object",
	OpInvokeDirect:          "invoke-direct",
	OpInvokeStatic:          "invoke-static",
	OpInvokeVirtual:         "invoke-virtual",
	OpInvokeSuper:           "invoke-super",
	OpInvokeInterface:       "invoke-interface",
	OpInvokeDirectRange:     "invoke-direct/range",
	OpInvokeStaticRange:     "invoke-static/range",
	OpInvokeVirtualRange:    "invoke-virtual/range",
	OpInvokeSuperRange:      "invoke-super/range",
	OpInvokeInterfaceRange:  "invoke-interface/range",
	OpNegInt:                "neg-int",
	OpAddIntLit8:            "add-int/lit8",
	OpAddIntLit16:           "add-int/lit16",
	OpMulIntLit8:            "mul-int/lit8",
	OpMulIntLit16:           "mul-int/lit16",
	OpDivIntLit8:            "div-int/lit8",
	OpDivIntLit16:           "div-int/lit16",
}

// Width describes a register field's encoding width in bits.
type Width int

const (
	Width4  Width = 4
	Width8  Width = 8
	Width16 Width = 16
)

// opcodeWidths gives the dest-register width and the (uniform) source-
// register width for opcodes that take registers. Invoke-family opcodes
// and their /range variants use 4-bit source registers normally and
// 16-bit registers in the /range form; neither carries a dest register.
type widthInfo struct {
	dest Width
	src  Width
	// hasDest reports whether this opcode carries a dest register at all.
	hasDest bool
}

var opcodeWidths = map[Opcode]widthInfo{
	OpConst4:             {dest: Width4, hasDest: true},
	OpConst16:            {dest: Width8, hasDest: true},
	OpConst:              {dest: Width8, hasDest: true},
	OpConstWide16:        {dest: Width8, hasDest: true},
	OpConstWide32:        {dest: Width8, hasDest: true},
	OpConstWide:          {dest: Width8, hasDest: true},
	OpConstString:        {dest: Width8, hasDest: true},
	OpConstClass:         {dest: Width8, hasDest: true},
	OpMove:               {dest: Width4, src: Width4, hasDest: true},
	OpMoveObject:         {dest: Width4, src: Width4, hasDest: true},
	OpMove16:             {dest: Width16, src: Width16, hasDest: true},
	OpMoveResult:         {dest: Width8, hasDest: true},
	OpMoveResultObject:   {dest: Width8, hasDest: true},
	OpNegInt:             {dest: Width4, src: Width4, hasDest: true},
	OpAddIntLit8:         {dest: Width8, src: Width8, hasDest: true},
	OpAddIntLit16:        {dest: Width4, src: Width4, hasDest: true},
	OpMulIntLit8:         {dest: Width8, src: Width8, hasDest: true},
	OpMulIntLit16:        {dest: Width4, src: Width4, hasDest: true},
	OpDivIntLit8:         {dest: Width8, src: Width8, hasDest: true},
	OpDivIntLit16:        {dest: Width4, src: Width4, hasDest: true},
	OpInvokeDirect:       {src: Width4},
	OpInvokeStatic:       {src: Width4},
	OpInvokeVirtual:      {src: Width4},
	OpInvokeSuper:        {src: Width4},
	OpInvokeInterface:    {src: Width4},
	OpInvokeDirectRange:  {src: Width16},
	OpInvokeStaticRange:  {src: Width16},
	OpInvokeVirtualRange: {src: Width16},
	OpInvokeSuperRange:   {src: Width16},
	OpInvokeInterfaceRange: {src: Width16},
}

// DestWidth returns the encoding width of op's dest register field, and
// whether op carries a dest register at all.
func DestWidth(op Opcode) (Width, bool) {
	info, ok := opcodeWidths[op]
	if !ok || !info.hasDest {
		return 0, false
	}
	return info.dest, true
}

// SrcWidth returns the encoding width of op's source register fields.
// All sources of a single opcode share one width in this encoding.
func SrcWidth(op Opcode) Width {
	return opcodeWidths[op].src
}

// Register is a virtual/physical register number. Concrete register
// numbers are always >= 0; the IR carries no special sentinel registers
// because dest/src absence is tracked structurally (see Instruction).
type Register int

// Instruction is the adapter view of one IR instruction, per spec §4.A.
// Fields not meaningful for a given Op are left at their zero value.
type Instruction struct {
	Op Opcode

	hasDest bool
	dest    Register
	srcs    []Register

	literal int64
	hasLit  bool

	str    *StringHandle
	typ    *TypeHandle
	method *MethodHandle

	// ArgWordCount mirrors the target encoding's explicit argument-word
	// count on invoke-family instructions. A wide argument is carried as
	// two source registers, so the word count is len(srcs). Synthesize
	// sets it to len(srcs) on every instruction it builds with sources;
	// NewInstruction and SetSrcs leave it at zero.
	ArgWordCount int
}

// NewInstruction builds an instruction with no dest/src/payload set.
func NewInstruction(op Opcode) *Instruction {
	return &Instruction{Op: op}
}

func (i *Instruction) SetDest(r Register) *Instruction {
	i.hasDest = true
	i.dest = r
	return i
}

func (i *Instruction) SetSrcs(rs ...Register) *Instruction {
	i.srcs = append([]Register(nil), rs...)
	return i
}

func (i *Instruction) SetLiteral(v int64) *Instruction {
	i.hasLit = true
	i.literal = v
	return i
}

func (i *Instruction) SetString(h *StringHandle) *Instruction {
	i.str = h
	return i
}

func (i *Instruction) SetType(h *TypeHandle) *Instruction {
	i.typ = h
	return i
}

func (i *Instruction) SetMethod(h *MethodHandle) *Instruction {
	i.method = h
	return i
}

// DestsSize returns 0 or 1, per spec §4.A.
func (i *Instruction) DestsSize() int {
	if i.hasDest {
		return 1
	}
	return 0
}

func (i *Instruction) Dest() Register {
	return i.dest
}

func (i *Instruction) SrcsSize() int {
	return len(i.srcs)
}

func (i *Instruction) Src(idx int) Register {
	return i.srcs[idx]
}

// Literal returns the instruction's signed 64-bit literal value.
func (i *Instruction) Literal() int64 {
	return i.literal
}

func (i *Instruction) HasLiteral() bool {
	return i.hasLit
}

func (i *Instruction) GetString() *StringHandle {
	return i.str
}

func (i *Instruction) GetType() *TypeHandle {
	return i.typ
}

func (i *Instruction) GetMethod() *MethodHandle {
	return i.method
}

// Clone returns a deep-enough copy: a new instruction value with its own
// source-register slice, sharing interned handles (identity equality is
// the point of interning — cloning the handle would defeat it).
func (i *Instruction) Clone() *Instruction {
	clone := *i
	clone.srcs = append([]Register(nil), i.srcs...)
	return &clone
}

func (i *Instruction) String() string {
	return fmt.Sprintf("%s dest=%v srcs=%v lit=%d", i.Op, i.dest, i.srcs, i.literal)
}
