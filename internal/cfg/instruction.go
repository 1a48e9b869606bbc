package cfg

import (
	"fmt"

	"github.com/malphas-lang/cfgir/internal/types"
)

// Instruction is the root of every variant that can live in a BasicBlock.
type Instruction interface {
	Value

	// Parent returns the block the instruction is linked into, or nil.
	Parent() *BasicBlock
	// Loc returns the AST origin of the instruction.
	Loc() Location
	// Prev and Next walk the owning block's list. Both are nil while
	// the instruction is unlinked.
	Prev() Instruction
	Next() Instruction
	// Operands returns the values used by the instruction, in operand
	// order.
	Operands() []Operand
	// IsErased reports whether EraseFromParent has been called.
	IsErased() bool

	// RemoveFromParent unlinks the instruction from its block without
	// destroying it. It may be linked again afterwards.
	RemoveFromParent()
	// EraseFromParent unlinks and destroys the instruction. The caller
	// guarantees no live instruction still uses it.
	EraseFromParent()

	base() *instrBase
}

// instrBase carries the state every instruction shares: the value header,
// the origin and the intrusive list links.
type instrBase struct {
	valueBase
	loc        Location
	parent     *BasicBlock
	prev, next Instruction
	erased     bool
}

func (b *instrBase) Parent() *BasicBlock { return b.parent }
func (b *instrBase) Loc() Location       { return b.loc }
func (b *instrBase) Prev() Instruction   { return b.prev }
func (b *instrBase) Next() Instruction   { return b.next }
func (b *instrBase) IsErased() bool      { return b.erased }
func (b *instrBase) base() *instrBase    { return b }

func (b *instrBase) RemoveFromParent() {
	if b.parent == nil {
		panic(fmt.Sprintf("cfg: %s %%%d is not linked into a block", b.kind, b.id))
	}
	b.parent.unlink(b)
}

func (b *instrBase) EraseFromParent() {
	if b.parent != nil {
		b.parent.unlink(b)
	}
	b.erased = true
}

// AllocInstruction is implemented by the memory allocation family.
type AllocInstruction interface {
	Instruction
	allocInst()
}

// LiteralInstruction is implemented by the literal family.
type LiteralInstruction interface {
	Instruction
	literalInst()
}

// Terminator is implemented by the instructions that may end a block.
type Terminator interface {
	Instruction
	// Successors returns the control-flow edges leaving the block. The
	// returned slice aliases the terminator and must not be modified.
	Successors() []Successor
	terminator()
}

// Successor is a control-flow edge to a target block.
type Successor struct {
	block *BasicBlock
}

// Block returns the target of the edge.
func (s Successor) Block() *BasicBlock { return s.block }

func (f *Function) newBase(kind Kind, typ types.Type, loc Location) instrBase {
	if typ == nil {
		typ = types.TypeVoid
	}
	return instrBase{
		valueBase: valueBase{kind: kind, typ: typ, id: f.allocValueID(), fn: f},
		loc:       loc,
	}
}

// use converts v into an operand owned by f. Mixing values of different
// functions is a construction error.
func (f *Function) use(v Value, what string) Operand {
	if v == nil {
		panic("cfg: nil " + what + " operand")
	}
	if v.Func() != f {
		panic(fmt.Sprintf("cfg: %s operand %%%d belongs to another function", what, v.ID()))
	}
	if i, ok := AsInstruction(v); ok && i.IsErased() {
		panic(fmt.Sprintf("cfg: %s operand %%%d was erased", what, v.ID()))
	}
	return Operand{def: v}
}

func (f *Function) target(bb *BasicBlock, what string) Successor {
	if bb == nil {
		panic("cfg: nil " + what + " block")
	}
	if bb.fn != f {
		panic(fmt.Sprintf("cfg: %s block %s belongs to another function", what, bb))
	}
	return Successor{block: bb}
}
