package cfg

import (
	"fmt"

	"github.com/malphas-lang/cfgir/internal/ast"
	"github.com/malphas-lang/cfgir/internal/types"
)

// termBase is embedded by every terminator.
type termBase struct {
	instrBase
}

func (*termBase) terminator() {}

// Unreachable marks a point that execution cannot reach, such as the end
// of a function after a call that never returns. It is always implicit.
type Unreachable struct {
	termBase
}

func (f *Function) NewUnreachable() *Unreachable {
	return &Unreachable{termBase{f.newBase(KindUnreachable, types.TypeVoid, NoLocation())}}
}

func (u *Unreachable) Successors() []Successor { return nil }
func (u *Unreachable) Operands() []Operand     { return nil }

// Return leaves the function with a value. Functions returning nothing
// return an empty tuple, so the value is never absent.
type Return struct {
	termBase
	retval Operand
}

// NewReturn creates a return lowered from s.
func (f *Function) NewReturn(s *ast.ReturnStmt, value Value) *Return {
	return &Return{
		termBase: termBase{f.newBase(KindReturn, types.TypeVoid, StmtLocation(s))},
		retval:   f.use(value, "return"),
	}
}

func (r *Return) ReturnValue() Operand { return r.retval }

func (r *Return) Successors() []Successor { return nil }
func (r *Return) Operands() []Operand     { return []Operand{r.retval} }

// Branch jumps unconditionally to a single successor.
//
// Passing values to the destination block is not supported; merges go
// through memory.
type Branch struct {
	termBase
	dest [1]Successor
}

func (f *Function) NewBranch(dest *BasicBlock) *Branch {
	return &Branch{
		termBase: termBase{f.newBase(KindBranch, types.TypeVoid, NoLocation())},
		dest:     [1]Successor{f.target(dest, "branch destination")},
	}
}

// DestBB returns the jump target.
func (b *Branch) DestBB() *BasicBlock { return b.dest[0].block }

func (b *Branch) Successors() []Successor { return b.dest[:] }
func (b *Branch) Operands() []Operand     { return nil }

// CondBranch jumps to TrueBB when Condition holds and to FalseBB
// otherwise. Its targets may be changed after creation; all other state
// is fixed.
type CondBranch struct {
	termBase
	cond  Operand
	dests [2]Successor
}

// NewCondBranch creates a conditional branch lowered from s. cond must be
// a boolean value.
func (f *Function) NewCondBranch(s ast.Stmt, cond Value, trueBB, falseBB *BasicBlock) *CondBranch {
	op := f.use(cond, "condition")
	if !types.IsBool(op.Type()) {
		panic(fmt.Sprintf("cfg: branch condition has type %s, want bool", op.Type()))
	}
	return &CondBranch{
		termBase: termBase{f.newBase(KindCondBranch, types.TypeVoid, StmtLocation(s))},
		cond:     op,
		dests: [2]Successor{
			f.target(trueBB, "true"),
			f.target(falseBB, "false"),
		},
	}
}

func (c *CondBranch) Condition() Operand { return c.cond }

func (c *CondBranch) TrueBB() *BasicBlock  { return c.dests[0].block }
func (c *CondBranch) FalseBB() *BasicBlock { return c.dests[1].block }

// SetTrueBB retargets the true edge.
func (c *CondBranch) SetTrueBB(bb *BasicBlock) { c.dests[0] = c.fn.target(bb, "true") }

// SetFalseBB retargets the false edge.
func (c *CondBranch) SetFalseBB(bb *BasicBlock) { c.dests[1] = c.fn.target(bb, "false") }

func (c *CondBranch) Successors() []Successor { return c.dests[:] }
func (c *CondBranch) Operands() []Operand     { return []Operand{c.cond} }
