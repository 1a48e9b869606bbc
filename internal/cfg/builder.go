package cfg

import (
	"errors"
	"fmt"

	"github.com/malphas-lang/cfgir/internal/ast"
)

// ErrNoInsertionPoint is returned when a Builder has no open block to
// insert into.
var ErrNoInsertionPoint = errors.New("no valid insertion point")

// Builder appends instructions to a current block, the way a lowering pass
// emits code while walking a function body.
type Builder struct {
	fn     *Function
	block  *BasicBlock
	before Instruction
}

func NewBuilder(fn *Function) *Builder {
	if fn == nil {
		panic("cfg: builder for nil function")
	}
	return &Builder{fn: fn}
}

// Func returns the function being built.
func (b *Builder) Func() *Function { return b.fn }

// SetInsertionPoint makes the builder append to the end of bb. A nil bb
// clears the insertion point.
func (b *Builder) SetInsertionPoint(bb *BasicBlock) {
	if bb != nil && bb.fn != b.fn {
		panic(fmt.Sprintf("cfg: insertion block %s belongs to another function", bb))
	}
	b.block, b.before = bb, nil
}

// SetInsertionPointBefore makes the builder insert in front of i.
func (b *Builder) SetInsertionPointBefore(i Instruction) {
	if i == nil || i.Parent() == nil || i.Func() != b.fn {
		panic("cfg: insertion point must be a linked instruction of the function")
	}
	b.block, b.before = i.Parent(), i
}

// InsertionBlock returns the current block, or nil.
func (b *Builder) InsertionBlock() *BasicBlock { return b.block }

// HasValidInsertionPoint reports whether Insert can succeed for a
// non-terminator. It becomes false once the block is sealed while the
// builder appends at its end, such as right after lowering a return.
func (b *Builder) HasValidInsertionPoint() bool {
	if b.block == nil {
		return false
	}
	return b.before != nil || !b.block.IsSealed()
}

// Insert links i at the insertion point.
func (b *Builder) Insert(i Instruction) error {
	if b.block == nil {
		return fmt.Errorf("insert %s: %w", i.Kind(), ErrNoInsertionPoint)
	}
	if b.before != nil && b.before.Parent() != b.block {
		return fmt.Errorf("insert %s: %w: anchor was moved", i.Kind(), ErrNoInsertionPoint)
	}
	return b.block.InsertBefore(b.before, i)
}

// Emit inserts inst and hands it back with its concrete type.
func Emit[T Instruction](b *Builder, inst T) (T, error) {
	if err := b.Insert(inst); err != nil {
		var zero T
		return zero, err
	}
	return inst, nil
}

func (b *Builder) CreateAllocVar(vd *ast.VarDecl) (*AllocVar, error) {
	return Emit(b, b.fn.NewAllocVar(vd))
}

func (b *Builder) CreateLoad(e *ast.LoadExpr, lvalue Value) (*Load, error) {
	return Emit(b, b.fn.NewLoad(e, lvalue))
}

func (b *Builder) CreateStore(s *ast.AssignStmt, src, dest Value) (*Store, error) {
	return Emit(b, b.fn.NewStore(s, src, dest))
}

func (b *Builder) CreateInitStore(origin ast.Node, src, dest Value) (*Store, error) {
	return Emit(b, b.fn.NewInitStore(origin, src, dest))
}

func (b *Builder) CreateApply(e *ast.CallExpr, callee Value, args []Value) (*Apply, error) {
	return Emit(b, b.fn.NewApply(e, callee, args))
}

func (b *Builder) CreateReturn(s *ast.ReturnStmt, value Value) (*Return, error) {
	return Emit(b, b.fn.NewReturn(s, value))
}

func (b *Builder) CreateBranch(dest *BasicBlock) (*Branch, error) {
	return Emit(b, b.fn.NewBranch(dest))
}

func (b *Builder) CreateCondBranch(s ast.Stmt, cond Value, trueBB, falseBB *BasicBlock) (*CondBranch, error) {
	return Emit(b, b.fn.NewCondBranch(s, cond, trueBB, falseBB))
}

func (b *Builder) CreateUnreachable() (*Unreachable, error) {
	return Emit(b, b.fn.NewUnreachable())
}
