package cfg

import (
	"fmt"
	"slices"

	"github.com/malphas-lang/cfgir/internal/ast"
	"github.com/malphas-lang/cfgir/internal/types"
)

// Function owns the blocks, arguments and instructions of one lowered
// function. Every Value and BasicBlock is created through a Function and
// stays bound to it; IDs are never reused.
type Function struct {
	Name string
	Sig  *types.Function

	blocks    []*BasicBlock
	args      []*Argument
	nextValue int
	nextBlock int
}

// NewFunction creates an empty function. sig may be nil for functions
// without a declared signature.
func NewFunction(name string, sig *types.Function) *Function {
	return &Function{Name: name, Sig: sig}
}

// Blocks returns the blocks in layout order. The first block is the entry.
func (f *Function) Blocks() []*BasicBlock { return f.blocks }

// Entry returns the entry block, or nil for a function without blocks.
func (f *Function) Entry() *BasicBlock {
	if len(f.blocks) == 0 {
		return nil
	}
	return f.blocks[0]
}

// NumValues returns one more than the largest value ID handed out so far.
// It sizes dense per-value tables.
func (f *Function) NumValues() int { return f.nextValue }

// NumBlockIDs returns one more than the largest block ID handed out so far.
func (f *Function) NumBlockIDs() int { return f.nextBlock }

// NewBlock appends an empty block to the layout.
func (f *Function) NewBlock(label string) *BasicBlock {
	bb := f.newBlock(label)
	f.blocks = append(f.blocks, bb)
	return bb
}

// NewBlockAfter inserts an empty block right after pos in the layout.
func (f *Function) NewBlockAfter(pos *BasicBlock, label string) *BasicBlock {
	idx := f.blockIndex(pos)
	if idx < 0 {
		panic(fmt.Sprintf("cfg: block %v is not part of %s", pos, f.Name))
	}
	bb := f.newBlock(label)
	f.blocks = slices.Insert(f.blocks, idx+1, bb)
	return bb
}

func (f *Function) newBlock(label string) *BasicBlock {
	bb := &BasicBlock{Label: label, id: f.nextBlock, fn: f}
	f.nextBlock++
	return bb
}

func (f *Function) blockIndex(bb *BasicBlock) int {
	if bb == nil || bb.fn != f {
		return -1
	}
	return slices.Index(f.blocks, bb)
}

// EraseBlock removes bb from the layout and erases its instructions. Other
// blocks must no longer branch to it.
func (f *Function) EraseBlock(bb *BasicBlock) {
	idx := f.blockIndex(bb)
	if idx < 0 {
		panic(fmt.Sprintf("cfg: block %v is not part of %s", bb, f.Name))
	}
	for i := range bb.All() {
		i.EraseFromParent()
	}
	f.blocks = slices.Delete(f.blocks, idx, idx+1)
}

// AddArgument appends a parameter value. decl may be nil for synthesized
// parameters, which then take their type from the signature.
func (f *Function) AddArgument(decl *ast.VarDecl) *Argument {
	index := len(f.args)
	var typ types.Type
	switch {
	case decl != nil:
		typ = decl.Typ
	case f.Sig != nil && index < len(f.Sig.Params):
		typ = f.Sig.Params[index]
	default:
		panic(fmt.Sprintf("cfg: no type for argument %d of %s", index, f.Name))
	}
	a := &Argument{
		valueBase: valueBase{kind: KindArgument, typ: typ, id: f.allocValueID(), fn: f},
		decl:      decl,
		index:     index,
	}
	f.args = append(f.args, a)
	return a
}

// Arguments returns the parameters in declaration order.
func (f *Function) Arguments() []*Argument { return f.args }

func (f *Function) allocValueID() int {
	id := f.nextValue
	f.nextValue++
	return id
}

// SplitAt moves at and every instruction after it into a new block placed
// right after bb in the layout. bb is left open; the caller usually seals
// it with a branch to the returned block.
func (bb *BasicBlock) SplitAt(at Instruction, label string) (*BasicBlock, error) {
	if at == nil || at.Parent() != bb {
		panic(fmt.Sprintf("cfg: split point is not in block %s", bb))
	}
	tail := bb.fn.NewBlockAfter(bb, label)
	if err := tail.Splice(nil, bb, at, nil); err != nil {
		bb.fn.EraseBlock(tail)
		return nil, fmt.Errorf("split %s: %w", bb, err)
	}
	return tail, nil
}
