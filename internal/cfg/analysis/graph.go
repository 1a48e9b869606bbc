// Package analysis computes block-level facts over a cfg.Function: edges,
// reachability, dominance and value uses. Everything is derived from the
// terminators' successor lists and recomputed on demand.
package analysis

import (
	"slices"

	"golang.org/x/tools/container/intsets"

	"github.com/malphas-lang/cfgir/internal/cfg"
)

// SuccessorBlocks returns the distinct targets of bb's terminator in edge
// order.
func SuccessorBlocks(bb *cfg.BasicBlock) []*cfg.BasicBlock {
	succ := bb.Successors()
	if len(succ) == 0 {
		return nil
	}
	out := make([]*cfg.BasicBlock, 0, len(succ))
	for _, s := range succ {
		if !slices.Contains(out, s.Block()) {
			out = append(out, s.Block())
		}
	}
	return out
}

// Predecessors maps each block of fn to the blocks branching to it, in
// layout order. A block reaching a target over two edges is listed once.
func Predecessors(fn *cfg.Function) map[*cfg.BasicBlock][]*cfg.BasicBlock {
	preds := make(map[*cfg.BasicBlock][]*cfg.BasicBlock, len(fn.Blocks()))
	for _, block := range fn.Blocks() {
		if _, ok := preds[block]; !ok {
			preds[block] = nil
		}
		for _, succ := range SuccessorBlocks(block) {
			preds[succ] = append(preds[succ], block)
		}
	}
	return preds
}

// Reachable returns the IDs of the blocks reachable from the entry block.
func Reachable(fn *cfg.Function) *intsets.Sparse {
	var reachable intsets.Sparse
	entry := fn.Entry()
	if entry == nil {
		return &reachable
	}

	worklist := []*cfg.BasicBlock{entry}
	for len(worklist) > 0 {
		block := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if !reachable.Insert(block.ID()) {
			continue
		}
		worklist = append(worklist, SuccessorBlocks(block)...)
	}
	return &reachable
}

// Unreachable returns the blocks of fn that cannot be reached from the
// entry, in layout order.
func Unreachable(fn *cfg.Function) []*cfg.BasicBlock {
	reachable := Reachable(fn)
	var out []*cfg.BasicBlock
	for _, block := range fn.Blocks() {
		if !reachable.Has(block.ID()) {
			out = append(out, block)
		}
	}
	return out
}

// ReachablePredecessors returns the predecessors of bb that are reachable
// from the entry block.
func ReachablePredecessors(fn *cfg.Function, bb *cfg.BasicBlock) []*cfg.BasicBlock {
	reachable := Reachable(fn)
	var out []*cfg.BasicBlock
	for _, pred := range Predecessors(fn)[bb] {
		if reachable.Has(pred.ID()) {
			out = append(out, pred)
		}
	}
	return out
}
