package analysis

import (
	"golang.org/x/tools/container/intsets"

	"github.com/malphas-lang/cfgir/internal/cfg"
)

// DomTree holds the immediate dominators of the blocks reachable from the
// entry. Unreachable blocks have no dominator information.
type DomTree struct {
	entry *cfg.BasicBlock
	idom  map[*cfg.BasicBlock]*cfg.BasicBlock
	rpo   []*cfg.BasicBlock
	order map[*cfg.BasicBlock]int
}

// IDom returns the immediate dominator of bb. It is nil for the entry
// block and for unreachable blocks.
func (d *DomTree) IDom(bb *cfg.BasicBlock) *cfg.BasicBlock {
	if bb == d.entry {
		return nil
	}
	return d.idom[bb]
}

// Reachable reports whether bb was reached from the entry block.
func (d *DomTree) Reachable(bb *cfg.BasicBlock) bool {
	_, ok := d.order[bb]
	return ok
}

// Dominates reports whether every path from the entry to b passes
// through a. A block dominates itself.
func (d *DomTree) Dominates(a, b *cfg.BasicBlock) bool {
	if !d.Reachable(a) || !d.Reachable(b) {
		return false
	}
	for runner := b; runner != nil; runner = d.IDom(runner) {
		if runner == a {
			return true
		}
	}
	return false
}

// ReversePostorder returns the reachable blocks in reverse postorder.
func (d *DomTree) ReversePostorder() []*cfg.BasicBlock { return d.rpo }

// Dominators computes the immediate dominator of every reachable block
// with the iterative algorithm of Cooper, Harvey and Kennedy, visiting
// blocks in reverse postorder.
func Dominators(fn *cfg.Function) *DomTree {
	d := &DomTree{
		entry: fn.Entry(),
		idom:  make(map[*cfg.BasicBlock]*cfg.BasicBlock),
		order: make(map[*cfg.BasicBlock]int),
	}
	if d.entry == nil {
		return d
	}

	d.rpo = reversePostorder(d.entry)
	for i, block := range d.rpo {
		d.order[block] = i
	}
	preds := Predecessors(fn)

	d.idom[d.entry] = d.entry
	changed := true
	for changed {
		changed = false
		for _, block := range d.rpo[1:] {
			var newDom *cfg.BasicBlock
			for _, pred := range preds[block] {
				if _, done := d.idom[pred]; !done {
					continue
				}
				if newDom == nil {
					newDom = pred
				} else {
					newDom = d.intersect(pred, newDom)
				}
			}
			if newDom != nil && d.idom[block] != newDom {
				d.idom[block] = newDom
				changed = true
			}
		}
	}
	return d
}

// intersect walks both fingers up the partial tree until they meet.
func (d *DomTree) intersect(b1, b2 *cfg.BasicBlock) *cfg.BasicBlock {
	for b1 != b2 {
		for d.order[b1] > d.order[b2] {
			b1 = d.idom[b1]
		}
		for d.order[b2] > d.order[b1] {
			b2 = d.idom[b2]
		}
	}
	return b1
}

func reversePostorder(entry *cfg.BasicBlock) []*cfg.BasicBlock {
	var (
		visited intsets.Sparse
		post    []*cfg.BasicBlock
	)
	type frame struct {
		block *cfg.BasicBlock
		succ  []*cfg.BasicBlock
	}
	visited.Insert(entry.ID())
	stack := []frame{{entry, SuccessorBlocks(entry)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.succ) == 0 {
			post = append(post, top.block)
			stack = stack[:len(stack)-1]
			continue
		}
		next := top.succ[0]
		top.succ = top.succ[1:]
		if visited.Insert(next.ID()) {
			stack = append(stack, frame{next, SuccessorBlocks(next)})
		}
	}
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// DominanceFrontier computes the dominance frontier of every reachable
// block: the blocks Y such that the block dominates a predecessor of Y but
// does not strictly dominate Y. Frontier lists follow reverse postorder.
func DominanceFrontier(fn *cfg.Function) map[*cfg.BasicBlock][]*cfg.BasicBlock {
	dom := Dominators(fn)
	preds := Predecessors(fn)

	sets := make(map[*cfg.BasicBlock]*intsets.Sparse, len(dom.rpo))
	for _, block := range dom.rpo {
		sets[block] = new(intsets.Sparse)
	}
	for _, block := range dom.rpo {
		var reachablePreds []*cfg.BasicBlock
		for _, pred := range preds[block] {
			if dom.Reachable(pred) {
				reachablePreds = append(reachablePreds, pred)
			}
		}
		if len(reachablePreds) < 2 {
			continue
		}
		for _, pred := range reachablePreds {
			for runner := pred; runner != nil && runner != dom.IDom(block); runner = dom.IDom(runner) {
				sets[runner].Insert(dom.order[block])
			}
		}
	}

	frontiers := make(map[*cfg.BasicBlock][]*cfg.BasicBlock, len(sets))
	for block, set := range sets {
		var out []*cfg.BasicBlock
		for _, i := range set.AppendTo(nil) {
			out = append(out, dom.rpo[i])
		}
		frontiers[block] = out
	}
	return frontiers
}
