package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sirkon/rbtree"

	"github.com/malphas-lang/cfgir/internal/cfg"
	"github.com/malphas-lang/cfgir/internal/diag"
)

// ErrPartialOverlap is returned when two origin spans overlap without one
// containing the other.
var ErrPartialOverlap = errors.New("origin spans overlap partially")

// SourceMap finds the instructions lowered from the innermost origin
// covering a source offset.
//
// Spans of one file are kept in a red-black tree ordered "disjoint by
// offset"; spans nested inside a node live in that node's own tree.
type SourceMap struct {
	files map[string]*rbtree.Tree[*spanNode]
}

type spanNode struct {
	lo, hi   int // inclusive offsets
	instrs   []cfg.Instruction
	children *rbtree.Tree[*spanNode]
}

// Cmp orders disjoint spans. Any overlap compares equal, which lets
// InsertReturn hand back the overlapping node.
func (n *spanNode) Cmp(other *spanNode) int {
	if n.hi < other.lo {
		return -1
	}
	if n.lo > other.hi {
		return 1
	}
	return 0
}

func (n *spanNode) contains(o *spanNode) bool {
	return n.lo <= o.lo && n.hi >= o.hi
}

// NewSourceMap indexes the linked instructions of fn that have an origin
// with a valid span.
func NewSourceMap(fn *cfg.Function) (*SourceMap, error) {
	type entry struct {
		file string
		node *spanNode
	}
	var entries []entry
	for _, block := range fn.Blocks() {
		for inst := range block.All() {
			sp := inst.Loc().Span()
			if !sp.IsValid() {
				continue
			}
			entries = append(entries, entry{sp.Filename, newSpanNode(sp, inst)})
		}
	}

	// Outer spans first, so a node is only ever attached below an
	// existing one.
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].node, entries[j].node
		if a.lo != b.lo {
			return a.lo < b.lo
		}
		return a.hi > b.hi
	})

	m := &SourceMap{files: make(map[string]*rbtree.Tree[*spanNode])}
	for _, e := range entries {
		tree, ok := m.files[e.file]
		if !ok {
			tree = rbtree.New[*spanNode]()
			m.files[e.file] = tree
		}
		if err := attach(tree, e.node); err != nil {
			return nil, fmt.Errorf("%s: %w", e.file, err)
		}
	}
	return m, nil
}

func newSpanNode(sp diag.Span, inst cfg.Instruction) *spanNode {
	hi := sp.End - 1
	if hi < sp.Start {
		hi = sp.Start
	}
	return &spanNode{lo: sp.Start, hi: hi, instrs: []cfg.Instruction{inst}}
}

func attach(t *rbtree.Tree[*spanNode], s *spanNode) error {
	r := t.InsertReturn(s)
	if r == s {
		return nil
	}
	switch {
	case r.lo == s.lo && r.hi == s.hi:
		r.instrs = append(r.instrs, s.instrs...)
		return nil
	case r.contains(s):
		if r.children == nil {
			r.children = rbtree.New[*spanNode]()
		}
		return attach(r.children, s)
	}
	return fmt.Errorf("%w: [%d, %d] and [%d, %d]", ErrPartialOverlap, r.lo, r.hi, s.lo, s.hi)
}

// Lookup returns the instructions whose origin is the innermost span of
// file covering offset, in layout order, or nil.
func (m *SourceMap) Lookup(file string, offset int) []cfg.Instruction {
	tree, ok := m.files[file]
	if !ok {
		return nil
	}
	n := covering(tree, offset)
	if n == nil {
		return nil
	}
	for n.children != nil {
		child := covering(n.children, offset)
		if child == nil {
			break
		}
		n = child
	}
	return n.instrs
}

// covering returns the node of t containing offset. Nodes of one tree are
// disjoint and iterate in offset order.
func covering(t *rbtree.Tree[*spanNode], offset int) *spanNode {
	for n := range t.Iter() {
		if n.lo > offset {
			break
		}
		if n.hi >= offset {
			return n
		}
	}
	return nil
}

// LookupSpan is Lookup at the start of sp.
func (m *SourceMap) LookupSpan(sp diag.Span) []cfg.Instruction {
	return m.Lookup(sp.Filename, sp.Start)
}
