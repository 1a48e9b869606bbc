package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/malphas-lang/cfgir/internal/ast"
	"github.com/malphas-lang/cfgir/internal/cfg"
	"github.com/malphas-lang/cfgir/internal/diag"
	"github.com/malphas-lang/cfgir/internal/types"
)

func labels(blocks []*cfg.BasicBlock) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Label)
	}
	return out
}

func mustAppend(t *testing.T, bb *cfg.BasicBlock, i cfg.Instruction) {
	t.Helper()
	if err := bb.Append(i); err != nil {
		t.Fatalf("append to %s: %v", bb, err)
	}
}

func ret(t *testing.T, fn *cfg.Function, bb *cfg.BasicBlock) {
	t.Helper()
	empty := fn.NewEmptyTuple()
	mustAppend(t, bb, empty)
	mustAppend(t, bb, fn.NewReturn(nil, empty))
}

type diamond struct {
	fn                   *cfg.Function
	entry, b, c, d, dead *cfg.BasicBlock
}

// entry -> {b, c} -> d, plus dead -> d which is never reached.
func newDiamond(t *testing.T) *diamond {
	t.Helper()
	fn := cfg.NewFunction("diamond", &types.Function{Params: []types.Type{types.TypeBool}})
	g := &diamond{fn: fn}
	g.entry = fn.NewBlock("entry")
	g.b = fn.NewBlock("b")
	g.c = fn.NewBlock("c")
	g.d = fn.NewBlock("d")
	g.dead = fn.NewBlock("dead")

	cond := fn.AddArgument(nil)
	mustAppend(t, g.entry, fn.NewCondBranch(nil, cond, g.b, g.c))
	mustAppend(t, g.b, fn.NewBranch(g.d))
	mustAppend(t, g.c, fn.NewBranch(g.d))
	mustAppend(t, g.dead, fn.NewBranch(g.d))
	ret(t, fn, g.d)
	return g
}

func TestPredecessors(t *testing.T) {
	g := newDiamond(t)
	preds := Predecessors(g.fn)

	tests := []struct {
		block *cfg.BasicBlock
		want  []string
	}{
		{g.entry, []string{}},
		{g.b, []string{"entry"}},
		{g.c, []string{"entry"}},
		{g.d, []string{"b", "c", "dead"}},
		{g.dead, []string{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, labels(preds[tt.block])); diff != "" {
			t.Errorf("predecessors of %s (-want +got):\n%s", tt.block, diff)
		}
	}

	if diff := cmp.Diff([]string{"b", "c"}, labels(ReachablePredecessors(g.fn, g.d))); diff != "" {
		t.Errorf("reachable predecessors of d (-want +got):\n%s", diff)
	}
}

func TestPredecessorsDeduplicateEdges(t *testing.T) {
	fn := cfg.NewFunction("f", &types.Function{Params: []types.Type{types.TypeBool}})
	entry := fn.NewBlock("entry")
	exit := fn.NewBlock("exit")
	mustAppend(t, entry, fn.NewCondBranch(nil, fn.AddArgument(nil), exit, exit))
	ret(t, fn, exit)

	if got := len(entry.Successors()); got != 2 {
		t.Errorf("cond_br edge count = %d, want 2", got)
	}
	if diff := cmp.Diff([]string{"entry"}, labels(Predecessors(fn)[exit])); diff != "" {
		t.Errorf("predecessors (-want +got):\n%s", diff)
	}
}

func TestReachable(t *testing.T) {
	g := newDiamond(t)
	r := Reachable(g.fn)
	for _, bb := range []*cfg.BasicBlock{g.entry, g.b, g.c, g.d} {
		if !r.Has(bb.ID()) {
			t.Errorf("%s not reachable", bb)
		}
	}
	if r.Has(g.dead.ID()) {
		t.Errorf("dead block reported reachable")
	}
	if r.Len() != 4 {
		t.Errorf("reachable count = %d", r.Len())
	}
	if diff := cmp.Diff([]string{"dead"}, labels(Unreachable(g.fn))); diff != "" {
		t.Errorf("unreachable (-want +got):\n%s", diff)
	}

	if Reachable(cfg.NewFunction("empty", nil)).Len() != 0 {
		t.Errorf("function without blocks has reachable blocks")
	}
}

func TestDominators(t *testing.T) {
	g := newDiamond(t)
	dom := Dominators(g.fn)

	if dom.IDom(g.entry) != nil {
		t.Errorf("entry has dominator %v", dom.IDom(g.entry))
	}
	for _, bb := range []*cfg.BasicBlock{g.b, g.c, g.d} {
		if dom.IDom(bb) != g.entry {
			t.Errorf("idom(%s) = %v, want entry", bb, dom.IDom(bb))
		}
	}
	if dom.IDom(g.dead) != nil || dom.Reachable(g.dead) {
		t.Errorf("dead block has dominator information")
	}
	if !dom.Dominates(g.entry, g.d) || !dom.Dominates(g.d, g.d) {
		t.Errorf("entry must dominate d, and d itself")
	}
	if dom.Dominates(g.b, g.d) {
		t.Errorf("b must not dominate d")
	}

	rpo := labels(dom.ReversePostorder())
	if len(rpo) != 4 || rpo[0] != "entry" || rpo[3] != "d" {
		t.Errorf("reverse postorder = %v", rpo)
	}
}

// entry -> header; header -> {body, exit}; body -> header
func newLoop(t *testing.T) (*cfg.Function, map[string]*cfg.BasicBlock) {
	t.Helper()
	fn := cfg.NewFunction("loop", &types.Function{Params: []types.Type{types.TypeBool}})
	blocks := map[string]*cfg.BasicBlock{}
	for _, name := range []string{"entry", "header", "body", "exit"} {
		blocks[name] = fn.NewBlock(name)
	}
	cond := fn.AddArgument(nil)
	mustAppend(t, blocks["entry"], fn.NewBranch(blocks["header"]))
	mustAppend(t, blocks["header"], fn.NewCondBranch(nil, cond, blocks["body"], blocks["exit"]))
	mustAppend(t, blocks["body"], fn.NewBranch(blocks["header"]))
	ret(t, fn, blocks["exit"])
	return fn, blocks
}

func TestDominatorsLoop(t *testing.T) {
	fn, blocks := newLoop(t)
	dom := Dominators(fn)
	want := map[string]string{"header": "entry", "body": "header", "exit": "header"}
	for name, idom := range want {
		if got := dom.IDom(blocks[name]); got != blocks[idom] {
			t.Errorf("idom(%s) = %v, want %s", name, got, idom)
		}
	}
}

func TestDominanceFrontier(t *testing.T) {
	g := newDiamond(t)
	df := DominanceFrontier(g.fn)
	want := map[*cfg.BasicBlock][]string{
		g.entry: {},
		g.b:     {"d"},
		g.c:     {"d"},
		g.d:     {},
	}
	for bb, w := range want {
		if diff := cmp.Diff(w, labels(df[bb])); diff != "" {
			t.Errorf("DF(%s) (-want +got):\n%s", bb, diff)
		}
	}
	if _, ok := df[g.dead]; ok {
		t.Errorf("dead block has a frontier")
	}

	fn, blocks := newLoop(t)
	df = DominanceFrontier(fn)
	loopWant := map[string][]string{
		"entry":  {},
		"header": {"header"},
		"body":   {"header"},
		"exit":   {},
	}
	for name, w := range loopWant {
		if diff := cmp.Diff(w, labels(df[blocks[name]])); diff != "" {
			t.Errorf("DF(%s) (-want +got):\n%s", name, diff)
		}
	}
}

func TestUses(t *testing.T) {
	fn := cfg.NewFunction("f", nil)
	bb := fn.NewBlock("entry")
	vd := ast.NewVarDecl("x", types.TypeInt, diag.Span{})
	alloc := fn.NewAllocVar(vd)
	lit := fn.NewIntegerLiteral(ast.NewIntegerLit("1", types.TypeInt, diag.Span{}))
	store := fn.NewInitStore(vd, lit, alloc)
	load := fn.NewLoad(nil, alloc)
	unused := fn.NewIntegerLiteral(ast.NewIntegerLit("2", types.TypeInt, diag.Span{}))
	tup := fn.NewEmptyTuple()
	r := fn.NewReturn(nil, tup)
	for _, i := range []cfg.Instruction{alloc, lit, store, load, unused, tup, r} {
		mustAppend(t, bb, i)
	}

	uses := Uses(fn)
	if got := uses[alloc]; len(got) != 2 || got[0] != cfg.Instruction(store) || got[1] != cfg.Instruction(load) {
		t.Errorf("uses of alloc = %v", got)
	}
	if got := uses[tup]; len(got) != 1 || got[0] != cfg.Instruction(r) {
		t.Errorf("uses of tuple = %v", got)
	}

	var ids []int
	for _, i := range Unused(fn) {
		ids = append(ids, i.ID())
	}
	if diff := cmp.Diff([]int{load.ID(), unused.ID()}, ids); diff != "" {
		t.Errorf("unused (-want +got):\n%s", diff)
	}
	if got := len(Defs(fn)); got != 7 {
		t.Errorf("Defs() has %d values, want 7", got)
	}
}

func TestSourceMap(t *testing.T) {
	fn := cfg.NewFunction("f", nil)
	bb := fn.NewBlock("entry")
	sp := func(start, end int) diag.Span {
		return diag.Span{Filename: "m.mal", Line: 1, Column: start + 1, Start: start, End: end}
	}

	// var x = 1 + 2   [0, 20)
	//         1       [8, 9)
	//             2   [12, 13)
	vd := ast.NewVarDecl("x", types.TypeInt, sp(0, 20))
	one := ast.NewIntegerLit("1", types.TypeInt, sp(8, 9))
	two := ast.NewIntegerLit("2", types.TypeInt, sp(12, 13))

	alloc := fn.NewAllocVar(vd)
	l1 := fn.NewIntegerLiteral(one)
	l2 := fn.NewIntegerLiteral(two)
	init := fn.NewInitStore(vd, l2, alloc)
	for _, i := range []cfg.Instruction{alloc, l1, l2, init} {
		mustAppend(t, bb, i)
	}
	ret(t, fn, bb)

	m, err := NewSourceMap(fn)
	if err != nil {
		t.Fatal(err)
	}

	idsAt := func(off int) []int {
		var out []int
		for _, i := range m.Lookup("m.mal", off) {
			out = append(out, i.ID())
		}
		return out
	}
	tests := []struct {
		offset int
		want   []int
	}{
		{0, []int{alloc.ID(), init.ID()}},
		{8, []int{l1.ID()}},
		{10, []int{alloc.ID(), init.ID()}},
		{12, []int{l2.ID()}},
		{19, []int{alloc.ID(), init.ID()}},
		{20, nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, idsAt(tt.offset)); diff != "" {
			t.Errorf("lookup at %d (-want +got):\n%s", tt.offset, diff)
		}
	}
	if m.Lookup("other.mal", 0) != nil {
		t.Errorf("lookup in unknown file returned instructions")
	}
	if got := m.LookupSpan(sp(12, 13)); len(got) != 1 || got[0] != cfg.Instruction(l2) {
		t.Errorf("LookupSpan = %v", got)
	}
}

func TestSourceMapSiblings(t *testing.T) {
	fn := cfg.NewFunction("f", nil)
	bb := fn.NewBlock("entry")

	// Ten literals at [10k, 10k+4), inserted back to front.
	var lits []cfg.Instruction
	for k := 9; k >= 0; k-- {
		sp := diag.Span{Filename: "m.mal", Line: 1, Column: 10*k + 1, Start: 10 * k, End: 10*k + 4}
		lit := fn.NewIntegerLiteral(ast.NewIntegerLit("1", types.TypeInt, sp))
		mustAppend(t, bb, lit)
		lits = append([]cfg.Instruction{lit}, lits...)
	}
	m, err := NewSourceMap(fn)
	if err != nil {
		t.Fatal(err)
	}
	for k, lit := range lits {
		for _, off := range []int{10 * k, 10*k + 3} {
			if got := m.Lookup("m.mal", off); len(got) != 1 || got[0] != lit {
				t.Errorf("lookup at %d = %v, want %%%d", off, got, lit.ID())
			}
		}
		if got := m.Lookup("m.mal", 10*k+5); got != nil {
			t.Errorf("lookup in gap at %d = %v", 10*k+5, got)
		}
	}
}

func TestSourceMapPartialOverlap(t *testing.T) {
	fn := cfg.NewFunction("f", nil)
	bb := fn.NewBlock("entry")
	a := ast.NewIntegerLit("1", types.TypeInt, diag.Span{Filename: "m.mal", Line: 1, Column: 1, Start: 0, End: 10})
	b := ast.NewIntegerLit("2", types.TypeInt, diag.Span{Filename: "m.mal", Line: 1, Column: 6, Start: 5, End: 15})
	mustAppend(t, bb, fn.NewIntegerLiteral(a))
	mustAppend(t, bb, fn.NewIntegerLiteral(b))

	if _, err := NewSourceMap(fn); err == nil {
		t.Fatal("expected an error for partially overlapping spans")
	}
}
