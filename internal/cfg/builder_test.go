package cfg

import (
	"errors"
	"testing"

	"github.com/malphas-lang/cfgir/internal/ast"
	"github.com/malphas-lang/cfgir/internal/types"
)

// fn id() -> Int { var x = 5; return x }
func TestLowerVariableAndReturn(t *testing.T) {
	sig := &types.Function{Return: types.TypeInt}
	fn := NewFunction("id", sig)
	entry := fn.NewBlock("entry")
	b := NewBuilder(fn)
	b.SetInsertionPoint(entry)

	vd := ast.NewVarDecl("x", types.TypeInt, span(1))
	five := ast.NewIntegerLit("5", types.TypeInt, span(1))
	ref := ast.NewDeclRefExpr(vd, span(2))
	ret := ast.NewReturnStmt(ref, span(2))

	alloc, err := b.CreateAllocVar(vd)
	if err != nil {
		t.Fatal(err)
	}
	lit, err := Emit(b, fn.NewIntegerLiteral(five))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.CreateInitStore(vd, lit, alloc); err != nil {
		t.Fatal(err)
	}
	load, err := b.CreateLoad(nil, alloc)
	if err != nil {
		t.Fatal(err)
	}
	r, err := b.CreateReturn(ret, load)
	if err != nil {
		t.Fatal(err)
	}

	if entry.Len() != 5 {
		t.Errorf("entry holds %d instructions, want 5", entry.Len())
	}
	if entry.Terminator() != Terminator(r) {
		t.Errorf("entry is not terminated by the return")
	}
	if len(entry.Successors()) != 0 {
		t.Errorf("return block has successors")
	}
	if r.ReturnValue().Def() != load {
		t.Errorf("return value = %v", r.ReturnValue())
	}
	if !types.Equal(load.Type(), types.TypeInt) {
		t.Errorf("load type = %s", load.Type())
	}
	if obj, _ := types.ObjectType(alloc.Type()); !types.Equal(obj, types.TypeInt) {
		t.Errorf("alloc type = %s", alloc.Type())
	}

	if b.HasValidInsertionPoint() {
		t.Errorf("builder still valid after the return")
	}
	if _, err := b.CreateUnreachable(); !errors.Is(err, ErrBlockSealed) {
		t.Errorf("emit after return: err = %v", err)
	}

	// Inserting before the terminator is still allowed.
	b.SetInsertionPointBefore(r)
	if !b.HasValidInsertionPoint() {
		t.Errorf("insertion point before terminator reported invalid")
	}
	if _, err := Emit(b, fn.NewEmptyTuple()); err != nil {
		t.Errorf("emit before return: %v", err)
	}
}

func TestBuilderWithoutBlock(t *testing.T) {
	fn := NewFunction("f", nil)
	b := NewBuilder(fn)
	if b.HasValidInsertionPoint() {
		t.Errorf("fresh builder has an insertion point")
	}
	if _, err := b.CreateUnreachable(); !errors.Is(err, ErrNoInsertionPoint) {
		t.Errorf("err = %v, want ErrNoInsertionPoint", err)
	}
	if b.Func() != fn || b.InsertionBlock() != nil {
		t.Errorf("unexpected builder state")
	}
}

// if c { then } else { else } ; join
func TestLowerDiamond(t *testing.T) {
	fn := NewFunction("diamond", nil)
	entry := fn.NewBlock("entry")
	then := fn.NewBlock("then")
	els := fn.NewBlock("else")
	join := fn.NewBlock("join")
	b := NewBuilder(fn)

	cvd := ast.NewVarDecl("c", types.TypeBool, span(1))
	ifs := ast.NewIfStmt(ast.NewDeclRefExpr(cvd, span(1)), nil, nil, span(1))

	b.SetInsertionPoint(entry)
	c := fn.AddArgument(cvd)
	br, err := b.CreateCondBranch(ifs, c, then, els)
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := LocStmtAs[*ast.IfStmt](br); !ok || got != ifs {
		t.Errorf("cond_br origin = %v", got)
	}
	for _, bb := range []*BasicBlock{then, els} {
		b.SetInsertionPoint(bb)
		if _, err := b.CreateBranch(join); err != nil {
			t.Fatal(err)
		}
	}
	b.SetInsertionPoint(join)
	if _, err := b.CreateReturn(nil, fn.NewEmptyTuple()); err != nil {
		t.Fatal(err)
	}

	for _, bb := range fn.Blocks() {
		if !bb.IsSealed() {
			t.Errorf("%s is open", bb)
		}
	}
	if succ := entry.Successors(); len(succ) != 2 {
		t.Errorf("entry successors = %v", succ)
	}
}

// fn copy(p: Int) -> Int { var x = p; return x }
func TestAllocStoreLoadReturn(t *testing.T) {
	fn := NewFunction("copy", &types.Function{Params: []types.Type{types.TypeInt}, Return: types.TypeInt})
	entry := fn.NewBlock("entry")
	p := fn.AddArgument(ast.NewVarDecl("p", types.TypeInt, span(1)))
	vd := ast.NewVarDecl("x", types.TypeInt, span(2))

	b := NewBuilder(fn)
	b.SetInsertionPoint(entry)
	alloc, _ := b.CreateAllocVar(vd)
	store, _ := b.CreateInitStore(vd, p, alloc)
	load, _ := b.CreateLoad(nil, alloc)
	r, err := b.CreateReturn(nil, load)
	if err != nil {
		t.Fatal(err)
	}

	want := []Instruction{alloc, store, load, r}
	got := entry.Instructions()
	if len(got) != len(want) {
		t.Fatalf("block holds %d instructions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("instruction %d is %s, want %s", i, got[i].Kind(), want[i].Kind())
		}
	}
	if succ := r.Successors(); len(succ) != 0 {
		t.Errorf("return has %d successors", len(succ))
	}
	if store.Src().Def() != p || store.Dest().Def() != alloc {
		t.Errorf("store operands %v -> %v", store.Src(), store.Dest())
	}
}
