package cfg

import (
	"fmt"

	"github.com/malphas-lang/cfgir/internal/ast"
	"github.com/malphas-lang/cfgir/internal/types"
)

// Load reads the value stored at an lvalue.
type Load struct {
	instrBase
	lvalue Operand
}

// NewLoad creates a load of lvalue, which must have an lvalue type.
func (f *Function) NewLoad(e *ast.LoadExpr, lvalue Value) *Load {
	op := f.use(lvalue, "load")
	obj, ok := types.ObjectType(op.Type())
	if !ok {
		panic(fmt.Sprintf("cfg: load from non-lvalue of type %s", op.Type()))
	}
	typ := obj
	if e != nil {
		typ = e.Type()
	}
	return &Load{instrBase: f.newBase(KindLoad, typ, ExprLocation(e)), lvalue: op}
}

// LValue returns the address being read.
func (l *Load) LValue() Operand { return l.lvalue }

func (l *Load) Operands() []Operand { return []Operand{l.lvalue} }

// Store writes Src to the location Dest.
//
// An initializing store defines a location that holds no value yet, so
// the previous contents are not destroyed; a plain store overwrites a
// live value.
type Store struct {
	instrBase
	src, dest        Operand
	isInitialization bool
}

// NewStore creates the overwrite performed by an assignment statement.
func (f *Function) NewStore(s *ast.AssignStmt, src, dest Value) *Store {
	return f.newStore(StmtLocation(s), src, dest, false)
}

// NewInitStore creates an initializing store. origin is the variable
// declaration, materialization or tuple shuffle that needed it, or nil for
// implicit initialization.
func (f *Function) NewInitStore(origin ast.Node, src, dest Value) *Store {
	var loc Location
	switch n := origin.(type) {
	case nil:
	case *ast.VarDecl:
		loc = DeclLocation(n)
	case *ast.MaterializeExpr:
		loc = ExprLocation(n)
	case *ast.TupleShuffleExpr:
		loc = ExprLocation(n)
	default:
		panic(fmt.Sprintf("cfg: initializing store cannot originate from %T", origin))
	}
	return f.newStore(loc, src, dest, true)
}

func (f *Function) newStore(loc Location, src, dest Value, init bool) *Store {
	srcOp := f.use(src, "store source")
	destOp := f.use(dest, "store destination")
	obj, ok := types.ObjectType(destOp.Type())
	if !ok {
		panic(fmt.Sprintf("cfg: store to non-lvalue of type %s", destOp.Type()))
	}
	if !types.Equal(obj, srcOp.Type()) {
		panic(fmt.Sprintf("cfg: cannot store %s into location of %s", srcOp.Type(), obj))
	}
	return &Store{
		instrBase:        f.newBase(KindStore, types.TypeVoid, loc),
		src:              srcOp,
		dest:             destOp,
		isInitialization: init,
	}
}

func (s *Store) Src() Operand  { return s.src }
func (s *Store) Dest() Operand { return s.dest }

// IsInitialization reports whether the store defines a previously
// uninitialized location.
func (s *Store) IsInitialization() bool { return s.isInitialization }

func (s *Store) Operands() []Operand { return []Operand{s.src, s.dest} }

// IndexLValue offsets an lvalue by Index elements, striding by the size
// of the element type. It addresses elements of uniform arrays:
//
//	%1 = index_lvalue %0, 42
type IndexLValue struct {
	instrBase
	operand Operand
	index   int
}

// NewIndexLValue creates an element address computation.
func (f *Function) NewIndexLValue(e *ast.TupleShuffleExpr, lvalue Value, index int) *IndexLValue {
	op := f.use(lvalue, "index_lvalue")
	if _, ok := types.ObjectType(op.Type()); !ok {
		panic(fmt.Sprintf("cfg: index_lvalue of non-lvalue of type %s", op.Type()))
	}
	if index < 0 {
		panic(fmt.Sprintf("cfg: index_lvalue with negative index %d", index))
	}
	return &IndexLValue{
		instrBase: f.newBase(KindIndexLValue, op.Type(), ExprLocation(e)),
		operand:   op,
		index:     index,
	}
}

func (i *IndexLValue) Operand() Operand { return i.operand }
func (i *IndexLValue) Index() int       { return i.index }

func (i *IndexLValue) Operands() []Operand { return []Operand{i.operand} }
