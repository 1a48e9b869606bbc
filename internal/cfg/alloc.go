package cfg

import (
	"fmt"

	"github.com/malphas-lang/cfgir/internal/ast"
	"github.com/malphas-lang/cfgir/internal/types"
)

// AllocVar allocates the storage of one local variable. A destructuring
// declaration such as "var (x, y) : (Int, Int)" produces one AllocVar per
// bound name.
type AllocVar struct {
	instrBase
}

// NewAllocVar creates an allocation for vd. The result is an lvalue of
// the declared type.
func (f *Function) NewAllocVar(vd *ast.VarDecl) *AllocVar {
	if vd == nil {
		panic("cfg: AllocVar requires a variable declaration")
	}
	return &AllocVar{
		instrBase: f.newBase(KindAllocVar, types.NewLValue(vd.Typ), DeclLocation(vd)),
	}
}

// Decl returns the declaration the storage belongs to.
func (a *AllocVar) Decl() *ast.VarDecl { return a.loc.MustDecl().(*ast.VarDecl) }

func (a *AllocVar) Operands() []Operand { return nil }
func (*AllocVar) allocInst()            {}

// AllocTmp allocates a temporary created when an rvalue has to become an
// lvalue. Its initial value is provided by an initializing Store.
type AllocTmp struct {
	instrBase
}

// NewAllocTmp creates the temporary for e.
func (f *Function) NewAllocTmp(e *ast.MaterializeExpr) *AllocTmp {
	if e == nil {
		panic("cfg: AllocTmp requires a materialize expression")
	}
	return &AllocTmp{
		instrBase: f.newBase(KindAllocTmp, e.Type(), ExprLocation(e)),
	}
}

// Expr returns the materialization that needed the temporary.
func (a *AllocTmp) Expr() *ast.MaterializeExpr {
	return a.loc.MustExpr().(*ast.MaterializeExpr)
}

func (a *AllocTmp) Operands() []Operand { return nil }
func (*AllocTmp) allocInst()            {}

// AllocArray allocates an array of NumElements uninitialized elements. It
// produces a pair: the object pointer of the array header and an lvalue
// for the first element.
type AllocArray struct {
	instrBase
	elemType    types.Type
	numElements int
}

// NewAllocArray creates an array allocation. The caller guarantees that
// numElements fits the target's addressable size.
func (f *Function) NewAllocArray(e *ast.TupleShuffleExpr, elemType types.Type, numElements int) *AllocArray {
	if elemType == nil {
		panic("cfg: AllocArray requires an element type")
	}
	if numElements < 0 {
		panic(fmt.Sprintf("cfg: AllocArray with negative element count %d", numElements))
	}
	result := types.NewTuple(types.ObjectPointer, types.NewLValue(elemType))
	return &AllocArray{
		instrBase:   f.newBase(KindAllocArray, result, ExprLocation(e)),
		elemType:    elemType,
		numElements: numElements,
	}
}

// ElementType returns the type of each element.
func (a *AllocArray) ElementType() types.Type { return a.elemType }

// NumElements returns the element count.
func (a *AllocArray) NumElements() int { return a.numElements }

func (a *AllocArray) Operands() []Operand { return nil }
