package cfg

import (
	"testing"

	"github.com/malphas-lang/cfgir/internal/ast"
	"github.com/malphas-lang/cfgir/internal/diag"
	"github.com/malphas-lang/cfgir/internal/types"
)

func span(line int) diag.Span {
	return diag.Span{Filename: "test.mal", Line: line, Column: 1, Start: line * 10, End: line*10 + 5}
}

func appendAll(t *testing.T, bb *BasicBlock, insts ...Instruction) {
	t.Helper()
	for _, i := range insts {
		if err := bb.Append(i); err != nil {
			t.Fatalf("append %s to %s: %v", i.Kind(), bb, err)
		}
	}
}

// zoo holds one instance of every value variant, created in a single
// function.
type zoo struct {
	fn     *Function
	values []Value

	arg   *Argument
	alloc *AllocVar
	lit   *IntegerLiteral
	cond  *ZeroValue
	bb    *BasicBlock
}

func newZoo(t *testing.T) *zoo {
	t.Helper()

	fn := NewFunction("zoo", &types.Function{Params: []types.Type{types.TypeInt}, Return: types.TypeInt})
	bb := fn.NewBlock("entry")

	intLit := ast.NewIntegerLit("42", types.TypeInt, span(1))
	vd := ast.NewVarDecl("x", types.TypeInt, span(2))
	callee := ast.NewFnDecl("g", nil, &types.Function{Params: []types.Type{types.TypeInt}, Return: types.TypeInt}, span(3))
	ref := ast.NewDeclRefExpr(callee, span(4))
	shuffle := ast.NewTupleShuffleExpr(intLit, []int{0}, types.NewTuple(types.TypeInt), span(5))

	arg := fn.AddArgument(ast.NewVarDecl("p", types.TypeInt, span(6)))
	alloc := fn.NewAllocVar(vd)
	lit := fn.NewIntegerLiteral(intLit)
	cr := fn.NewConstantRef(ref)
	s2t := fn.NewScalarToTuple(ast.NewScalarToTupleExpr(intLit, span(7)), lit)
	cond := fn.NewZeroValue(ast.NewVarDecl("c", types.TypeBool, span(8)))
	empty := fn.NewEmptyTuple()

	values := []Value{
		arg,
		alloc,
		fn.NewAllocTmp(ast.NewMaterializeExpr(intLit, span(9))),
		fn.NewAllocArray(shuffle, types.TypeInt, 3),
		fn.NewApply(ast.NewCallExpr(ref, []ast.Expr{intLit}, types.TypeInt, span(10)), cr, []Value{lit}),
		cr,
		fn.NewZeroValue(vd),
		lit,
		fn.NewFloatLiteral(ast.NewFloatLit("1.5", types.TypeFloat, span(11))),
		fn.NewCharacterLiteral(ast.NewCharLit('a', types.TypeChar, span(12))),
		fn.NewStringLiteral(ast.NewStringLit("hi", types.TypeString, span(13))),
		fn.NewLoad(nil, alloc),
		fn.NewStore(nil, lit, alloc),
		fn.NewTypeConversion(ast.NewImplicitConversionExpr(intLit, types.TypeInt, span(14)), lit),
		empty,
		fn.NewTypeOf(ast.NewTypeOfExpr(types.TypeInt, span(15))),
		s2t,
		fn.NewTupleElementOfType(types.TypeInt, s2t, 0),
		fn.NewIndexLValue(shuffle, alloc, 1),
		fn.NewUnreachable(),
		fn.NewReturn(nil, empty),
		fn.NewBranch(bb),
		fn.NewCondBranch(nil, cond, bb, bb),
	}
	return &zoo{fn: fn, values: values, arg: arg, alloc: alloc, lit: lit, cond: cond, bb: bb}
}
