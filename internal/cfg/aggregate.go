package cfg

import (
	"fmt"

	"github.com/malphas-lang/cfgir/internal/ast"
	"github.com/malphas-lang/cfgir/internal/types"
)

// Apply calls Callee with Arguments. The argument count is fixed when the
// instruction is created.
type Apply struct {
	instrBase
	callee Operand
	args   []Operand
}

// NewApply creates a call lowered from e. callee must have a function type.
func (f *Function) NewApply(e *ast.CallExpr, callee Value, args []Value) *Apply {
	calleeOp := f.use(callee, "callee")
	sig, ok := types.Resolve(calleeOp.Type()).(*types.Function)
	if !ok {
		panic(fmt.Sprintf("cfg: apply of non-function type %s", calleeOp.Type()))
	}
	if len(sig.Params) != len(args) {
		panic(fmt.Sprintf("cfg: apply passes %d arguments to %s", len(args), sig))
	}
	ops := make([]Operand, len(args))
	for i, a := range args {
		ops[i] = f.use(a, "argument")
	}
	typ := sig.Return
	if e != nil {
		typ = e.Type()
	}
	return &Apply{
		instrBase: f.newBase(KindApply, typ, ExprLocation(e)),
		callee:    calleeOp,
		args:      ops,
	}
}

func (a *Apply) Callee() Operand { return a.callee }

// Arguments returns the argument operands. The slice is owned by the
// instruction; elements may be replaced but its length is fixed.
func (a *Apply) Arguments() []Operand { return a.args }

func (a *Apply) NumArguments() int { return len(a.args) }

func (a *Apply) Operands() []Operand {
	ops := make([]Operand, 0, len(a.args)+1)
	ops = append(ops, a.callee)
	return append(ops, a.args...)
}

// TypeConversion changes the static type of a value without affecting
// how it is represented.
type TypeConversion struct {
	instrBase
	operand Operand
}

func (f *Function) NewTypeConversion(e *ast.ImplicitConversionExpr, operand Value) *TypeConversion {
	if e == nil {
		panic("cfg: TypeConversion requires a conversion expression")
	}
	return &TypeConversion{
		instrBase: f.newBase(KindTypeConversion, e.Type(), ExprLocation(e)),
		operand:   f.use(operand, "conversion"),
	}
}

func (c *TypeConversion) Operand() Operand    { return c.operand }
func (c *TypeConversion) Operands() []Operand { return []Operand{c.operand} }

// Tuple builds a tuple value from its elements.
type Tuple struct {
	instrBase
	elems []Operand
}

// NewTuple creates the tuple written as e.
func (f *Function) NewTuple(e *ast.TupleExpr, elems []Value) *Tuple {
	if e == nil {
		panic("cfg: Tuple requires a tuple expression")
	}
	return f.newTuple(e.Type(), ExprLocation(e), elems)
}

// NewShuffleTuple creates the tuple produced by a tuple shuffle.
func (f *Function) NewShuffleTuple(e *ast.TupleShuffleExpr, elems []Value) *Tuple {
	if e == nil {
		panic("cfg: Tuple requires a tuple shuffle expression")
	}
	return f.newTuple(e.Type(), ExprLocation(e), elems)
}

// NewEmptyTuple creates the "()" value returned by functions that produce
// nothing.
func (f *Function) NewEmptyTuple() *Tuple {
	return f.newTuple(types.EmptyTuple, NoLocation(), nil)
}

func (f *Function) newTuple(typ types.Type, loc Location, elems []Value) *Tuple {
	if n, ok := types.TupleArity(typ); ok && n != len(elems) {
		panic(fmt.Sprintf("cfg: tuple of type %s built from %d elements", typ, len(elems)))
	}
	ops := make([]Operand, len(elems))
	for i, v := range elems {
		ops[i] = f.use(v, "tuple element")
	}
	return &Tuple{instrBase: f.newBase(KindTuple, typ, loc), elems: ops}
}

// Elements returns the element operands. The slice is owned by the
// instruction; elements may be replaced but its length is fixed.
func (t *Tuple) Elements() []Operand { return t.elems }

func (t *Tuple) Operands() []Operand { return append([]Operand(nil), t.elems...) }

// TypeOf produces the metatype value of a type.
type TypeOf struct {
	instrBase
}

func (f *Function) NewTypeOf(e *ast.TypeOfExpr) *TypeOf {
	if e == nil {
		panic("cfg: TypeOf requires a type-of expression")
	}
	return &TypeOf{instrBase: f.newBase(KindTypeOf, e.Type(), ExprLocation(e))}
}

func (t *TypeOf) Expr() *ast.TypeOfExpr { return t.loc.MustExpr().(*ast.TypeOfExpr) }

// MetaType returns the metatype the instruction produces.
func (t *TypeOf) MetaType() types.Type { return t.typ }

func (t *TypeOf) Operands() []Operand { return nil }

// ScalarToTuple wraps a scalar into a one-element tuple.
type ScalarToTuple struct {
	instrBase
	operand Operand
}

func (f *Function) NewScalarToTuple(e *ast.ScalarToTupleExpr, operand Value) *ScalarToTuple {
	if e == nil {
		panic("cfg: ScalarToTuple requires a scalar-to-tuple expression")
	}
	return &ScalarToTuple{
		instrBase: f.newBase(KindScalarToTuple, e.Type(), ExprLocation(e)),
		operand:   f.use(operand, "scalar_to_tuple"),
	}
}

func (s *ScalarToTuple) Operand() Operand    { return s.operand }
func (s *ScalarToTuple) Operands() []Operand { return []Operand{s.operand} }

// TupleElement extracts a numbered element from a tuple value.
type TupleElement struct {
	instrBase
	operand Operand
	field   int
}

// NewTupleElement creates the projection written as e.
func (f *Function) NewTupleElement(e *ast.TupleElementExpr, operand Value, field int) *TupleElement {
	if e == nil {
		panic("cfg: TupleElement requires a tuple element expression")
	}
	return f.newTupleElement(e.Type(), ExprLocation(e), operand, field)
}

// NewTupleElementOfType creates an implicit projection with the given
// result type, for example when destructuring a declaration.
func (f *Function) NewTupleElementOfType(result types.Type, operand Value, field int) *TupleElement {
	return f.newTupleElement(result, NoLocation(), operand, field)
}

func (f *Function) newTupleElement(result types.Type, loc Location, operand Value, field int) *TupleElement {
	op := f.use(operand, "tuple_element")
	n, ok := types.TupleArity(op.Type())
	if !ok {
		panic(fmt.Sprintf("cfg: tuple_element of non-tuple type %s", op.Type()))
	}
	if field < 0 || field >= n {
		panic(fmt.Sprintf("cfg: tuple_element field %d out of range for %s", field, op.Type()))
	}
	return &TupleElement{
		instrBase: f.newBase(KindTupleElement, result, loc),
		operand:   op,
		field:     field,
	}
}

func (t *TupleElement) Operand() Operand { return t.operand }
func (t *TupleElement) FieldNo() int     { return t.field }

func (t *TupleElement) Operands() []Operand { return []Operand{t.operand} }
