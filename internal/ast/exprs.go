package ast

import (
	"math/big"
	"strings"

	"github.com/malphas-lang/cfgir/internal/diag"
	"github.com/malphas-lang/cfgir/internal/types"
)

// typed carries the span and checked type shared by every expression.
type typed struct {
	typ  types.Type
	span diag.Span
}

// Span returns the expression span.
func (t *typed) Span() diag.Span { return t.span }

// Type returns the type assigned by the type checker.
func (t *typed) Type() types.Type { return t.typ }

// SetSpan updates the expression span.
func (t *typed) SetSpan(span diag.Span) { t.span = span }

// DeclRefExpr is a reference to a declared value.
type DeclRefExpr struct {
	typed
	Decl ValueDecl
}

// NewDeclRefExpr constructs a declaration reference. Its type is the type
// of the referenced declaration.
func NewDeclRefExpr(decl ValueDecl, span diag.Span) *DeclRefExpr {
	return &DeclRefExpr{typed: typed{typ: decl.DeclType(), span: span}, Decl: decl}
}

func (*DeclRefExpr) exprNode() {}

// CallExpr represents a function application.
type CallExpr struct {
	typed
	Callee Expr
	Args   []Expr
}

// NewCallExpr constructs a call expression producing a value of type result.
func NewCallExpr(callee Expr, args []Expr, result types.Type, span diag.Span) *CallExpr {
	return &CallExpr{typed: typed{typ: result, span: span}, Callee: callee, Args: args}
}

func (*CallExpr) exprNode() {}

// IntegerLit represents an integer literal.
type IntegerLit struct {
	typed
	Text string
}

// NewIntegerLit constructs an integer literal node.
func NewIntegerLit(text string, typ types.Type, span diag.Span) *IntegerLit {
	return &IntegerLit{typed: typed{typ: typ, span: span}, Text: text}
}

// Value returns the literal's value. Digit separators and base prefixes
// (0x, 0o, 0b) are accepted. Returns nil if the text is malformed.
func (l *IntegerLit) Value() *big.Int {
	v, ok := new(big.Int).SetString(strings.ReplaceAll(l.Text, "_", ""), 0)
	if !ok {
		return nil
	}
	return v
}

func (*IntegerLit) exprNode() {}

// FloatLit represents a floating point literal.
type FloatLit struct {
	typed
	Text string
}

// NewFloatLit constructs a float literal node.
func NewFloatLit(text string, typ types.Type, span diag.Span) *FloatLit {
	return &FloatLit{typed: typed{typ: typ, span: span}, Text: text}
}

// Value returns the literal's value, or nil if the text is malformed.
func (l *FloatLit) Value() *big.Float {
	v, ok := new(big.Float).SetPrec(64).SetString(strings.ReplaceAll(l.Text, "_", ""))
	if !ok {
		return nil
	}
	return v
}

func (*FloatLit) exprNode() {}

// CharLit represents a character literal.
type CharLit struct {
	typed
	Value rune
}

// NewCharLit constructs a character literal node.
func NewCharLit(value rune, typ types.Type, span diag.Span) *CharLit {
	return &CharLit{typed: typed{typ: typ, span: span}, Value: value}
}

func (*CharLit) exprNode() {}

// StringLit represents a string literal with escapes already decoded.
type StringLit struct {
	typed
	Value string
}

// NewStringLit constructs a string literal node.
func NewStringLit(value string, typ types.Type, span diag.Span) *StringLit {
	return &StringLit{typed: typed{typ: typ, span: span}, Value: value}
}

func (*StringLit) exprNode() {}

// MaterializeExpr converts an rvalue into a temporary lvalue, for example
// to serve as the receiver of a method call. Its type is an lvalue type.
type MaterializeExpr struct {
	typed
	Sub Expr
}

// NewMaterializeExpr constructs a materialization of sub.
func NewMaterializeExpr(sub Expr, span diag.Span) *MaterializeExpr {
	return &MaterializeExpr{typed: typed{typ: types.NewLValue(sub.Type()), span: span}, Sub: sub}
}

func (*MaterializeExpr) exprNode() {}

// LoadExpr reads the value stored in an lvalue.
type LoadExpr struct {
	typed
	Sub Expr
}

// NewLoadExpr constructs a load from sub, which must have an lvalue type.
func NewLoadExpr(sub Expr, span diag.Span) *LoadExpr {
	obj, ok := types.ObjectType(sub.Type())
	if !ok {
		obj = sub.Type()
	}
	return &LoadExpr{typed: typed{typ: obj, span: span}, Sub: sub}
}

func (*LoadExpr) exprNode() {}

// ImplicitConversionExpr re-types sub without changing its representation.
type ImplicitConversionExpr struct {
	typed
	Sub Expr
}

// NewImplicitConversionExpr constructs a conversion of sub to typ.
func NewImplicitConversionExpr(sub Expr, typ types.Type, span diag.Span) *ImplicitConversionExpr {
	return &ImplicitConversionExpr{typed: typed{typ: typ, span: span}, Sub: sub}
}

func (*ImplicitConversionExpr) exprNode() {}

// TupleExpr is a parenthesized list of elements.
type TupleExpr struct {
	typed
	Elems []Expr
}

// NewTupleExpr constructs a tuple expression; its type is the tuple of the
// element types.
func NewTupleExpr(elems []Expr, span diag.Span) *TupleExpr {
	elemTypes := make([]types.Type, len(elems))
	for i, e := range elems {
		elemTypes[i] = e.Type()
	}
	return &TupleExpr{typed: typed{typ: types.NewTuple(elemTypes...), span: span}, Elems: elems}
}

func (*TupleExpr) exprNode() {}

// TupleShuffleExpr reorders, defaults or collects variadic elements of Sub
// into a value of a different tuple type.
type TupleShuffleExpr struct {
	typed
	Sub Expr
	// Mapping gives, for each result element, the source element index
	// (or -1 for a defaulted element).
	Mapping []int
}

// NewTupleShuffleExpr constructs a tuple shuffle.
func NewTupleShuffleExpr(sub Expr, mapping []int, typ types.Type, span diag.Span) *TupleShuffleExpr {
	return &TupleShuffleExpr{typed: typed{typ: typ, span: span}, Sub: sub, Mapping: mapping}
}

func (*TupleShuffleExpr) exprNode() {}

// TypeOfExpr produces the metatype value of Instance.
type TypeOfExpr struct {
	typed
	Instance types.Type
}

// NewTypeOfExpr constructs a metatype expression.
func NewTypeOfExpr(instance types.Type, span diag.Span) *TypeOfExpr {
	return &TypeOfExpr{typed: typed{typ: &types.Metatype{Instance: instance}, span: span}, Instance: instance}
}

func (*TypeOfExpr) exprNode() {}

// ScalarToTupleExpr wraps a scalar into a one-element tuple.
type ScalarToTupleExpr struct {
	typed
	Sub Expr
}

// NewScalarToTupleExpr constructs the conversion of sub into a 1-tuple.
func NewScalarToTupleExpr(sub Expr, span diag.Span) *ScalarToTupleExpr {
	return &ScalarToTupleExpr{typed: typed{typ: types.NewTuple(sub.Type()), span: span}, Sub: sub}
}

func (*ScalarToTupleExpr) exprNode() {}

// TupleElementExpr extracts field Field from Base.
type TupleElementExpr struct {
	typed
	Base  Expr
	Field int
}

// NewTupleElementExpr constructs a tuple element projection.
func NewTupleElementExpr(base Expr, field int, span diag.Span) *TupleElementExpr {
	elem, _ := types.TupleElem(base.Type(), field)
	return &TupleElementExpr{typed: typed{typ: elem, span: span}, Base: base, Field: field}
}

func (*TupleElementExpr) exprNode() {}
