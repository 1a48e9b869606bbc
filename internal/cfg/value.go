package cfg

import (
	"fmt"

	"github.com/malphas-lang/cfgir/internal/ast"
	"github.com/malphas-lang/cfgir/internal/types"
)

// Value is anything that produces a typed result usable as an operand:
// function arguments and instructions. The set of implementations is
// closed to this package.
type Value interface {
	// Kind returns the concrete variant of the value.
	Kind() Kind
	// Type returns the result type. Instructions without a result report
	// types.TypeVoid.
	Type() types.Type
	// ID is unique among the values of the owning function.
	ID() int
	// Func returns the function that allocated the value.
	Func() *Function

	value()
}

// valueBase holds the immutable header shared by every Value.
type valueBase struct {
	kind Kind
	typ  types.Type
	id   int
	fn   *Function
}

func (v *valueBase) Kind() Kind       { return v.kind }
func (v *valueBase) Type() types.Type { return v.typ }
func (v *valueBase) ID() int          { return v.id }
func (v *valueBase) Func() *Function  { return v.fn }
func (v *valueBase) value()           {}

// Operand is a non-owning use of a value by an instruction. The zero
// Operand refers to nothing.
type Operand struct {
	def Value
}

// OperandOf wraps v as an operand.
func OperandOf(v Value) Operand { return Operand{def: v} }

// Def returns the referenced value.
func (o Operand) Def() Value { return o.def }

// IsValid reports whether o refers to a value.
func (o Operand) IsValid() bool { return o.def != nil }

// Type returns the type of the referenced value, or nil.
func (o Operand) Type() types.Type {
	if o.def == nil {
		return nil
	}
	return o.def.Type()
}

// Instruction returns the defining instruction when the value is one.
func (o Operand) Instruction() (Instruction, bool) {
	return AsInstruction(o.def)
}

func (o Operand) String() string {
	if o.def == nil {
		return "<nil>"
	}
	return "%" + fmt.Sprint(o.def.ID())
}

// Argument is a function parameter. It is a Value but not an Instruction.
type Argument struct {
	valueBase
	decl  *ast.VarDecl
	index int
}

// Decl returns the parameter declaration, or nil for synthesized arguments.
func (a *Argument) Decl() *ast.VarDecl { return a.decl }

// Index returns the position of the argument in the parameter list.
func (a *Argument) Index() int { return a.index }

// IsInstruction reports whether v is an instruction.
func IsInstruction(v Value) bool { return v != nil && v.Kind().IsInstruction() }

// IsAlloc reports whether v is a memory allocation instruction.
func IsAlloc(v Value) bool { return v != nil && v.Kind().IsAlloc() }

// IsLiteral reports whether v is a literal instruction.
func IsLiteral(v Value) bool { return v != nil && v.Kind().IsLiteral() }

// IsTerminator reports whether v is a terminator.
func IsTerminator(v Value) bool { return v != nil && v.Kind().IsTerminator() }

// AsInstruction returns v as an Instruction if its kind is in the
// instruction range.
func AsInstruction(v Value) (Instruction, bool) {
	if !IsInstruction(v) {
		return nil, false
	}
	return v.(Instruction), true
}

// AsTerminator returns v as a Terminator if its kind is in the
// terminator range.
func AsTerminator(v Value) (Terminator, bool) {
	if !IsTerminator(v) {
		return nil, false
	}
	return v.(Terminator), true
}

// AsAlloc returns v as an AllocInstruction if its kind is in the
// allocation range.
func AsAlloc(v Value) (AllocInstruction, bool) {
	if !IsAlloc(v) {
		return nil, false
	}
	return v.(AllocInstruction), true
}

// DynCast returns v viewed as T, or false when v is a different variant.
func DynCast[T Value](v Value) (T, bool) {
	t, ok := v.(T)
	return t, ok
}

// Cast returns v viewed as T and panics when v is a different variant.
func Cast[T Value](v Value) T {
	t, ok := v.(T)
	if !ok {
		kind := KindInvalid
		if v != nil {
			kind = v.Kind()
		}
		panic(fmt.Sprintf("cfg: cannot cast %s value to %T", kind, t))
	}
	return t
}
