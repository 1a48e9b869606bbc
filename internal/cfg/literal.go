package cfg

import (
	"math/big"

	"github.com/malphas-lang/cfgir/internal/ast"
)

// ConstantRef evaluates to the value of a constant declaration, such as a
// function. It has no side effects.
type ConstantRef struct {
	instrBase
}

// NewConstantRef creates a reference lowered from e.
func (f *Function) NewConstantRef(e *ast.DeclRefExpr) *ConstantRef {
	if e == nil {
		panic("cfg: ConstantRef requires a declaration reference")
	}
	return &ConstantRef{instrBase: f.newBase(KindConstantRef, e.Type(), ExprLocation(e))}
}

// Expr returns the originating reference expression.
func (c *ConstantRef) Expr() *ast.DeclRefExpr { return c.loc.MustExpr().(*ast.DeclRefExpr) }

// Decl returns the referenced declaration.
func (c *ConstantRef) Decl() ast.ValueDecl { return c.Expr().Decl }

func (c *ConstantRef) Operands() []Operand { return nil }

// ZeroValue is the default value of a variable that was declared without
// an initializer.
type ZeroValue struct {
	instrBase
}

// NewZeroValue creates the default value for vd.
func (f *Function) NewZeroValue(vd *ast.VarDecl) *ZeroValue {
	if vd == nil {
		panic("cfg: ZeroValue requires a variable declaration")
	}
	return &ZeroValue{instrBase: f.newBase(KindZeroValue, vd.Typ, DeclLocation(vd))}
}

// Decl returns the variable being default-initialized.
func (z *ZeroValue) Decl() *ast.VarDecl { return z.loc.MustDecl().(*ast.VarDecl) }

func (z *ZeroValue) Operands() []Operand { return nil }

// IntegerLiteral is an integer constant taken from an integer literal.
type IntegerLiteral struct {
	instrBase
}

func (f *Function) NewIntegerLiteral(e *ast.IntegerLit) *IntegerLiteral {
	if e == nil {
		panic("cfg: IntegerLiteral requires a literal")
	}
	return &IntegerLiteral{instrBase: f.newBase(KindIntegerLiteral, e.Type(), ExprLocation(e))}
}

func (l *IntegerLiteral) Expr() *ast.IntegerLit { return l.loc.MustExpr().(*ast.IntegerLit) }

// Value returns the integer denoted by the literal.
func (l *IntegerLiteral) Value() *big.Int { return l.Expr().Value() }

func (l *IntegerLiteral) Operands() []Operand { return nil }
func (*IntegerLiteral) literalInst()          {}

// FloatLiteral is a floating point constant taken from a float literal.
type FloatLiteral struct {
	instrBase
}

func (f *Function) NewFloatLiteral(e *ast.FloatLit) *FloatLiteral {
	if e == nil {
		panic("cfg: FloatLiteral requires a literal")
	}
	return &FloatLiteral{instrBase: f.newBase(KindFloatLiteral, e.Type(), ExprLocation(e))}
}

func (l *FloatLiteral) Expr() *ast.FloatLit { return l.loc.MustExpr().(*ast.FloatLit) }

// Value returns the number denoted by the literal.
func (l *FloatLiteral) Value() *big.Float { return l.Expr().Value() }

func (l *FloatLiteral) Operands() []Operand { return nil }
func (*FloatLiteral) literalInst()          {}

// CharacterLiteral is a character constant.
type CharacterLiteral struct {
	instrBase
}

func (f *Function) NewCharacterLiteral(e *ast.CharLit) *CharacterLiteral {
	if e == nil {
		panic("cfg: CharacterLiteral requires a literal")
	}
	return &CharacterLiteral{instrBase: f.newBase(KindCharacterLiteral, e.Type(), ExprLocation(e))}
}

func (l *CharacterLiteral) Expr() *ast.CharLit { return l.loc.MustExpr().(*ast.CharLit) }

// Value returns the code point of the literal.
func (l *CharacterLiteral) Value() rune { return l.Expr().Value }

func (l *CharacterLiteral) Operands() []Operand { return nil }
func (*CharacterLiteral) literalInst()          {}

// StringLiteral is a string constant.
type StringLiteral struct {
	instrBase
}

func (f *Function) NewStringLiteral(e *ast.StringLit) *StringLiteral {
	if e == nil {
		panic("cfg: StringLiteral requires a literal")
	}
	return &StringLiteral{instrBase: f.newBase(KindStringLiteral, e.Type(), ExprLocation(e))}
}

func (l *StringLiteral) Expr() *ast.StringLit { return l.loc.MustExpr().(*ast.StringLit) }

// Value returns the decoded string data.
func (l *StringLiteral) Value() string { return l.Expr().Value }

func (l *StringLiteral) Operands() []Operand { return nil }
func (*StringLiteral) literalInst()          {}
