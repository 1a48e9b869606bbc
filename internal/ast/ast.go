package ast

import (
	"github.com/malphas-lang/cfgir/internal/diag"
	"github.com/malphas-lang/cfgir/internal/types"
)

// Node represents any AST node with an associated source span.
type Node interface {
	Span() diag.Span
}

// Expr represents a type-checked expression node.
type Expr interface {
	Node
	// Type returns the type assigned by the type checker.
	Type() types.Type
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl represents a declaration.
type Decl interface {
	Node
	declNode()
}

// ValueDecl is a declaration that introduces a named value.
type ValueDecl interface {
	Decl
	DeclName() string
	DeclType() types.Type
}

// VarDecl represents a single variable binding. A destructuring
// declaration such as "let (x, y) = ..." produces one VarDecl per name.
type VarDecl struct {
	Name    string
	Mutable bool
	Typ     types.Type
	span    diag.Span
}

// Span returns the declaration span.
func (d *VarDecl) Span() diag.Span { return d.span }

// NewVarDecl constructs a variable declaration node.
func NewVarDecl(name string, typ types.Type, span diag.Span) *VarDecl {
	return &VarDecl{
		Name: name,
		Typ:  typ,
		span: span,
	}
}

// DeclName returns the bound name.
func (d *VarDecl) DeclName() string { return d.Name }

// DeclType returns the declared type of the variable.
func (d *VarDecl) DeclType() types.Type { return d.Typ }

// declNode marks VarDecl as a declaration.
func (*VarDecl) declNode() {}

// FnDecl represents a function declaration.
type FnDecl struct {
	Name   string
	Params []*VarDecl
	Sig    *types.Function
	span   diag.Span
}

// Span returns the declaration span.
func (d *FnDecl) Span() diag.Span { return d.span }

// NewFnDecl constructs a function declaration node.
func NewFnDecl(name string, params []*VarDecl, sig *types.Function, span diag.Span) *FnDecl {
	return &FnDecl{
		Name:   name,
		Params: params,
		Sig:    sig,
		span:   span,
	}
}

// DeclName returns the function name.
func (d *FnDecl) DeclName() string { return d.Name }

// DeclType returns the function signature.
func (d *FnDecl) DeclType() types.Type { return d.Sig }

// declNode marks FnDecl as a declaration.
func (*FnDecl) declNode() {}

// AssignStmt represents "dest = src" on an already initialized location.
type AssignStmt struct {
	Dest Expr
	Src  Expr
	span diag.Span
}

// Span returns the statement span.
func (s *AssignStmt) Span() diag.Span { return s.span }

// NewAssignStmt constructs an assignment statement node.
func NewAssignStmt(dest, src Expr, span diag.Span) *AssignStmt {
	return &AssignStmt{
		Dest: dest,
		Src:  src,
		span: span,
	}
}

// stmtNode marks AssignStmt as a statement.
func (*AssignStmt) stmtNode() {}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	Value Expr // nil for a bare return
	span  diag.Span
}

// Span returns the statement span.
func (s *ReturnStmt) Span() diag.Span { return s.span }

// NewReturnStmt constructs a return statement node.
func NewReturnStmt(value Expr, span diag.Span) *ReturnStmt {
	return &ReturnStmt{
		Value: value,
		span:  span,
	}
}

// stmtNode marks ReturnStmt as a statement.
func (*ReturnStmt) stmtNode() {}

// IfStmt represents a conditional statement.
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	span diag.Span
}

// Span returns the statement span.
func (s *IfStmt) Span() diag.Span { return s.span }

// NewIfStmt constructs an if statement node.
func NewIfStmt(cond Expr, then, els []Stmt, span diag.Span) *IfStmt {
	return &IfStmt{
		Cond: cond,
		Then: then,
		Else: els,
		span: span,
	}
}

// stmtNode marks IfStmt as a statement.
func (*IfStmt) stmtNode() {}

// WhileStmt represents a while loop.
type WhileStmt struct {
	Cond Expr
	Body []Stmt
	span diag.Span
}

// Span returns the statement span.
func (s *WhileStmt) Span() diag.Span { return s.span }

// NewWhileStmt constructs a while statement node.
func NewWhileStmt(cond Expr, body []Stmt, span diag.Span) *WhileStmt {
	return &WhileStmt{
		Cond: cond,
		Body: body,
		span: span,
	}
}

// stmtNode marks WhileStmt as a statement.
func (*WhileStmt) stmtNode() {}
