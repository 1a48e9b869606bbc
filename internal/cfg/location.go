package cfg

import (
	"fmt"
	"reflect"

	"github.com/malphas-lang/cfgir/internal/ast"
	"github.com/malphas-lang/cfgir/internal/diag"
)

// LocationKind says which kind of AST node a Location refers to.
type LocationKind uint8

const (
	LocNone LocationKind = iota
	LocDecl
	LocExpr
	LocStmt
)

func (k LocationKind) String() string {
	switch k {
	case LocDecl:
		return "decl"
	case LocExpr:
		return "expr"
	case LocStmt:
		return "stmt"
	}
	return "none"
}

// Location records which AST node, if any, an instruction was lowered
// from. It only serves diagnostics and is immutable once created.
type Location struct {
	kind LocationKind
	node ast.Node
}

// NoLocation is the location of implicitly generated instructions.
func NoLocation() Location { return Location{} }

// DeclLocation returns a location for d, or NoLocation if d is nil.
func DeclLocation(d ast.Decl) Location {
	if isNilNode(d) {
		return Location{}
	}
	return Location{kind: LocDecl, node: d}
}

// ExprLocation returns a location for e, or NoLocation if e is nil.
func ExprLocation(e ast.Expr) Location {
	if isNilNode(e) {
		return Location{}
	}
	return Location{kind: LocExpr, node: e}
}

// StmtLocation returns a location for s, or NoLocation if s is nil.
func StmtLocation(s ast.Stmt) Location {
	if isNilNode(s) {
		return Location{}
	}
	return Location{kind: LocStmt, node: s}
}

// isNilNode also catches a nil pointer wrapped in a non-nil interface.
func isNilNode(n ast.Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Kind returns the alternative held by l.
func (l Location) Kind() LocationKind { return l.kind }

// IsNone reports whether l has no AST origin.
func (l Location) IsNone() bool { return l.kind == LocNone }

// Node returns the origin node, or nil.
func (l Location) Node() ast.Node { return l.node }

// Span returns the source span of the origin, or the zero span.
func (l Location) Span() diag.Span {
	if l.node == nil {
		return diag.Span{}
	}
	return l.node.Span()
}

// Decl returns the origin declaration. ok is false when l holds a
// different alternative or none.
func (l Location) Decl() (ast.Decl, bool) {
	if l.kind != LocDecl {
		return nil, false
	}
	return l.node.(ast.Decl), true
}

// Expr returns the origin expression. ok is false when l holds a
// different alternative or none.
func (l Location) Expr() (ast.Expr, bool) {
	if l.kind != LocExpr {
		return nil, false
	}
	return l.node.(ast.Expr), true
}

// Stmt returns the origin statement. ok is false when l holds a
// different alternative or none.
func (l Location) Stmt() (ast.Stmt, bool) {
	if l.kind != LocStmt {
		return nil, false
	}
	return l.node.(ast.Stmt), true
}

// MustDecl is like Decl but returns nil for NoLocation and panics when l
// holds an expression or a statement.
func (l Location) MustDecl() ast.Decl {
	l.mustBe(LocDecl)
	if l.node == nil {
		return nil
	}
	return l.node.(ast.Decl)
}

// MustExpr is like Expr but returns nil for NoLocation and panics when l
// holds a declaration or a statement.
func (l Location) MustExpr() ast.Expr {
	l.mustBe(LocExpr)
	if l.node == nil {
		return nil
	}
	return l.node.(ast.Expr)
}

// MustStmt is like Stmt but returns nil for NoLocation and panics when l
// holds a declaration or an expression.
func (l Location) MustStmt() ast.Stmt {
	l.mustBe(LocStmt)
	if l.node == nil {
		return nil
	}
	return l.node.(ast.Stmt)
}

func (l Location) mustBe(k LocationKind) {
	if l.kind != k && l.kind != LocNone {
		panic(fmt.Sprintf("cfg: location holds a %s, not a %s", l.kind, k))
	}
}

// LocDeclAs returns the origin of i as a declaration of type T.
func LocDeclAs[T ast.Decl](i Instruction) (T, bool) {
	d, ok := i.Loc().Decl()
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := d.(T)
	return t, ok
}

// LocExprAs returns the origin of i as an expression of type T.
func LocExprAs[T ast.Expr](i Instruction) (T, bool) {
	e, ok := i.Loc().Expr()
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := e.(T)
	return t, ok
}

// LocStmtAs returns the origin of i as a statement of type T.
func LocStmtAs[T ast.Stmt](i Instruction) (T, bool) {
	s, ok := i.Loc().Stmt()
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := s.(T)
	return t, ok
}
