package types

import "strings"

// Type represents the type of a value produced by a CFG instruction.
// The CFG layer never interprets it beyond the helpers in this package.
type Type interface {
	String() string
	// IsType is a marker method to ensure type safety.
	IsType()
}

// PrimitiveKind represents the kind of a primitive type.
type PrimitiveKind string

const (
	Int    PrimitiveKind = "int"
	Float  PrimitiveKind = "float"
	Bool   PrimitiveKind = "bool"
	Char   PrimitiveKind = "char"
	String PrimitiveKind = "string"
	Void   PrimitiveKind = "void"
)

// Primitive represents a primitive type.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) String() string { return string(p.Kind) }
func (p *Primitive) IsType()        {}

// Common primitive instances
var (
	TypeInt    = &Primitive{Kind: Int}
	TypeFloat  = &Primitive{Kind: Float}
	TypeBool   = &Primitive{Kind: Bool}
	TypeChar   = &Primitive{Kind: Char}
	TypeString = &Primitive{Kind: String}
	TypeVoid   = &Primitive{Kind: Void}
)

// Tuple represents an ordered product of element types.
type Tuple struct {
	Elems []Type
}

// EmptyTuple is the value-less tuple "()" used for functions that return
// nothing.
var EmptyTuple = &Tuple{}

func (t *Tuple) String() string {
	elems := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		elems[i] = e.String()
	}
	return "(" + strings.Join(elems, ", ") + ")"
}
func (t *Tuple) IsType() {}

// NewTuple constructs a tuple type.
func NewTuple(elems ...Type) *Tuple {
	if len(elems) == 0 {
		return EmptyTuple
	}
	return &Tuple{Elems: elems}
}

// Function represents a function type.
type Function struct {
	Params []Type
	Return Type
}

func (f *Function) String() string {
	var params []string
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	ret := "()"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return "fn(" + strings.Join(params, ", ") + ") -> " + ret
}
func (f *Function) IsType() {}

// LValue is the type of a memory location holding a value of type Object.
type LValue struct {
	Object Type
}

func (l *LValue) String() string { return "@lvalue " + l.Object.String() }
func (l *LValue) IsType()        {}

// NewLValue constructs the type of a location holding obj.
func NewLValue(obj Type) *LValue {
	return &LValue{Object: obj}
}

// Metatype is the type of a value that denotes the type Instance.
type Metatype struct {
	Instance Type
}

func (m *Metatype) String() string { return m.Instance.String() + ".metatype" }
func (m *Metatype) IsType()        {}

// Builtin represents compiler-internal types that have no source spelling.
type Builtin struct {
	Name string
}

func (b *Builtin) String() string { return "Builtin." + b.Name }
func (b *Builtin) IsType()        {}

// ObjectPointer is the type of a pointer to a heap object header.
var ObjectPointer = &Builtin{Name: "ObjectPointer"}

// Named represents a reference to a named type (like a struct or enum)
// that hasn't been fully resolved or is just a reference.
type Named struct {
	Name string
	Ref  Type // The actual type it refers to, if resolved
}

func (n *Named) String() string { return n.Name }
func (n *Named) IsType()        {}
