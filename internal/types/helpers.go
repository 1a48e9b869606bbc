package types

// Resolve strips Named indirections.
func Resolve(t Type) Type {
	for {
		n, ok := t.(*Named)
		if !ok || n.Ref == nil {
			return t
		}
		t = n.Ref
	}
}

// IsBool reports whether t is the boolean primitive.
func IsBool(t Type) bool {
	p, ok := Resolve(t).(*Primitive)
	return ok && p.Kind == Bool
}

// IsVoid reports whether t is void or nil.
func IsVoid(t Type) bool {
	if t == nil {
		return true
	}
	p, ok := Resolve(t).(*Primitive)
	return ok && p.Kind == Void
}

// ObjectType returns the type stored in the location described by t, or
// false if t is not an lvalue type.
func ObjectType(t Type) (Type, bool) {
	l, ok := Resolve(t).(*LValue)
	if !ok {
		return nil, false
	}
	return l.Object, true
}

// TupleArity returns the number of elements of a tuple type, or false if t
// is not a tuple.
func TupleArity(t Type) (int, bool) {
	tup, ok := Resolve(t).(*Tuple)
	if !ok {
		return 0, false
	}
	return len(tup.Elems), true
}

// TupleElem returns the type of the i'th tuple element.
func TupleElem(t Type, i int) (Type, bool) {
	tup, ok := Resolve(t).(*Tuple)
	if !ok || i < 0 || i >= len(tup.Elems) {
		return nil, false
	}
	return tup.Elems[i], true
}

// Equal reports whether two types are structurally identical.
func Equal(a, b Type) bool {
	a, b = Resolve(a), Resolve(b)
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	switch at := a.(type) {
	case *Primitive:
		bt, ok := b.(*Primitive)
		return ok && at.Kind == bt.Kind
	case *Tuple:
		bt, ok := b.(*Tuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return false
		}
		for i := range at.Elems {
			if !Equal(at.Elems[i], bt.Elems[i]) {
				return false
			}
		}
		return true
	case *Function:
		bt, ok := b.(*Function)
		if !ok || len(at.Params) != len(bt.Params) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return Equal(at.Return, bt.Return)
	case *LValue:
		bt, ok := b.(*LValue)
		return ok && Equal(at.Object, bt.Object)
	case *Metatype:
		bt, ok := b.(*Metatype)
		return ok && Equal(at.Instance, bt.Instance)
	case *Builtin:
		bt, ok := b.(*Builtin)
		return ok && at.Name == bt.Name
	case *Named:
		bt, ok := b.(*Named)
		return ok && at.Name == bt.Name
	}
	return false
}
