package cfg

import "strconv"

// Kind discriminates the concrete variant of a Value.
//
// Kinds are grouped so that every abstract family occupies a contiguous
// range; family membership is a range check. A new variant must be added
// inside its family's block below and given a name in kindNames.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Values that are not instructions.
	KindArgument

	// Allocation instructions (family Alloc).
	KindAllocVar
	KindAllocTmp

	// Plain instructions.
	KindAllocArray
	KindApply
	KindConstantRef
	KindZeroValue

	// Literal instructions (family Literal).
	KindIntegerLiteral
	KindFloatLiteral
	KindCharacterLiteral
	KindStringLiteral

	// Memory and aggregate instructions.
	KindLoad
	KindStore
	KindTypeConversion
	KindTuple
	KindTypeOf
	KindScalarToTuple
	KindTupleElement
	KindIndexLValue

	// Terminators (family Terminator). Must stay last.
	KindUnreachable
	KindReturn
	KindBranch
	KindCondBranch

	kindCount
)

// Family bounds. Each pair is inclusive.
const (
	FirstInstruction = KindAllocVar
	LastInstruction  = KindCondBranch

	FirstAlloc = KindAllocVar
	LastAlloc  = KindAllocTmp

	FirstLiteral = KindIntegerLiteral
	LastLiteral  = KindStringLiteral

	FirstTerminator = KindUnreachable
	LastTerminator  = KindCondBranch
)

var kindNames = [kindCount]string{
	KindInvalid:          "invalid",
	KindArgument:         "argument",
	KindAllocVar:         "alloc_var",
	KindAllocTmp:         "alloc_tmp",
	KindAllocArray:       "alloc_array",
	KindApply:            "apply",
	KindConstantRef:      "constant_ref",
	KindZeroValue:        "zero_value",
	KindIntegerLiteral:   "integer_literal",
	KindFloatLiteral:     "float_literal",
	KindCharacterLiteral: "character_literal",
	KindStringLiteral:    "string_literal",
	KindLoad:             "load",
	KindStore:            "store",
	KindTypeConversion:   "type_conversion",
	KindTuple:            "tuple",
	KindTypeOf:           "type_of",
	KindScalarToTuple:    "scalar_to_tuple",
	KindTupleElement:     "tuple_element",
	KindIndexLValue:      "index_lvalue",
	KindUnreachable:      "unreachable",
	KindReturn:           "return",
	KindBranch:           "br",
	KindCondBranch:       "cond_br",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k names a concrete variant.
func (k Kind) Valid() bool { return k > KindInvalid && k < kindCount }

// IsInstruction reports whether k is an instruction kind.
func (k Kind) IsInstruction() bool { return k >= FirstInstruction && k <= LastInstruction }

// IsAlloc reports whether k is a memory allocation kind.
func (k Kind) IsAlloc() bool { return k >= FirstAlloc && k <= LastAlloc }

// IsLiteral reports whether k is a literal kind.
func (k Kind) IsLiteral() bool { return k >= FirstLiteral && k <= LastLiteral }

// IsTerminator reports whether k is a terminator kind.
func (k Kind) IsTerminator() bool { return k >= FirstTerminator && k <= LastTerminator }

// Family names the innermost abstract family of a kind.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyArgument
	FamilyAlloc
	FamilyLiteral
	FamilyTerminator
	FamilyInstruction // an instruction outside every narrower family
)

func (f Family) String() string {
	switch f {
	case FamilyArgument:
		return "argument"
	case FamilyAlloc:
		return "alloc"
	case FamilyLiteral:
		return "literal"
	case FamilyTerminator:
		return "terminator"
	case FamilyInstruction:
		return "instruction"
	}
	return "none"
}

// Family returns the innermost family containing k.
func (k Kind) Family() Family {
	switch {
	case k == KindArgument:
		return FamilyArgument
	case k.IsAlloc():
		return FamilyAlloc
	case k.IsLiteral():
		return FamilyLiteral
	case k.IsTerminator():
		return FamilyTerminator
	case k.IsInstruction():
		return FamilyInstruction
	}
	return FamilyNone
}
