package cfg

import (
	"strings"
	"testing"
)

func TestKindFamiliesAreContiguous(t *testing.T) {
	families := []struct {
		name        string
		first, last Kind
		member      func(Kind) bool
	}{
		{"instruction", FirstInstruction, LastInstruction, Kind.IsInstruction},
		{"alloc", FirstAlloc, LastAlloc, Kind.IsAlloc},
		{"literal", FirstLiteral, LastLiteral, Kind.IsLiteral},
		{"terminator", FirstTerminator, LastTerminator, Kind.IsTerminator},
	}
	for _, fam := range families {
		if fam.first > fam.last {
			t.Errorf("%s: first %s after last %s", fam.name, fam.first, fam.last)
		}
		for k := KindInvalid; k < kindCount; k++ {
			want := k >= fam.first && k <= fam.last
			if got := fam.member(k); got != want {
				t.Errorf("%s membership of %s = %v, want %v", fam.name, k, got, want)
			}
		}
	}
}

func TestKindSubfamiliesNestInInstructions(t *testing.T) {
	for k := KindInvalid; k < kindCount; k++ {
		if (k.IsAlloc() || k.IsLiteral() || k.IsTerminator()) && !k.IsInstruction() {
			t.Errorf("%s belongs to a subfamily but is not an instruction", k)
		}
	}
	if LastTerminator != kindCount-1 {
		t.Errorf("terminators must be the last kinds, got last terminator %s", LastTerminator)
	}
	if KindAllocArray.IsAlloc() {
		t.Errorf("alloc_array must stay outside the alloc family")
	}
	if KindArgument.IsInstruction() {
		t.Errorf("argument must not be an instruction")
	}
}

func TestKindString(t *testing.T) {
	seen := make(map[string]Kind)
	for k := KindInvalid; k < kindCount; k++ {
		name := k.String()
		if strings.HasPrefix(name, "kind(") {
			t.Errorf("kind %d has no name", k)
		}
		if prev, ok := seen[name]; ok {
			t.Errorf("kinds %d and %d share name %q", prev, k, name)
		}
		seen[name] = k
	}
	if got := Kind(200).String(); got != "kind(200)" {
		t.Errorf("Kind(200).String() = %q", got)
	}
	if KindCondBranch.String() != "cond_br" {
		t.Errorf("unexpected name %q", KindCondBranch.String())
	}
}

func TestKindFamily(t *testing.T) {
	tests := []struct {
		kind Kind
		want Family
	}{
		{KindInvalid, FamilyNone},
		{KindArgument, FamilyArgument},
		{KindAllocVar, FamilyAlloc},
		{KindAllocTmp, FamilyAlloc},
		{KindAllocArray, FamilyInstruction},
		{KindStringLiteral, FamilyLiteral},
		{KindStore, FamilyInstruction},
		{KindBranch, FamilyTerminator},
		{kindCount, FamilyNone},
	}
	for _, tt := range tests {
		if got := tt.kind.Family(); got != tt.want {
			t.Errorf("%s.Family() = %s, want %s", tt.kind, got, tt.want)
		}
	}
}
