package cfg

// LinkFault names an inconsistency in the instruction lists of a function.
// The list operations never produce one; a fault means some code bypassed
// them.
type LinkFault uint8

const (
	FaultTerminatorNotLast LinkFault = iota + 1
	FaultCountMismatch
	FaultWrongParent
	FaultBrokenBackLink
	FaultErasedLinked
	FaultForeignInstruction
	FaultForeignBlock
)

func (f LinkFault) String() string {
	switch f {
	case FaultTerminatorNotLast:
		return "terminator not last"
	case FaultCountMismatch:
		return "count mismatch"
	case FaultWrongParent:
		return "wrong parent"
	case FaultBrokenBackLink:
		return "broken back link"
	case FaultErasedLinked:
		return "erased but linked"
	case FaultForeignInstruction:
		return "foreign instruction"
	case FaultForeignBlock:
		return "foreign block"
	}
	return "unknown fault"
}

// LinkProblem locates a LinkFault. Inst is nil for faults of the block
// itself. Linked is the number of instructions reachable from the block's
// first one and is only meaningful for FaultCountMismatch.
type LinkProblem struct {
	Fault  LinkFault
	Block  *BasicBlock
	Inst   Instruction
	Linked int
}

// CheckLinks walks every block of f in layout order and reports where the
// list links, parent pointers and counts disagree.
func (f *Function) CheckLinks() []LinkProblem {
	var out []LinkProblem
	for _, bb := range f.blocks {
		out = append(out, bb.checkLinks(f)...)
	}
	return out
}

func (bb *BasicBlock) checkLinks(f *Function) []LinkProblem {
	var out []LinkProblem
	report := func(fault LinkFault, i Instruction) {
		out = append(out, LinkProblem{Fault: fault, Block: bb, Inst: i})
	}
	if bb.fn != f {
		report(FaultForeignBlock, nil)
	}

	var prev Instruction
	n := 0
	for i := bb.first; i != nil; i = i.Next() {
		// A list longer than its count by more than one entry is cut
		// short so a cycle cannot hang the walk.
		if n > bb.count {
			break
		}
		n++
		b := i.base()
		switch {
		case b.parent != bb:
			report(FaultWrongParent, i)
		case b.prev != prev:
			report(FaultBrokenBackLink, i)
		case b.erased:
			report(FaultErasedLinked, i)
		}
		if b.fn != f {
			report(FaultForeignInstruction, i)
		}
		if b.kind.IsTerminator() && b.next != nil {
			report(FaultTerminatorNotLast, i)
		}
		prev = i
	}
	if n != bb.count || prev != bb.last {
		out = append(out, LinkProblem{Fault: FaultCountMismatch, Block: bb, Linked: n})
	}
	return out
}
