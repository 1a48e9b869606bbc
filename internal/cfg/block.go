package cfg

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrBlockSealed is returned when an instruction would be placed after
	// the terminator of a block.
	ErrBlockSealed = errors.New("block already ends in a terminator")
	// ErrTerminatorNotLast is returned when a terminator would be placed
	// anywhere but at the end of a block.
	ErrTerminatorNotLast = errors.New("terminator must be the last instruction of a block")
	// ErrInvalidRange is returned by Splice for ranges that are not a
	// forward run of one block's list.
	ErrInvalidRange = errors.New("invalid instruction range")
)

// BasicBlock is a straight-line run of instructions. A block is open
// until a terminator is linked as its last instruction and sealed
// afterwards.
//
// Instructions form an intrusive doubly-linked list: every instruction
// stores its neighbours and its parent block, and the block keeps the two
// ends. The parent link is set exactly while the instruction is linked.
type BasicBlock struct {
	Label string

	id          int
	fn          *Function
	first, last Instruction
	count       int
}

// ID is unique among the blocks of the owning function.
func (bb *BasicBlock) ID() int { return bb.id }

// Parent returns the function owning the block.
func (bb *BasicBlock) Parent() *Function { return bb.fn }

func (bb *BasicBlock) String() string {
	if bb.Label != "" {
		return bb.Label
	}
	return fmt.Sprintf("bb%d", bb.id)
}

// First returns the first instruction, or nil for an empty block.
func (bb *BasicBlock) First() Instruction { return bb.first }

// Last returns the last instruction, or nil for an empty block.
func (bb *BasicBlock) Last() Instruction { return bb.last }

// Len returns the number of linked instructions.
func (bb *BasicBlock) Len() int { return bb.count }

// Empty reports whether the block holds no instruction.
func (bb *BasicBlock) Empty() bool { return bb.count == 0 }

// Contains reports whether i is linked into bb.
func (bb *BasicBlock) Contains(i Instruction) bool {
	return i != nil && i.Parent() == bb
}

// Terminator returns the terminator of a sealed block, or nil.
func (bb *BasicBlock) Terminator() Terminator {
	if bb.last == nil {
		return nil
	}
	t, _ := AsTerminator(bb.last)
	return t
}

// IsSealed reports whether the block ends in a terminator.
func (bb *BasicBlock) IsSealed() bool { return bb.Terminator() != nil }

// Successors returns the successor edges of the block's terminator, or
// nil while the block is open.
func (bb *BasicBlock) Successors() []Successor {
	t := bb.Terminator()
	if t == nil {
		return nil
	}
	return t.Successors()
}

// Instructions returns a snapshot of the instruction list.
func (bb *BasicBlock) Instructions() []Instruction {
	out := make([]Instruction, 0, bb.count)
	for i := bb.first; i != nil; i = i.Next() {
		out = append(out, i)
	}
	return out
}

// All iterates over the instructions in order. The instruction being
// visited may be unlinked or erased by the loop body.
func (bb *BasicBlock) All() iter.Seq[Instruction] {
	return func(yield func(Instruction) bool) {
		for i := bb.first; i != nil; {
			next := i.Next()
			if !yield(i) {
				return
			}
			i = next
		}
	}
}

// Append links i at the end of the block.
func (bb *BasicBlock) Append(i Instruction) error {
	return bb.InsertBefore(nil, i)
}

// InsertBefore links i immediately before pos, or at the end of the block
// when pos is nil. Terminators may only be appended to an open block and
// nothing may be appended to a sealed one; those cases return an error
// and leave the block unchanged.
func (bb *BasicBlock) InsertBefore(pos, i Instruction) error {
	b := bb.checkLinkable(i)
	if pos != nil && pos.Parent() != bb {
		panic(fmt.Sprintf("cfg: insertion point %%%d is not in block %s", pos.ID(), bb))
	}
	if i.Kind().IsTerminator() {
		if pos != nil {
			return fmt.Errorf("%w: %s in block %s", ErrTerminatorNotLast, i.Kind(), bb)
		}
		if bb.IsSealed() {
			return fmt.Errorf("%w: cannot add second terminator %s to %s", ErrBlockSealed, i.Kind(), bb)
		}
	} else if pos == nil && bb.IsSealed() {
		return fmt.Errorf("%w: cannot append %s to %s", ErrBlockSealed, i.Kind(), bb)
	}
	bb.link(pos, i, b)
	return nil
}

// InsertAfter links i immediately after pos.
func (bb *BasicBlock) InsertAfter(pos, i Instruction) error {
	if pos == nil || pos.Parent() != bb {
		panic(fmt.Sprintf("cfg: insertion point is not in block %s", bb))
	}
	return bb.InsertBefore(pos.Next(), i)
}

func (bb *BasicBlock) checkLinkable(i Instruction) *instrBase {
	if i == nil {
		panic("cfg: linking nil instruction")
	}
	b := i.base()
	switch {
	case b.erased:
		panic(fmt.Sprintf("cfg: linking erased instruction %%%d", b.id))
	case b.parent != nil:
		panic(fmt.Sprintf("cfg: instruction %%%d is already linked into %s", b.id, b.parent))
	case b.fn != bb.fn:
		panic(fmt.Sprintf("cfg: instruction %%%d belongs to another function", b.id))
	}
	return b
}

// link inserts i before pos (nil: at the end) and sets its parent.
func (bb *BasicBlock) link(pos, i Instruction, b *instrBase) {
	if pos == nil {
		b.prev = bb.last
		b.next = nil
		if bb.last != nil {
			bb.last.base().next = i
		} else {
			bb.first = i
		}
		bb.last = i
	} else {
		pb := pos.base()
		b.prev = pb.prev
		b.next = pos
		if pb.prev != nil {
			pb.prev.base().next = i
		} else {
			bb.first = i
		}
		pb.prev = i
	}
	b.parent = bb
	bb.count++
}

// unlink detaches b and clears its parent.
func (bb *BasicBlock) unlink(b *instrBase) {
	if b.prev != nil {
		b.prev.base().next = b.next
	} else {
		bb.first = b.next
	}
	if b.next != nil {
		b.next.base().prev = b.prev
	} else {
		bb.last = b.prev
	}
	b.prev, b.next, b.parent = nil, nil, nil
	bb.count--
}

// Splice moves the instructions of from in [first, end) to bb before at
// (nil: at the end). end == nil means "through the last instruction".
// Every moved instruction's parent becomes bb. The whole range is checked
// before anything is changed, so on error both blocks are untouched.
func (bb *BasicBlock) Splice(at Instruction, from *BasicBlock, first, end Instruction) error {
	if from == nil || from.fn != bb.fn {
		panic("cfg: splice between blocks of different functions")
	}
	if first == nil || first.Parent() != from {
		panic(fmt.Sprintf("cfg: splice range does not start in %s", from))
	}
	if end != nil && end.Parent() != from {
		panic(fmt.Sprintf("cfg: splice range does not end in %s", from))
	}
	if at != nil && at.Parent() != bb {
		panic(fmt.Sprintf("cfg: splice position is not in %s", bb))
	}
	if first == end {
		return nil
	}

	// Collect and validate the range.
	var last Instruction
	n := 0
	atInRange := false
	for i := first; i != end; i = i.Next() {
		if i == nil {
			return fmt.Errorf("%w: end precedes first in %s", ErrInvalidRange, from)
		}
		if at != nil && i == at {
			atInRange = true
		}
		last = i
		n++
	}
	if from == bb {
		// The range already sits before at.
		if at == end || at == first {
			return nil
		}
		if atInRange {
			return fmt.Errorf("%w: destination lies inside the moved range", ErrInvalidRange)
		}
	}
	movesTerm := last.Kind().IsTerminator()
	switch {
	case movesTerm && at != nil:
		return fmt.Errorf("%w: splice would place %s before %%%d", ErrTerminatorNotLast, last.Kind(), at.ID())
	case movesTerm && from != bb && bb.IsSealed():
		return fmt.Errorf("%w: splice would add a second terminator to %s", ErrBlockSealed, bb)
	case !movesTerm && at == nil && bb.IsSealed():
		return fmt.Errorf("%w: splice would append after the terminator of %s", ErrBlockSealed, bb)
	}

	// Detach [first, last] from the source list.
	fb, lb := first.base(), last.base()
	if fb.prev != nil {
		fb.prev.base().next = lb.next
	} else {
		from.first = lb.next
	}
	if lb.next != nil {
		lb.next.base().prev = fb.prev
	} else {
		from.last = fb.prev
	}
	from.count -= n

	// Attach it before at.
	if at == nil {
		fb.prev = bb.last
		lb.next = nil
		if bb.last != nil {
			bb.last.base().next = first
		} else {
			bb.first = first
		}
		bb.last = last
	} else {
		ab := at.base()
		fb.prev = ab.prev
		lb.next = at
		if ab.prev != nil {
			ab.prev.base().next = first
		} else {
			bb.first = first
		}
		ab.prev = last
	}
	bb.count += n

	for i := first; ; i = i.Next() {
		i.base().parent = bb
		if i == last {
			break
		}
	}
	return nil
}
