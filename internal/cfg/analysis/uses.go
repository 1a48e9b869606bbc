package analysis

import "github.com/malphas-lang/cfgir/internal/cfg"

// Uses maps every value used by a linked instruction of fn to its users,
// in layout order. An instruction using a value twice is listed once.
func Uses(fn *cfg.Function) map[cfg.Value][]cfg.Instruction {
	uses := make(map[cfg.Value][]cfg.Instruction)
	for _, block := range fn.Blocks() {
		for inst := range block.All() {
			for _, op := range inst.Operands() {
				if !op.IsValid() {
					continue
				}
				users := uses[op.Def()]
				if n := len(users); n > 0 && users[n-1] == inst {
					continue
				}
				uses[op.Def()] = append(users, inst)
			}
		}
	}
	return uses
}

// Unused returns the linked instructions of fn that produce a value no
// other instruction uses. Terminators and stores are never reported.
func Unused(fn *cfg.Function) []cfg.Instruction {
	uses := Uses(fn)
	var out []cfg.Instruction
	for _, block := range fn.Blocks() {
		for inst := range block.All() {
			if inst.Kind().IsTerminator() || inst.Kind() == cfg.KindStore {
				continue
			}
			if len(uses[inst]) == 0 {
				out = append(out, inst)
			}
		}
	}
	return out
}

// Defs returns the values defined in fn: its arguments followed by its
// linked instructions in layout order.
func Defs(fn *cfg.Function) []cfg.Value {
	var out []cfg.Value
	for _, arg := range fn.Arguments() {
		out = append(out, arg)
	}
	for _, block := range fn.Blocks() {
		for inst := range block.All() {
			out = append(out, inst)
		}
	}
	return out
}
