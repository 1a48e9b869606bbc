// Package verify checks the structural well-formedness of a cfg.Function:
// every block sealed by exactly one terminator, consistent list and
// parent links, edges that stay inside the function, and operands that
// refer to values defined before their use.
package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/tools/container/intsets"

	"github.com/malphas-lang/cfgir/internal/cfg"
	"github.com/malphas-lang/cfgir/internal/cfg/analysis"
	"github.com/malphas-lang/cfgir/internal/diag"
	"github.com/malphas-lang/cfgir/internal/types"
)

// ErrInvalid is wrapped by Result.Err when verification found problems.
var ErrInvalid = errors.New("malformed control-flow graph")

// Verifier runs the configured checks.
type Verifier struct {
	config Config
	log    logr.Logger
}

// Option customizes a Verifier.
type Option func(*Verifier)

// WithLogger makes the verifier log each check at V(1) and each finding
// at V(1) as well.
func WithLogger(log logr.Logger) Option {
	return func(v *Verifier) { v.log = log }
}

// New creates a verifier for c.
func New(c Config, opts ...Option) (*Verifier, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("verifier config: %w", err)
	}
	v := &Verifier{config: c, log: logr.Discard()}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Function verifies fn with the default configuration.
func Function(fn *cfg.Function) *Result {
	return MustNew(DefaultConfig()).Verify(fn)
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(c Config, opts ...Option) *Verifier {
	v, err := New(c, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Result collects the findings for one function.
type Result struct {
	Function    string
	Diagnostics []diag.Diagnostic
	// Truncated is set when MaxErrors stopped verification early.
	Truncated bool
}

// OK reports whether no problem was found.
func (r *Result) OK() bool { return len(r.Diagnostics) == 0 }

// Codes lists the diagnostic codes in report order.
func (r *Result) Codes() []diag.Code {
	codes := make([]diag.Code, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		codes[i] = d.Code
	}
	return codes
}

// Err folds the findings into a single error wrapping ErrInvalid, or
// returns nil.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	var b strings.Builder
	for _, d := range r.Diagnostics {
		b.WriteString("\n")
		b.WriteString(d.Error())
	}
	if r.Truncated {
		b.WriteString("\n(too many errors)")
	}
	return fmt.Errorf("%w: %s: %d problem(s)%s", ErrInvalid, r.Function, len(r.Diagnostics), b.String())
}

// Verify runs every enabled check over fn.
func (v *Verifier) Verify(fn *cfg.Function) *Result {
	log := v.log.WithName("verify").WithValues("function", fn.Name)
	r := &run{
		config: v.config,
		log:    log,
		fn:     fn,
		res:    &Result{Function: fn.Name},
	}
	r.index()

	checks := map[string]func(){
		CheckEntryBlock:     r.checkEntryBlock,
		CheckBlockSealed:    r.checkBlockSealed,
		CheckTerminatorLast: r.checkTerminatorLast,
		CheckParentLinks:    r.checkParentLinks,
		CheckSuccessorOwner: r.checkSuccessorOwner,
		CheckOperandDefined: r.checkOperandDefined,
		CheckOperandOrder:   r.checkOperandOrder,
		CheckReturnValue:    r.checkReturnValue,
	}
	for _, name := range Checks {
		if !v.config.enabled(name) {
			log.V(1).Info("skipping check", "check", name)
			continue
		}
		log.V(1).Info("running check", "check", name)
		checks[name]()
		if r.res.Truncated {
			break
		}
	}
	if !r.res.OK() {
		log.V(1).Info("verification failed", "problems", len(r.res.Diagnostics))
	}
	return r.res
}

type run struct {
	config Config
	log    logr.Logger
	fn     *cfg.Function
	res    *Result

	links    []cfg.LinkProblem
	inLayout map[*cfg.BasicBlock]bool
	defined  intsets.Sparse // IDs of arguments and linked instructions
	position map[cfg.Instruction]int
}

func (r *run) index() {
	r.inLayout = make(map[*cfg.BasicBlock]bool, len(r.fn.Blocks()))
	r.position = make(map[cfg.Instruction]int)
	r.links = r.fn.CheckLinks()
	for _, arg := range r.fn.Arguments() {
		r.defined.Insert(arg.ID())
	}
	for _, bb := range r.fn.Blocks() {
		r.inLayout[bb] = true
		n := 0
		for inst := range bb.All() {
			r.defined.Insert(inst.ID())
			r.position[inst] = n
			n++
		}
	}
}

func (r *run) report(code diag.Code, span diag.Span, bb *cfg.BasicBlock, format string, args ...any) {
	if r.res.Truncated {
		return
	}
	d := diag.New(diag.StageCFG, code, span, format, args...)
	if bb != nil {
		d = d.WithNote(fmt.Sprintf("in block %s of %s", bb, r.fn.Name))
	}
	r.log.V(1).Info("finding", "code", string(code), "message", d.Message)
	r.res.Diagnostics = append(r.res.Diagnostics, d)
	if r.config.MaxErrors > 0 && len(r.res.Diagnostics) >= r.config.MaxErrors {
		r.res.Truncated = true
	}
}

func (r *run) checkEntryBlock() {
	if r.fn.Entry() == nil {
		r.report(diag.CodeCFGNoEntryBlock, diag.Span{}, nil, "function %s has no entry block", r.fn.Name)
	}
}

func (r *run) checkBlockSealed() {
	for _, bb := range r.fn.Blocks() {
		if bb.IsSealed() {
			continue
		}
		var span diag.Span
		if last := bb.Last(); last != nil {
			span = last.Loc().Span()
		}
		r.report(diag.CodeCFGBlockNotSealed, span, bb, "block %s does not end in a terminator", bb)
	}
}

func (r *run) checkTerminatorLast() {
	for _, p := range r.links {
		switch p.Fault {
		case cfg.FaultTerminatorNotLast, cfg.FaultCountMismatch:
			r.reportLink(p)
		}
	}
}

func (r *run) checkParentLinks() {
	for _, p := range r.links {
		switch p.Fault {
		case cfg.FaultTerminatorNotLast, cfg.FaultCountMismatch:
		default:
			r.reportLink(p)
		}
	}
}

func (r *run) reportLink(p cfg.LinkProblem) {
	var span diag.Span
	if p.Inst != nil {
		span = p.Inst.Loc().Span()
	}
	switch p.Fault {
	case cfg.FaultTerminatorNotLast:
		next := p.Inst.Next()
		r.report(diag.CodeCFGTerminatorNotLast, span, p.Block,
			"%s %%%d is followed by %s %%%d", p.Inst.Kind(), p.Inst.ID(), next.Kind(), next.ID())
	case cfg.FaultCountMismatch:
		r.report(diag.CodeCFGInstructionCountDiff, span, p.Block,
			"block %s records %d instructions but links %d", p.Block, p.Block.Len(), p.Linked)
	case cfg.FaultWrongParent:
		r.report(diag.CodeCFGParentMismatch, span, p.Block,
			"%s %%%d is listed in %s but names %v as its parent", p.Inst.Kind(), p.Inst.ID(), p.Block, p.Inst.Parent())
	case cfg.FaultBrokenBackLink:
		r.report(diag.CodeCFGParentMismatch, span, p.Block,
			"%s %%%d has a broken back link", p.Inst.Kind(), p.Inst.ID())
	case cfg.FaultErasedLinked:
		r.report(diag.CodeCFGParentMismatch, span, p.Block,
			"erased %s %%%d is still linked", p.Inst.Kind(), p.Inst.ID())
	case cfg.FaultForeignInstruction:
		r.report(diag.CodeCFGBlockOwnerMismatch, span, p.Block,
			"%s %%%d was created by another function", p.Inst.Kind(), p.Inst.ID())
	case cfg.FaultForeignBlock:
		r.report(diag.CodeCFGBlockOwnerMismatch, span, p.Block,
			"block %s belongs to another function", p.Block)
	}
}

func (r *run) checkSuccessorOwner() {
	for _, bb := range r.fn.Blocks() {
		term := bb.Terminator()
		if term == nil {
			continue
		}
		for i, s := range term.Successors() {
			target := s.Block()
			switch {
			case target == nil:
				r.report(diag.CodeCFGMissingSuccessor, term.Loc().Span(), bb,
					"%s edge %d has no target", term.Kind(), i)
			case !r.inLayout[target]:
				r.report(diag.CodeCFGForeignSuccessor, term.Loc().Span(), bb,
					"%s edge %d targets %s, which is not a block of %s", term.Kind(), i, target, r.fn.Name)
			}
		}
	}
}

func (r *run) checkOperandDefined() {
	for _, bb := range r.fn.Blocks() {
		for inst := range bb.All() {
			for i, op := range inst.Operands() {
				span := inst.Loc().Span()
				def := op.Def()
				switch {
				case def == nil:
					r.report(diag.CodeCFGUndefinedOperand, span, bb,
						"operand %d of %s %%%d is empty", i, inst.Kind(), inst.ID())
				case def.Func() != r.fn:
					r.report(diag.CodeCFGUndefinedOperand, span, bb,
						"operand %s of %s %%%d belongs to another function", op, inst.Kind(), inst.ID())
				case !r.defined.Has(def.ID()):
					r.report(diag.CodeCFGUndefinedOperand, span, bb,
						"operand %s of %s %%%d is not defined in any block", op, inst.Kind(), inst.ID())
				}
			}
		}
	}
}

func (r *run) checkOperandOrder() {
	dom := analysis.Dominators(r.fn)
	for _, bb := range r.fn.Blocks() {
		if !dom.Reachable(bb) {
			continue
		}
		for inst := range bb.All() {
			for _, op := range inst.Operands() {
				def, ok := op.Instruction()
				if !ok || def == inst || def.Parent() == nil || !r.inLayout[def.Parent()] {
					continue
				}
				defBB := def.Parent()
				before := dom.Dominates(defBB, bb)
				if defBB == bb {
					before = r.position[def] < r.position[inst]
				}
				if !before {
					r.report(diag.CodeCFGOperandBeforeDef, inst.Loc().Span(), bb,
						"%s %%%d uses %s before it is defined in %s", inst.Kind(), inst.ID(), op, defBB)
				}
			}
		}
	}
}

func (r *run) checkReturnValue() {
	var want types.Type
	if r.fn.Sig != nil {
		want = r.fn.Sig.Return
	}
	for _, bb := range r.fn.Blocks() {
		ret, ok := cfg.DynCast[*cfg.Return](bb.Terminator())
		if !ok {
			continue
		}
		val := ret.ReturnValue()
		if !val.IsValid() {
			r.report(diag.CodeCFGMissingReturnValue, ret.Loc().Span(), bb, "return without a value")
			continue
		}
		if r.fn.Sig == nil {
			continue
		}
		got := val.Type()
		if types.IsVoid(want) {
			if n, isTuple := types.TupleArity(got); (isTuple && n == 0) || types.IsVoid(got) {
				continue
			}
		} else if types.Equal(got, want) {
			continue
		}
		r.report(diag.CodeCFGReturnTypeMismatch, ret.Loc().Span(), bb,
			"return of %s from function returning %s", got, returnTypeString(want))
	}
}

func returnTypeString(t types.Type) string {
	if types.IsVoid(t) {
		return "()"
	}
	return t.String()
}
