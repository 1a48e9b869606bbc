package diag

import (
	"fmt"
	"strings"
)

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageCFG Stage = "cfg"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// CFG structural verification
	CodeCFGNoEntryBlock         Code = "CFG_NO_ENTRY_BLOCK"
	CodeCFGBlockNotSealed       Code = "CFG_BLOCK_NOT_SEALED"
	CodeCFGTerminatorNotLast    Code = "CFG_TERMINATOR_NOT_LAST"
	CodeCFGParentMismatch       Code = "CFG_PARENT_MISMATCH"
	CodeCFGForeignSuccessor     Code = "CFG_FOREIGN_SUCCESSOR"
	CodeCFGMissingSuccessor     Code = "CFG_MISSING_SUCCESSOR"
	CodeCFGUndefinedOperand     Code = "CFG_UNDEFINED_OPERAND"
	CodeCFGOperandBeforeDef     Code = "CFG_OPERAND_BEFORE_DEF"
	CodeCFGMissingReturnValue   Code = "CFG_MISSING_RETURN_VALUE"
	CodeCFGReturnTypeMismatch   Code = "CFG_RETURN_TYPE_MISMATCH"
	CodeCFGBlockOwnerMismatch   Code = "CFG_BLOCK_OWNER_MISMATCH"
	CodeCFGInstructionCountDiff Code = "CFG_INSTRUCTION_COUNT_MISMATCH"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	if s.Filename != other.Filename {
		return false
	}
	return s.Start <= other.Start && other.End <= s.End
}

// Diagnostic is a compiler diagnostic surfaced to end-users or to the
// compiler's own test suite.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	Related  []Span   // Optional related spans
	Notes    []string // Additional notes to display
}

// New builds an error diagnostic for the given stage.
func New(stage Stage, code Code, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// WithRelated returns a new diagnostic with the given related span added.
func (d Diagnostic) WithRelated(span Span) Diagnostic {
	d.Related = append(d.Related, span)
	return d
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithSeverity returns a copy of the diagnostic with a different severity.
func (d Diagnostic) WithSeverity(sev Severity) Diagnostic {
	d.Severity = sev
	return d
}

// Error implements the error interface so a diagnostic can travel through
// ordinary error returns.
func (d Diagnostic) Error() string {
	var b strings.Builder
	if d.Span.IsValid() {
		b.WriteString(d.Span.String())
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s[%s]: %s", d.Severity, d.Code, d.Message)
	for _, note := range d.Notes {
		b.WriteString("\n  note: ")
		b.WriteString(note)
	}
	return b.String()
}
