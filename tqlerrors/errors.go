// Package tqlerrors defines the typed error kinds returned by the parser and
// composer. Every error is returned, never panicked; both subsystems fail
// fast on the first error they hit.
package tqlerrors

import (
	"errors"
	"fmt"

	"github.com/soulstompp/tqlcompose/position"
)

// Kind sentinels. Wrap one of these with fmt.Errorf("%w: detail", Kind) or
// construct a *Error to additionally carry a position.
var (
	// ErrCompositionIncomplete is returned by the parser when a quoted
	// bind is unbalanced or the quoted fragment is not a bind. Reaching
	// end of input without a ';' is not an error: the statement is
	// returned with Complete false.
	ErrCompositionIncomplete = errors.New("composition incomplete")
	// ErrAliasConflict is returned when an AST position would be set a
	// second time, or an alias table entry would be clobbered by a
	// second, differing parse of the same alias.
	ErrAliasConflict = errors.New("alias conflict")
	// ErrCompositionCommandUnknown is returned when a macro name is not
	// one of compose, count, union.
	ErrCompositionCommandUnknown = errors.New("unknown composition command")
	// ErrCompositionCommandArgInvalid is returned when a macro's
	// arguments are structurally invalid for its command, e.g. union
	// with fewer than two aliases.
	ErrCompositionCommandArgInvalid = errors.New("invalid composition command argument")
	// ErrCompositionAliasUnknown is returned when a macro references an
	// alias missing from its resolved alias table.
	ErrCompositionAliasUnknown = errors.New("unknown composition alias")
	// ErrCompositionBindingValueCount is returned when the number of
	// values supplied for a binding violates its cardinality rule.
	ErrCompositionBindingValueCount = errors.New("invalid binding value count")
	// ErrCompositionBindingValueInvalid is returned when a
	// non-nullable binding receives zero values.
	ErrCompositionBindingValueInvalid = errors.New("invalid binding value")
	// ErrMockCompositionArgsInvalid is returned when a mock substitution
	// is given an empty row list.
	ErrMockCompositionArgsInvalid = errors.New("invalid mock composition arguments")
	// ErrMockCompositionColumnCountInvalid is returned when mock rows
	// have inconsistent column counts.
	ErrMockCompositionColumnCountInvalid = errors.New("inconsistent mock composition column count")
)

// Error carries a sentinel Kind plus enough context (position, free-form
// detail, and any numbers involved) to locate the fault without re-parsing.
type Error struct {
	Kind     error
	Position position.Position
	Detail   string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at %s", e.Kind, e.Position)
	}
	return fmt.Sprintf("%v: %s at %s", e.Kind, e.Detail, e.Position)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New builds an *Error for the given kind, position, and detail message.
func New(kind error, pos position.Position, detail string) *Error {
	return &Error{Kind: kind, Position: pos, Detail: detail}
}

// Newf is New with a formatted detail message.
func Newf(kind error, pos position.Position, format string, args ...any) *Error {
	return New(kind, pos, fmt.Sprintf(format, args...))
}
