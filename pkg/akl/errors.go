package akl

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError is raised by the lexer/parser and surfaced to the caller
// verbatim (§7).
type ParseError struct {
	Pos     int
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at line %d: %s", e.Line, e.Message)
}

// ArithmeticError is a domain, zero-division, or type failure while
// evaluating is/2 or an arithmetic comparator. It never escapes the
// engine as a Go error — §7 says it "degrades to failure" — so
// builtin_arith.go converts one into BuiltinFail rather than
// returning it, but it is a named type so that path is self-documenting.
type ArithmeticError struct {
	Op      string
	Message string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error in %s: %s", e.Op, e.Message)
}

// TypeError reports a builtin argument with the wrong shape (e.g.
// arg/3 applied to a non-compound). Like ArithmeticError, this
// degrades to BuiltinFail at the call site (§7) and is named only for
// clarity in that call site's code.
type TypeError struct {
	Builtin string
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error in %s: %s", e.Builtin, e.Message)
}

// ConsultError reports a file-not-found or parse failure from
// Program.LoadFile, or an attempt to add a clause (Program.AddClause)
// during a live solve. The CLI reports LoadFile's error to stderr. No
// consult/1 builtin is registered.
type ConsultError struct {
	Reason string
}

func (e *ConsultError) Error() string {
	return fmt.Sprintf("consult error: %s", e.Reason)
}

// InternalInvariantError reports a violation of one of §3's
// structural invariants (e.g. a DEAD node reached by the scheduler).
// It is the only error kind the worker loop treats as fatal: Solve
// returns it wrapped with a stack trace via github.com/pkg/errors,
// and the CLI exits with code 2.
type InternalInvariantError struct {
	Invariant string
	Detail    string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated (%s): %s", e.Invariant, e.Detail)
}

// wrapFatal attaches a stack trace to an InternalInvariantError so the
// CLI's top-level logging has something actionable beyond the bare
// message.
func wrapFatal(e *InternalInvariantError) error {
	return errors.WithStack(e)
}
