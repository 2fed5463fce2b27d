package pegrat

import "fmt"

// ParseFailure is returned by Parser.Parse when the start rule could
// not match the input. It carries the position and message of the
// failure that escaped the start rule; the furthest position reached
// by any attempt is not tracked.
type ParseFailure struct {
	Pos     Pos
	Line    int
	Col     int
	Rule    string
	Message string
}

func (e *ParseFailure) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("parse error at %d:%d: expected %s", e.Line, e.Col, e.Rule)
	}
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Message)
}

// committedFailure wraps an ordinary failure once it has crossed a
// Commit marker inside the Sequence that produced it. It is an
// internal control-flow type, never returned from Parser.Parse: by
// the time a committed failure would escape the grammar entirely, it
// has already been downgraded back to an ordinary *ParseFailure by
// the enclosing Choice or Optional (or, if there is none, by
// Parser.Parse itself).
type committedFailure struct {
	inner *ParseFailure
}

func (e *committedFailure) Error() string { return e.inner.Error() }

func isCommitted(err error) (*committedFailure, bool) {
	cf, ok := err.(*committedFailure)
	return cf, ok
}

func asParseFailure(err error) *ParseFailure {
	if cf, ok := isCommitted(err); ok {
		return cf.inner
	}
	if pf, ok := err.(*ParseFailure); ok {
		return pf
	}
	return &ParseFailure{Message: err.Error()}
}

// UnconsumedInputError is returned when a rule matched successfully
// but left trailing input before ENDMARKER / end of string.
type UnconsumedInputError struct {
	Pos  Pos
	Line int
	Col  int
}

func (e *UnconsumedInputError) Error() string {
	return fmt.Sprintf("unconsumed input at %d:%d", e.Line, e.Col)
}

// SchemaError reports a misuse of the Grammar builder API itself
// (bad RuleID, duplicate rule name, unresolved Ref, mismatched
// EnumChoice slices) — a programming error in how the grammar was
// assembled, not a parse-time failure of some input text. It is the
// one error class allowed to cross the Parser.Parse boundary via
// panic/recover, mirroring parsival's "this exception escapes
// everything except the outermost frame" treatment of schema bugs.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string { return "schema error: " + e.Message }
