package pegrat

import "regexp"

// RuleID indexes into a Grammar's rule arena. Rules refer to each
// other by index rather than by pointer, so a Grammar's arena can be
// grown freely while cyclic (including left-recursive) rule graphs
// keep working.
type RuleID int32

// NoRule is the sentinel "absent" RuleID, used e.g. for a Repeat with
// no separator.
const NoRule RuleID = -1

type ruleKind int

const (
	ruleKindLiteral ruleKind = iota
	ruleKindRegex
	ruleKindChoice
	ruleKindSequence
	ruleKindRepeat
	ruleKindOptional
	ruleKindNegLookahead
	ruleKindPosLookahead
	ruleKindCommit
	ruleKindRef
	ruleKindHere
)

// Field describes one named slot of a Sequence rule. Hidden fields
// must still match, but their value is dropped before Construct is
// called — the "hidden field" contract from spec.md §3.
type Field struct {
	Name   string
	Rule   RuleID
	Hidden bool
}

// ruleNode is the tagged-sum representation of a single rule form.
// Only the fields relevant to Kind are populated; the rest stay zero.
type ruleNode struct {
	kind ruleKind

	// literal / enum-choice sugar (lowered at build time, see
	// Grammar.EnumChoice): parallel slices, tried in order.
	literals []string
	values   []any

	// regex
	pattern   *regexp.Regexp
	converter func(string) (any, error)
	// noSkipWS marks a rule as whitespace-sensitive: the evaluator
	// must not skip leading whitespace before attempting it (the
	// SPACE/NO_LF_SPACE builtins themselves — spec.md §4.1).
	noSkipWS bool

	// choice / sequence items
	items  []RuleID
	fields []Field

	// sequence constructor; nil means "return the visible values
	// as a []any" (used internally, e.g. by Repeat's element rule
	// when it is itself anonymous).
	construct func([]any) (any, error)

	// repeat / optional / lookahead / ref
	sub       RuleID
	separator RuleID // NoRule if none
	min       int    // 0 or 1

	// ref
	refName string

	// name this rule was registered under, if any (diagnostics only)
	name string
}
