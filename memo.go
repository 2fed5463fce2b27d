package pegrat

import "github.com/emirpasic/gods/sets/hashset"

// memoKey is the packrat cache key: a rule evaluated at a position.
// Distinct rule instances with the same name are assumed identical —
// a Grammar never mutates a ruleNode once built, so RuleID alone is a
// safe proxy for rule identity.
type memoKey struct {
	rule RuleID
	pos  Pos
}

// seedResult is the frozen outcome of one left-recursion growth
// round: either a value at ok==true, or a failure. It stands in for
// parsival's `AST_F` union (a value or a `Failed` instance) wherever
// that union is stored rather than immediately raised.
type seedResult struct {
	ok      bool
	value   any
	failure error
}

// lrSeed is parsival's `LR` dataclass: `seed` is the best match found
// so far (nil until the first evaluation completes), `rule` is the
// RuleID currently growing, `head` is filled in lazily by setupLR
// once a left-recursive cycle is actually detected, and nextInLR
// links to the enclosing LR frame — the manual equivalent of
// parsival's `LR.next`, since the LR stack is a plain linked list
// threaded through these structs, not a generic stack container.
type lrSeed struct {
	seed     *seedResult
	rule     RuleID
	head     *lrHead
	nextInLR *lrSeed
}

// lrHead is parsival's `Head` dataclass: per-position bookkeeping
// shared by every lrSeed recorded at that position, tracking which
// rules are known to be involved in growing the seed here and which
// of those still need to be (re-)evaluated on the current growth
// round.
type lrHead struct {
	rule          RuleID
	involvedRules *hashset.Set // set[RuleID]
	evalRules     *hashset.Set // set[RuleID], shrinks to empty as each involved rule is re-run
}

func newLRHead(rule RuleID) *lrHead {
	return &lrHead{rule: rule, involvedRules: hashset.New(), evalRules: hashset.New()}
}

// memoEntry is one packrat cache slot: either a resolved (value, end
// position) pair, a resolved failure, or — while growth is still in
// progress — a pointer at the lrSeed driving it. Exactly one of `lr`
// or the ok/value/failure trio is meaningful at a time; a slot starts
// as an lrSeed placeholder (the "miss" branch of applyRule) and is
// overwritten with a final answer once growth completes (lrAnswer).
type memoEntry struct {
	lr *lrSeed

	ok      bool
	value   any
	endPos  Pos
	failure error // set when !ok
}

// memoTable is the packrat cache plus the LR-stack/heads bookkeeping
// used by the Warth-Douglass-Millstein algorithm. One memoTable lives
// per top-level Parser.Parse call; it is never shared across calls,
// matching spec.md §5's "one Parser instance owns ... the memo table,
// LR stack, and heads map".
type memoTable struct {
	entries map[memoKey]*memoEntry
	lrTop   *lrSeed // parsival's parser.lr_stack
	heads   map[Pos]*lrHead
}

func newMemoTable() *memoTable {
	return &memoTable{
		entries: map[memoKey]*memoEntry{},
		heads:   map[Pos]*lrHead{},
	}
}

func (m *memoTable) get(key memoKey) (*memoEntry, bool) {
	e, ok := m.entries[key]
	return e, ok
}

func (m *memoTable) set(key memoKey, e *memoEntry) {
	m.entries[key] = e
}

func (m *memoTable) pushLR(l *lrSeed) {
	l.nextInLR = m.lrTop
	m.lrTop = l
}

func (m *memoTable) popLR() {
	m.lrTop = m.lrTop.nextInLR
}
