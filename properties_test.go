package pegrat

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(g *Grammar) RuleID {
	return g.RegexString(`[A-Za-z]+`)
}

func number(g *Grammar) RuleID {
	return g.Regex(`[0-9]+`, func(s string) (any, error) { return strconv.Atoi(s) })
}

// 1. Idempotence of memoization: evaluating the same rule at the same
// position twice (once via a lookahead, once for real) must yield the
// identical value and must not advance the cursor any differently
// than a single evaluation would.
func TestIdempotenceOfMemoization(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)
	w := word(g)
	root := g.Sequence(
		func(v []any) (any, error) { return v, nil },
		Field{Name: "peek", Rule: g.Lookahead(w)},
		Field{Name: "val", Rule: w},
	)

	p := NewParser(g, nil)
	val, err := p.Parse(root, "hello", true)
	require.NoError(t, err)

	pair := val.([]any)
	assert.Equal(t, "hello", pair[0])
	assert.Equal(t, "hello", pair[1])
	assert.Equal(t, Pos(5), p.cur.pos)
}

// 2. Backtracking cleanliness: a failing alternative must leave the
// cursor exactly where it started, even after partially matching.
func TestBacktrackingCleanliness(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)

	// Sequence that matches "a" then requires "z" (always fails for our input),
	// as the first, doomed alternative.
	doomed := g.Sequence(
		func(v []any) (any, error) { return v, nil },
		Field{Name: "a", Rule: g.Literal("a")},
		Field{Name: "z", Rule: g.Literal("z")},
	)
	ok := g.Literal("ab")
	choice := g.Choice(doomed, ok)

	p := NewParser(g, nil)
	val, err := p.Parse(choice, "ab", true)
	require.NoError(t, err)
	assert.Equal(t, "ab", val)
}

// 3. Ordered choice: when multiple alternatives could match, the
// first one wins, even if a later one would also have matched (and
// matched more).
func TestOrderedChoicePrefersFirstMatch(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)
	choice := g.Choice(g.Literal("a"), g.Literal("ab"))

	p := NewParser(g, nil)
	val, err := p.ParsePartial(choice, "ab")
	require.NoError(t, err)
	assert.Equal(t, "a", val)
	assert.Equal(t, Pos(1), p.cur.pos)
}

// 5. Commit semantics: once Commit has been crossed inside a
// Sequence, a later failure must propagate past the innermost
// enclosing Choice instead of falling through to the next
// alternative.
func TestCommitStopsBacktracking(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)

	num := number(g)
	paren := g.Sequence(
		func(v []any) (any, error) { return v[0], nil },
		Field{Name: "_open", Rule: g.Literal("("), Hidden: true},
		Field{Name: "_commit", Rule: g.Commit(), Hidden: true},
		Field{Name: "inner", Rule: num},
		Field{Name: "_close", Rule: g.Literal(")"), Hidden: true},
	)
	name := g.Ref("NAME")
	top := g.Choice(paren, name)

	p := NewParser(g, nil)
	_, err := p.Parse(top, "(1+)", false)
	require.Error(t, err)
	// A committed failure must not silently fall back to the NAME
	// alternative and succeed on some prefix of the input.
	_, ok := err.(*ParseFailure)
	assert.True(t, ok, "expected a *ParseFailure, got %T: %v", err, err)
}

// Commit only matters on failure: an alternative that crosses a
// Commit and then matches completely succeeds as usual.
func TestCommitSucceedsOnMatchingInput(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)

	num := number(g)
	paren := g.Sequence(
		func(v []any) (any, error) { return v[0], nil },
		Field{Name: "_open", Rule: g.Literal("("), Hidden: true},
		Field{Name: "_commit", Rule: g.Commit(), Hidden: true},
		Field{Name: "inner", Rule: num},
		Field{Name: "_close", Rule: g.Literal(")"), Hidden: true},
	)
	name := g.Ref("NAME")
	top := g.Choice(paren, name)

	p := NewParser(g, nil)
	val, err := p.Parse(top, "(42)", true)
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

// 6. Greediness of `*`/`+`: repetition consumes as many elements as
// possible and never releases an already-matched element to let a
// following rule succeed.
func TestRepeatIsGreedy(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)

	seq := g.Sequence(
		func(v []any) (any, error) { return v, nil },
		Field{Name: "run", Rule: g.Repeat(g.Literal("a"), 0, NoRule)},
		Field{Name: "tail", Rule: g.Literal("a")},
	)

	p := NewParser(g, nil)
	_, err := p.Parse(seq, "aaa", true)
	require.Error(t, err, "greedy repeat must not backtrack to let tail match")
}

// 7. Whitespace sensitivity: a negative lookahead for whitespace must
// observe the *unskipped* next character, not skip past it first.
func TestNoSpaceIsCheckedBeforeSkipping(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)
	w := g.RegexString(`[A-Za-z]+`)
	num := number(g)

	adjacent := g.Sequence(
		func(v []any) (any, error) { return v, nil },
		Field{Name: "word", Rule: w},
		Field{Name: "_nospace", Rule: g.Not(g.Ref("SPACE")), Hidden: true},
		Field{Name: "num", Rule: num},
	)

	p := NewParser(g, nil)
	val, err := p.Parse(adjacent, "foo123", true)
	require.NoError(t, err)
	pair := val.([]any)
	assert.Equal(t, "foo", pair[0])
	assert.Equal(t, 123, pair[1])

	p2 := NewParser(g, nil)
	_, err2 := p2.Parse(adjacent, "foo 123", true)
	require.Error(t, err2, "a space between word and num must fail the no-space assertion")
}

// Unconsumed input: raiseOnUnconsumed controls whether trailing bytes
// after a successful parse are an error.
func TestUnconsumedInput(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)
	name := g.Ref("NAME")

	p := NewParser(g, nil)
	_, err := p.Parse(name, "foo bar", true)
	require.Error(t, err)
	_, ok := err.(*UnconsumedInputError)
	assert.True(t, ok, "expected *UnconsumedInputError, got %T", err)

	p2 := NewParser(g, nil)
	val, err2 := p2.ParsePartial(name, "foo bar")
	require.NoError(t, err2)
	assert.Equal(t, "foo", val)
	assert.Equal(t, Pos(3), p2.cur.pos)
}

// Separator repetition: `atom.','+` greedily accumulates elements
// separated by commas.
func TestSeparatorRepetition(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)
	atom := g.RegexString(`[a-z]+`)
	items := g.Repeat(atom, 1, g.Literal(","))

	p := NewParser(g, nil)
	val, err := p.Parse(items, "a,b,c", true)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, val)

	// A dangling trailing separator is given back when no element
	// follows it, so the repetition stops before the trailing comma
	// and a full parse fails with unconsumed input pointing at it.
	p2 := NewParser(g, nil)
	_, err2 := p2.Parse(items, "a,b,", true)
	require.Error(t, err2)
	ue, ok := err2.(*UnconsumedInputError)
	require.True(t, ok, "expected *UnconsumedInputError, got %T", err2)
	assert.Equal(t, Pos(3), ue.Pos)
}

func TestOptionalYieldsNilOnAbsence(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)
	opt := g.Optional(g.Literal("x"))

	p := NewParser(g, nil)
	val, err := p.ParsePartial(opt, "y")
	require.NoError(t, err)
	assert.Nil(t, val)
	assert.Equal(t, Pos(0), p.cur.pos)
}

func TestHereCapturesPosition(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)
	seq := g.Sequence(
		func(v []any) (any, error) { return v, nil },
		Field{Name: "_a", Rule: g.Literal("aa"), Hidden: true},
		Field{Name: "here", Rule: g.Here()},
	)
	p := NewParser(g, nil)
	val, err := p.ParsePartial(seq, "aa")
	require.NoError(t, err)
	pos := val.([]any)[0].(Pos)
	assert.Equal(t, Pos(2), pos)
}

func TestEnumChoiceYieldsTag(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)
	type kw int
	const (
		kwIf kw = iota
		kwElse
	)
	enum := g.EnumChoice([]string{"if", "else"}, []any{kwIf, kwElse})

	p := NewParser(g, nil)
	val, err := p.ParsePartial(enum, "else")
	require.NoError(t, err)
	assert.Equal(t, kwElse, val)
}

func TestDumpMemoIsNonEmptyAfterParse(t *testing.T) {
	g := NewGrammar()
	InstallBuiltins(g)
	name := g.Ref("NAME")

	p := NewParser(g, nil)
	_, err := p.Parse(name, "hello", true)
	require.NoError(t, err)

	dump := p.DumpMemo()
	require.NotEmpty(t, dump)
	assert.True(t, strings.Contains(dump, "ok"))
}
