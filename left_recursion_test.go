package pegrat

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PlusExpr is the record produced by a direct-left-recursive match of
// Expr ← Expr '+' Num | Num.
type PlusExpr struct {
	Left  any
	Right int
}

func buildDirectLeftRecursiveGrammar() (*Grammar, RuleID) {
	g := NewGrammar()
	InstallBuiltins(g)

	num := g.Regex(`[0-9]+`, func(s string) (any, error) { return strconv.Atoi(s) })
	g.Named("Num", num)

	plus := g.Sequence(
		func(v []any) (any, error) { return PlusExpr{Left: v[0], Right: v[1].(int)}, nil },
		Field{Name: "left", Rule: g.Ref("Expr")},
		Field{Name: "_plus", Rule: g.Literal("+"), Hidden: true},
		Field{Name: "right", Rule: num},
	)
	expr := g.Choice(plus, num)
	g.Named("Expr", expr)
	return g, expr
}

func TestDirectLeftRecursionGrowsLeftAssociatively(t *testing.T) {
	g, start := buildDirectLeftRecursiveGrammar()

	p := NewParser(g, nil)
	val, err := p.Parse(start, "1+2+3", true)
	require.NoError(t, err)

	want := PlusExpr{Left: PlusExpr{Left: 1, Right: 2}, Right: 3}
	if diff := cmp.Diff(want, val); diff != "" {
		t.Errorf("parsed tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDirectLeftRecursionBaseCase(t *testing.T) {
	g, start := buildDirectLeftRecursiveGrammar()

	p := NewParser(g, nil)
	val, err := p.Parse(start, "42", true)
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

// AX is the record produced by the indirect-left-recursion scenario
// A ← B 'x' | 'a', B ← A.
type AX struct {
	Inner any
}

func buildIndirectLeftRecursiveGrammar() (*Grammar, RuleID) {
	g := NewGrammar()
	InstallBuiltins(g)

	bx := g.Sequence(
		func(v []any) (any, error) { return AX{Inner: v[0]}, nil },
		Field{Name: "b", Rule: g.Ref("B")},
		Field{Name: "_x", Rule: g.Literal("x"), Hidden: true},
	)
	a := g.Literal("a")
	aChoice := g.Choice(bx, a)
	g.Named("A", aChoice)
	g.Named("B", g.Ref("A"))

	return g, aChoice
}

func TestIndirectLeftRecursionBaseCase(t *testing.T) {
	g, start := buildIndirectLeftRecursiveGrammar()
	p := NewParser(g, nil)
	val, err := p.Parse(start, "a", true)
	require.NoError(t, err)
	assert.Equal(t, "a", val)
}

func TestIndirectLeftRecursionGrowsThroughTheMutualCycle(t *testing.T) {
	g, start := buildIndirectLeftRecursiveGrammar()

	p := NewParser(g, nil)
	val, err := p.Parse(start, "ax", true)
	require.NoError(t, err)
	if diff := cmp.Diff(AX{Inner: "a"}, val); diff != "" {
		t.Errorf("parsed tree mismatch (-want +got):\n%s", diff)
	}

	g2, start2 := buildIndirectLeftRecursiveGrammar()
	p2 := NewParser(g2, nil)
	val2, err2 := p2.Parse(start2, "axx", true)
	require.NoError(t, err2)
	want2 := AX{Inner: AX{Inner: "a"}}
	if diff := cmp.Diff(want2, val2); diff != "" {
		t.Errorf("parsed tree mismatch (-want +got):\n%s", diff)
	}
}

func TestLeftRecursionFailsCleanlyWithNoBaseCase(t *testing.T) {
	// An input that never reaches the 'a' base case must fail rather
	// than loop forever or panic: the first evaluation leaves a failed
	// seed, so no growth is attempted at all.
	g, start := buildIndirectLeftRecursiveGrammar()
	p := NewParser(g, nil)
	_, err := p.Parse(start, "xxx", true)
	require.Error(t, err)
}

// Paren ← '(' Paren ')' | Num is plain (non-left) recursion nested
// several hundred levels deep, exercising the engine's native Go call
// stack rather than the LR seed-growing machinery.
func buildNestedParenGrammar() (*Grammar, RuleID) {
	g := NewGrammar()
	InstallBuiltins(g)

	num := g.Regex(`[0-9]+`, func(s string) (any, error) { return strconv.Atoi(s) })

	seq := g.Sequence(
		func(v []any) (any, error) { return v[0], nil },
		Field{Name: "_open", Rule: g.Literal("("), Hidden: true},
		Field{Name: "inner", Rule: g.Ref("Paren")},
		Field{Name: "_close", Rule: g.Literal(")"), Hidden: true},
	)
	paren := g.Choice(seq, num)
	g.Named("Paren", paren)
	return g, paren
}

func TestDeeplyNestedNonLeftRecursiveGrammar(t *testing.T) {
	g, start := buildNestedParenGrammar()

	const depth = 400
	input := ""
	for i := 0; i < depth; i++ {
		input += "("
	}
	input += "7"
	for i := 0; i < depth; i++ {
		input += ")"
	}

	p := NewParser(g, nil)
	val, err := p.Parse(start, input, true)
	require.NoError(t, err)
	assert.Equal(t, 7, val)
}
