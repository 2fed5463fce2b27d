package pegrat

import "regexp"

// Grammar is an arena of rule nodes plus a name table used to resolve
// RuleRef indirections. It is the static, build-time counterpart of
// parsival's dynamically-typed "declare a dataclass whose annotations
// are rule values" surface: a Go program builds one of these once,
// then hands it (plus a start RuleID) to a Parser.
//
// A *Grammar is immutable once parsing starts; Parser never mutates
// it. Multiple Parsers may share one *Grammar concurrently.
type Grammar struct {
	nodes []ruleNode
	names map[string]RuleID
}

// NewGrammar creates an empty arena. InstallBuiltins(g) should usually
// be called once on it before declaring grammar-specific rules, so that
// SPACE/NEWLINE/etc. are available as RuleRef("SPACE") targets.
func NewGrammar() *Grammar {
	return &Grammar{names: map[string]RuleID{}}
}

func (g *Grammar) add(n ruleNode) RuleID {
	id := RuleID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return id
}

func (g *Grammar) node(id RuleID) *ruleNode {
	if id < 0 || int(id) >= len(g.nodes) {
		panic(&SchemaError{Message: "rule id out of range"})
	}
	return &g.nodes[id]
}

// Named registers name as an alias for id, so Ref(name) resolves to
// it. Re-registering the same name is an error (SchemaError) — the
// compiler adapter relies on this to catch accidental rule-name
// collisions (mirrors gram_to_py.py's "Already used %r class" check).
func (g *Grammar) Named(name string, id RuleID) RuleID {
	if _, ok := g.names[name]; ok {
		panic(&SchemaError{Message: "rule name already defined: " + name})
	}
	g.names[name] = id
	g.node(id).name = name
	return id
}

// Lookup returns the RuleID registered under name, if any.
func (g *Grammar) Lookup(name string) (RuleID, bool) {
	id, ok := g.names[name]
	return id, ok
}

// Override rebinds an existing name to a different RuleID, bypassing
// Named's duplicate-registration check. It exists for generated code
// that post-processes a builtin install (e.g. swapping in a custom
// indentation-sensitive whitespace rule in place of the stock
// NO_LF_SPACE) — an ordinary grammar has no reason to call it.
func (g *Grammar) Override(name string, id RuleID) {
	g.names[name] = id
}

// Literal builds a rule that succeeds iff the text at pos begins with
// one of values, tried in the given order (first match wins, no
// longest-match preference — spec.md §4.2's tie-break rule). On
// success it yields the matched string itself.
func (g *Grammar) Literal(values ...string) RuleID {
	return g.add(ruleNode{kind: ruleKindLiteral, literals: values})
}

// EnumChoice is Literal's tagged sibling: values[i] must match at pos
// for the rule to yield tags[i] instead of the raw matched string.
// This is the build-time lowering of spec.md §3's EnumChoice sugar
// (Design Notes: "Enum-choice sugar can be lowered into a Choice over
// string literals at rule-build time").
func (g *Grammar) EnumChoice(values []string, tags []any) RuleID {
	if len(values) != len(tags) {
		panic(&SchemaError{Message: "EnumChoice: values/tags length mismatch"})
	}
	return g.add(ruleNode{kind: ruleKindLiteral, literals: values, values: tags})
}

// Regex builds a rule that matches pattern anchored at pos (i.e. the
// match must start exactly at pos, not merely occur somewhere after
// it) and yields convert(matchedText).
func (g *Grammar) Regex(pattern string, convert func(string) (any, error)) RuleID {
	return g.add(ruleNode{
		kind:      ruleKindRegex,
		pattern:   regexp.MustCompile(pattern),
		converter: convert,
	})
}

// RegexString is Regex with the identity converter, for the common
// case of just wanting the matched text back.
func (g *Grammar) RegexString(pattern string) RuleID {
	return g.Regex(pattern, func(s string) (any, error) { return s, nil })
}

// RegexNoSkipWS is Regex, but marks the rule whitespace-sensitive in
// the same way the builtin SPACE/NO_LF_SPACE rules are — exported for
// generated code that needs to define its own whitespace-sensitive
// rule (e.g. a custom indentation regex) without skipping leading
// whitespace out from under it.
func (g *Grammar) RegexNoSkipWS(pattern string, convert func(string) (any, error)) RuleID {
	return g.regexNoSkipWS(pattern, convert)
}

// regexNoSkipWS is Regex, but marks the rule whitespace-sensitive:
// the evaluator will not skip leading whitespace before attempting
// it. Used by builtins.go for SPACE, NO_LF_SPACE and ENDMARKER, and by
// the exported RegexNoSkipWS — skipping whitespace before trying to
// match whitespace would make SPACE and NO_LF_SPACE unable to observe
// what they're there to observe.
func (g *Grammar) regexNoSkipWS(pattern string, convert func(string) (any, error)) RuleID {
	id := g.Regex(pattern, convert)
	g.node(id).noSkipWS = true
	return id
}

// Choice builds an ordered-alternatives rule: items are tried
// strictly top to bottom, first success wins.
func (g *Grammar) Choice(items ...RuleID) RuleID {
	return g.add(ruleNode{kind: ruleKindChoice, items: items})
}

// Sequence builds a record rule: fields are matched in order into a
// record, then construct receives the non-hidden field values (in
// field order) and builds the final value. construct may be nil, in
// which case the sequence yields its visible values as a []any.
func (g *Grammar) Sequence(construct func([]any) (any, error), fields ...Field) RuleID {
	return g.add(ruleNode{kind: ruleKindSequence, fields: fields, construct: construct})
}

// Commit returns the zero-width marker rule form used as a Field's
// Rule to mark a cut point inside a Sequence. It is cheap to call
// repeatedly (all Commit "instances" behave identically); a single
// shared instance can be reused across many sequences.
func (g *Grammar) Commit() RuleID {
	return g.add(ruleNode{kind: ruleKindCommit})
}

// Repeat builds a greedy repetition of sub. min is 0 (`*`) or 1
// (`+`). If separator is not NoRule, it must match between successive
// elements; separator failure ends the repetition cleanly without
// rolling back the last matched element (spec.md §4.2). A separator
// that matches but is not followed by an element is given back, so a
// dangling trailing separator is left unconsumed.
func (g *Grammar) Repeat(sub RuleID, min int, separator RuleID) RuleID {
	if min != 0 && min != 1 {
		panic(&SchemaError{Message: "Repeat: min must be 0 or 1"})
	}
	return g.add(ruleNode{kind: ruleKindRepeat, sub: sub, min: min, separator: separator})
}

// Optional builds `sub?`: sub's value on success, or a nil sentinel
// if sub fails ordinarily. A committed failure from sub still
// propagates, since Optional is Choice(sub, Empty) sugar.
func (g *Grammar) Optional(sub RuleID) RuleID {
	return g.add(ruleNode{kind: ruleKindOptional, sub: sub})
}

// Not builds a negative lookahead: succeeds (yielding nil) iff sub
// fails at pos, without consuming input. Checked before whitespace
// skipping, per spec.md §4.1.
func (g *Grammar) Not(sub RuleID) RuleID {
	return g.add(ruleNode{kind: ruleKindNegLookahead, sub: sub})
}

// Lookahead builds a positive lookahead: succeeds iff sub succeeds at
// pos, without consuming input, yielding sub's value.
func (g *Grammar) Lookahead(sub RuleID) RuleID {
	return g.add(ruleNode{kind: ruleKindPosLookahead, sub: sub})
}

// Ref builds an indirection resolved against the Grammar's name table
// at evaluation time, not at build time — the mechanism that makes
// recursive and mutually-recursive (including left-recursive)
// grammars possible without forward-declaration gymnastics.
func (g *Grammar) Ref(name string) RuleID {
	return g.add(ruleNode{kind: ruleKindRef, refName: name})
}

// Here is a zero-width rule that always succeeds and yields the
// current cursor position (as Pos) without consuming input. Its
// semantics are an Open Question resolution recorded in DESIGN.md.
func (g *Grammar) Here() RuleID {
	return g.add(ruleNode{kind: ruleKindHere})
}
