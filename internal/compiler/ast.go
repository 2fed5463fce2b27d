// Package compiler implements the external grammar-compiler adapter:
// it reads a PEG dialect source file and emits Go source declaring a
// pegrat.Grammar that, once compiled and run, becomes the rule
// algebra for that grammar. It is an adapter in spec.md §1's sense —
// "need not share process state with the engine" — and deliberately
// depends on pegrat only through its public builder API.
package compiler

// The AST types below mirror peg_grammar.py's rule shapes, adapted
// from dynamically-typed dataclasses to a concrete Go tagged sum
// (interface{} fields type-switched on in compile.go), and with the
// INDENT/DEDENT-sensitive block form dropped per DESIGN.md's open-
// question sidestep: a Rule's continuation alternatives use an
// explicit leading '|' on their own line instead of an indented
// block, so there is no Indent/Dedent token pair to model.

// RegexLiteral is `r"pattern"` — a regex literal item.
type RegexLiteral struct {
	Pattern string
}

// Grouped is `( alts )` — a parenthesized sub-grammar, emitted as an
// auxiliary top-level rule by names.go.
type Grouped struct {
	Alts Alts
}

// Plain is one of Grouped, RegexLiteral, a bare NAME reference, or a
// quoted STRING literal. Represented as `any`; compile.go type-
// switches on *Grouped, *RegexLiteral, NameRef, StringLit.
type Plain = any

// NameRef is a bare identifier referencing another rule (or, if all
// uppercase, a builtin token rule).
type NameRef string

// StringLit is a quoted string literal item, already unescaped.
type StringLit string

// Quantifier is `item ?|*|+`.
type Quantifier struct {
	Node       Plain
	Quantifier string // "?", "*", or "+"
}

// SeparatedQuantifier is `sep.node+`.
type SeparatedQuantifier struct {
	Sep  Plain
	Node Plain
}

// BracketOpt is `[ alts ]` — optional-grouping sugar, distinct from
// Quantifier('?') in that it wraps a full Alts, not a single Plain.
type BracketOpt struct {
	Alts Alts
}

// Item is one of BracketOpt, Quantifier, SeparatedQuantifier, or
// Plain.
type Item = any

// Lookahead is `& atom` (positive) or `! atom` (negative).
type Lookahead struct {
	Negative bool
	Atom     Plain
}

// Cut is the bare `~` commit marker.
type Cut struct{}

// NamedItem is `name = item`, a bare Item, or a Lookahead/Cut. All
// three are represented as `any`; compile.go distinguishes them by
// type (NamedItemAssign vs. Item vs. Lookahead/Cut).
type NamedItemAssign struct {
	Name string
	Item Item
}

// Alt is one `|`-separated alternative: a run of NamedItems
// (whitespace-separated, no-linefeed-sensitive), optionally anchored
// with a trailing '$' requiring end-of-input.
type Alt struct {
	Items       []any // NamedItemAssign | Item | Lookahead | Cut
	EndAnchored bool
}

// Alts is one or more Alt separated by `|` on the same line (a single
// Alts never itself spans lines — MoreAlts is what adds more lines).
type Alts struct {
	Alts []Alt
}

// MoreAlts is a `|`-prefixed continuation line, possibly chained.
type MoreAlts struct {
	Alts     Alts
	MoreAlts *MoreAlts
}

// TypeAnnotation is `[Type]` or `[Type*]` following a rule name.
type TypeAnnotation struct {
	Type    string
	Pointer bool
}

// RuleName is a rule's declared name plus optional type annotation.
type RuleName struct {
	Name string
	Type *TypeAnnotation
}

// Rule is one grammar rule declaration: `name : alts` followed by zero
// or more `| alts` continuation lines.
type Rule struct {
	RuleName RuleName
	Alts     Alts
	MoreAlts *MoreAlts
}

// MetaTuple is an `@name value` meta declaration at the top of a
// grammar file (e.g. `@start Program`).
type MetaTuple struct {
	Name  string
	Value string // "" if the meta has no value
}

// Grammar is a whole parsed grammar file: its meta declarations plus
// one or more rule declarations.
type Grammar struct {
	Metas []MetaTuple
	Rules []Rule
}
