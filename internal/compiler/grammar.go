package compiler

import "github.com/peglang/pegrat"

// BuildDialectGrammar builds the bootstrap grammar for the PEG
// dialect itself, using pegrat's own builder API — the same engine
// this adapter emits code for parses the adapter's own input files.
// Grounded on peg_grammar.py's rule shapes, with the INDENT/DEDENT-
// sensitive block form replaced by an explicit leading '|' on each
// continuation line (see DESIGN.md's open-question sidestep), and
// Here used nowhere here — it is parsival's own bootstrap-grammar
// pseudo-rule, not this dialect's.
func BuildDialectGrammar() (*pegrat.Grammar, pegrat.RuleID) {
	g := pegrat.NewGrammar()
	pegrat.InstallBuiltins(g)

	nameRef := g.Ref("NAME")
	stringRef := g.Ref("STRING")
	newlineRef := g.Ref("NEWLINE")
	noSpaceRef := g.Ref("NO_SPACE")
	noLFSpaceRef := g.Ref("NO_LF_SPACE")
	endmarkerRef := g.Ref("ENDMARKER")

	// Plain <- Grouped / RegexLiteral / NAME / STRING
	grouped := g.Sequence(
		func(v []any) (any, error) { return Grouped{Alts: v[0].(Alts)}, nil },
		pegrat.Field{Name: "_open", Rule: g.Literal("("), Hidden: true},
		pegrat.Field{Name: "_commit", Rule: g.Commit(), Hidden: true},
		pegrat.Field{Name: "alts", Rule: g.Ref("Alts")},
		pegrat.Field{Name: "_close", Rule: g.Literal(")"), Hidden: true},
	)
	g.Named("Grouped", grouped)

	regexLiteral := g.Sequence(
		func(v []any) (any, error) { return RegexLiteral{Pattern: v[0].(string)}, nil },
		pegrat.Field{Name: "_r", Rule: g.Literal("r"), Hidden: true},
		pegrat.Field{Name: "_noSpace", Rule: noSpaceRef, Hidden: true},
		pegrat.Field{Name: "pattern", Rule: stringRef},
	)
	g.Named("RegexLiteral", regexLiteral)

	plainName := g.Sequence(
		func(v []any) (any, error) { return NameRef(v[0].(string)), nil },
		pegrat.Field{Name: "name", Rule: nameRef},
	)
	plainString := g.Sequence(
		func(v []any) (any, error) { return StringLit(v[0].(string)), nil },
		pegrat.Field{Name: "str", Rule: stringRef},
	)
	plain := g.Choice(grouped, regexLiteral, plainName, plainString)
	g.Named("Plain", plain)
	plainRef := g.Ref("Plain")

	// BracketOpt <- '[' ~ Alts ']'
	bracketOpt := g.Sequence(
		func(v []any) (any, error) { return BracketOpt{Alts: v[0].(Alts)}, nil },
		pegrat.Field{Name: "_open", Rule: g.Literal("["), Hidden: true},
		pegrat.Field{Name: "_commit", Rule: g.Commit(), Hidden: true},
		pegrat.Field{Name: "alts", Rule: g.Ref("Alts")},
		pegrat.Field{Name: "_close", Rule: g.Literal("]"), Hidden: true},
	)
	g.Named("BracketOpt", bracketOpt)

	// Quantifier <- Plain ('?' / '*' / '+')
	quantifier := g.Sequence(
		func(v []any) (any, error) {
			return Quantifier{Node: v[0], Quantifier: v[1].(string)}, nil
		},
		pegrat.Field{Name: "node", Rule: plainRef},
		pegrat.Field{Name: "quant", Rule: g.Literal("?", "*", "+")},
	)
	g.Named("Quantifier", quantifier)

	// SeparatedQuantifier <- Plain '.' Plain '+'
	sepQuantifier := g.Sequence(
		func(v []any) (any, error) {
			return SeparatedQuantifier{Sep: v[0], Node: v[1]}, nil
		},
		pegrat.Field{Name: "sep", Rule: plainRef},
		pegrat.Field{Name: "_dot", Rule: g.Literal("."), Hidden: true},
		pegrat.Field{Name: "node", Rule: plainRef},
		pegrat.Field{Name: "_plus", Rule: g.Literal("+"), Hidden: true},
	)
	g.Named("SeparatedQuantifier", sepQuantifier)

	item := g.Choice(bracketOpt, quantifier, sepQuantifier, plain)
	g.Named("Item", item)
	itemRef := g.Ref("Item")

	// LookaheadOrCut <- ('&' ~ Plain) / ('!' ~ Plain) / '~'
	lookaheadPos := g.Sequence(
		func(v []any) (any, error) { return Lookahead{Negative: false, Atom: v[0]}, nil },
		pegrat.Field{Name: "_amp", Rule: g.Literal("&"), Hidden: true},
		pegrat.Field{Name: "_commit", Rule: g.Commit(), Hidden: true},
		pegrat.Field{Name: "atom", Rule: plainRef},
	)
	lookaheadNeg := g.Sequence(
		func(v []any) (any, error) { return Lookahead{Negative: true, Atom: v[0]}, nil },
		pegrat.Field{Name: "_bang", Rule: g.Literal("!"), Hidden: true},
		pegrat.Field{Name: "_commit", Rule: g.Commit(), Hidden: true},
		pegrat.Field{Name: "atom", Rule: plainRef},
	)
	cut := g.Sequence(
		func(v []any) (any, error) { return Cut{}, nil },
		pegrat.Field{Name: "_tilde", Rule: g.Literal("~"), Hidden: true},
	)
	lookaheadOrCut := g.Choice(lookaheadPos, lookaheadNeg, cut)
	g.Named("LookaheadOrCut", lookaheadOrCut)

	// NamedItem <- (NAME '=' ~ Item) / Item / LookaheadOrCut
	namedAssign := g.Sequence(
		func(v []any) (any, error) { return NamedItemAssign{Name: v[0].(string), Item: v[1]}, nil },
		pegrat.Field{Name: "name", Rule: nameRef},
		pegrat.Field{Name: "_eq", Rule: g.Literal("="), Hidden: true},
		pegrat.Field{Name: "_commit", Rule: g.Commit(), Hidden: true},
		pegrat.Field{Name: "item", Rule: itemRef},
	)
	namedItem := g.Choice(namedAssign, item, lookaheadOrCut)
	g.Named("NamedItem", namedItem)

	// Alt <- NamedItem+ (no-linefeed-space separated) '$'?
	alt := g.Sequence(
		func(v []any) (any, error) {
			items := v[0].([]any)
			return Alt{Items: items, EndAnchored: v[1] != nil}, nil
		},
		pegrat.Field{Name: "items", Rule: g.Repeat(g.Ref("NamedItem"), 1, noLFSpaceRef)},
		pegrat.Field{Name: "ending", Rule: g.Optional(g.Literal("$"))},
	)
	g.Named("Alt", alt)

	// Alts <- Alt ('|' Alt)*
	alts := g.Sequence(
		func(v []any) (any, error) {
			raw := v[0].([]any)
			list := make([]Alt, len(raw))
			for i, a := range raw {
				list[i] = a.(Alt)
			}
			return Alts{Alts: list}, nil
		},
		pegrat.Field{Name: "alts", Rule: g.Repeat(g.Ref("Alt"), 1, g.Literal("|"))},
	)
	g.Named("Alts", alts)

	// MoreAlts <- '|' Alts NEWLINE MoreAlts?
	moreAlts := g.Sequence(
		func(v []any) (any, error) {
			ma := MoreAlts{Alts: v[0].(Alts)}
			if v[1] != nil {
				inner := v[1].(MoreAlts)
				ma.MoreAlts = &inner
			}
			return ma, nil
		},
		pegrat.Field{Name: "_pipe", Rule: g.Literal("|"), Hidden: true},
		pegrat.Field{Name: "alts", Rule: g.Ref("Alts")},
		pegrat.Field{Name: "_nl", Rule: newlineRef, Hidden: true},
		pegrat.Field{Name: "more", Rule: g.Optional(g.Ref("MoreAlts"))},
	)
	g.Named("MoreAlts", moreAlts)

	// Type <- '[' NAME '*'? ']'
	typeAnn := g.Sequence(
		func(v []any) (any, error) {
			return TypeAnnotation{Type: v[0].(string), Pointer: v[1] != nil}, nil
		},
		pegrat.Field{Name: "_open", Rule: g.Literal("["), Hidden: true},
		pegrat.Field{Name: "type", Rule: nameRef},
		pegrat.Field{Name: "pointer", Rule: g.Optional(g.Literal("*"))},
		pegrat.Field{Name: "_close", Rule: g.Literal("]"), Hidden: true},
	)
	g.Named("Type", typeAnn)

	// RuleName <- NAME Type?
	ruleName := g.Sequence(
		func(v []any) (any, error) {
			rn := RuleName{Name: v[0].(string)}
			if v[1] != nil {
				t := v[1].(TypeAnnotation)
				rn.Type = &t
			}
			return rn, nil
		},
		pegrat.Field{Name: "name", Rule: nameRef},
		pegrat.Field{Name: "type", Rule: g.Optional(g.Ref("Type"))},
	)
	g.Named("RuleName", ruleName)

	// Rule <- RuleName ':' Alts NEWLINE MoreAlts?
	rule := g.Sequence(
		func(v []any) (any, error) {
			r := Rule{RuleName: v[0].(RuleName), Alts: v[1].(Alts)}
			if v[2] != nil {
				ma := v[2].(MoreAlts)
				r.MoreAlts = &ma
			}
			return r, nil
		},
		pegrat.Field{Name: "rulename", Rule: g.Ref("RuleName")},
		pegrat.Field{Name: "_colon", Rule: g.Literal(":"), Hidden: true},
		pegrat.Field{Name: "alts", Rule: g.Ref("Alts")},
		pegrat.Field{Name: "_nl", Rule: newlineRef, Hidden: true},
		pegrat.Field{Name: "more", Rule: g.Optional(g.Ref("MoreAlts"))},
	)
	g.Named("Rule", rule)

	// MetaTuple <- '@' NAME (NAME / STRING)? NEWLINE
	metaTuple := g.Sequence(
		func(v []any) (any, error) {
			mt := MetaTuple{Name: v[0].(string)}
			if v[1] != nil {
				mt.Value = v[1].(string)
			}
			return mt, nil
		},
		pegrat.Field{Name: "_at", Rule: g.Literal("@"), Hidden: true},
		pegrat.Field{Name: "name", Rule: nameRef},
		pegrat.Field{Name: "value", Rule: g.Optional(g.Choice(nameRef, stringRef))},
		pegrat.Field{Name: "_nl", Rule: newlineRef, Hidden: true},
	)
	g.Named("MetaTuple", metaTuple)

	// Grammar <- MetaTuple* Rule+
	grammar := g.Sequence(
		func(v []any) (any, error) {
			rawMetas := v[0].([]any)
			metas := make([]MetaTuple, len(rawMetas))
			for i, m := range rawMetas {
				metas[i] = m.(MetaTuple)
			}
			rawRules := v[1].([]any)
			rules := make([]Rule, len(rawRules))
			for i, r := range rawRules {
				rules[i] = r.(Rule)
			}
			return Grammar{Metas: metas, Rules: rules}, nil
		},
		pegrat.Field{Name: "metas", Rule: g.Repeat(g.Ref("MetaTuple"), 0, pegrat.NoRule)},
		pegrat.Field{Name: "rules", Rule: g.Repeat(g.Ref("Rule"), 1, pegrat.NoRule)},
	)
	g.Named("Grammar", grammar)

	// Start <- Grammar ENDMARKER
	start := g.Sequence(
		func(v []any) (any, error) { return v[0], nil },
		pegrat.Field{Name: "grammar", Rule: g.Ref("Grammar")},
		pegrat.Field{Name: "_end", Rule: endmarkerRef, Hidden: true},
	)
	g.Named("Start", start)

	return g, start
}
