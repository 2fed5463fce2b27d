package compiler

import (
	"fmt"
	"strconv"

	"github.com/peglang/pegrat"
)

// Compile translates a parsed Grammar AST into Go source declaring a
// pegrat.Grammar builder function, the package-level equivalent of
// gram_to_py.py's process_rule/make_annotation/process_item — ported
// from dataclass-declaration emission to builder-API call emission.
//
// pkg is the generated file's package name; funcName names the
// exported build function (signature
// `func funcName() (*pegrat.Grammar, pegrat.RuleID)`). cfg supplies
// "compiler.synthetic_name_digest_len" — the same Config type the
// engine itself reads ("trace.enabled", "parse.raise_on_unconsumed"
// in parser.go), so a caller that owns one Config can drive both the
// engine and this adapter from it.
func Compile(ast Grammar, pkg, funcName string, cfg *pegrat.Config) (string, error) {
	c := &compiler{
		names: newNameTable(cfg.GetInt("compiler.synthetic_name_digest_len")),
		out:   newOutputWriter("\t"),
	}

	c.out.writel("// Code generated by grammar-generate. DO NOT EDIT.")
	c.out.writel("")
	c.out.writel("package " + pkg)
	c.out.writel("")
	c.out.writel(`import "github.com/peglang/pegrat"`)
	c.out.writel("")
	c.out.writel("func " + funcName + "() (*pegrat.Grammar, pegrat.RuleID) {")
	c.out.indent()
	c.out.writeil("g := pegrat.NewGrammar()")
	c.out.writeil("pegrat.InstallBuiltins(g)")
	c.out.writeil("")

	for _, meta := range ast.Metas {
		c.out.writeil(fmt.Sprintf("// @%s %s", meta.Name, meta.Value))
	}

	startName := ""
	for _, m := range ast.Metas {
		if m.Name == "start" {
			startName = m.Value
		}
	}
	if startName == "" && len(ast.Rules) > 0 {
		startName = ast.Rules[0].RuleName.Name
	}

	for _, r := range ast.Rules {
		if err := c.compileRule(r); err != nil {
			return "", err
		}
	}

	c.out.writeil("")
	c.out.writeil(fmt.Sprintf("return g, g.Ref(%s)", strconv.Quote(startName)))
	c.out.unindent()
	c.out.writel("}")
	return c.out.String(), nil
}

type compiler struct {
	names *nameTable
	out   *outputWriter
}

// compileRule emits the declarations for one top-level grammar rule,
// per spec.md §4.5's naming rules: a direct Choice when every
// alternative is a single bare item, otherwise one Sequence per
// alternative (numbered Foo_1, Foo_2, ... when there's more than
// one) unioned under the rule's own name.
func (c *compiler) compileRule(r Rule) error {
	name := r.RuleName.Name
	if err := c.names.declare(name); err != nil {
		return err
	}
	alts := flattenAlts(r)

	allSingle := true
	for _, a := range alts {
		if len(a.Items) != 1 || a.EndAnchored {
			allSingle = false
			break
		}
	}

	if allSingle {
		exprs := make([]string, len(alts))
		for i, a := range alts {
			expr, err := c.translateItem(name, a.Items[0])
			if err != nil {
				return err
			}
			exprs[i] = expr
		}
		c.out.writeil(fmt.Sprintf("%s := g.Choice(%s)", goVar(name), joinCommaExpr(exprs)))
		c.out.writeil(fmt.Sprintf("g.Named(%s, %s)", strconv.Quote(name), goVar(name)))
		return nil
	}

	if len(alts) == 1 {
		return c.compileSequenceAlt(name, name, alts[0], true)
	}

	subNames := make([]string, len(alts))
	for i, a := range alts {
		subName := c.names.subClassName(name, i+1)
		if err := c.compileSequenceAlt(subName, subName, a, false); err != nil {
			return err
		}
		subNames[i] = subName
	}
	refs := make([]string, len(subNames))
	for i, sn := range subNames {
		refs[i] = fmt.Sprintf("g.Ref(%s)", strconv.Quote(sn))
	}
	c.out.writeil(fmt.Sprintf("%s := g.Choice(%s)", goVar(name), joinCommaExpr(refs)))
	c.out.writeil(fmt.Sprintf("g.Named(%s, %s)", strconv.Quote(name), goVar(name)))
	return nil
}

// compileSequenceAlt emits one Sequence rule for a single alternative
// with more than one item (or an EndAnchored single item), named
// ruleName and registered under registerName.
func (c *compiler) compileSequenceAlt(ruleName, registerName string, a Alt, topLevel bool) error {
	fields := make([]string, 0, len(a.Items)+1)
	itemCount := 0
	for _, raw := range a.Items {
		switch it := raw.(type) {
		case NamedItemAssign:
			expr, err := c.translateItem(ruleName, it.Item)
			if err != nil {
				return err
			}
			fields = append(fields, fmt.Sprintf(
				"pegrat.Field{Name: %s, Rule: %s}", strconv.Quote(it.Name), expr))
		case Cut:
			fields = append(fields, `pegrat.Field{Name: "_commit", Rule: g.Commit(), Hidden: true}`)
		default:
			itemCount++
			expr, err := c.translateItem(ruleName, raw)
			if err != nil {
				return err
			}
			fields = append(fields, fmt.Sprintf(
				"pegrat.Field{Name: %s, Rule: %s}", strconv.Quote(fmt.Sprintf("item_%d", itemCount)), expr))
		}
	}
	if a.EndAnchored {
		fields = append(fields, `pegrat.Field{Name: "_end", Rule: g.Ref("ENDMARKER"), Hidden: true}`)
	}

	c.out.writeil(fmt.Sprintf("%s := g.Sequence(nil,", goVar(ruleName)))
	c.out.indent()
	for _, f := range fields {
		c.out.writeil(f + ",")
	}
	c.out.unindent()
	c.out.writeil(")")
	c.out.writeil(fmt.Sprintf("g.Named(%s, %s)", strconv.Quote(registerName), goVar(ruleName)))
	return nil
}

// translateItem compiles one Item/Plain AST node into a Go expression
// evaluating to a pegrat.RuleID, synthesizing and emitting auxiliary
// top-level rules for Grouped/BracketOpt sub-grammars as needed.
func (c *compiler) translateItem(outerName string, item any) (string, error) {
	switch v := item.(type) {
	case NamedItemAssign:
		return c.translateItem(outerName, v.Item)

	case NameRef:
		name := string(v)
		if name == "NONE" {
			return "g.Optional(g.Not(g.Here()))", nil // zero-width always-succeeds sentinel
		}
		return fmt.Sprintf("g.Ref(%s)", strconv.Quote(name)), nil

	case StringLit:
		return fmt.Sprintf("g.Literal(%s)", strconv.Quote(string(v))), nil

	case RegexLiteral:
		return fmt.Sprintf("g.RegexString(%s)", strconv.Quote(v.Pattern)), nil

	case Grouped:
		return c.translateNestedAlts(outerName, v.Alts)

	case BracketOpt:
		ref, err := c.translateNestedAlts(outerName, v.Alts)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("g.Optional(%s)", ref), nil

	case Quantifier:
		node, err := c.translateItem(outerName, v.Node)
		if err != nil {
			return "", err
		}
		switch v.Quantifier {
		case "?":
			return fmt.Sprintf("g.Optional(%s)", node), nil
		case "*":
			return fmt.Sprintf("g.Repeat(%s, 0, pegrat.NoRule)", node), nil
		case "+":
			return fmt.Sprintf("g.Repeat(%s, 1, pegrat.NoRule)", node), nil
		}
		return "", fmt.Errorf("unknown quantifier %q", v.Quantifier)

	case SeparatedQuantifier:
		sep, err := c.translateItem(outerName, v.Sep)
		if err != nil {
			return "", err
		}
		node, err := c.translateItem(outerName, v.Node)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("g.Repeat(%s, 1, %s)", node, sep), nil

	case Lookahead:
		atom, err := c.translateItem(outerName, v.Atom)
		if err != nil {
			return "", err
		}
		if v.Negative {
			return fmt.Sprintf("g.Not(%s)", atom), nil
		}
		return fmt.Sprintf("g.Lookahead(%s)", atom), nil

	case Cut:
		return "g.Commit()", nil

	default:
		return "", fmt.Errorf("translateItem: unhandled AST node %T", v)
	}
}

// translateNestedAlts synthesizes (or reuses, via the name table's
// content-digest cache) an auxiliary top-level rule for a group's or
// bracket-optional's inner Alts, and returns a g.Ref expression for
// it — spec.md §4.5's "sub-rules introduced by parenthesized groups
// ... receive synthetic names derived from the outer name".
func (c *compiler) translateNestedAlts(outerName string, alts Alts) (string, error) {
	digestSource := reconstructAlts(alts)
	auxName := c.names.syntheticName(outerName, digestSource)

	allSingle := true
	for _, a := range alts.Alts {
		if len(a.Items) != 1 || a.EndAnchored {
			allSingle = false
			break
		}
	}

	if allSingle {
		exprs := make([]string, len(alts.Alts))
		for i, a := range alts.Alts {
			expr, err := c.translateItem(outerName, a.Items[0])
			if err != nil {
				return "", err
			}
			exprs[i] = expr
		}
		c.out.writeil(fmt.Sprintf("%s := g.Choice(%s)", goVar(auxName), joinCommaExpr(exprs)))
		c.out.writeil(fmt.Sprintf("g.Named(%s, %s)", strconv.Quote(auxName), goVar(auxName)))
		return fmt.Sprintf("g.Ref(%s)", strconv.Quote(auxName)), nil
	}

	if len(alts.Alts) == 1 {
		if err := c.compileSequenceAlt(auxName, auxName, alts.Alts[0], false); err != nil {
			return "", err
		}
		return fmt.Sprintf("g.Ref(%s)", strconv.Quote(auxName)), nil
	}

	subNames := make([]string, len(alts.Alts))
	for i, a := range alts.Alts {
		sub := c.names.subClassName(auxName, i+1)
		if err := c.compileSequenceAlt(sub, sub, a, false); err != nil {
			return "", err
		}
		subNames[i] = sub
	}
	refs := make([]string, len(subNames))
	for i, sn := range subNames {
		refs[i] = fmt.Sprintf("g.Ref(%s)", strconv.Quote(sn))
	}
	c.out.writeil(fmt.Sprintf("%s := g.Choice(%s)", goVar(auxName), joinCommaExpr(refs)))
	c.out.writeil(fmt.Sprintf("g.Named(%s, %s)", strconv.Quote(auxName), goVar(auxName)))
	return fmt.Sprintf("g.Ref(%s)", strconv.Quote(auxName)), nil
}

func flattenAlts(r Rule) []Alt {
	out := append([]Alt{}, r.Alts.Alts...)
	for m := r.MoreAlts; m != nil; m = m.MoreAlts {
		out = append(out, m.Alts.Alts...)
	}
	return out
}

func reconstructAlts(alts Alts) string {
	// A lightweight, order-sensitive textual fingerprint — doesn't need
	// to be valid dialect syntax, only stable and content-distinguishing.
	keys := make([]string, 0, len(alts.Alts))
	for _, a := range alts.Alts {
		keys = append(keys, fmt.Sprintf("%+v", a))
	}
	s := ""
	for _, k := range keys {
		s += k + "|"
	}
	return s
}

func goVar(name string) string {
	return "r" + sanitizeIdent(name)
}

func sanitizeIdent(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			out = append(out, c)
		} else {
			out = append(out, '_')
		}
	}
	return string(out)
}

func joinCommaExpr(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += it
	}
	return out
}
