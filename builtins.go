package pegrat

import "strings"

// identity is the pass-through regex converter: yield the matched
// text unchanged.
func identity(s string) (any, error) { return s, nil }

// InstallBuiltins registers the ready-made rules spec.md §6 promises
// every rule-authoring surface: SPACE, NO_LF_SPACE, NEWLINE, NO_SPACE,
// ENDMARKER, NAME, STRING. Grounded field-for-field on
// helper_rules.py's SPACE/NO_LF_SPACE/NEWLINE/NO_SPACE/ENDMARKER
// dataclasses; NAME and STRING are this engine's own token rules,
// named but not bodied in the source reviewed.
//
// Call this once on a freshly built Grammar before declaring
// grammar-specific rules, so RuleRef("SPACE") and friends resolve.
func InstallBuiltins(g *Grammar) {
	space := g.regexNoSkipWS(`\s+`, identity)
	g.Named("SPACE", space)

	noLF := g.regexNoSkipWS(`[^\S\n]+`, identity)
	g.Named("NO_LF_SPACE", noLF)

	newline := g.Literal("\n")
	g.Named("NEWLINE", newline)

	noSpace := g.Not(space)
	g.Named("NO_SPACE", noSpace)

	endmarker := g.regexNoSkipWS(`\z`, func(string) (any, error) { return nil, nil })
	g.Named("ENDMARKER", endmarker)

	name := g.RegexString(`[A-Za-z_][A-Za-z0-9_]*`)
	g.Named("NAME", name)

	str := g.Regex(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`, unquoteString)
	g.Named("STRING", str)
}

// unquoteString strips the surrounding quote characters and resolves
// the small set of backslash escapes a grammar source file needs:
// \\, \", \', \n, \t. Anything else passes through literally (no hard
// failure on an unrecognized escape — this is a rule converter, not a
// full string-literal grammar of its own).
func unquoteString(matched string) (any, error) {
	if len(matched) < 2 {
		return matched, nil
	}
	inner := matched[1 : len(matched)-1]
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			default:
				b.WriteByte('\\')
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
