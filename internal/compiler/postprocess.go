package compiler

import "regexp"

// anonymousFieldRe matches a generated anonymous-item field
// declaration that hasn't yet been marked hidden:
// `pegrat.Field{Name: "item_3", Rule: ...}` with no trailing
// `Hidden: true`.
var anonymousFieldRe = regexp.MustCompile(`(pegrat\.Field\{Name: "item_\d+", Rule: [^}]+?)\}`)

// PrivatizeAnonymousFields implements `grammar-generate --postprocess`,
// ported regexp-for-regexp from postprocess.py's
// privatize_anonymous_items: anonymous positional items (`item_1`,
// `item_2`, ...) are marked Hidden so their values are dropped from
// the constructed record instead of merely being unnamed.
func PrivatizeAnonymousFields(src string) string {
	return anonymousFieldRe.ReplaceAllString(src, `$1, Hidden: true}`)
}

// installBuiltinsRe locates the InstallBuiltins call generated code
// always makes, as the insertion point for an indentation-regex
// override.
var installBuiltinsRe = regexp.MustCompile(`(pegrat\.InstallBuiltins\(g\)\n)`)

// SwapIndentRegex implements `grammar-generate --indent EXPR`, the Go
// counterpart of custom_indent.py's add_indent_class/
// insert_indent_class: it rebinds NO_LF_SPACE to a custom
// whitespace-sensitive regex immediately after the builtins install,
// instead of injecting a CustomIndent subclass the way the Python
// generator does (this dialect has no INDENT/DEDENT tokens to feed —
// see DESIGN.md's open-question sidestep — so "custom indentation"
// here means only "a custom no-linefeed-whitespace regex").
func SwapIndentRegex(src, goRegexPattern string) string {
	override := "$1\tg.Override(\"NO_LF_SPACE\", g.RegexNoSkipWS(`" + goRegexPattern + "`, func(s string) (any, error) { return s, nil }))\n"
	return installBuiltinsRe.ReplaceAllString(src, override)
}
