package pegrat

import "sync"

// Schema is the rule-introspection component (spec.md §4.4): it
// turns a sequence rule's static field list into the ordered
// metadata other components need — the external grammar compiler
// when deciding what to name a generated field, a debug dumper or
// CLI pretty-printer when deciding what to show a human.
//
// A Grammar already stores each Sequence's Field list directly (no
// reflection needed, unlike parsival's runtime type-annotation
// inspection), so Schema's job is narrower here: it caches the
// *derived* view — visible (non-hidden) field names — once per rule,
// mirroring parsival's get_annotations cache dict but scoped to one
// rewrite instead of a whole class's annotations.
type Schema struct {
	g     *Grammar
	once  []sync.Once
	cache []visibleFields
}

type visibleFields struct {
	names []string
	idx   []int // index into the full Fields() slice for each visible name
}

// NewSchema builds an introspection view over g. g must not grow
// further (no more Grammar.* builder calls) after this is called,
// since the cache is sized to the arena's length at construction.
func NewSchema(g *Grammar) *Schema {
	n := len(g.nodes)
	return &Schema{g: g, once: make([]sync.Once, n), cache: make([]visibleFields, n)}
}

// Kind reports a human-readable name for id's rule form, for
// diagnostics and codegen comments.
func (s *Schema) Kind(id RuleID) string {
	switch s.g.node(id).kind {
	case ruleKindLiteral:
		return "Literal"
	case ruleKindRegex:
		return "Regex"
	case ruleKindChoice:
		return "Choice"
	case ruleKindSequence:
		return "Sequence"
	case ruleKindRepeat:
		return "Repeat"
	case ruleKindOptional:
		return "Optional"
	case ruleKindNegLookahead:
		return "NegLookahead"
	case ruleKindPosLookahead:
		return "PosLookahead"
	case ruleKindCommit:
		return "Commit"
	case ruleKindRef:
		return "RuleRef"
	case ruleKindHere:
		return "Here"
	default:
		return "Unknown"
	}
}

// Name returns the name id was registered under via Grammar.Named, or
// "" for an anonymous rule.
func (s *Schema) Name(id RuleID) string { return s.g.node(id).name }

// Fields returns the full ordered field list of a Sequence rule (both
// hidden and visible). It panics with SchemaError if id is not a
// Sequence — callers are expected to check Kind first, or to only
// call this from contexts that already know the rule is a sequence
// (e.g. the compiler's per-rule codegen path).
func (s *Schema) Fields(id RuleID) []Field {
	n := s.g.node(id)
	if n.kind != ruleKindSequence {
		panic(&SchemaError{Message: "Fields: rule " + s.Kind(id) + " is not a Sequence"})
	}
	return n.fields
}

// VisibleFieldNames returns, for a Sequence rule, the names of its
// non-hidden fields in declaration order — the shape a constructed
// record actually exposes once hidden fields (commit markers,
// punctuation) are dropped. Computed once per rule and cached.
func (s *Schema) VisibleFieldNames(id RuleID) []string {
	s.once[id].Do(func() {
		fields := s.Fields(id)
		var vf visibleFields
		for i, f := range fields {
			if f.Hidden {
				continue
			}
			vf.names = append(vf.names, f.Name)
			vf.idx = append(vf.idx, i)
		}
		s.cache[id] = vf
	})
	return s.cache[id].names
}
