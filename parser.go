package pegrat

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/hashset"
)

// Parser drives one parse of one input string against one Grammar.
// It is not safe for concurrent use — spec.md §5: "One Parser
// instance owns the cursor, memo table, LR stack, and heads map; it
// is not safe for concurrent use from multiple threads." Multiple
// Parsers may run concurrently against the same *Grammar, since a
// Grammar is read-only once built.
type Parser struct {
	g      *Grammar
	cur    *cursor
	memo   *memoTable
	tracer Tracer
	cfg    *Config
}

// NewParser builds a Parser bound to g, configured with NewConfig's
// defaults. Pass a Tracer to observe rule-attempt events (see
// tracer.go); nil disables tracing regardless of "trace.enabled".
func NewParser(g *Grammar, tracer Tracer) *Parser {
	return NewParserWithConfig(g, tracer, NewConfig())
}

// NewParserWithConfig is NewParser, but bound to a caller-supplied
// Config instead of the defaults. "trace.enabled" gates whether
// tracer ever observes rule attempts (a non-nil tracer with
// trace.enabled=false stays silent); "parse.raise_on_unconsumed"
// supplies ParseWithDefaults' behavior.
func NewParserWithConfig(g *Grammar, tracer Tracer, cfg *Config) *Parser {
	if tracer == nil {
		tracer = noopTracer{}
	}
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Parser{g: g, tracer: tracer, cfg: cfg}
}

// ParseWithDefaults is Parse, but takes raiseOnUnconsumed from the
// Parser's Config ("parse.raise_on_unconsumed") instead of an
// explicit argument.
func (p *Parser) ParseWithDefaults(start RuleID, text string) (any, error) {
	return p.Parse(start, text, p.cfg.GetBool("parse.raise_on_unconsumed"))
}

// Parse resets the parser and runs start against text. raiseOnUnconsumed
// mirrors spec.md §6: when true, trailing bytes after a successful
// parse of start are reported as *UnconsumedInputError rather than
// silently discarded.
func (p *Parser) Parse(start RuleID, text string, raiseOnUnconsumed bool) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SchemaError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	p.cur = newCursor(strings.TrimSpace(text))
	p.memo = newMemoTable()

	val, applyErr := p.applyRule(start, p.cur.pos)
	if applyErr != nil {
		pf := asParseFailure(applyErr)
		return nil, pf
	}
	if raiseOnUnconsumed && !p.cur.atEnd() {
		line, col := p.cur.li.LineCol(p.cur.pos)
		return nil, &UnconsumedInputError{Pos: p.cur.pos, Line: line, Col: col}
	}
	return val, nil
}

// ParsePartial is Parse with raiseOnUnconsumed = false, per spec.md
// §6's parse_partial.
func (p *Parser) ParsePartial(start RuleID, text string) (any, error) {
	return p.Parse(start, text, false)
}

// resolveRef follows RuleRef indirection until it lands on a concrete
// rule form. Memoization, the LR stack, and head bookkeeping all key
// on the resolved id — not the Ref node's own id — so that every
// reference to the same named rule shares one identity, the way a
// Python grammar's repeated use of a class name does.
func (p *Parser) resolveRef(id RuleID) RuleID {
	for {
		n := p.g.node(id)
		if n.kind != ruleKindRef {
			return id
		}
		target, ok := p.g.Lookup(n.refName)
		if !ok {
			panic(&SchemaError{Message: "unresolved rule reference: " + n.refName})
		}
		id = target
	}
}

// applyRule is the packrat driver (PEPM'08 apply_rule_inner, folded
// together with the outer apply_rule since Go reports failure via a
// returned error rather than a raised exception). Every rule
// application in the engine goes through here.
//
// On any failure it restores the cursor to pos before returning —
// the single centralized backtracking-cleanliness point that stands
// in for parsival's scattered `with self.backtrack():` blocks. Every
// failure eventually unwinds through some applyRule call whose pos
// is the correct restore point, so centralizing the reset here is
// equivalent to (and simpler than) resetting it at each call site.
func (p *Parser) applyRule(id RuleID, pos Pos) (any, error) {
	id = p.resolveRef(id)
	if p.cfg.GetBool("trace.enabled") {
		p.tracer.Attempt(p.g.node(id).name, pos)
	}

	m := p.recall(id, pos)
	if m == nil {
		lr := &lrSeed{rule: id}
		p.memo.pushLR(lr)
		key := memoKey{id, pos}
		entry := &memoEntry{lr: lr, endPos: pos}
		p.memo.set(key, entry)

		val, evalErr := p.tryRule(id)
		p.memo.popLR()
		entry.endPos = p.cur.pos

		if lr.head != nil {
			lr.seed = &seedResult{ok: evalErr == nil, value: val, failure: evalErr}
			ansVal, ansErr := p.lrAnswer(id, pos, entry)
			if ansErr != nil {
				p.cur.pos = pos
			}
			return ansVal, ansErr
		}

		entry.lr = nil
		if evalErr != nil {
			entry.ok = false
			entry.failure = evalErr
			p.cur.pos = pos
			return nil, evalErr
		}
		entry.ok = true
		entry.value = val
		return val, nil
	}

	p.cur.pos = m.endPos
	if m.lr != nil {
		p.setupLR(id, m.lr)
		if m.lr.seed == nil {
			return nil, p.failAt(pos, "left-recursive rule has no seed yet")
		}
		if !m.lr.seed.ok {
			p.cur.pos = pos
			return nil, m.lr.seed.failure
		}
		return m.lr.seed.value, nil
	}
	if !m.ok {
		p.cur.pos = pos
		return nil, m.failure
	}
	return m.value, nil
}

// recall is PEPM'08's recall: outside of any active left-recursion
// growth at pos it is a plain memo lookup, but while a head is
// installed at pos it suppresses rules not participating in that
// cycle, and re-evaluates (once per growth round) any rule still
// pending in head.evalRules.
func (p *Parser) recall(rule RuleID, pos Pos) *memoEntry {
	key := memoKey{rule, pos}
	m, found := p.memo.get(key)
	head, hasHead := p.memo.heads[pos]
	if !hasHead || head == nil {
		if found {
			return m
		}
		return nil
	}
	if !found && rule != head.rule && !head.involvedRules.Contains(rule) {
		return &memoEntry{ok: false, failure: p.failAt(pos, "rule not involved in active left recursion")}
	}
	if head.evalRules.Contains(rule) {
		head.evalRules.Remove(rule)
		val, err := p.tryRule(rule)
		if m == nil {
			m = &memoEntry{}
			p.memo.set(key, m)
		}
		m.lr = nil
		if err != nil {
			m.ok = false
			m.failure = err
		} else {
			m.ok = true
			m.value = val
			m.failure = nil
		}
		m.endPos = p.cur.pos
	}
	return m
}

// setupLR links the LR stack frames between the current top and lr
// to a shared head, and records every rule in between as "involved"
// in the cycle lr is about to grow.
func (p *Parser) setupLR(rule RuleID, lr *lrSeed) {
	if lr.head == nil {
		lr.head = newLRHead(rule)
	}
	frame := p.memo.lrTop
	for frame != nil && frame.head != lr.head {
		frame.head = lr.head
		lr.head.involvedRules.Add(frame.rule)
		frame = frame.nextInLR
	}
}

// lrAnswer resolves the seed recorded for a just-completed base-case
// evaluation: if this frame isn't the head of its own cycle, the
// caller further up the stack owns growth. If it is, and the base
// case succeeded, growth begins.
func (p *Parser) lrAnswer(rule RuleID, pos Pos, m *memoEntry) (any, error) {
	lr := m.lr
	head := lr.head
	if head.rule != rule {
		if !lr.seed.ok {
			return nil, lr.seed.failure
		}
		return lr.seed.value, nil
	}
	m.lr = nil
	m.ok = lr.seed.ok
	m.value = lr.seed.value
	m.failure = lr.seed.failure
	if !m.ok {
		return nil, m.failure
	}
	return p.growLR(rule, pos, m, head)
}

// growLR repeatedly re-evaluates rule from pos, keeping the result
// only when it strictly advances past the previous best end
// position. It terminates the instant an iteration fails to advance
// — bounded by len(text), per spec.md §4.3 — or produces a failure
// (ordinary or committed; both stop growth per the Commit-during-LR
// open-question resolution in DESIGN.md).
func (p *Parser) growLR(rule RuleID, pos Pos, m *memoEntry, head *lrHead) (any, error) {
	p.memo.heads[pos] = head
	for {
		p.cur.pos = pos
		head.evalRules = hashset.New()
		head.involvedRules.Each(func(_ int, v interface{}) { head.evalRules.Add(v) })

		val, err := p.tryRule(rule)
		if err != nil || p.cur.pos <= m.endPos {
			break
		}
		m.ok = true
		m.value = val
		m.failure = nil
		m.endPos = p.cur.pos
	}
	delete(p.memo.heads, pos)
	p.cur.pos = m.endPos
	if !m.ok {
		return nil, m.failure
	}
	return m.value, nil
}

func (p *Parser) failAt(pos Pos, format string, args ...any) error {
	line, col := p.cur.li.LineCol(pos)
	return &ParseFailure{Pos: pos, Line: line, Col: col, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) failHere(format string, args ...any) error {
	return p.failAt(p.cur.pos, format, args...)
}

// tryRule is the rule evaluator (spec.md §4.2): a dispatch on rule
// form, applied at the parser's current position. It never consults
// or mutates the memo table directly — that is applyRule's job; this
// is the pure "what does this one rule form do" half.
func (p *Parser) tryRule(id RuleID) (any, error) {
	n := p.g.node(id)

	if n.kind == ruleKindNegLookahead {
		start := p.cur.pos
		_, err := p.applyRule(n.sub, start)
		p.cur.pos = start
		if err == nil {
			return nil, p.failAt(start, "expected %q not to match", p.g.node(n.sub).name)
		}
		return nil, nil
	}

	if !n.noSkipWS {
		p.cur.skipWhitespace()
	}

	switch n.kind {
	case ruleKindLiteral:
		for i, lit := range n.literals {
			if p.cur.hasPrefix(lit) {
				p.cur.pos += Pos(len(lit))
				if n.values != nil {
					return n.values[i], nil
				}
				return lit, nil
			}
		}
		return nil, p.failHere("expected one of %v", n.literals)

	case ruleKindRegex:
		rest := p.cur.remaining()
		loc := n.pattern.FindStringIndex(rest)
		if loc == nil || loc[0] != 0 {
			return nil, p.failHere("expected regex %s to match", n.pattern.String())
		}
		matched := rest[:loc[1]]
		p.cur.pos += Pos(loc[1])
		return n.converter(matched)

	case ruleKindChoice:
		start := p.cur.pos
		for _, item := range n.items {
			val, err := p.applyRule(item, start)
			if err == nil {
				return val, nil
			}
			if cf, ok := isCommitted(err); ok {
				return nil, cf.inner
			}
		}
		return nil, p.failHere("no alternative matched")

	case ruleKindSequence:
		committed := false
		values := make([]any, 0, len(n.fields))
		for _, f := range n.fields {
			if p.g.node(f.Rule).kind == ruleKindCommit {
				committed = true
				continue
			}
			val, err := p.applyRule(f.Rule, p.cur.pos)
			if err != nil {
				if committed {
					return nil, &committedFailure{inner: asParseFailure(err)}
				}
				return nil, err
			}
			if !f.Hidden {
				values = append(values, val)
			}
		}
		if n.construct == nil {
			return values, nil
		}
		return n.construct(values)

	case ruleKindRepeat:
		var values []any
		afterLast := p.cur.pos
		for {
			elemStart := p.cur.pos
			val, err := p.applyRule(n.sub, elemStart)
			if err != nil {
				// A separator not followed by an element is given back.
				p.cur.pos = afterLast
				break
			}
			values = append(values, val)
			afterLast = p.cur.pos
			if n.separator != NoRule {
				sepStart := p.cur.pos
				if _, sepErr := p.applyRule(n.separator, sepStart); sepErr != nil {
					break
				}
			}
		}
		if len(values) < n.min {
			return nil, p.failHere("expected at least %d repetitions", n.min)
		}
		return values, nil

	case ruleKindOptional:
		start := p.cur.pos
		val, err := p.applyRule(n.sub, start)
		if err == nil {
			return val, nil
		}
		if cf, ok := isCommitted(err); ok {
			return nil, cf.inner
		}
		return nil, nil

	case ruleKindPosLookahead:
		start := p.cur.pos
		val, err := p.applyRule(n.sub, start)
		p.cur.pos = start
		if err != nil {
			return nil, err
		}
		return val, nil

	case ruleKindHere:
		return p.cur.pos, nil

	default:
		panic(&SchemaError{Message: "rule form not directly evaluable (Commit/Ref outside their expected context)"})
	}
}
