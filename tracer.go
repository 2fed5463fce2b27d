package pegrat

import "github.com/rs/zerolog"

// Tracer observes rule-attempt events as the packrat driver works.
// It re-homes the one idea worth keeping from the teacher's VM
// execution tracing (oracle.go) — "let something outside the engine
// watch what it's doing" — after the VM-specific parts (grammar-
// constrained decoding oracle state) were dropped as out of scope.
type Tracer interface {
	// Attempt is called once per applyRule entry, before the memo
	// lookup. name is the rule's registered name, or "" for anonymous
	// sub-rules (groups, repeat elements, etc).
	Attempt(name string, pos Pos)
}

type noopTracer struct{}

func (noopTracer) Attempt(string, Pos) {}

// ZerologTracer emits one debug-level event per rule attempt via a
// caller-supplied zerolog.Logger. Useful for diagnosing runaway
// left-recursion growth or surprising backtracking during grammar
// development; negligible overhead when the logger's level excludes
// debug.
type ZerologTracer struct {
	log zerolog.Logger
}

func NewZerologTracer(log zerolog.Logger) *ZerologTracer {
	return &ZerologTracer{log: log}
}

func (t *ZerologTracer) Attempt(name string, pos Pos) {
	if name == "" {
		name = "<anon>"
	}
	t.log.Debug().Str("rule", name).Int("pos", int(pos)).Msg("rule attempt")
}
