package pegrat

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DumpMemo renders the live memo table as a deterministic, sorted
// listing — one "rule@pos -> ok (end=N)", "rule@pos -> fail: reason"
// or "rule@pos -> <growing>" line per entry — for debugging a
// grammar under development. Only meaningful while called from
// inside a Tracer callback or immediately after Parse returns, since
// the memoTable is discarded at the start of the next Parse call.
//
// map iteration order is unspecified in Go, and memoKey isn't a
// cmp.Ordered type stdlib's maps/slices can sort directly — exactly
// the gap golang.org/x/exp's pre-generics-stdlib maps/slices package
// existed to fill, so this is still the natural tool for it even
// alongside the stdlib packages of the same name.
func (p *Parser) DumpMemo() string {
	if p.memo == nil {
		return ""
	}
	keys := maps.Keys(p.memo.entries)
	slices.SortFunc(keys, func(a, b memoKey) bool {
		if a.pos != b.pos {
			return a.pos < b.pos
		}
		return a.rule < b.rule
	})

	var b strings.Builder
	for _, k := range keys {
		e := p.memo.entries[k]
		name := p.g.node(k.rule).name
		if name == "" {
			name = fmt.Sprintf("#%d", k.rule)
		}
		switch {
		case e.lr != nil:
			fmt.Fprintf(&b, "%s@%d -> <growing>\n", name, k.pos)
		case e.ok:
			fmt.Fprintf(&b, "%s@%d -> ok (end=%d)\n", name, k.pos, e.endPos)
		default:
			fmt.Fprintf(&b, "%s@%d -> fail: %s\n", name, k.pos, e.failure)
		}
	}
	return b.String()
}
