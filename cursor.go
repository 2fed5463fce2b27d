package pegrat

import "sort"

// Pos is a byte offset into the input text being parsed. It is the
// unit the memo table keys on and the unit every rule's start/end
// range is expressed in.
type Pos int

// lineIndex maps byte offsets to 1-based (line, column) pairs,
// adapted from the teacher's Range/Span line-tracking: line starts
// are computed once up front and then binary-searched, rather than
// rescanning the input on every error report.
type lineIndex struct {
	src        string
	lineStarts []int
}

func newLineIndex(src string) *lineIndex {
	starts := []int{0}
	for i, r := range src {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{src: src, lineStarts: starts}
}

// LineCol returns the 1-based line and column of byte offset pos.
func (li *lineIndex) LineCol(pos Pos) (line, col int) {
	p := int(pos)
	i := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > p
	})
	line = i // lineStarts[0]==0 is line 1, so the search index is the 1-based line number
	lineStart := li.lineStarts[i-1]
	col = p - lineStart + 1
	return line, col
}

// cursor is the mutable read head a Parser advances over the input
// text. It never shrinks src or copies it; every rule works against
// byte offsets into the same backing string.
type cursor struct {
	src string
	pos Pos
	li  *lineIndex
}

func newCursor(src string) *cursor {
	return &cursor{src: src, pos: 0, li: newLineIndex(src)}
}

func (c *cursor) atEnd() bool { return int(c.pos) >= len(c.src) }

func (c *cursor) remaining() string {
	if int(c.pos) >= len(c.src) {
		return ""
	}
	return c.src[c.pos:]
}

func (c *cursor) hasPrefix(s string) bool {
	p := int(c.pos)
	if p+len(s) > len(c.src) {
		return false
	}
	return c.src[p:p+len(s)] == s
}

// skipWhitespace advances pos past any run of ASCII whitespace,
// including newlines. It is idempotent and never fails, so it is
// always safe to call again on retry after backtracking — spec's
// "whitespace-skipping never undoes on rule failure" tie-break.
func (c *cursor) skipWhitespace() {
	p := int(c.pos)
	for p < len(c.src) {
		switch c.src[p] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p++
		default:
			c.pos = Pos(p)
			return
		}
	}
	c.pos = Pos(p)
}
