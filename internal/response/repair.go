package response

import "strings"

// Pass is one named repair step. Every pass leaves valid JSON untouched and is
// idempotent: applying it twice gives the same text as applying it once.
type Pass struct {
	Name  string
	Apply func(string) string
}

var passes = []Pass{
	{Name: "trim_trailing_separators", Apply: TrimTrailingSeparators},
	{Name: "insert_structural_separators", Apply: InsertStructuralSeparators},
	{Name: "insert_literal_separators", Apply: InsertLiteralSeparators},
}

// Passes returns the repair pipeline in the order Repair applies it
func Passes() []Pass {
	return append([]Pass(nil), passes...)
}

// Repair runs every pass over the candidate. It is best effort: the result may
// still fail to parse.
func Repair(candidate string) string {
	for _, p := range passes {
		candidate = p.Apply(candidate)
	}
	return candidate
}

// TrimTrailingSeparators drops a comma that is followed only by whitespace and a
// closing brace or bracket.
func TrimTrailingSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	sc := scanner{src: s}
	for sc.next() {
		if !sc.inString && sc.ch == ',' {
			if c := sc.peekNonSpace(); c == '}' || c == ']' {
				continue
			}
		}
		b.WriteByte(sc.ch)
	}
	return b.String()
}

// InsertStructuralSeparators adds the comma missing between a closing brace,
// bracket or quote and a following quote, brace or bracket.
func InsertStructuralSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	sc := scanner{src: s}
	for sc.next() {
		b.WriteByte(sc.ch)
		if sc.closedString || (!sc.inString && (sc.ch == '}' || sc.ch == ']')) {
			if isStructuralStart(sc.peekNonSpace()) {
				b.WriteByte(',')
			}
		}
	}
	return b.String()
}

// InsertLiteralSeparators adds the comma missing after a bare number, true, false
// or null that is directly followed by the start of another value.
func InsertLiteralSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	sc := scanner{src: s}
	for sc.next() {
		if sc.inString || sc.closedString || !isLiteralStart(sc.ch) {
			b.WriteByte(sc.ch)
			continue
		}
		start := sc.pos
		for sc.pos+1 < len(s) && isLiteralByte(s[sc.pos+1]) {
			sc.pos++
		}
		token := s[start : sc.pos+1]
		b.WriteString(token)
		if isLiteral(token) && isValueStart(sc.peekNonSpace()) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

// scanner walks the text byte by byte and tracks whether it is inside a string
// literal. Multi-byte UTF-8 sequences never contain ASCII bytes, so byte-level
// checks are safe.
type scanner struct {
	src          string
	pos          int
	ch           byte
	started      bool
	inString     bool
	escaped      bool
	closedString bool // ch is the quote that ended a string
}

func (sc *scanner) next() bool {
	if sc.started {
		sc.pos++
	}
	sc.started = true
	if sc.pos >= len(sc.src) {
		return false
	}
	sc.ch = sc.src[sc.pos]
	sc.closedString = false
	switch {
	case sc.escaped:
		sc.escaped = false
	case sc.inString && sc.ch == '\\':
		sc.escaped = true
	case sc.ch == '"':
		if sc.inString {
			sc.closedString = true
		}
		sc.inString = !sc.inString
	}
	return true
}

// peekNonSpace returns the next non-whitespace byte after the current one, or 0
func (sc *scanner) peekNonSpace() byte {
	for i := sc.pos + 1; i < len(sc.src); i++ {
		switch c := sc.src[i]; c {
		case ' ', '\t', '\n', '\r':
		default:
			return c
		}
	}
	return 0
}

func isStructuralStart(c byte) bool {
	return c == '"' || c == '{' || c == '['
}

func isValueStart(c byte) bool {
	return isStructuralStart(c) || c == '-' || (c >= '0' && c <= '9') || c == 't' || c == 'f' || c == 'n'
}

func isLiteralStart(c byte) bool {
	return c == '-' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isLiteralByte(c byte) bool {
	return isLiteralStart(c) || c == '.' || c == '+'
}

func isLiteral(token string) bool {
	switch token {
	case "true", "false", "null":
		return true
	}
	c := token[0]
	return c == '-' || (c >= '0' && c <= '9')
}
