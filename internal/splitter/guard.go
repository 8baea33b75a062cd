package splitter

import "strings"

// emptyComment is dropped by the scanner without leaving anything behind.
const emptyComment = "/**/"

// Guard prepares a statement returned by Split for embedding in a new
// script that must split back into the same statement.
//
// Dropping comments can leave text behind that a second scan would read
// differently: a "--" now preceded by whitespace, a "/*" assembled from two
// halves, a DELIMITER keyword at a line start or a leading byte-order mark.
// Each of these gets an empty block comment in front of it. open reports
// whether the statement ends inside a quoted region, in which case nothing
// may be appended after it.
func Guard(stmt string) (guarded string, open bool) {
	s := &ParserState{source: stmt, terminator: DefaultTerminator}
	var b strings.Builder
	b.Grow(len(stmt))

	if strings.HasPrefix(stmt, byteOrderMark) {
		b.WriteString(emptyComment)
	}

	for s.pos < len(s.source) {
		if !s.quoted() {
			switch {
			case s.delimiterKeywordEnd() >= 0:
				b.WriteString(emptyComment)
			case s.peek(0) == '-' && s.peek(1) == '-' && (s.pos == 0 || isSpace(s.source[s.pos-1])):
				b.WriteString(emptyComment)
			case s.peek(0) == '/' && s.peek(1) == '*':
				b.WriteString("/" + emptyComment)
				s.pos++
				continue
			}
		}

		n := s.quoteStep()
		if n == 0 {
			n = 1
		}
		b.WriteString(s.source[s.pos : s.pos+n])
		s.pos += n
	}

	return b.String(), s.quoted()
}
