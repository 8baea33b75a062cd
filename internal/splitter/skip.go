package splitter

import "strings"

// delimiterKeyword introduces a terminator change; matched case-insensitively.
const delimiterKeyword = "DELIMITER"

// skipStructural consumes a DELIMITER directive, a terminator, or a comment
// at the cursor. It must only be called outside quoted regions. The order of
// the checks is significant when a custom terminator overlaps a comment marker.
func (s *ParserState) skipStructural() bool {
	n := s.skipDelimiter()
	if n == 0 {
		n = s.matchTerminator()
	}
	if n == 0 {
		n = s.skipDashComment()
	}
	if n == 0 {
		n = s.skipHashComment()
	}
	if n == 0 {
		n = s.skipBlockComment()
	}
	s.pos += n
	return n > 0
}

// atLineStart reports whether the cursor is at the start of the input or
// right after a line break.
func (s *ParserState) atLineStart() bool {
	return s.pos == 0 || isLineBreak(s.source[s.pos-1])
}

// skipDelimiter handles "DELIMITER <token>" at the start of a line. The
// token may follow the keyword directly, as in "DELIMITER;". The whole line,
// line break included, is consumed; a blank token keeps the current
// terminator.
func (s *ParserState) skipDelimiter() int {
	end := s.delimiterKeywordEnd()
	if end < 0 {
		return 0
	}

	lineEnd := end
	for lineEnd < len(s.source) && !isLineBreak(s.source[lineEnd]) {
		lineEnd++
	}
	if token := strings.TrimSpace(s.source[end:lineEnd]); token != "" {
		s.terminator = token
	}

	next := lineEnd
	if next < len(s.source) {
		if s.source[next] == '\r' && next+1 < len(s.source) && s.source[next+1] == '\n' {
			next += 2
		} else {
			next++
		}
	}
	return next - s.pos
}

// delimiterKeywordEnd returns the offset just past a DELIMITER keyword that
// opens the line at the cursor, or -1.
func (s *ParserState) delimiterKeywordEnd() int {
	if !s.atLineStart() {
		return -1
	}
	i := s.pos
	for i < len(s.source) && (s.source[i] == ' ' || s.source[i] == '\t') {
		i++
	}
	end := i + len(delimiterKeyword)
	if end > len(s.source) || !strings.EqualFold(s.source[i:end], delimiterKeyword) {
		return -1
	}
	return end
}

// matchTerminator flushes the current statement when the active terminator
// starts at the cursor.
func (s *ParserState) matchTerminator() int {
	if !strings.HasPrefix(s.source[s.pos:], s.terminator) {
		return 0
	}
	s.flush()
	return len(s.terminator)
}

// skipDashComment measures a "--" comment. It only counts as a comment at the
// start of the input or after whitespace, so "a--b" stays an expression.
func (s *ParserState) skipDashComment() int {
	if s.peek(0) != '-' || s.peek(1) != '-' {
		return 0
	}
	if s.pos > 0 && !isSpace(s.source[s.pos-1]) {
		return 0
	}
	return s.restOfLine()
}

// skipHashComment measures a MySQL "#" comment.
func (s *ParserState) skipHashComment() int {
	if s.peek(0) != '#' {
		return 0
	}
	return s.restOfLine()
}

// skipBlockComment measures a "/* ... */" comment. Comments do not nest; an
// unterminated comment runs to the end of the input.
func (s *ParserState) skipBlockComment() int {
	if s.peek(0) != '/' || s.peek(1) != '*' {
		return 0
	}
	closing := strings.Index(s.source[s.pos+2:], "*/")
	if closing < 0 {
		return len(s.source) - s.pos
	}
	return closing + 4
}

// restOfLine returns the distance from the cursor past the next newline, or
// to the end of the input.
func (s *ParserState) restOfLine() int {
	nl := strings.IndexByte(s.source[s.pos:], '\n')
	if nl < 0 {
		return len(s.source) - s.pos
	}
	return nl + 1
}
