package splitter

import "strings"

// ParserState is the complete state of one split call. A fresh value is
// built for every call, so concurrent splits never share anything.
type ParserState struct {
	source     string
	pos        int
	buf        strings.Builder
	terminator string

	inSingleQuote bool
	inDoubleQuote bool
	inBacktick    bool

	statements []Statement

	// stmtStart is the offset of the first non-blank byte in buf, or -1.
	stmtStart int
	// line is the line number at linePos; both only move forward.
	line    int
	linePos int
}

func newState(script string) *ParserState {
	return &ParserState{
		source:     trimBOM(script),
		terminator: DefaultTerminator,
		statements: []Statement{},
		stmtStart:  -1,
		line:       1,
	}
}

// run drives the scan loop. Structural tokens are only looked for outside
// quoted regions; after that the quote tracker gets a chance, and whatever
// neither claims is copied into the current statement.
func (s *ParserState) run() {
	for s.pos < len(s.source) {
		s.step()
	}
	s.flush()
}

// step performs one iteration of the scan loop.
func (s *ParserState) step() {
	if !s.quoted() && s.skipStructural() {
		return
	}
	if s.trackQuote() {
		return
	}
	s.appendN(1)
}

// quoted reports whether the cursor is inside any quoted region.
func (s *ParserState) quoted() bool {
	return s.inSingleQuote || s.inDoubleQuote || s.inBacktick
}

// peek returns the byte at pos+offset, or 0 past either end of the source.
func (s *ParserState) peek(offset int) byte {
	i := s.pos + offset
	if i < 0 || i >= len(s.source) {
		return 0
	}
	return s.source[i]
}

// appendN copies the next n bytes into the statement buffer and advances.
func (s *ParserState) appendN(n int) {
	end := s.pos + n
	if end > len(s.source) {
		end = len(s.source)
	}
	chunk := s.source[s.pos:end]
	if s.stmtStart < 0 {
		for i := 0; i < len(chunk); i++ {
			if !isSpace(chunk[i]) {
				s.stmtStart = s.pos + i
				break
			}
		}
	}
	s.buf.WriteString(chunk)
	s.pos = end
}

// flush emits the buffered statement if it is not blank and resets the buffer.
func (s *ParserState) flush() {
	stmt := strings.TrimSpace(s.buf.String())
	if stmt != "" {
		line := 1
		if s.stmtStart >= 0 {
			line = s.lineAt(s.stmtStart)
		}
		s.statements = append(s.statements, Statement{SQL: stmt, Line: line})
	}
	s.buf.Reset()
	s.stmtStart = -1
}

// lineAt converts an offset into a 1-indexed line number. Offsets passed in
// never decrease, so counting resumes from the previous answer.
func (s *ParserState) lineAt(offset int) int {
	if offset < s.linePos {
		return s.line
	}
	s.line += strings.Count(s.source[s.linePos:offset], "\n")
	s.linePos = offset
	return s.line
}
