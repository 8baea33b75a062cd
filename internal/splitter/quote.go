package splitter

// trackQuote applies the quoting rules at the cursor. The order matters: an
// escape is consumed before the quote character it protects is looked at.
func (s *ParserState) trackQuote() bool {
	n := s.quoteStep()
	if n == 0 {
		return false
	}
	s.appendN(n)
	return true
}

// quoteStep runs the quote checks in order and returns the bytes claimed.
func (s *ParserState) quoteStep() int {
	n := s.consumeEscape()
	if n == 0 {
		n = s.toggleSingle()
	}
	if n == 0 {
		n = s.toggleDouble()
	}
	if n == 0 {
		n = s.toggleBacktick()
	}
	return n
}

// consumeEscape claims a backslash and the byte after it inside a single- or
// double-quoted string. Backtick identifiers have no backslash escapes.
func (s *ParserState) consumeEscape() int {
	if !s.inSingleQuote && !s.inDoubleQuote {
		return 0
	}
	if s.peek(0) == '\\' && s.pos+1 < len(s.source) {
		return 2
	}
	return 0
}

func (s *ParserState) toggleSingle() int {
	if s.peek(0) != '\'' || s.inDoubleQuote || s.inBacktick {
		return 0
	}
	return toggle(&s.inSingleQuote, s.peek(1) == '\'')
}

func (s *ParserState) toggleDouble() int {
	if s.peek(0) != '"' || s.inSingleQuote || s.inBacktick {
		return 0
	}
	return toggle(&s.inDoubleQuote, s.peek(1) == '"')
}

func (s *ParserState) toggleBacktick() int {
	if s.peek(0) != '`' || s.inSingleQuote || s.inDoubleQuote {
		return 0
	}
	s.inBacktick = !s.inBacktick
	return 1
}

// toggle flips a quote flag, except that a doubled quote inside the region
// is a literal quote and leaves the region open.
func toggle(inside *bool, doubled bool) int {
	if *inside && doubled {
		return 2
	}
	*inside = !*inside
	return 1
}
