package lexer

import "strings"

// cursor is a zero-indexed (line, column) pair into the source lines.
type cursor struct {
	line   int
	column int
}

// State is the mutable scanner position over an immutable, line-split
// source buffer. It is shared by the scanner, which moves it, and the
// diagnostics manager, which reads it to locate problems.
type State struct {
	lines []string
	cur   cursor // next character to read
	mark  cursor // first character of the most recently scanned token
}

func newState(source string) *State {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	// trailing empty lines can never hold a token
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return &State{lines: lines}
}

// Position returns the 1-indexed position of the most recently scanned token.
func (s *State) Position() Position {
	return Position{Line: s.mark.line + 1, Column: s.mark.column + 1}
}

// LineText returns the source line holding the most recently scanned token.
func (s *State) LineText() string {
	return s.lines[s.mark.line]
}

// AtEndOfInput reports whether the cursor sits at the end of the last line.
func (s *State) AtEndOfInput() bool {
	return s.onLastLine() && s.atEndOfLine()
}

func (s *State) onLastLine() bool {
	return s.cur.line == len(s.lines)-1
}

func (s *State) atEndOfLine() bool {
	return s.cur.column >= len(s.lines[s.cur.line])
}

func (s *State) currentLine() string {
	return s.lines[s.cur.line]
}

func (s *State) char() byte {
	return s.lines[s.cur.line][s.cur.column]
}

func (s *State) snapshot() cursor {
	return s.cur
}

func (s *State) restore(c cursor) {
	s.cur = c
}
