package lexer

import (
	"fmt"
	"unicode/utf8"
)

// Scanner converts a line-split source buffer into tokens on demand.
//
// Tokens never span lines, but the whitespace skipped before a token may:
// when the end of a line is reached the scanner moves on to the next
// non-empty line.
type Scanner struct {
	state     *State
	onConsume func()
}

// New creates a scanner over source. Empty input, or input made only of
// line breaks, is rejected with ErrInvalidInput.
func New(source string) (*Scanner, error) {
	if source == "" {
		return nil, ErrInvalidInput
	}
	state := newState(source)
	if len(state.lines) == 0 {
		return nil, ErrInvalidInput
	}
	return &Scanner{state: state}, nil
}

// State returns the scanner state shared with the diagnostics manager.
func (s *Scanner) State() *State {
	return s.state
}

// OnConsume registers fn to be called every time the scanner makes forward
// progress: a token is consumed or the rest of a line is skipped.
// Peeking never triggers it.
func (s *Scanner) OnConsume(fn func()) {
	s.onConsume = fn
}

func (s *Scanner) progressed() {
	if s.onConsume != nil {
		s.onConsume()
	}
}

// AtEndOfInput reports whether the whole input has been consumed.
func (s *Scanner) AtEndOfInput() bool {
	return s.state.AtEndOfInput()
}

// ConsumeToken advances past the next token and returns it.
func (s *Scanner) ConsumeToken() (Token, error) {
	tok, err := s.scan()
	if err != nil {
		return tok, err
	}
	s.progressed()
	return tok, nil
}

// PeekToken returns the next token without moving the cursor. The start
// position of the peeked token is still recorded, so a problem raised
// about it points at the right place.
func (s *Scanner) PeekToken() (Token, error) {
	saved := s.state.snapshot()
	tok, err := s.scan()
	s.state.restore(saved)
	return tok, err
}

// ConsumeKind consumes the next token and checks that it has one of the
// given kinds.
func (s *Scanner) ConsumeKind(kinds ...Kind) (Token, error) {
	tok, err := s.ConsumeToken()
	if err != nil {
		return tok, err
	}
	for _, k := range kinds {
		if tok.Kind == k {
			return tok, nil
		}
	}
	return tok, Syntaxf("%s", expectedKinds(kinds))
}

// ConsumeLiteral consumes the next token and checks its literal text.
func (s *Scanner) ConsumeLiteral(literal string) (Token, error) {
	tok, err := s.ConsumeToken()
	if err != nil {
		return tok, err
	}
	if tok.Literal != literal {
		return tok, Syntaxf("Expected `%s`", literal)
	}
	return tok, nil
}

// AdvanceToNextLine drops the rest of the line holding the most recently
// scanned token and moves the cursor to the start of the next non-empty
// line. After a peek that crossed a line boundary that token sits past the
// cursor, and its line is the one dropped.
func (s *Scanner) AdvanceToNextLine() error {
	st := s.state
	line := max(st.cur.line, st.mark.line)
	if line == len(st.lines)-1 {
		return prematureEOF()
	}
	st.cur = cursor{line: line + 1}
	for st.cur.line < len(st.lines)-1 && st.currentLine() == "" {
		st.cur.line++
	}
	s.progressed()
	return nil
}

func (s *Scanner) scan() (Token, error) {
	if err := s.skipBlanks(); err != nil {
		return Token{Kind: EOF}, err
	}

	st := s.state
	st.mark = st.cur

	ch := st.char()
	switch {
	case isDigit(ch):
		return Token{Kind: NUMBER, Literal: s.scanRun(isDigit)}, nil
	case isAlpha(ch):
		word := s.scanRun(isAlpha)
		if keywords[word] {
			return Token{Kind: KEYWORD, Literal: word}, nil
		}
		return Token{Kind: NAME, Literal: word}, nil
	}

	st.cur.column++
	switch ch {
	case '(':
		return Token{Kind: LPAREN, Literal: "("}, nil
	case ')':
		return Token{Kind: RPAREN, Literal: ")"}, nil
	case '{':
		return Token{Kind: LBRACE, Literal: "{"}, nil
	case '}':
		return Token{Kind: RBRACE, Literal: "}"}, nil
	case ',':
		return Token{Kind: OPERATOR, Literal: ","}, nil
	case '>', '<', '=', '!':
		literal := string(ch)
		if !st.atEndOfLine() && st.char() == '=' {
			st.cur.column++
			literal += "="
		}
		return Token{Kind: OPERATOR, Literal: literal}, nil
	default:
		r, size := utf8.DecodeRuneInString(st.currentLine()[st.mark.column:])
		st.cur.column = st.mark.column + size
		return Token{Kind: ERROR, Literal: string(r)}, lexicalf("Unexpected symbol `%c`", r)
	}
}

// skipBlanks moves the cursor to the next non-blank character, crossing
// line boundaries. At the end of input the token mark is placed on the
// cursor so the failure points just past the last character.
func (s *Scanner) skipBlanks() error {
	st := s.state
	for {
		if st.atEndOfLine() {
			if st.onLastLine() {
				st.mark = st.cur
				return prematureEOF()
			}
			st.cur = cursor{line: st.cur.line + 1}
			continue
		}
		if !isBlank(st.char()) {
			return nil
		}
		st.cur.column++
	}
}

// scanRun accumulates the maximal run of characters on the current line
// that satisfy accept.
func (s *Scanner) scanRun(accept func(byte) bool) string {
	st := s.state
	line := st.currentLine()
	start := st.cur.column
	for !st.atEndOfLine() && accept(line[st.cur.column]) {
		st.cur.column++
	}
	return line[start:st.cur.column]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return ch >= 'a' && ch <= 'z'
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

// Tokenize scans the whole input and returns every token followed by an
// EOF token, or the first lexical failure.
func Tokenize(source string) ([]Token, error) {
	s, err := New(source)
	if err != nil {
		return nil, err
	}
	var tokens []Token
	for {
		tok, err := s.ConsumeToken()
		if err != nil {
			if AsFailure(err).Kind == Fatal {
				return append(tokens, Token{Kind: EOF}), nil
			}
			return tokens, fmt.Errorf("%s: %w", s.state.Position(), err)
		}
		tokens = append(tokens, tok)
	}
}
