package lexer

import "fmt"

// Kind defines the different kinds of tokens produced by the scanner.
type Kind int

const (
	LBRACE   Kind = iota // '{'
	RBRACE               // '}'
	LPAREN               // '('
	RPAREN               // ')'
	NAME                 // identifier made of lower-case letters
	NUMBER               // run of decimal digits
	KEYWORD              // `if` or `val`
	OPERATOR             // =, ==, !=, <, <=, >, >=, ','
	ERROR                // unrecognized symbol
	EOF                  // end of input
)

func (k Kind) String() string {
	switch k {
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case NAME:
		return "NAME"
	case NUMBER:
		return "NUMBER"
	case KEYWORD:
		return "KEYWORD"
	case OPERATOR:
		return "OPERATOR"
	case ERROR:
		return "ERROR"
	case EOF:
		return "EOF"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var keywords = map[string]bool{
	"if":  true,
	"val": true,
}

// Token represents a single lexical token with its kind and literal text.
type Token struct {
	Kind    Kind
	Literal string
}

// Is reports whether the token has the given kind and literal.
func (t Token) Is(kind Kind, literal string) bool {
	return t.Kind == kind && t.Literal == literal
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Literal)
}

// Position is a 1-indexed location in the source.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
