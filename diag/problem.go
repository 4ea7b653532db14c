package diag

import (
	"fmt"
	"strings"

	"github.com/gnolang/mylang/lexer"
)

// Problem is a diagnosed failure located at the first character of the
// token where it was detected.
type Problem struct {
	Line        int
	Column      int
	Kind        lexer.FailureKind
	Description string
	SourceLine  string
}

// Position returns the 1-indexed location of the problem.
func (p Problem) Position() lexer.Position {
	return lexer.Position{Line: p.Line, Column: p.Column}
}

// String renders the problem as
//
//	<description> @(Line=<L>, Column=<C>)
//		<source line>
//		<spaces>^~~~ here
//
// The caret line is only emitted when the column lies on the source line.
func (p Problem) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s @(Line=%d, Column=%d)", p.Description, p.Line, p.Column)
	b.WriteString("\n\t")
	b.WriteString(p.SourceLine)
	if p.Column >= 1 && p.Column <= len(p.SourceLine) {
		b.WriteString("\n\t")
		b.WriteString(strings.Repeat(" ", p.Column-1))
		b.WriteString("^~~~ here")
	}
	return b.String()
}
