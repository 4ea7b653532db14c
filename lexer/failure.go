package lexer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPrematureEOF is returned when the input ends while a token or a line
// is still required.
var ErrPrematureEOF = errors.New("premature end-of-file")

// ErrInvalidInput is returned when a scanner is built over empty input.
var ErrInvalidInput = errors.New("invalid input")

// FailureKind classifies why scanning or parsing failed.
type FailureKind int

const (
	_ FailureKind = iota
	// Lexical is an unrecognized symbol at the character level.
	Lexical
	// Syntax is a token that the grammar does not expect at this position.
	Syntax
	// Fatal is an unexpected end of input.
	Fatal
)

func (k FailureKind) String() string {
	switch k {
	case Lexical:
		return "lexical-error"
	case Syntax:
		return "syntax-error"
	case Fatal:
		return "fatal-error"
	default:
		return "unknown-error"
	}
}

// Failure is a typed failure reason. A failure with an empty message has
// already been diagnosed and only carries the fact that parsing stopped.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return f.Kind.String()
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	if f.Kind == Fatal {
		return ErrPrematureEOF
	}
	return nil
}

// Silent reports whether the failure was already diagnosed elsewhere.
func (f *Failure) Silent() bool {
	return f.Message == ""
}

func lexicalf(format string, args ...any) error {
	return &Failure{Kind: Lexical, Message: fmt.Sprintf(format, args...)}
}

// Syntaxf builds a syntax failure.
func Syntaxf(format string, args ...any) *Failure {
	return &Failure{Kind: Syntax, Message: fmt.Sprintf(format, args...)}
}

// Abort builds an empty fatal failure used to unwind once recovery has
// been ruled out.
func Abort() *Failure {
	return &Failure{Kind: Fatal}
}

func prematureEOF() error {
	return &Failure{Kind: Fatal, Message: "Premature end-of-file"}
}

// AsFailure converts err into a *Failure. Errors that are not failures are
// treated as fatal.
func AsFailure(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: Fatal, Message: err.Error()}
}

func expectedKinds(kinds []Kind) string {
	quoted := make([]string, len(kinds))
	for i, k := range kinds {
		quoted[i] = "`" + k.String() + "`"
	}
	return "Expected token of type " + strings.Join(quoted, " or ")
}
