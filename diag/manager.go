package diag

import (
	"github.com/gnolang/mylang/lexer"
)

// Locator gives the manager read access to the scanner position.
type Locator interface {
	Position() lexer.Position
	LineText() string
	AtEndOfInput() bool
}

// reportState controls whether the next detected problem is recorded.
type reportState int

const (
	armed reportState = iota
	disarmed
)

func (s reportState) String() string {
	if s == armed {
		return "Armed"
	}
	return "Disarmed"
}

// Manager accumulates problems, decides whether parsing can recover from
// them and suppresses the cascade of reports a single fault produces while
// it unwinds through nested grammar rules.
//
// Once a problem is recorded the manager is disarmed; it is armed again
// only by Progress, which the parser wires to the scanner: a consumed token
// or a skipped line.
type Manager struct {
	loc         Locator
	state       reportState
	unrecovered bool
	problems    []Problem
}

// NewManager creates an armed manager reading positions from loc.
func NewManager(loc Locator) *Manager {
	return &Manager{loc: loc, state: armed}
}

// Progress re-arms the manager. It is the only transition back to Armed.
func (m *Manager) Progress() {
	m.state = armed
}

// CanRecover reports whether parsing may continue after the problems seen
// so far. Once recovery is ruled out it stays ruled out.
func (m *Manager) CanRecover() bool {
	return !m.unrecovered
}

// ReportSyntax records a syntax problem. It is recoverable unless the
// cursor already sits at the end of input.
func (m *Manager) ReportSyntax(message string) bool {
	return m.report(lexer.Syntax, message)
}

// ReportFatal records a problem after which parsing cannot continue.
func (m *Manager) ReportFatal(message string) bool {
	return m.report(lexer.Fatal, message)
}

// Report records f according to its kind and returns whether a new
// problem was added. Lexical problems recover like syntax problems.
func (m *Manager) Report(f *lexer.Failure) bool {
	switch f.Kind {
	case lexer.Fatal:
		return m.ReportFatal(f.Message)
	case lexer.Syntax:
		return m.ReportSyntax(f.Message)
	default:
		return m.report(f.Kind, f.Message)
	}
}

// Abort records f, keeping its kind, and rules out any further recovery.
// It is used when the top-level statement fails.
func (m *Manager) Abort(f *lexer.Failure) bool {
	m.unrecovered = true
	if f.Silent() {
		return false
	}
	return m.record(f.Kind, f.Message)
}

func (m *Manager) report(kind lexer.FailureKind, message string) bool {
	recorded := m.record(kind, message)
	if kind == lexer.Fatal || m.loc.AtEndOfInput() {
		m.unrecovered = true
	}
	return recorded
}

// record appends a problem at the current position unless the manager is
// disarmed or the failure was already diagnosed.
func (m *Manager) record(kind lexer.FailureKind, message string) bool {
	if m.state != armed || message == "" {
		return false
	}
	pos := m.loc.Position()
	m.problems = append(m.problems, Problem{
		Line:        pos.Line,
		Column:      pos.Column,
		Kind:        kind,
		Description: message,
		SourceLine:  m.loc.LineText(),
	})
	m.state = disarmed
	return true
}

// Problems returns a copy of the problems recorded so far, in order.
func (m *Manager) Problems() []Problem {
	out := make([]Problem, len(m.problems))
	copy(out, m.problems)
	return out
}
