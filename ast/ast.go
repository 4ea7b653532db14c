package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is either a Name or a Number.
type Value interface {
	isValue()
	String() string
}

// Name wraps a non-empty identifier.
type Name struct {
	Ident string
}

func (Name) isValue()         {}
func (n Name) String() string { return n.Ident }

// Number wraps an integer literal.
type Number struct {
	Value int
}

func (Number) isValue()         {}
func (n Number) String() string { return strconv.Itoa(n.Value) }

// Operator wraps the operator text.
type Operator struct {
	Symbol string
}

func (o Operator) String() string { return o.Symbol }

// Comparison reports whether the operator may appear in a condition.
// Assignment and the argument separator are the only operators that may not.
func (o Operator) Comparison() bool {
	return o.Symbol != "=" && o.Symbol != ","
}

// ConditionExpression is a single binary comparison.
type ConditionExpression struct {
	LHS      Value
	RHS      Value
	Operator Operator
}

func (c ConditionExpression) String() string {
	return c.LHS.String() + " " + c.Operator.String() + " " + c.RHS.String()
}

// Statement is one of *DeclarationStatement, *FunctionCallStatement or
// *IfStatement.
type Statement interface {
	isStmt()
	String() string
}

var (
	_ Statement = (*DeclarationStatement)(nil)
	_ Statement = (*FunctionCallStatement)(nil)
	_ Statement = (*IfStatement)(nil)
)

// DeclarationStatement represents `val name = number`.
type DeclarationStatement struct {
	Name  Name
	Value Number
}

func (*DeclarationStatement) isStmt() {}
func (s *DeclarationStatement) String() string {
	return fmt.Sprintf("val %s = %s", s.Name, s.Value)
}

// FunctionCallStatement represents `name(arg, ...)`. Arguments keep their
// source order.
type FunctionCallStatement struct {
	Name      Name
	Arguments []Value
}

func (*FunctionCallStatement) isStmt() {}
func (s *FunctionCallStatement) String() string {
	args := make([]string, len(s.Arguments))
	for i, arg := range s.Arguments {
		args[i] = arg.String()
	}
	return s.Name.String() + "(" + strings.Join(args, ", ") + ")"
}

// IfStatement represents `if condition { body }`.
type IfStatement struct {
	Condition ConditionExpression
	Body      []Statement
}

func (*IfStatement) isStmt() {}
func (s *IfStatement) String() string {
	if len(s.Body) == 0 {
		return "if " + s.Condition.String() + " {}"
	}
	body := make([]string, len(s.Body))
	for i, stmt := range s.Body {
		body[i] = stmt.String()
	}
	return "if " + s.Condition.String() + " { " + strings.Join(body, "; ") + " }"
}
