package ast

import (
	"fmt"
	"strings"
)

// Dump renders stmt as an indented tree, one node per line.
func Dump(stmt Statement) string {
	var b strings.Builder
	dump(&b, stmt, 0)
	return b.String()
}

func dump(b *strings.Builder, stmt Statement, depth int) {
	indent := strings.Repeat("  ", depth)
	switch s := stmt.(type) {
	case *DeclarationStatement:
		fmt.Fprintf(b, "%sDeclarationStatement\n", indent)
		fmt.Fprintf(b, "%s  name: %s\n", indent, s.Name)
		fmt.Fprintf(b, "%s  value: %s\n", indent, s.Value)
	case *FunctionCallStatement:
		fmt.Fprintf(b, "%sFunctionCallStatement\n", indent)
		fmt.Fprintf(b, "%s  name: %s\n", indent, s.Name)
		for _, arg := range s.Arguments {
			fmt.Fprintf(b, "%s  arg: %s %s\n", indent, valueKind(arg), arg)
		}
	case *IfStatement:
		fmt.Fprintf(b, "%sIfStatement\n", indent)
		fmt.Fprintf(b, "%s  condition: %s\n", indent, s.Condition)
		for _, inner := range s.Body {
			dump(b, inner, depth+1)
		}
	default:
		panic(fmt.Sprintf("ast: unexpected statement %T", stmt))
	}
}

func valueKind(v Value) string {
	switch v.(type) {
	case Name:
		return "name"
	case Number:
		return "number"
	default:
		panic(fmt.Sprintf("ast: unexpected value %T", v))
	}
}
