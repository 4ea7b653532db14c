// Package parser turns mylang source text into a single top-level
// statement and the problems found while reading it.
//
// The grammar is LL(1) and dispatches on the first token of each statement:
//
//	Statement            := IfStatement | DeclarationStatement | FunctionCallStatement
//	IfStatement          := "if" Condition "{" Statement* "}"
//	Condition            := (Name|Number) Operator (Name|Number)
//	DeclarationStatement := "val" Name "=" Number
//	FunctionCallStatement:= Name "(" ArgList? ")"
//	ArgList              := (Name|Number) ("," (Name|Number))*
//
// Every rule returns a Result holding either the node it built or the
// failure that stopped it. Only the body of an if-statement recovers: the
// failure is handed to the diagnostics manager and, when it allows, the
// rest of the line is skipped and the next statement is attempted.
package parser
