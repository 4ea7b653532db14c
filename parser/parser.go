package parser

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/gnolang/mylang/ast"
	"github.com/gnolang/mylang/diag"
	"github.com/gnolang/mylang/lexer"
)

// ErrInvalidInput is returned by New for empty source text.
var ErrInvalidInput = lexer.ErrInvalidInput

// CompilationResult is the outcome of a parse: the root statement, absent
// when parsing failed, and the problems diagnosed along the way.
type CompilationResult struct {
	root     ast.Statement
	problems []diag.Problem
}

// Root returns the top-level statement, or nil when parsing failed.
func (r *CompilationResult) Root() ast.Statement {
	return r.root
}

// Problems returns the diagnosed problems in the order they were found.
func (r *CompilationResult) Problems() []diag.Problem {
	out := make([]diag.Problem, len(r.problems))
	copy(out, r.problems)
	return out
}

// Failed reports whether no top-level statement could be built.
func (r *CompilationResult) Failed() bool {
	return r.root == nil
}

// HasProblems reports whether any problem was diagnosed, including the
// ones recovered from inside if-blocks.
func (r *CompilationResult) HasProblems() bool {
	return len(r.problems) > 0
}

// Parser builds exactly one top-level statement from source text.
// A Parser is single use and must not be shared between goroutines.
type Parser struct {
	scanner *lexer.Scanner
	diag    *diag.Manager
	logger  *zap.Logger
	result  *CompilationResult
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger makes the parser trace recoveries at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a parser over source.
func New(source string, opts ...Option) (*Parser, error) {
	s, err := lexer.New(source)
	if err != nil {
		return nil, fmt.Errorf("creating scanner: %w", err)
	}
	p := &Parser{
		scanner: s,
		diag:    diag.NewManager(s.State()),
		logger:  zap.NewNop(),
	}
	s.OnConsume(p.diag.Progress)
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse parses source with a fresh parser.
func Parse(source string, opts ...Option) (*CompilationResult, error) {
	p, err := New(source, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(), nil
}

// Parse parses the single top-level statement. Anything after it is left
// unread. Subsequent calls return the same result.
func (p *Parser) Parse() *CompilationResult {
	if p.result != nil {
		return p.result
	}

	var root ast.Statement
	stmt := p.parseStatement()
	if stmt.Failed() {
		p.diag.Abort(stmt.Failure())
		p.logger.Debug("top-level statement failed",
			zap.Stringer("kind", stmt.Failure().Kind),
			zap.String("reason", stmt.Failure().Message))
	} else {
		root = stmt.Get()
	}

	p.result = &CompilationResult{root: root, problems: p.diag.Problems()}
	return p.result
}

func (p *Parser) parseStatement() Result[ast.Statement] {
	if !p.diag.CanRecover() {
		return fail[ast.Statement](lexer.Abort())
	}

	tok, err := p.scanner.PeekToken()
	if err != nil {
		return failWith[ast.Statement](err)
	}

	switch {
	case tok.Kind == lexer.NAME:
		return p.parseFunctionCall()
	case tok.Is(lexer.KEYWORD, "if"):
		return p.parseIf()
	case tok.Is(lexer.KEYWORD, "val"):
		return p.parseDeclaration()
	default:
		return fail[ast.Statement](lexer.Syntaxf("Unexpected token `%s`", tok.Literal))
	}
}

func (p *Parser) parseIf() Result[ast.Statement] {
	if _, err := p.scanner.ConsumeLiteral("if"); err != nil {
		return failWith[ast.Statement](err)
	}

	cond := p.parseCondition()
	if cond.Failed() {
		return propagate[ast.Statement](cond)
	}

	if _, err := p.scanner.ConsumeKind(lexer.LBRACE); err != nil {
		return failWith[ast.Statement](err)
	}

	var body []ast.Statement
	for {
		var stmt Result[ast.Statement]
		next, err := p.scanner.PeekToken()
		switch {
		case err != nil:
			stmt = failWith[ast.Statement](err)
		case next.Kind == lexer.RBRACE:
			if _, err := p.scanner.ConsumeToken(); err != nil {
				return failWith[ast.Statement](err)
			}
			return ok[ast.Statement](&ast.IfStatement{Condition: cond.Get(), Body: body})
		default:
			stmt = p.parseStatement()
		}

		if !stmt.Failed() {
			body = append(body, stmt.Get())
			continue
		}
		if f := p.skipLine(stmt.Failure()); f != nil {
			return fail[ast.Statement](f)
		}
	}
}

// skipLine reports f and skips the rest of the current line. It returns a
// non-nil failure when parsing cannot continue.
func (p *Parser) skipLine(f *lexer.Failure) *lexer.Failure {
	p.diag.Report(f)
	if !p.diag.CanRecover() {
		return f
	}

	pos := p.scanner.State().Position()
	if err := p.scanner.AdvanceToNextLine(); err != nil {
		eof := lexer.AsFailure(err)
		p.diag.Report(eof)
		return eof
	}
	p.logger.Debug("skipped rest of line",
		zap.Int("line", pos.Line),
		zap.Int("column", pos.Column),
		zap.String("reason", f.Message))
	return nil
}

func (p *Parser) parseCondition() Result[ast.ConditionExpression] {
	lhs := p.parseValue()
	if lhs.Failed() {
		return propagate[ast.ConditionExpression](lhs)
	}

	tok, err := p.scanner.ConsumeKind(lexer.OPERATOR)
	if err != nil {
		return failWith[ast.ConditionExpression](err)
	}
	op := ast.Operator{Symbol: tok.Literal}
	if !op.Comparison() {
		return fail[ast.ConditionExpression](lexer.Syntaxf("Unexpected operator `%s`", op.Symbol))
	}

	rhs := p.parseValue()
	if rhs.Failed() {
		return propagate[ast.ConditionExpression](rhs)
	}

	return ok(ast.ConditionExpression{LHS: lhs.Get(), RHS: rhs.Get(), Operator: op})
}

func (p *Parser) parseDeclaration() Result[ast.Statement] {
	if _, err := p.scanner.ConsumeLiteral("val"); err != nil {
		return failWith[ast.Statement](err)
	}

	name, err := p.scanner.ConsumeKind(lexer.NAME)
	if err != nil {
		return failWith[ast.Statement](err)
	}
	if _, err := p.scanner.ConsumeLiteral("="); err != nil {
		return failWith[ast.Statement](err)
	}
	tok, err := p.scanner.ConsumeKind(lexer.NUMBER)
	if err != nil {
		return failWith[ast.Statement](err)
	}
	value := number(tok)
	if value.Failed() {
		return propagate[ast.Statement](value)
	}

	return ok[ast.Statement](&ast.DeclarationStatement{
		Name:  ast.Name{Ident: name.Literal},
		Value: value.Get(),
	})
}

func (p *Parser) parseFunctionCall() Result[ast.Statement] {
	name, err := p.scanner.ConsumeKind(lexer.NAME)
	if err != nil {
		return failWith[ast.Statement](err)
	}

	args := p.parseArguments()
	if args.Failed() {
		return propagate[ast.Statement](args)
	}

	return ok[ast.Statement](&ast.FunctionCallStatement{
		Name:      ast.Name{Ident: name.Literal},
		Arguments: args.Get(),
	})
}

// parseArguments parses a parenthesized, comma-separated list of values.
func (p *Parser) parseArguments() Result[[]ast.Value] {
	if _, err := p.scanner.ConsumeKind(lexer.LPAREN); err != nil {
		return failWith[[]ast.Value](err)
	}

	next, err := p.scanner.PeekToken()
	if err != nil {
		return failWith[[]ast.Value](err)
	}
	switch next.Kind {
	case lexer.RPAREN:
		if _, err := p.scanner.ConsumeToken(); err != nil {
			return failWith[[]ast.Value](err)
		}
		return ok[[]ast.Value](nil)
	case lexer.NAME, lexer.NUMBER:
	default:
		return fail[[]ast.Value](lexer.Syntaxf("Expected a name, number, or `)`"))
	}

	var args []ast.Value
	for {
		v := p.parseValue()
		if v.Failed() {
			return propagate[[]ast.Value](v)
		}
		args = append(args, v.Get())

		tok, err := p.scanner.ConsumeToken()
		if err != nil {
			return failWith[[]ast.Value](err)
		}
		switch {
		case tok.Kind == lexer.RPAREN:
			return ok(args)
		case tok.Is(lexer.OPERATOR, ","):
		default:
			return fail[[]ast.Value](lexer.Syntaxf("Expected `,` or `)`"))
		}
	}
}

func (p *Parser) parseValue() Result[ast.Value] {
	tok, err := p.scanner.ConsumeKind(lexer.NAME, lexer.NUMBER)
	if err != nil {
		return failWith[ast.Value](err)
	}
	if tok.Kind == lexer.NAME {
		return ok[ast.Value](ast.Name{Ident: tok.Literal})
	}
	n := number(tok)
	if n.Failed() {
		return propagate[ast.Value](n)
	}
	return ok[ast.Value](n.Get())
}

func number(tok lexer.Token) Result[ast.Number] {
	n, err := strconv.Atoi(tok.Literal)
	if err != nil {
		return fail[ast.Number](lexer.Syntaxf("Invalid number `%s`", tok.Literal))
	}
	return ok(ast.Number{Value: n})
}
