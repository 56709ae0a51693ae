// Package parser implements the recursive-descent parser of spec.md §4.3:
// a single one-token-lookahead grammar producing the AST of package ast,
// with statement-boundary error recovery and one fatal abort condition
// (unexpected end of input inside a block).
package parser

import (
	"github.com/saaam-lang/compiler/pkgs/ast"
	"github.com/saaam-lang/compiler/pkgs/diag"
	"github.com/saaam-lang/compiler/pkgs/intrinsics"
	"github.com/saaam-lang/compiler/pkgs/lexer"
	"github.com/saaam-lang/compiler/pkgs/token"
)

// Parser walks a token slice with a single token of lookahead.
type Parser struct {
	tokens []token.Token
	pos    int
	sink   *diag.Sink
}

// New constructs a Parser over tokens, recording diagnostics into sink.
func New(tokens []token.Token, sink *diag.Sink) *Parser {
	return &Parser{tokens: tokens, sink: sink}
}

// Parse lexes and parses src in one call, the convenience entry point most
// callers (and the compiler facade) use.
func Parse(src string, sink *diag.Sink) (*ast.Program, error) {
	tokens := lexer.Tokenize(src, sink)
	p := New(tokens, sink)
	return p.ParseProgram()
}

// ParseProgram parses a whole SAAAM source file. It never returns a nil
// Program unless the fatal unexpected-EOF-inside-a-block condition was
// hit, per spec.md §4.6 ("success" requires a non-null AST root).
func (p *Parser) ParseProgram() (*ast.Program, error) {
	start := p.current().Offset
	body, err := p.parseStatements(false)
	prog := &ast.Program{Base: ast.Base{Pos: start}, Body: body}
	if isFatal(err) {
		return nil, err
	}
	return prog, nil
}

// ---- token stream helpers ----

func (p *Parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() token.Token {
	t := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) isAtEnd() bool {
	return p.current().Kind == token.EOF
}

func (p *Parser) check(kind token.Kind, lexeme string) bool {
	t := p.current()
	return t.Kind == kind && t.Lexeme == lexeme
}

func (p *Parser) checkKeyword(word string) bool {
	return p.check(token.KEYWORD, word)
}

func (p *Parser) match(kind token.Kind, lexeme string) bool {
	if p.check(kind, lexeme) {
		p.advance()
		return true
	}
	return false
}

// consume requires the current token match, recording an error otherwise.
func (p *Parser) consume(kind token.Kind, lexeme, context string) (token.Token, error) {
	if p.check(kind, lexeme) {
		return p.advance(), nil
	}
	t := p.current()
	p.sink.Error(t.Offset, "expected %q %s, got %q", lexeme, context, t.Lexeme)
	return t, errSyntax
}

// optionalSemicolon implements the semicolon policy of spec.md §4.3: a
// missing terminator is a WARNING, never an ERROR.
func (p *Parser) optionalSemicolon() {
	if p.match(token.PUNCT, ";") {
		return
	}
	p.sink.Warn(p.current().Offset, "missing semicolon")
}

// stmtLeadingKeywords are the KEYWORD lexemes parseStatement dispatches on;
// synchronize treats any of them as the start of the next statement.
var stmtLeadingKeywords = map[string]bool{
	"var": true, "const": true, "let": true, "function": true,
	"if": true, "for": true, "while": true, "do": true, "switch": true,
	"return": true, "break": true, "continue": true,
}

// startsStatement reports whether t is a token parseStatement would itself
// dispatch on — a statement-leading keyword or a block's opening '{'.
func startsStatement(t token.Token) bool {
	if t.Kind == token.KEYWORD && stmtLeadingKeywords[t.Lexeme] {
		return true
	}
	return t.Kind == token.BRACKET && t.Lexeme == "{"
}

// synchronize discards tokens until the next ';' or '}' (inclusive, and
// consumed as the end of the broken statement), or until a token that
// itself starts a new statement — left unconsumed, so the next well-formed
// statement is parsed rather than swallowed as part of recovery — or EOF
// (spec.md §4.3).
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		t := p.current()
		if t.Kind == token.PUNCT && t.Lexeme == ";" {
			p.advance()
			return
		}
		if t.Kind == token.BRACKET && t.Lexeme == "}" {
			p.advance()
			return
		}
		if startsStatement(t) {
			return
		}
		p.advance()
	}
}

// ---- statement lists ----

// parseStatements parses statements until EOF, or (when stopAtBrace) until
// a '}' is seen. Each statement-level error is recorded, resynced past,
// and parsing continues — except the fatal unexpected-EOF condition, which
// propagates immediately without resync.
func (p *Parser) parseStatements(stopAtBrace bool) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		if stopAtBrace && p.check(token.BRACKET, "}") {
			return stmts, nil
		}
		if p.isAtEnd() {
			if stopAtBrace {
				p.sink.Error(p.current().Offset, "unexpected end of input, expected '}'")
				return stmts, ErrUnexpectedEOF
			}
			return stmts, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			if isFatal(err) {
				return stmts, err
			}
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
}

// parseBlock parses a `{ ... }` statement sequence.
func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.consume(token.BRACKET, "{", "to start block")
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatements(true)
	if isFatal(err) {
		return nil, err
	}
	if _, cerr := p.consume(token.BRACKET, "}", "to close block"); cerr != nil {
		return &ast.Block{Base: ast.Base{Pos: open.Offset}, Body: body}, cerr
	}
	return &ast.Block{Base: ast.Base{Pos: open.Offset}, Body: body}, nil
}

// ---- statements ----

func (p *Parser) parseStatement() (ast.Statement, error) {
	t := p.current()

	if t.Kind == token.KEYWORD {
		switch t.Lexeme {
		case "var", "const", "let":
			return p.parseVarDecl()
		case "function":
			return p.parseFuncDecl()
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			return p.parseWhile()
		case "do":
			return p.parseDoWhile()
		case "switch":
			return p.parseSwitch()
		case "return":
			return p.parseReturn()
		case "break":
			p.advance()
			p.optionalSemicolon()
			return &ast.Break{Base: ast.Base{Pos: t.Offset}}, nil
		case "continue":
			p.advance()
			p.optionalSemicolon()
			return &ast.Continue{Base: ast.Base{Pos: t.Offset}}, nil
		}
	}

	if t.Kind == token.BRACKET && t.Lexeme == "{" {
		return p.parseBlock()
	}
	if t.Kind == token.PUNCT && t.Lexeme == ";" {
		p.advance()
		return &ast.Empty{Base: ast.Base{Pos: t.Offset}}, nil
	}

	return p.parseExprStmt()
}

func bindingForm(keyword string) ast.BindingForm {
	switch keyword {
	case "const":
		return ast.Immutable
	case "let":
		return ast.Lexical
	default:
		return ast.Mutable
	}
}

func (p *Parser) parseVarDecl() (ast.Statement, error) {
	kw := p.advance() // var/const/let
	name, err := p.expectIdentifier("variable name")
	if err != nil {
		return nil, err
	}

	var init ast.Expression
	if p.match(token.OPERATOR, "=") {
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	p.optionalSemicolon()

	return &ast.VarDecl{
		Base:    ast.Base{Pos: kw.Offset},
		Binding: bindingForm(kw.Lexeme),
		Name:    name,
		Init:    init,
	}, nil
}

// expectIdentifier consumes and returns a name in identifier position.
// Domain keywords (vec2, create, step, draw, on_collision, ...) are
// accepted here too: they are reserved only for their special forms in
// expression position (spec.md §4.2's DOMAIN_KEYWORD class does not
// remove them from use as declaration/parameter names, notably the
// lifecycle function names themselves).
func (p *Parser) expectIdentifier(context string) (string, error) {
	t := p.current()
	if t.Kind != token.IDENTIFIER && t.Kind != token.DOMAIN_KEYWORD {
		p.sink.Error(t.Offset, "expected identifier for %s, got %q", context, t.Lexeme)
		return "", errSyntax
	}
	p.advance()
	return t.Lexeme, nil
}

func (p *Parser) parseFuncDecl() (ast.Statement, error) {
	kw := p.advance() // function
	name, err := p.expectIdentifier("function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, "(", "after function name"); err != nil {
		return nil, err
	}
	var params []string
	for !p.check(token.PUNCT, ")") && !p.isAtEnd() {
		pname, perr := p.expectIdentifier("parameter name")
		if perr != nil {
			return nil, perr
		}
		params = append(params, pname)
		if !p.match(token.PUNCT, ",") {
			break
		}
	}
	if _, err := p.consume(token.PUNCT, ")", "to close parameter list"); err != nil {
		return nil, err
	}

	if (name == "step" || name == "draw") && len(params) == 0 {
		if name == "step" {
			p.sink.Warn(kw.Offset, "'step' should accept a time-delta parameter")
		} else {
			p.sink.Warn(kw.Offset, "'draw' should accept a drawing-context parameter")
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{
		Base:   ast.Base{Pos: kw.Offset},
		Name:   name,
		Params: params,
		Body:   body,
	}, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	kw := p.advance()
	if _, err := p.consume(token.PUNCT, "(", "after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, ")", "after if condition"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Statement
	if p.checkKeyword("else") {
		p.advance()
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Base: ast.Base{Pos: kw.Offset}, Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	kw := p.advance()
	if _, err := p.consume(token.PUNCT, "(", "after 'for'"); err != nil {
		return nil, err
	}

	var init ast.Statement
	if !p.check(token.PUNCT, ";") {
		var err error
		if p.checkKeyword("var") || p.checkKeyword("const") || p.checkKeyword("let") {
			init, err = p.parseVarDeclNoSemi()
		} else {
			init, err = p.parseExprStmtNoSemi()
		}
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.PUNCT, ";", "after for-loop initializer"); err != nil {
		return nil, err
	}

	var cond ast.Expression
	if !p.check(token.PUNCT, ";") {
		var err error
		cond, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	} else {
		cond = &ast.Literal{Base: ast.Base{Pos: p.current().Offset}, Kind: ast.BoolLit, Value: "true"}
	}
	if _, err := p.consume(token.PUNCT, ";", "after for-loop condition"); err != nil {
		return nil, err
	}

	var update ast.Expression
	if !p.check(token.PUNCT, ")") {
		var err error
		update, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.PUNCT, ")", "to close for-loop header"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return &ast.For{Base: ast.Base{Pos: kw.Offset}, Init: init, Condition: cond, Update: update, Body: body}, nil
}

func (p *Parser) parseVarDeclNoSemi() (ast.Statement, error) {
	kw := p.advance()
	name, err := p.expectIdentifier("variable name")
	if err != nil {
		return nil, err
	}
	var init ast.Expression
	if p.match(token.OPERATOR, "=") {
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	return &ast.VarDecl{Base: ast.Base{Pos: kw.Offset}, Binding: bindingForm(kw.Lexeme), Name: name, Init: init}, nil
}

func (p *Parser) parseExprStmtNoSemi() (ast.Statement, error) {
	start := p.current().Offset
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Base: ast.Base{Pos: start}, Expr: expr}, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	kw := p.advance()
	if _, err := p.consume(token.PUNCT, "(", "after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, ")", "after while condition"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Base: ast.Base{Pos: kw.Offset}, Cond: cond, Body: body}, nil
}

func (p *Parser) parseDoWhile() (ast.Statement, error) {
	kw := p.advance()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.KEYWORD, "while", "after do-block"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, "(", "after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, ")", "after while condition"); err != nil {
		return nil, err
	}
	if !p.match(token.PUNCT, ";") {
		p.sink.Warn(p.current().Offset, "missing semicolon after do-while")
	}
	return &ast.DoWhile{Base: ast.Base{Pos: kw.Offset}, Body: body, Cond: cond}, nil
}

func (p *Parser) parseSwitch() (ast.Statement, error) {
	kw := p.advance()
	if _, err := p.consume(token.PUNCT, "(", "after 'switch'"); err != nil {
		return nil, err
	}
	disc, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, ")", "after switch discriminant"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.BRACKET, "{", "to start switch body"); err != nil {
		return nil, err
	}

	var cases []*ast.SwitchCase
	for !p.check(token.BRACKET, "}") && !p.isAtEnd() {
		c, cerr := p.parseSwitchCase()
		if cerr != nil {
			return nil, cerr
		}
		cases = append(cases, c)
	}
	if _, err := p.consume(token.BRACKET, "}", "to close switch body"); err != nil {
		return nil, err
	}

	return &ast.Switch{Base: ast.Base{Pos: kw.Offset}, Discriminant: disc, Cases: cases}, nil
}

func (p *Parser) parseSwitchCase() (*ast.SwitchCase, error) {
	start := p.current().Offset
	var test ast.Expression
	if p.checkKeyword("case") {
		p.advance()
		var err error
		test, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	} else if _, err := p.consume(token.KEYWORD, "default", "in switch body"); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.OPERATOR, ":", "after case label"); err != nil {
		return nil, err
	}

	var body []ast.Statement
	for !p.checkKeyword("case") && !p.checkKeyword("default") &&
		!p.check(token.BRACKET, "}") && !p.isAtEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			if isFatal(err) {
				return nil, err
			}
			p.synchronize()
			continue
		}
		body = append(body, stmt)
	}

	return &ast.SwitchCase{Base: ast.Base{Pos: start}, Test: test, Body: body}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	kw := p.advance()
	var value ast.Expression
	if !p.check(token.PUNCT, ";") && !p.check(token.BRACKET, "}") && !p.isAtEnd() {
		var err error
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	p.optionalSemicolon()
	return &ast.Return{Base: ast.Base{Pos: kw.Offset}, Value: value}, nil
}

func (p *Parser) parseExprStmt() (ast.Statement, error) {
	start := p.current().Offset
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.optionalSemicolon()
	return &ast.ExprStmt{Base: ast.Base{Pos: start}, Expr: expr}, nil
}

// ---- expressions: precedence ladder (spec.md §4.3) ----

var assignOps = map[string]bool{"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expression, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	t := p.current()
	if t.Kind == token.OPERATOR && assignOps[t.Lexeme] {
		p.advance()
		right, rerr := p.parseAssignment() // right-associative
		if rerr != nil {
			return nil, rerr
		}
		return &ast.Assign{Base: ast.Base{Pos: left.Position()}, Op: t.Lexeme, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) binaryLevel(ops map[string]bool, next func() (ast.Expression, error)) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		t := p.current()
		if t.Kind != token.OPERATOR || !ops[t.Lexeme] {
			return left, nil
		}
		p.advance()
		right, rerr := next()
		if rerr != nil {
			return nil, rerr
		}
		left = &ast.Binary{Base: ast.Base{Pos: left.Position()}, Op: t.Lexeme, Left: left, Right: right}
	}
}

var orOps = map[string]bool{"||": true}
var andOps = map[string]bool{"&&": true}
var eqOps = map[string]bool{"==": true, "!=": true}
var cmpOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true}
var addOps = map[string]bool{"+": true, "-": true}
var mulOps = map[string]bool{"*": true, "/": true, "%": true}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	return p.binaryLevel(orOps, p.parseLogicalAnd)
}
func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	return p.binaryLevel(andOps, p.parseEquality)
}
func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.binaryLevel(eqOps, p.parseCompare)
}
func (p *Parser) parseCompare() (ast.Expression, error) {
	return p.binaryLevel(cmpOps, p.parseAdditive)
}
func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.binaryLevel(addOps, p.parseMult)
}
func (p *Parser) parseMult() (ast.Expression, error) {
	return p.binaryLevel(mulOps, p.parseUnary)
}

var unaryOps = map[string]bool{"+": true, "-": true, "!": true}

func (p *Parser) parseUnary() (ast.Expression, error) {
	t := p.current()
	if t.Kind == token.OPERATOR && unaryOps[t.Lexeme] {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Base: ast.Base{Pos: t.Offset}, Op: t.Lexeme, Operand: operand}, nil
	}
	return p.parseCallOrMember()
}

func (p *Parser) parseCallOrMember() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(token.PUNCT, "("):
			p.advance()
			args, aerr := p.parseArgs()
			if aerr != nil {
				return nil, aerr
			}
			if _, cerr := p.consume(token.PUNCT, ")", "to close call arguments"); cerr != nil {
				return nil, cerr
			}
			expr = &ast.Call{Base: ast.Base{Pos: expr.Position()}, Callee: expr, Args: args}
		case p.check(token.PUNCT, "."):
			p.advance()
			name, nerr := p.expectIdentifier("member name")
			if nerr != nil {
				return nil, nerr
			}
			prop := &ast.Identifier{Base: ast.Base{Pos: expr.Position()}, Name: name}
			expr = &ast.Member{Base: ast.Base{Pos: expr.Position()}, Object: expr, Property: prop, Computed: false}
		case p.check(token.BRACKET, "["):
			p.advance()
			index, ierr := p.parseExpression()
			if ierr != nil {
				return nil, ierr
			}
			if _, cerr := p.consume(token.BRACKET, "]", "to close member index"); cerr != nil {
				return nil, cerr
			}
			expr = &ast.Member{Base: ast.Base{Pos: expr.Position()}, Object: expr, Property: index, Computed: true}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expression, error) {
	var args []ast.Expression
	for !p.check(token.PUNCT, ")") && !p.isAtEnd() {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(token.PUNCT, ",") {
			break
		}
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	t := p.current()

	switch {
	case t.Kind == token.KEYWORD && t.Lexeme == "this":
		p.advance()
		return &ast.ThisRef{Base: ast.Base{Pos: t.Offset}}, nil

	case t.Kind == token.KEYWORD && (t.Lexeme == "true" || t.Lexeme == "false"):
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Offset}, Kind: ast.BoolLit, Value: t.Lexeme}, nil

	case t.Kind == token.KEYWORD && t.Lexeme == "null":
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Offset}, Kind: ast.NullLit, Value: "null"}, nil

	case t.Kind == token.KEYWORD && t.Lexeme == "undefined":
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Offset}, Kind: ast.UndefinedLit, Value: "undefined"}, nil

	case t.Kind == token.DOMAIN_KEYWORD && t.Lexeme == "vec2":
		return p.parseVec2()

	case t.Kind == token.DOMAIN_KEYWORD && t.Lexeme == "vec3":
		return p.parseVec3()

	case t.Kind == token.IDENTIFIER || t.Kind == token.DOMAIN_KEYWORD:
		p.advance()
		return &ast.Identifier{
			Base:        ast.Base{Pos: t.Offset},
			Name:        t.Lexeme,
			IsIntrinsic: intrinsics.IsIntrinsic(t.Lexeme),
		}, nil

	case t.Kind == token.NUMBER:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Offset}, Kind: ast.NumberLit, Value: t.Lexeme}, nil

	case t.Kind == token.STRING:
		p.advance()
		return &ast.Literal{Base: ast.Base{Pos: t.Offset}, Kind: ast.StringLit, Value: t.Lexeme}, nil

	case t.Kind == token.BRACKET && t.Lexeme == "{":
		return p.parseObjectLit()

	case t.Kind == token.BRACKET && t.Lexeme == "[":
		return p.parseArrayLit()

	case t.Kind == token.PUNCT && t.Lexeme == "(":
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.PUNCT, ")", "to close parenthesised expression"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	p.sink.Error(t.Offset, "unexpected token %q", t.Lexeme)
	if !isStmtBoundary(t) {
		p.advance()
	}
	return nil, errSyntax
}

// isStmtBoundary reports whether t is the ';' or '}' that
// synchronize() resyncs on. An error path must not consume one of
// these itself — doing so would hand synchronize a clean starting
// position one statement too late, swallowing the next well-formed
// statement along with the broken one.
func isStmtBoundary(t token.Token) bool {
	return (t.Kind == token.PUNCT && t.Lexeme == ";") || (t.Kind == token.BRACKET && t.Lexeme == "}")
}

func (p *Parser) parseVec2() (ast.Expression, error) {
	kw := p.advance()
	if _, err := p.consume(token.PUNCT, "(", "after 'vec2'"); err != nil {
		return nil, err
	}
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, ",", "between vec2 components"); err != nil {
		return nil, err
	}
	y, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, ")", "to close vec2"); err != nil {
		return nil, err
	}
	return &ast.Vec2Lit{Base: ast.Base{Pos: kw.Offset}, X: x, Y: y}, nil
}

func (p *Parser) parseVec3() (ast.Expression, error) {
	kw := p.advance()
	if _, err := p.consume(token.PUNCT, "(", "after 'vec3'"); err != nil {
		return nil, err
	}
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, ",", "between vec3 components"); err != nil {
		return nil, err
	}
	y, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, ",", "between vec3 components"); err != nil {
		return nil, err
	}
	z, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.PUNCT, ")", "to close vec3"); err != nil {
		return nil, err
	}
	return &ast.Vec3Lit{Base: ast.Base{Pos: kw.Offset}, X: x, Y: y, Z: z}, nil
}

func (p *Parser) parseObjectLit() (ast.Expression, error) {
	open, err := p.consume(token.BRACKET, "{", "to start object literal")
	if err != nil {
		return nil, err
	}
	var props []ast.Property
	for !p.check(token.BRACKET, "}") && !p.isAtEnd() {
		prop, perr := p.parseProperty()
		if perr != nil {
			return nil, perr
		}
		props = append(props, prop)

		if p.match(token.PUNCT, ",") {
			continue
		}
		if !p.check(token.BRACKET, "}") {
			p.sink.Warn(p.current().Offset, "missing comma between object literal properties")
		}
	}
	if _, err := p.consume(token.BRACKET, "}", "to close object literal"); err != nil {
		return nil, err
	}
	return &ast.ObjectLit{Base: ast.Base{Pos: open.Offset}, Properties: props}, nil
}

func (p *Parser) parseProperty() (ast.Property, error) {
	t := p.current()

	if t.Kind == token.BRACKET && t.Lexeme == "[" {
		p.advance()
		key, err := p.parseExpression()
		if err != nil {
			return ast.Property{}, err
		}
		if _, err := p.consume(token.BRACKET, "]", "to close computed property key"); err != nil {
			return ast.Property{}, err
		}
		if _, err := p.consume(token.OPERATOR, ":", "after computed property key"); err != nil {
			return ast.Property{}, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return ast.Property{}, err
		}
		return ast.Property{Key: key, Value: val, Computed: true}, nil
	}

	if t.Kind == token.STRING {
		p.advance()
		key := &ast.Literal{Base: ast.Base{Pos: t.Offset}, Kind: ast.StringLit, Value: t.Lexeme}
		if _, err := p.consume(token.OPERATOR, ":", "after property key"); err != nil {
			return ast.Property{}, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return ast.Property{}, err
		}
		return ast.Property{Key: key, Value: val}, nil
	}

	if t.Kind == token.IDENTIFIER || t.Kind == token.DOMAIN_KEYWORD {
		p.advance()
		key := &ast.Identifier{Base: ast.Base{Pos: t.Offset}, Name: t.Lexeme, IsIntrinsic: intrinsics.IsIntrinsic(t.Lexeme)}
		if p.match(token.OPERATOR, ":") {
			val, err := p.parseExpression()
			if err != nil {
				return ast.Property{}, err
			}
			return ast.Property{Key: key, Value: val}, nil
		}
		// Shorthand {x} -> {x: x}.
		val := &ast.Identifier{Base: ast.Base{Pos: t.Offset}, Name: t.Lexeme, IsIntrinsic: key.IsIntrinsic}
		return ast.Property{Key: key, Value: val}, nil
	}

	p.sink.Error(t.Offset, "expected property key, got %q", t.Lexeme)
	if !isStmtBoundary(t) {
		p.advance()
	}
	return ast.Property{}, errSyntax
}

func (p *Parser) parseArrayLit() (ast.Expression, error) {
	open, err := p.consume(token.BRACKET, "[", "to start array literal")
	if err != nil {
		return nil, err
	}
	var elems []ast.Expression
	for !p.check(token.BRACKET, "]") && !p.isAtEnd() {
		if p.check(token.PUNCT, ",") {
			elems = append(elems, nil) // hole
			p.advance()
			continue
		}
		elem, eerr := p.parseExpression()
		if eerr != nil {
			return nil, eerr
		}
		elems = append(elems, elem)
		if !p.match(token.PUNCT, ",") {
			break
		}
	}
	if _, err := p.consume(token.BRACKET, "]", "to close array literal"); err != nil {
		return nil, err
	}
	return &ast.ArrayLit{Base: ast.Base{Pos: open.Offset}, Elements: elems}, nil
}
