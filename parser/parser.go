// Package parser builds an ast.Program from a token stream by recursive
// descent. Identifiers are bound to function locals while parsing.
package parser

import (
	"github.com/strager/yamcc/ast"
	"github.com/strager/yamcc/diag"
	"github.com/strager/yamcc/lexer"
)

// Parser holds the state of one parse. Use Parse instead of building one
// directly.
type Parser struct {
	toks []lexer.Token
	pos  int
	req  *ast.Requirements

	fn *ast.Function // function being parsed

	// created is the local introduced by the most recently parsed
	// identifier, or nil if that identifier already existed.
	created *ast.Symbol
}

// Parse parses a whole program. Comparison operators are recorded in req.
func Parse(toks []lexer.Token, req *ast.Requirements) (*ast.Program, error) {
	if len(toks) == 0 || toks[len(toks)-1].Kind != lexer.EOF {
		end := 0
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			end = last.Pos + len(last.Lit)
		}
		toks = append(toks[:len(toks):len(toks)], lexer.Token{Kind: lexer.EOF, Pos: end})
	}
	if req == nil {
		req = &ast.Requirements{}
	}

	p := &Parser{toks: toks, req: req}
	prog := &ast.Program{Req: req}

	if p.peek().Is("{") {
		fn := &ast.Function{ReturnType: ast.IntType, Pos: p.peek().Pos}
		p.fn = fn
		open := p.next()
		body, err := p.block(open)
		if err != nil {
			return nil, err
		}
		fn.Body = body
		prog.Funcs = []*ast.Function{fn}
		prog.TopLevel = true
	} else {
		for p.peek().Kind != lexer.EOF {
			fn, err := p.function()
			if err != nil {
				return nil, err
			}
			if prog.Func(fn.Name) != nil {
				return nil, diag.Errorf(diag.ParseError, fn.Pos, "redefinition of function '%s'", fn.Name)
			}
			prog.Funcs = append(prog.Funcs, fn)
		}
	}

	if tok := p.peek(); tok.Kind != lexer.EOF {
		return nil, diag.Errorf(diag.ParseError, tok.Pos, "extra token")
	}
	return prog, nil
}

func (p *Parser) peek() lexer.Token {
	return p.toks[p.pos]
}

// next consumes and returns the current token. The trailing EOF token is
// never consumed.
func (p *Parser) next() lexer.Token {
	tok := p.toks[p.pos]
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

// consume skips the current token if it is s.
func (p *Parser) consume(s string) bool {
	if p.peek().Is(s) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(s string) (lexer.Token, error) {
	tok := p.peek()
	if !tok.Is(s) {
		return tok, diag.Errorf(diag.ParseError, tok.Pos, "expected '%s'", s)
	}
	return p.next(), nil
}

func (p *Parser) ident() (lexer.Token, error) {
	tok := p.peek()
	if tok.Kind != lexer.Ident {
		return tok, diag.Errorf(diag.ParseError, tok.Pos, "expected an identifier")
	}
	return p.next(), nil
}

func reservedLocal(name lexer.Token) error {
	return diag.Errorf(diag.ParseError, name.Pos, "'%s' is a reserved name", name.Lit)
}

// pointers consumes a run of "*" and wraps base once per star.
func (p *Parser) pointers(base *ast.Type) *ast.Type {
	for p.consume("*") {
		base = ast.PointerTo(base)
	}
	return base
}

// function = "int" "*"* ident "(" ")" "{" block
func (p *Parser) function() (*ast.Function, error) {
	tok := p.peek()
	if !tok.Is("int") {
		return nil, diag.Errorf(diag.ParseError, tok.Pos, "expected a function definition")
	}
	p.next()
	ret := p.pointers(ast.IntType)

	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	fn := &ast.Function{Name: name.Lit, ReturnType: ret, Pos: name.Pos}
	p.fn = fn

	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	body, err := p.block(open)
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

// block = (declaration | stmt)* "}"
//
// The opening brace has already been consumed.
func (p *Parser) block(open lexer.Token) (*ast.Block, error) {
	b := &ast.Block{Span: ast.Span{Offset: open.Pos}}
	for !p.consume("}") {
		var stmt ast.Stmt
		var err error
		switch tok := p.peek(); {
		case tok.Kind == lexer.EOF:
			return nil, diag.Errorf(diag.ParseError, tok.Pos, "expected '}'")
		case tok.Is("int"):
			stmt, err = p.declaration()
		default:
			stmt, err = p.stmt()
		}
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, stmt)
	}
	return b, nil
}

// declaration = "int" declarator ("," declarator)* ";"
// declarator  = "*"* ident ("=" assign)?
func (p *Parser) declaration() (ast.Stmt, error) {
	kw := p.next()
	b := &ast.Block{Span: ast.Span{Offset: kw.Pos}}
	for {
		ty := p.pointers(ast.IntType)
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		if _, ok := p.fn.Lookup(name.Lit); ok {
			return nil, diag.Errorf(diag.ParseError, name.Pos, "redefinition of '%s'", name.Lit)
		}
		if name.Lit == ast.ScratchLocal {
			return nil, reservedLocal(name)
		}
		index := p.fn.Declare(name.Lit, ty, name.Pos)

		if eq := p.peek(); p.consume("=") {
			init, err := p.assign()
			if err != nil {
				return nil, err
			}
			b.Stmts = append(b.Stmts, &ast.ExprStmt{
				Span: ast.Span{Offset: name.Pos},
				X: &ast.Assign{
					Span: ast.Span{Offset: eq.Pos},
					L:    &ast.Var{Span: ast.Span{Offset: name.Pos}, Index: index},
					R:    init,
				},
			})
		}

		if !p.consume(",") {
			break
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Parser) stmt() (ast.Stmt, error) {
	tok := p.peek()
	switch {
	case tok.Is("return"):
		p.next()
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.Return{Span: ast.Span{Offset: tok.Pos}, X: x}, nil

	case tok.Is("if"):
		p.next()
		cond, err := p.parenExpr()
		if err != nil {
			return nil, err
		}
		then, err := p.stmt()
		if err != nil {
			return nil, err
		}
		n := &ast.If{Span: ast.Span{Offset: tok.Pos}, Cond: cond, Then: then}
		if p.consume("else") {
			els, err := p.stmt()
			if err != nil {
				return nil, err
			}
			n.Else = els
		}
		return n, nil

	case tok.Is("for"):
		p.next()
		if _, err := p.expect("("); err != nil {
			return nil, err
		}
		n := &ast.For{Span: ast.Span{Offset: tok.Pos}}
		if !p.consume(";") {
			init, err := p.exprStmt()
			if err != nil {
				return nil, err
			}
			n.Init = init
		}
		if !p.peek().Is(";") {
			cond, err := p.expr()
			if err != nil {
				return nil, err
			}
			n.Cond = cond
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		if !p.peek().Is(")") {
			inc, err := p.expr()
			if err != nil {
				return nil, err
			}
			n.Inc = inc
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		body, err := p.stmt()
		if err != nil {
			return nil, err
		}
		n.Body = body
		return n, nil

	case tok.Is("while"):
		p.next()
		cond, err := p.parenExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.stmt()
		if err != nil {
			return nil, err
		}
		return &ast.For{Span: ast.Span{Offset: tok.Pos}, Cond: cond, Body: body}, nil

	case tok.Is("{"):
		p.next()
		return p.block(tok)

	case tok.Is(";"):
		p.next()
		return &ast.Block{Span: ast.Span{Offset: tok.Pos}}, nil

	default:
		return p.exprStmt()
	}
}

// parenExpr = "(" expr ")"
func (p *Parser) parenExpr() (ast.Expr, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return x, nil
}

// exprStmt = expr ";"
//
// The empty statement is handled by the caller.
func (p *Parser) exprStmt() (ast.Stmt, error) {
	pos := p.peek().Pos
	x, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Span: ast.Span{Offset: pos}, X: x}, nil
}

func (p *Parser) expr() (ast.Expr, error) {
	return p.assign()
}

// assign = equality ("=" equality)?
func (p *Parser) assign() (ast.Expr, error) {
	l, err := p.equality()
	if err != nil {
		return nil, err
	}
	fresh := p.created

	eq := p.peek()
	if !p.consume("=") {
		return l, nil
	}
	r, err := p.equality()
	if err != nil {
		return nil, err
	}

	// x = &y on a brand new x makes x a pointer.
	if v, ok := l.(*ast.Var); ok && fresh != nil && p.fn.Locals[v.Index] == fresh {
		if ty := ast.TypeOf(p.fn, r); ty.IsPointer() {
			fresh.Type = ty
		}
	}
	return &ast.Assign{Span: ast.Span{Offset: eq.Pos}, L: l, R: r}, nil
}

// equality = relational (("==" | "!=") relational)*
func (p *Parser) equality() (ast.Expr, error) {
	l, err := p.relational()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if !tok.Is("==") && !tok.Is("!=") {
			return l, nil
		}
		p.next()
		r, err := p.relational()
		if err != nil {
			return nil, err
		}
		l = p.binary(tok, l, r, false)
	}
}

// relational = add (("<" | "<=" | ">" | ">=") add)*
func (p *Parser) relational() (ast.Expr, error) {
	l, err := p.add()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		swap := false
		switch {
		case tok.Is("<"), tok.Is("<="):
		case tok.Is(">"):
			tok.Lit, swap = "<", true
		case tok.Is(">="):
			tok.Lit, swap = "<=", true
		default:
			return l, nil
		}
		p.next()
		r, err := p.add()
		if err != nil {
			return nil, err
		}
		l = p.binary(tok, l, r, swap)
	}
}

// add = mul (("+" | "-") mul)*
func (p *Parser) add() (ast.Expr, error) {
	l, err := p.mul()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if !tok.Is("+") && !tok.Is("-") {
			return l, nil
		}
		p.next()
		r, err := p.mul()
		if err != nil {
			return nil, err
		}
		l = p.binary(tok, l, r, false)
	}
}

// mul = unary (("*" | "/") unary)*
func (p *Parser) mul() (ast.Expr, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if !tok.Is("*") && !tok.Is("/") {
			return l, nil
		}
		p.next()
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		l = p.binary(tok, l, r, false)
	}
}

// binary builds the node for operator tok. With swap set the operands are
// exchanged, which turns a > b into b < a.
func (p *Parser) binary(tok lexer.Token, l, r ast.Expr, swap bool) ast.Expr {
	op, _ := ast.LookupBinaryOp(tok.Lit)
	if swap {
		l, r = r, l
	}
	p.req.Require(op)
	return &ast.Binary{Span: ast.Span{Offset: tok.Pos}, Op: op, L: l, R: r}
}

// unary = ("+" | "-" | "*" | "&") unary | primary
func (p *Parser) unary() (ast.Expr, error) {
	tok := p.peek()
	switch {
	case tok.Is("+"):
		p.next()
		return p.unary()

	case tok.Is("-"):
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Neg{Span: ast.Span{Offset: tok.Pos}, X: x}, nil

	case tok.Is("&"):
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Addr{Span: ast.Span{Offset: tok.Pos}, X: x}, nil

	case tok.Is("*"):
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		// *p on a brand new p makes p a pointer.
		if v, ok := x.(*ast.Var); ok && p.created != nil && p.fn.Locals[v.Index] == p.created {
			p.created.Type = ast.PointerTo(ast.IntType)
		}
		return &ast.Deref{Span: ast.Span{Offset: tok.Pos}, X: x}, nil

	default:
		return p.primary()
	}
}

// primary = "(" expr ")"
//         | ident "(" (assign ("," assign)*)? ")"
//         | ident
//         | number
func (p *Parser) primary() (ast.Expr, error) {
	p.created = nil
	tok := p.peek()
	switch {
	case tok.Is("("):
		return p.parenExpr()

	case tok.Kind == lexer.Ident:
		p.next()
		if p.consume("(") {
			return p.call(tok)
		}
		index, ok := p.fn.Lookup(tok.Lit)
		if !ok {
			if tok.Lit == ast.ScratchLocal {
				return nil, reservedLocal(tok)
			}
			index = p.fn.Declare(tok.Lit, ast.IntType, tok.Pos)
			p.created = p.fn.Locals[index]
		}
		return &ast.Var{Span: ast.Span{Offset: tok.Pos}, Index: index}, nil

	case tok.Kind == lexer.Num:
		p.next()
		return &ast.Num{Span: ast.Span{Offset: tok.Pos}, Value: tok.Val}, nil

	default:
		return nil, diag.Errorf(diag.ParseError, tok.Pos, "expected an expression")
	}
}

// call parses the argument list after "name(".
func (p *Parser) call(name lexer.Token) (ast.Expr, error) {
	n := &ast.Call{Span: ast.Span{Offset: name.Pos}, Name: name.Lit}
	if p.consume(")") {
		return n, nil
	}
	for {
		arg, err := p.assign()
		if err != nil {
			return nil, err
		}
		n.Args = append(n.Args, arg)
		if !p.consume(",") {
			break
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	// Arguments may have introduced locals; the call itself did not.
	p.created = nil
	return n, nil
}
