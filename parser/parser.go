// Package parser builds a tagged syntax tree from a token sequence by
// recursive descent, resolving local-variable identifiers to
// stack-frame offsets as it goes.
package parser

import (
	"github.com/samber/lo"

	"minic/ast"
	"minic/token"
)

// local is what the per-function symbol table stores about a name.
type local struct {
	offset int
	typ    *ast.Type
}

// Parser owns a cursor over the token sequence and the current
// function's symbol table.
type Parser struct {
	toks []token.Token
	pos  int

	locals     map[string]local
	nextOffset int
}

// Parse consumes the whole token sequence and returns the program as
// an ordered list of function definitions.
func Parse(toks []token.Token) ([]*ast.Function, error) {
	p := &Parser{toks: toks}
	var funcs []*ast.Function
	for !p.atEOF() {
		fn, err := p.function()
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, fn)
	}
	return funcs, nil
}

func (p *Parser) cur() token.Token { return p.toks[p.pos] }

func (p *Parser) atEOF() bool { return p.cur().Type == token.EOF }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// consumePunct advances past a reserved punctuator if the current
// token matches, reporting whether it did.
func (p *Parser) consumePunct(s string) bool {
	if p.cur().Type == token.PUNCT && p.cur().Literal == s {
		p.advance()
		return true
	}
	return false
}

// expectPunct consumes a required punctuator or fails.
func (p *Parser) expectPunct(s string) error {
	if p.consumePunct(s) {
		return nil
	}
	return &Error{Kind: ExpectedPunct, Pos: p.cur().Pos, Want: s, Got: p.cur().Literal}
}

// expectNumber consumes a required numeric literal.
func (p *Parser) expectNumber() (int64, error) {
	if p.cur().Type != token.NUM {
		return 0, &Error{Kind: ExpectedNumber, Pos: p.cur().Pos, Got: p.cur().Literal}
	}
	n := p.cur().Num
	p.advance()
	return n, nil
}

// expectIdent consumes a required identifier, returning its literal.
func (p *Parser) expectIdent() (string, error) {
	if p.cur().Type != token.IDENT {
		return "", &Error{Kind: ExpectedIdentifier, Pos: p.cur().Pos, Got: p.cur().Literal}
	}
	lit := p.cur().Literal
	p.advance()
	return lit, nil
}

// expectInt consumes the "int" keyword that begins every type.
func (p *Parser) expectInt() error {
	if p.cur().Type != token.INT {
		return &Error{Kind: ExpectedInt, Pos: p.cur().Pos, Got: p.cur().Literal}
	}
	p.advance()
	return nil
}

// typeExpr parses "int" followed by zero or more "*".
func (p *Parser) typeExpr() (*ast.Type, error) {
	if err := p.expectInt(); err != nil {
		return nil, err
	}
	t := ast.IntType
	for p.consumePunct("*") {
		t = ast.PtrTo(t)
	}
	return t, nil
}

// allocOffset assigns the next 8-byte-aligned frame slot to name,
// unless name is already bound - redeclaration is silently a no-op,
// the first offset/type wins.
func (p *Parser) allocOffset(name string, typ *ast.Type) local {
	if l, ok := p.locals[name]; ok {
		return l
	}
	p.nextOffset += 8
	l := local{offset: p.nextOffset, typ: typ}
	p.locals[name] = l
	return l
}

// function parses one top-level function definition, resetting the
// symbol table first.
func (p *Parser) function() (*ast.Function, error) {
	if err := p.expectInt(); err != nil {
		return nil, &Error{Kind: ExpectedFunctionDefinition, Pos: p.cur().Pos, Got: p.cur().Literal}
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	p.locals = map[string]local{}
	p.nextOffset = 0

	// Parameter offsets are allocated in declaration order as a
	// running stack of (offset, param) pairs before being folded into
	// the function's parameter list.
	var stack []lo.Tuple2[int, ast.Param]
	if !p.consumePunct(")") {
		for {
			typ, err := p.typeExpr()
			if err != nil {
				return nil, err
			}
			pname, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			l := p.allocOffset(pname, typ)
			stack = append(stack, lo.Tuple2[int, ast.Param]{A: l.offset, B: ast.Param{Name: pname, Typ: typ}})
			if !p.consumePunct(",") {
				break
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
	}

	params := make([]ast.Param, len(stack))
	for i, t := range stack {
		params[i] = t.B
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.Function{
		Name:      name,
		Params:    params,
		Body:      body.(*ast.Block).Stmts,
		FrameSize: p.nextOffset,
	}, nil
}

// block parses "{" { statement } "}".
func (p *Parser) block() (ast.Node, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var stmts []ast.Node
	for !p.consumePunct("}") {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return &ast.Block{Stmts: stmts}, nil
}

// statement parses one statement per the grammar's "statement" rule.
func (p *Parser) statement() (ast.Node, error) {
	switch {
	case p.cur().Type == token.PUNCT && p.cur().Literal == "{":
		return p.block()

	case p.cur().Type == token.INT:
		return p.declare()

	case p.cur().Type == token.IF:
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		then, err := p.statement()
		if err != nil {
			return nil, err
		}
		var els ast.Node
		if p.cur().Type == token.ELSE {
			p.advance()
			els, err = p.statement()
			if err != nil {
				return nil, err
			}
		}
		return &ast.IfElse{Cond: cond, Then: then, Else: els}, nil

	case p.cur().Type == token.FOR:
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		var init, cond, step ast.Node
		var err error
		if !p.consumePunct(";") {
			init, err = p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(";"); err != nil {
				return nil, err
			}
		}
		if p.cur().Type != token.PUNCT || p.cur().Literal != ";" {
			cond, err = p.expr()
			if err != nil {
				return nil, err
			}
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		if p.cur().Type != token.PUNCT || p.cur().Literal != ")" {
			step, err = p.expr()
			if err != nil {
				return nil, err
			}
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		body, err := p.statement()
		if err != nil {
			return nil, err
		}
		return &ast.For{Init: init, Cond: cond, Step: step, Body: body}, nil

	case p.cur().Type == token.WHILE:
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		cond, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		body, err := p.statement()
		if err != nil {
			return nil, err
		}
		return &ast.For{Cond: cond, Body: body}, nil

	default:
		isReturn := p.cur().Type == token.RETURN
		if isReturn {
			p.advance()
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		if isReturn {
			return &ast.Return{Inner: e}, nil
		}
		return e, nil
	}
}

// declare parses "type ident ;".
func (p *Parser) declare() (ast.Node, error) {
	typ, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	p.allocOffset(name, typ)
	return &ast.DefineVar{Name: name, Typ: typ}, nil
}

func (p *Parser) expr() (ast.Node, error) { return p.assign() }

// assign is right-associative: equality [ "=" assign ].
func (p *Parser) assign() (ast.Node, error) {
	lhs, err := p.equality()
	if err != nil {
		return nil, err
	}
	if p.consumePunct("=") {
		rhs, err := p.assign()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{LHS: lhs, RHS: rhs}, nil
	}
	return lhs, nil
}

// equality: relational { ("==" | "!=") relational }.
//
// "!=" is parsed identically to "==": both produce ast.Eq. This
// reproduces the upstream tutorial's parser bug rather than fixing
// it - see SPEC_FULL.md.
func (p *Parser) equality() (ast.Node, error) {
	lhs, err := p.relational()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.consumePunct("=="):
			rhs, err := p.relational()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Eq, LHS: lhs, RHS: rhs}
		case p.consumePunct("!="):
			rhs, err := p.relational()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Eq, LHS: lhs, RHS: rhs}
		default:
			return lhs, nil
		}
	}
}

// relational: add { ("<" | "<=" | ">" | ">=") add }. ">" and ">=" are
// lowered by swapping operands into "<" and "<=".
func (p *Parser) relational() (ast.Node, error) {
	lhs, err := p.add()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.consumePunct("<"):
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Lt, LHS: lhs, RHS: rhs}
		case p.consumePunct("<="):
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Le, LHS: lhs, RHS: rhs}
		case p.consumePunct(">"):
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Lt, LHS: rhs, RHS: lhs}
		case p.consumePunct(">="):
			rhs, err := p.add()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Le, LHS: rhs, RHS: lhs}
		default:
			return lhs, nil
		}
	}
}

// add: mul { ("+" | "-") mul }.
func (p *Parser) add() (ast.Node, error) {
	lhs, err := p.mul()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.consumePunct("+"):
			rhs, err := p.mul()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Add, LHS: lhs, RHS: rhs}
		case p.consumePunct("-"):
			rhs, err := p.mul()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Sub, LHS: lhs, RHS: rhs}
		default:
			return lhs, nil
		}
	}
}

// mul: unary { ("*" | "/") unary }.
func (p *Parser) mul() (ast.Node, error) {
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.consumePunct("*"):
			rhs, err := p.unary()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Mul, LHS: lhs, RHS: rhs}
		case p.consumePunct("/"):
			rhs, err := p.unary()
			if err != nil {
				return nil, err
			}
			lhs = &ast.BinOp{Op: ast.Div, LHS: lhs, RHS: rhs}
		default:
			return lhs, nil
		}
	}
}

// unary: "+" primary | "-" primary | "*" unary | "&" unary | primary.
func (p *Parser) unary() (ast.Node, error) {
	switch {
	case p.consumePunct("+"):
		return p.primary()
	case p.consumePunct("-"):
		inner, err := p.primary()
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Op: ast.Sub, LHS: &ast.Num{Value: 0}, RHS: inner}, nil
	case p.consumePunct("*"):
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Deref{Inner: inner}, nil
	case p.consumePunct("&"):
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Addr{Inner: inner}, nil
	default:
		return p.primary()
	}
}

// primary: "(" expr ")" | ident "(" args ")" | ident | number.
func (p *Parser) primary() (ast.Node, error) {
	if p.consumePunct("(") {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return e, nil
	}

	if p.cur().Type == token.IDENT {
		name := p.cur().Literal
		pos := p.cur().Pos
		p.advance()

		if p.consumePunct("(") {
			var args []ast.Node
			if !p.consumePunct(")") {
				for {
					a, err := p.expr()
					if err != nil {
						return nil, err
					}
					args = append(args, a)
					if !p.consumePunct(",") {
						break
					}
				}
				if err := p.expectPunct(")"); err != nil {
					return nil, err
				}
			}
			return &ast.Call{Name: name, Args: args, ReturnType: ast.IntType}, nil
		}

		l, ok := p.locals[name]
		if !ok {
			return nil, &Error{Kind: UndefinedVariable, Pos: pos, Got: name}
		}
		return &ast.LocalVar{Name: name, Offset: l.offset, Typ: l.typ}, nil
	}

	n, err := p.expectNumber()
	if err != nil {
		return nil, err
	}
	return &ast.Num{Value: n}, nil
}
