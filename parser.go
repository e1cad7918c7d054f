// Completion: 90% - Recursive-descent parser for the ArcLang surface grammar
//
// Parsing, like lexing, is an external collaborator per spec.md §1 — the
// core of this repository is the arena model and the code generator. This
// parser exists only so the core has a typed AST to work on end-to-end;
// it is deliberately small next to the teacher's 5000-line parser.go,
// which additionally handled a far larger surface grammar (maps, match
// blocks, C FFI declarations) this language does not have.
package main

import (
	"fmt"
	"strconv"
)

// Parser is a hand-rolled recursive-descent parser, same idiom as the
// teacher: one token of lookahead via the lexer's Peek, precedence
// climbing for binary operators.
type Parser struct {
	lx   *Lexer
	file string
}

// NewParser creates a parser over the given source.
func NewParser(file, src string) *Parser {
	return &Parser{lx: NewLexer(file, src), file: file}
}

func (p *Parser) errorf(loc SourceLocation, format string, args ...interface{}) error {
	return CompilerError{Level: LevelFatal, Category: CategorySyntax, Message: fmt.Sprintf(format, args...), Location: loc}
}

func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	tok, err := p.lx.Next()
	if err != nil {
		return tok, err
	}
	if tok.Type != tt {
		return tok, p.errorf(SourceLocation{File: p.file, Line: tok.Line, Column: tok.Column}, "expected %s, got %q", what, tok.Text)
	}
	return tok, nil
}

func (p *Parser) at(tt TokenType) (bool, Token, error) {
	tok, err := p.lx.Peek()
	if err != nil {
		return false, tok, err
	}
	return tok.Type == tt, tok, nil
}

// ParseProgram parses an entire source file into a *Program.
func (p *Parser) ParseProgram() (*Program, error) {
	prog := &Program{}
	for {
		tok, err := p.lx.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokEOF {
			break
		}
		fn, err := p.parseFuncDecl()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

func (p *Parser) parseFuncDecl() (*FuncDecl, error) {
	modifier := ModDefault
	tok, err := p.lx.Peek()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokShared:
		modifier = ModShared
		p.lx.Next()
	case TokPrivate:
		modifier = ModPrivate
		p.lx.Next()
	}

	if _, err := p.expect(TokFn, "'fn'"); err != nil {
		return nil, err
	}
	name, err := p.expect(TokIdent, "function name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokLParen, "'('"); err != nil {
		return nil, err
	}
	var params []*Param
	if ok, _, _ := p.at(TokRParen); !ok {
		for {
			pn, err := p.expect(TokIdent, "parameter name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokColon, "':'"); err != nil {
				return nil, err
			}
			pt, err := p.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, &Param{Name: pn.Text, Type: pt})
			ok, _, err := p.at(TokComma)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			p.lx.Next()
		}
	}
	if _, err := p.expect(TokRParen, "')'"); err != nil {
		return nil, err
	}

	retType := &Type{Kind: KindVoid}
	if ok, _, _ := p.at(TokColon); ok {
		p.lx.Next()
		retType, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{
		Name:       name.Text,
		Params:     params,
		ReturnType: retType,
		Modifier:   modifier,
		Body:       body,
		IsMain:     name.Text == "main",
	}, nil
}

func (p *Parser) parseType() (*Type, error) {
	tok, err := p.lx.Next()
	if err != nil {
		return nil, err
	}
	var base *Type
	switch tok.Text {
	case "int":
		base = &Type{Kind: KindInt}
	case "long":
		base = &Type{Kind: KindLong}
	case "double":
		base = &Type{Kind: KindDouble}
	case "bool":
		base = &Type{Kind: KindBool}
	case "byte":
		base = &Type{Kind: KindByte}
	case "char":
		base = &Type{Kind: KindChar}
	case "string":
		base = &Type{Kind: KindString}
	case "any":
		base = &Type{Kind: KindAny}
	default:
		return nil, p.errorf(SourceLocation{File: p.file, Line: tok.Line, Column: tok.Column}, "unknown type %q", tok.Text)
	}
	for {
		ok, _, err := p.at(TokLBracket)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		p.lx.Next()
		if _, err := p.expect(TokRBracket, "']'"); err != nil {
			return nil, err
		}
		base = &Type{Kind: KindArray, Elem: base}
	}
	return base, nil
}

func (p *Parser) parseBlock() (*BlockStmt, error) {
	if _, err := p.expect(TokLBrace, "'{'"); err != nil {
		return nil, err
	}
	var stmts []Statement
	for {
		ok, _, err := p.at(TokRBrace)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	p.lx.Next() // '}'
	return &BlockStmt{Stmts: stmts}, nil
}

func (p *Parser) skipSemi() error {
	ok, _, err := p.at(TokSemicolon)
	if err != nil {
		return err
	}
	if ok {
		p.lx.Next()
	}
	return nil
}

func (p *Parser) parseStatement() (Statement, error) {
	tok, err := p.lx.Peek()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokVar:
		return p.parseVarDecl()
	case TokPrivate, TokShared:
		mod := ModPrivate
		if tok.Type == TokShared {
			mod = ModShared
		}
		p.lx.Next()
		blk, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		blk.Modifier = mod
		return blk, nil
	case TokLBrace:
		return p.parseBlock()
	case TokIf:
		return p.parseIf()
	case TokWhile:
		return p.parseWhile()
	case TokFor:
		return p.parseFor()
	case TokReturn:
		p.lx.Next()
		ok, _, err := p.at(TokRBrace)
		if err != nil {
			return nil, err
		}
		var val Expression
		if !ok {
			if ok2, semi, _ := p.at(TokSemicolon); !ok2 || semi.Type != TokSemicolon {
				val, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}
		}
		if err := p.skipSemi(); err != nil {
			return nil, err
		}
		return &ReturnStmt{Value: val}, nil
	case TokBreak:
		p.lx.Next()
		if err := p.skipSemi(); err != nil {
			return nil, err
		}
		return &BreakStmt{}, nil
	case TokContinue:
		p.lx.Next()
		if err := p.skipSemi(); err != nil {
			return nil, err
		}
		return &ContinueStmt{}, nil
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseVarDecl() (*VarDeclStmt, error) {
	p.lx.Next() // 'var'
	name, err := p.expect(TokIdent, "variable name")
	if err != nil {
		return nil, err
	}
	var typ *Type
	if ok, _, _ := p.at(TokColon); ok {
		p.lx.Next()
		typ, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokAssign, "'='"); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.skipSemi(); err != nil {
		return nil, err
	}
	return &VarDeclStmt{Name: name.Text, Type: typ, Value: val}, nil
}

func (p *Parser) parseIf() (Statement, error) {
	p.lx.Next() // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Cond: cond, Then: then}
	if ok, _, _ := p.at(TokElse); ok {
		p.lx.Next()
		if ok2, _, _ := p.at(TokIf); ok2 {
			elseStmt, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseStmt
		} else {
			elseBlk, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlk
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (Statement, error) {
	p.lx.Next() // 'while'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (Statement, error) {
	p.lx.Next() // 'for'

	// Disambiguate `for x in ...` (for-each) from C-style `for init; cond; post`.
	if ok, identTok, _ := p.at(TokIdent); ok {
		save := *p.lx
		p.lx.Next()
		if ok2, _, _ := p.at(TokIn); ok2 {
			p.lx.Next() // 'in'
			iter, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			return &ForEachStmt{Var: identTok.Text, Iterable: iter, Body: body}, nil
		}
		*p.lx = save
	}

	var init *VarDeclStmt
	if ok, _, _ := p.at(TokVar); ok {
		d, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		init = d
	} else {
		if _, err := p.expect(TokSemicolon, "';'"); err != nil {
			return nil, err
		}
	}

	var cond Expression
	if ok, _, _ := p.at(TokSemicolon); !ok {
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if _, err := p.expect(TokSemicolon, "';'"); err != nil {
		return nil, err
	}

	var post Statement
	if ok, _, _ := p.at(TokLBrace); !ok {
		s, err := p.parseExprOrAssignStmtNoSemi()
		if err != nil {
			return nil, err
		}
		post = s
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Init: init, Cond: cond, Post: post, Body: body}, nil
}

func (p *Parser) parseExprOrAssignStmt() (Statement, error) {
	s, err := p.parseExprOrAssignStmtNoSemi()
	if err != nil {
		return nil, err
	}
	if err := p.skipSemi(); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseExprOrAssignStmtNoSemi() (Statement, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if ok, _, _ := p.at(TokAssign); ok {
		p.lx.Next()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Target: expr, Value: val}, nil
	}
	return &ExprStmt{Expr: expr}, nil
}

// ---- Expressions: precedence climbing ----

func (p *Parser) parseExpr() (Expression, error) { return p.parseOr() }

func (p *Parser) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		ok, _, _ := p.at(TokOr)
		if !ok {
			return left, nil
		}
		p.lx.Next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: TokOr, Left: left, Right: right}
	}
}

func (p *Parser) parseAnd() (Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		ok, _, _ := p.at(TokAnd)
		if !ok {
			return left, nil
		}
		p.lx.Next()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: TokAnd, Left: left, Right: right}
	}
}

func (p *Parser) parseEquality() (Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		ok1, _, _ := p.at(TokEq)
		ok2, _, _ := p.at(TokNeq)
		if !ok1 && !ok2 {
			return left, nil
		}
		tok, _ := p.lx.Next()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: tok.Type, Left: left, Right: right}
	}
}

func (p *Parser) parseRelational() (Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lx.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != TokLt && tok.Type != TokLte && tok.Type != TokGt && tok.Type != TokGte {
			return left, nil
		}
		p.lx.Next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: tok.Type, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() (Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lx.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != TokPlus && tok.Type != TokMinus {
			return left, nil
		}
		p.lx.Next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: tok.Type, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lx.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Type != TokStar && tok.Type != TokSlash && tok.Type != TokPercent {
			return left, nil
		}
		p.lx.Next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: tok.Type, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (Expression, error) {
	tok, err := p.lx.Peek()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokMinus || tok.Type == TokNot {
		p.lx.Next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: tok.Type, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lx.Peek()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokDot:
			p.lx.Next()
			name, err := p.expect(TokIdent, "member name")
			if err != nil {
				return nil, err
			}
			if ok, _, _ := p.at(TokLParen); ok {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				if id, isIdent := expr.(*Ident); isIdent && isUpperFirst(id.Name) {
					expr = &StaticCallExpr{TypeName: id.Name, Method: name.Text, Args: args}
				} else {
					expr = &MemberCallExpr{Object: expr, Method: name.Text, Args: args}
				}
				continue
			}
			return nil, p.errorf(SourceLocation{File: p.file, Line: tok.Line, Column: tok.Column}, "field access is not supported, only method calls")
		case TokLBracket:
			p.lx.Next()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRBracket, "']'"); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Array: expr, Index: idx}
		case TokLParen:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &CallExpr{Callee: expr, Args: args}
		case TokDotDot:
			p.lx.Next()
			hi, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			expr = &RangeExpr{Lo: expr, Hi: hi}
		default:
			return expr, nil
		}
	}
}

func isUpperFirst(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

func (p *Parser) parseArgs() ([]Expression, error) {
	p.lx.Next() // '('
	var args []Expression
	if ok, _, _ := p.at(TokRParen); !ok {
		for {
			a, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if ok, _, _ := p.at(TokComma); !ok {
				break
			}
			p.lx.Next()
		}
	}
	if _, err := p.expect(TokRParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (Expression, error) {
	tok, err := p.lx.Next()
	if err != nil {
		return nil, err
	}
	loc := SourceLocation{File: p.file, Line: tok.Line, Column: tok.Column}
	switch tok.Type {
	case TokInt:
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errorf(loc, "invalid integer literal %q", tok.Text)
		}
		return &IntLit{Value: v}, nil
	case TokFloat:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorf(loc, "invalid float literal %q", tok.Text)
		}
		return &FloatLit{Value: v}, nil
	case TokString:
		return &StringLit{Value: tok.Text}, nil
	case TokChar:
		return &CharLit{Value: tok.Text[0]}, nil
	case TokTrue:
		return &BoolLit{Value: true}, nil
	case TokFalse:
		return &BoolLit{Value: false}, nil
	case TokIdent:
		return &Ident{Name: tok.Text}, nil
	case TokLParen:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case TokLBracket:
		var elems []Expression
		if ok, _, _ := p.at(TokRBracket); !ok {
			for {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if ok, _, _ := p.at(TokComma); !ok {
					break
				}
				p.lx.Next()
			}
		}
		if _, err := p.expect(TokRBracket, "']'"); err != nil {
			return nil, err
		}
		return &ArrayLit{Elems: elems}, nil
	case TokPipe, TokOr:
		// The lexer reads a parameterless `||` as one TokOr token.
		var params []*Param
		if ok, _, _ := p.at(TokPipe); tok.Type == TokPipe && !ok {
			for {
				pn, err := p.expect(TokIdent, "lambda parameter")
				if err != nil {
					return nil, err
				}
				pt := &Type{Kind: KindUnknown}
				if ok2, _, _ := p.at(TokColon); ok2 {
					p.lx.Next()
					pt, err = p.parseType()
					if err != nil {
						return nil, err
					}
				}
				params = append(params, &Param{Name: pn.Text, Type: pt})
				if ok2, _, _ := p.at(TokComma); !ok2 {
					break
				}
				p.lx.Next()
			}
		}
		if tok.Type == TokPipe {
			if _, err := p.expect(TokPipe, "'|'"); err != nil {
				return nil, err
			}
		}
		var body *BlockStmt
		if ok, _, _ := p.at(TokLBrace); ok {
			body, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			body = &BlockStmt{Stmts: []Statement{&ReturnStmt{Value: e}}}
		}
		return &LambdaExpr{Params: params, Body: body}, nil
	}
	return nil, p.errorf(loc, "unexpected token %q", tok.Text)
}
