package parser

import (
	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/tokens"
)

// parseNavigationOrCall is the infix handler for `.`: a bare property read,
// or (since a context-typed helper is invoked with the same dot syntax as a
// property) a call when the name is followed by `(`.
func parseNavigationOrCall(p *Parser, left ast.Expression) ast.Expression {
	dot := p.head()
	p.advance() // '.'
	nameTok, ok := p.expect(tokens.Ident)
	if !ok {
		return left
	}

	if p.is(tokens.OpLParen) {
		args := parseArgList(p)
		return ast.NewMethodCall(left, nameTok.Value, args, false, span(left.Position(), p.lastConsumedRange()))
	}

	return ast.NewNavigation(left, nameTok.Value, span(left.Position(), dot.Range))
}

// parseCollectionOp is the infix handler for `->`: collection-algebra
// operations (select, reject, collect, size, ...) and the distinguished
// iterate form, which has its own `param; acc = init | body` argument
// grammar rather than a plain comma-separated arg list.
func parseCollectionOp(p *Parser, left ast.Expression) ast.Expression {
	p.advance() // '->'
	nameTok, ok := p.expect(tokens.Ident)
	if !ok {
		return left
	}

	if nameTok.Value == "iterate" {
		return parseIterateTail(p, left, nameTok)
	}

	var args []ast.Expression
	if p.is(tokens.OpLParen) {
		args = parseArgList(p)
	}
	return ast.NewMethodCall(left, nameTok.Value, args, true, span(left.Position(), p.lastConsumedRange()))
}

// parseIterateTail parses the `(param ; acc [: type] = init | body)` tail of
// `source->iterate(...)`, having already consumed `source->iterate`.
func parseIterateTail(p *Parser, source ast.Expression, iterTok tokens.Instance) ast.Expression {
	p.expect(tokens.OpLParen)
	paramTok, _ := p.expect(tokens.Ident)
	p.expect(tokens.OpSemi)
	accTok, _ := p.expect(tokens.Ident)

	var accType *ast.TypeRef
	if p.is(tokens.OpColon) {
		p.advance()
		accType = p.parseTypeRef()
	}

	p.expect(tokens.OpAssign)
	init := p.parseExpression(LOWEST)
	p.expect(tokens.OpPipe)
	body := p.parseExpression(LOWEST)
	end, _ := p.expect(tokens.OpRParen)

	return ast.NewIterate(source, paramTok.Value, accTok.Value, accType, init, body, span(source.Position(), end.Range))
}

// parseCollectionLiteral parses `Sequence{...}`, `Set{...}`, `Bag{...}`, or
// `OrderedSet{...}`; the caller has already confirmed the `{` lookahead.
func parseCollectionLiteral(p *Parser, kind string) ast.Expression {
	tok := p.head()
	p.advance() // kind ident
	p.expect(tokens.OpLCurly)
	var elems []ast.Expression
	for !p.is(tokens.OpRCurly, tokens.EOF) {
		elems = append(elems, p.parseExpression(LOWEST))
		if p.is(tokens.OpComma) {
			p.advance()
			continue
		}
		break
	}
	end, _ := p.expect(tokens.OpRCurly)
	return ast.NewCollectionLiteral(kind, elems, span(tok.Range, end.Range))
}

// parseTupleExpr parses `Tuple{ name [: type] = expr, ... }`; the caller
// has already confirmed the `{` lookahead following the `Tuple` keyword.
func parseTupleExpr(p *Parser) ast.Expression {
	tok := p.head()
	p.advance() // "Tuple"
	p.expect(tokens.OpLCurly)
	var fields []ast.TupleField
	for !p.is(tokens.OpRCurly, tokens.EOF) {
		nameTok, _ := p.expect(tokens.Ident)
		var typ *ast.TypeRef
		if p.is(tokens.OpColon) {
			p.advance()
			typ = p.parseTypeRef()
		}
		p.expect(tokens.OpAssign)
		val := p.parseExpression(LOWEST)
		fields = append(fields, ast.TupleField{Name: nameTok.Value, Type: typ, Value: val})
		if p.is(tokens.OpComma) {
			p.advance()
			continue
		}
		break
	}
	end, _ := p.expect(tokens.OpRCurly)
	return ast.NewTupleExpr(fields, span(tok.Range, end.Range))
}
