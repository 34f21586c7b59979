package parser

import (
	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/tokens"
)

// parseLet parses `let name [: type] = init in body`.
func parseLet(p *Parser) ast.Expression {
	tok := p.head()
	p.advance() // 'let'
	nameTok, _ := p.expect(tokens.Ident)

	var typ *ast.TypeRef
	if p.is(tokens.OpColon) {
		p.advance()
		typ = p.parseTypeRef()
	}

	p.expect(tokens.OpAssign)
	init := p.parseExpression(LOWEST)
	p.expect(tokens.KeywordIn)
	body := p.parseExpression(LOWEST)

	return ast.NewLet(nameTok.Value, typ, init, body, span(tok.Range, body.Position()))
}
