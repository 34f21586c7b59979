package parser

import "github.com/atl-run/atl/ast"

// parseExpression is the core Pratt loop: a prefix handler produces the
// left operand, then infix handlers keep folding in operators whose
// precedence exceeds the caller's floor.
func (p *Parser) parseExpression(precedence Precedence) ast.Expression {
	prefixFn, ok := p.prefix[p.current.Kind]
	if !ok {
		p.errorf(p.current.Range, "no prefix parser for %s", p.current.String())
		return nil
	}
	left := prefixFn(p)

	for left != nil && precedence < p.peekPrecedence() {
		infixFn, ok := p.infix[p.current.Kind]
		if !ok {
			break
		}
		left = infixFn(p, left)
	}
	return left
}

func (p *Parser) ParseExpression() ast.Expression {
	return p.parseExpression(LOWEST)
}
