package parser

import (
	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/tokens"
)

// opText maps an operator token back to the textual operator ast.BinaryOp
// carries, since keywords (and/or) and symbols (+, <>, ...) both flow
// through this one infix handler.
func opText(tok tokens.Instance) string {
	switch tok.Kind {
	case tokens.KeywordAnd:
		return "and"
	case tokens.KeywordOr:
		return "or"
	default:
		return tok.Value
	}
}

// parseBinary implements left-associative binary operators: the right
// operand is parsed at the operator's own precedence, so a same-precedence
// operator to its right stops rather than nesting.
func parseBinary(p *Parser, left ast.Expression) ast.Expression {
	tok := p.head()
	op := opText(tok)
	prec := p.peekPrecedence()
	p.advance()
	right := p.parseExpression(prec)
	if right == nil {
		return left
	}
	return ast.NewBinaryOp(op, left, right, span(left.Position(), right.Position()))
}
