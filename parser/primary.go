package parser

import (
	"strconv"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/tokens"
)

func (p *Parser) registerParseFns() {
	p.registerPrefix(tokens.Int, parseIntLiteral)
	p.registerPrefix(tokens.Real, parseRealLiteral)
	p.registerPrefix(tokens.String, parseStringLiteral)
	p.registerPrefix(tokens.KeywordTrue, parseBoolLiteral)
	p.registerPrefix(tokens.KeywordFalse, parseBoolLiteral)
	p.registerPrefix(tokens.KeywordSelf, parseSelf)
	p.registerPrefix(tokens.Ident, parseIdentifierPrimary)
	p.registerPrefix(tokens.OpLParen, parseGroupedExpression)
	p.registerPrefix(tokens.KeywordNot, parseUnary)
	p.registerPrefix(tokens.OpMinus, parseUnary)
	p.registerPrefix(tokens.KeywordIf, parseConditional)
	p.registerPrefix(tokens.KeywordLet, parseLet)

	p.registerInfix(tokens.OpPlus, parseBinary)
	p.registerInfix(tokens.OpMinus, parseBinary)
	p.registerInfix(tokens.OpMul, parseBinary)
	p.registerInfix(tokens.OpDiv, parseBinary)
	p.registerInfix(tokens.OpAssign, parseBinary)
	p.registerInfix(tokens.OpNeq, parseBinary)
	p.registerInfix(tokens.OpLt, parseBinary)
	p.registerInfix(tokens.OpGt, parseBinary)
	p.registerInfix(tokens.OpLte, parseBinary)
	p.registerInfix(tokens.OpGte, parseBinary)
	p.registerInfix(tokens.KeywordAnd, parseBinary)
	p.registerInfix(tokens.KeywordOr, parseBinary)
	p.registerInfix(tokens.OpDot, parseNavigationOrCall)
	p.registerInfix(tokens.OpArrow, parseCollectionOp)
}

func parseIntLiteral(p *Parser) ast.Expression {
	tok := p.head()
	i, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		p.errorf(tok.Range, "invalid integer literal %q", tok.Value)
		p.advance()
		return nil
	}
	p.advance()
	return ast.NewIntLiteral(i, tok.Range)
}

func parseRealLiteral(p *Parser) ast.Expression {
	tok := p.head()
	f, err := strconv.ParseFloat(tok.Value, 64)
	if err != nil {
		p.errorf(tok.Range, "invalid real literal %q", tok.Value)
		p.advance()
		return nil
	}
	p.advance()
	return ast.NewRealLiteral(f, tok.Range)
}

func parseStringLiteral(p *Parser) ast.Expression {
	tok := p.head()
	p.advance()
	return ast.NewStringLiteral(tok.Value, tok.Range)
}

func parseBoolLiteral(p *Parser) ast.Expression {
	tok := p.head()
	p.advance()
	return ast.NewBoolLiteral(tok.Kind == tokens.KeywordTrue, tok.Range)
}

func parseSelf(p *Parser) ast.Expression {
	tok := p.head()
	p.advance()
	return ast.NewVariable("self", tok.Range)
}

func parseUnary(p *Parser) ast.Expression {
	tok := p.head()
	op := tok.Value
	if tok.Kind == tokens.KeywordNot {
		op = "not"
	}
	p.advance()
	operand := p.parseExpression(UNARY)
	return ast.NewUnaryOp(op, operand, span(tok.Range, operand.Position()))
}

func parseGroupedExpression(p *Parser) ast.Expression {
	p.advance() // '('
	expr := p.parseExpression(LOWEST)
	p.expect(tokens.OpRParen)
	return expr
}

// parseIdentifierPrimary handles: bare identifiers naming well-known
// collection/tuple literal introducers (Sequence/Set/Bag/OrderedSet/Tuple),
// a helper call (ident followed by '('), a type literal (ident followed by
// '!'), or a plain variable reference.
func parseIdentifierPrimary(p *Parser) ast.Expression {
	tok := p.head()
	name := tok.Value

	switch name {
	case "Sequence", "Set", "Bag", "OrderedSet":
		if p.peek().Kind == tokens.OpLCurly {
			return parseCollectionLiteral(p, name)
		}
	case "Tuple":
		if p.peek().Kind == tokens.OpLCurly {
			return parseTupleExpr(p)
		}
	}

	p.advance()

	if p.is(tokens.OpBang) {
		p.advance()
		classTok, _ := p.expect(tokens.Ident)
		ref := &ast.TypeRef{Kind: ast.TypeRefQualified, Alias: name, Class: classTok.Value}
		return ast.NewTypeLiteral(ref, span(tok.Range, classTok.Range))
	}

	if p.is(tokens.OpLParen) {
		args := parseArgList(p)
		return ast.NewHelperCall(name, args, span(tok.Range, p.lastConsumedRange()))
	}

	return ast.NewVariable(name, tok.Range)
}

// parseArgList parses a parenthesised, comma-separated argument list,
// recognising the lambda form `ident | expr` by single-token lookahead.
func parseArgList(p *Parser) []ast.Expression {
	p.expect(tokens.OpLParen)
	var args []ast.Expression
	for !p.is(tokens.OpRParen, tokens.EOF) {
		args = append(args, parseArgOrLambda(p))
		if p.is(tokens.OpComma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(tokens.OpRParen)
	return args
}

func parseArgOrLambda(p *Parser) ast.Expression {
	if p.head().Kind == tokens.Ident && p.peek().Kind == tokens.OpPipe {
		return parseLambdaFromIdent(p)
	}
	return p.parseExpression(LOWEST)
}

func parseLambdaFromIdent(p *Parser) ast.Expression {
	tok := p.head()
	param := tok.Value
	p.advance() // ident
	p.expect(tokens.OpPipe)
	body := p.parseExpression(LOWEST)
	return ast.NewLambda(param, body, span(tok.Range, body.Position()))
}
