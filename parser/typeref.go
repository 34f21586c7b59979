package parser

import (
	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/tokens"
)

// parseTypeRef parses one type-expr: a bare name, an Alias!Class qualified
// name, a generic Name(inner), or a TupleType(field : type, ...) shape.
// Only the collection kinds (Sequence, Set, Bag, OrderedSet) take the
// generic form; after any other name a `(` is left for the caller, so a
// source pattern's guard can follow a bare type.
func (p *Parser) parseTypeRef() *ast.TypeRef {
	if p.is(tokens.Ident) && p.head().Value == "TupleType" && p.peek().Kind == tokens.OpLParen {
		return p.parseTupleType()
	}

	nameTok, ok := p.expectTypeName()
	if !ok {
		return nil
	}
	name := nameTok.Value

	if p.is(tokens.OpBang) {
		p.advance()
		classTok, _ := p.expect(tokens.Ident)
		return &ast.TypeRef{Kind: ast.TypeRefQualified, Alias: name, Class: classTok.Value}
	}

	if p.is(tokens.OpLParen) {
		switch name {
		case "Sequence", "Set", "Bag", "OrderedSet":
			p.advance()
			inner := p.parseTypeRef()
			p.expect(tokens.OpRParen)
			return &ast.TypeRef{Kind: ast.TypeRefGeneric, Name: name, Inner: inner}
		}
	}

	return &ast.TypeRef{Kind: ast.TypeRefBare, Name: name}
}

// expectTypeName accepts either a plain identifier or one of the built-in
// primitive type keywords (Integer/String/Boolean/Real) as a type name.
func (p *Parser) expectTypeName() (tokens.Instance, bool) {
	switch p.head().Kind {
	case tokens.Ident, tokens.KeywordInteger, tokens.KeywordString, tokens.KeywordBoolean, tokens.KeywordReal:
		tok := p.head()
		p.advance()
		return tok, true
	}
	p.errorf(p.head().Range, "expected type name, got %s", p.head())
	return p.head(), false
}

func (p *Parser) parseTupleType() *ast.TypeRef {
	p.advance() // "TupleType"
	p.expect(tokens.OpLParen)
	var fields []ast.TupleFieldType
	for !p.is(tokens.OpRParen, tokens.EOF) {
		nameTok, _ := p.expect(tokens.Ident)
		p.expect(tokens.OpColon)
		typ := p.parseTypeRef()
		fields = append(fields, ast.TupleFieldType{Name: nameTok.Value, Type: typ})
		if p.is(tokens.OpComma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(tokens.OpRParen)
	return &ast.TypeRef{Kind: ast.TypeRefTuple, Fields: fields}
}
