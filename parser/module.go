package parser

import (
	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/tokens"
)

// ParseModule parses a whole program text: `module Ident ; [create-stmt]
// { helper | rule | lazy-rule | query }* EOF`.
func (p *Parser) ParseModule() (*ast.Module, error) {
	p.expect(tokens.KeywordModule)
	nameTok, ok := p.expect(tokens.Ident)
	if !ok {
		return nil, p.err
	}
	p.expect(tokens.OpSemi)

	mod := ast.NewModule(nameTok.Value)

	if p.is(tokens.KeywordCreate) {
		p.parseCreateStmt(mod)
	} else {
		mod.SourceAliases.Set("IN", &ast.MetamodelHandle{Alias: "IN", PackageName: "DefaultSource"})
		mod.TargetAliases.Set("OUT", &ast.MetamodelHandle{Alias: "OUT", PackageName: "DefaultTarget"})
	}

	for !p.is(tokens.EOF) {
		switch {
		case p.is(tokens.KeywordHelper):
			p.parseHelper(mod)
		case p.is(tokens.KeywordQuery):
			p.parseQuery(mod)
		case p.is(tokens.KeywordLazy):
			p.parseLazyRule(mod)
		case p.is(tokens.KeywordRule):
			p.parseRule(mod)
		default:
			p.errorf(p.head().Range, "expected helper, query, rule or lazy rule, got %s", p.head())
			p.advance()
		}
	}

	mod.PathDirectives = p.pathDirectives
	return mod, p.err
}

type aliasSpec struct {
	Alias   string
	Package string
}

// parseCreateStmt parses `create {Alias : Ident}+, [from {Alias : Ident}+,] ;`.
// Aliases left of `from` are targets, aliases right of it are sources.
func (p *Parser) parseCreateStmt(mod *ast.Module) {
	p.advance() // 'create'
	targets := p.parseAliasList()
	for _, a := range targets {
		mod.TargetAliases.Set(a.Alias, &ast.MetamodelHandle{Alias: a.Alias, PackageName: a.Package})
	}
	if p.is(tokens.KeywordFrom) {
		p.advance()
		sources := p.parseAliasList()
		for _, a := range sources {
			mod.SourceAliases.Set(a.Alias, &ast.MetamodelHandle{Alias: a.Alias, PackageName: a.Package})
		}
	}
	p.expect(tokens.OpSemi)
}

func (p *Parser) parseAliasList() []aliasSpec {
	var specs []aliasSpec
	for {
		aliasTok, ok := p.expect(tokens.Ident)
		if !ok {
			break
		}
		p.expect(tokens.OpColon)
		pkgTok, _ := p.expect(tokens.Ident)
		specs = append(specs, aliasSpec{Alias: aliasTok.Value, Package: pkgTok.Value})
		if p.is(tokens.OpComma) {
			p.advance()
			continue
		}
		break
	}
	return specs
}

// parseHelper parses `helper [context <type>] def : <name> [( params )] :
// <return-type> = <expr> ;`.
func (p *Parser) parseHelper(mod *ast.Module) {
	tok := p.head()
	p.advance() // 'helper'

	var contextName string
	if p.is(tokens.KeywordContext) {
		p.advance()
		ctxType := p.parseTypeRef()
		if ctxType != nil {
			// Dispatch keys on the bare class name regardless of which
			// metamodel alias declares it: the same helper must serve an
			// instance of that class no matter which source/target alias
			// it was read from.
			if ctxType.Kind == ast.TypeRefQualified {
				contextName = ctxType.Class
			} else {
				contextName = ctxType.Name
			}
		}
	}

	p.expect(tokens.KeywordDef)
	p.expect(tokens.OpColon)
	nameTok, _ := p.expect(tokens.Ident)

	var params []ast.Param
	if p.is(tokens.OpLParen) {
		params = p.parseParamList()
	}

	p.expect(tokens.OpColon)
	retType := p.parseTypeRef()
	p.expect(tokens.OpAssign)
	body := p.parseExpression(LOWEST)
	p.expect(tokens.OpSemi)

	h := &ast.Helper{
		Name:       nameTok.Value,
		Context:    contextName,
		ReturnType: retType,
		Params:     params,
		Body:       body,
		Range:      span(tok.Range, p.lastConsumedRange()),
	}
	mod.Helpers.Set(ast.HelperKey(contextName, nameTok.Value), h)
}

// parseQuery parses `query <name> = <expr> ;`, stored as a context-free
// helper returning OclAny with no parameters.
func (p *Parser) parseQuery(mod *ast.Module) {
	tok := p.head()
	p.advance() // 'query'
	nameTok, _ := p.expect(tokens.Ident)
	p.expect(tokens.OpAssign)
	body := p.parseExpression(LOWEST)
	p.expect(tokens.OpSemi)

	h := &ast.Helper{
		Name:       nameTok.Value,
		ReturnType: &ast.TypeRef{Kind: ast.TypeRefBare, Name: "OclAny"},
		Body:       body,
		Range:      span(tok.Range, p.lastConsumedRange()),
	}
	mod.Helpers.Set(ast.HelperKey("", nameTok.Value), h)
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(tokens.OpLParen)
	var params []ast.Param
	for !p.is(tokens.OpRParen, tokens.EOF) {
		nameTok, _ := p.expect(tokens.Ident)
		p.expect(tokens.OpColon)
		typ := p.parseTypeRef()
		params = append(params, ast.Param{Name: nameTok.Value, Type: typ})
		if p.is(tokens.OpComma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(tokens.OpRParen)
	return params
}
