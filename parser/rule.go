package parser

import (
	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/tokens"
)

// parseRule parses either a called rule (`rule Name ( params ) to
// target-patterns`) or a matched rule (`rule Name from source-pattern to
// target-patterns [do {...}]`), distinguished by whether `(` or `from`
// follows the rule name.
func (p *Parser) parseRule(mod *ast.Module) {
	tok := p.head()
	p.advance() // 'rule'
	nameTok, _ := p.expect(tokens.Ident)

	if p.is(tokens.OpLParen) {
		params := p.parseParamList()
		p.expect(tokens.KeywordTo)
		targets := p.parseTargetPatterns()
		p.skipDoBlock()
		p.expect(tokens.OpSemi)

		mod.CalledRules.Set(nameTok.Value, &ast.CalledRule{
			Name:    nameTok.Value,
			Params:  params,
			Targets: targets,
			Range:   span(tok.Range, p.lastConsumedRange()),
		})
		return
	}

	p.expect(tokens.KeywordFrom)
	source := p.parseSourcePattern()
	p.expect(tokens.KeywordTo)
	targets := p.parseTargetPatterns()
	p.skipDoBlock()
	p.expect(tokens.OpSemi)

	mod.MatchedRules = append(mod.MatchedRules, &ast.MatchedRule{
		Name:    nameTok.Value,
		Source:  source,
		Targets: targets,
		Range:   span(tok.Range, p.lastConsumedRange()),
	})
}

// parseLazyRule parses `lazy rule Name from param : type to
// target-patterns`, represented as a CalledRule with exactly one parameter.
func (p *Parser) parseLazyRule(mod *ast.Module) {
	tok := p.head()
	p.advance() // 'lazy'
	p.expect(tokens.KeywordRule)
	nameTok, _ := p.expect(tokens.Ident)
	p.expect(tokens.KeywordFrom)

	paramTok, _ := p.expect(tokens.Ident)
	p.expect(tokens.OpColon)
	paramType := p.parseTypeRef()

	p.expect(tokens.KeywordTo)
	targets := p.parseTargetPatterns()
	p.skipDoBlock()
	p.expect(tokens.OpSemi)

	mod.CalledRules.Set(nameTok.Value, &ast.CalledRule{
		Name:    nameTok.Value,
		Params:  []ast.Param{{Name: paramTok.Value, Type: paramType}},
		Targets: targets,
		Lazy:    true,
		Range:   span(tok.Range, p.lastConsumedRange()),
	})
}

// parseSourcePattern parses `name : type-expr [( guard-expr )]`.
func (p *Parser) parseSourcePattern() ast.SourcePattern {
	nameTok, _ := p.expect(tokens.Ident)
	p.expect(tokens.OpColon)
	typ := p.parseTypeRef()

	var guard ast.Expression
	if p.is(tokens.OpLParen) {
		p.advance()
		guard = p.parseExpression(LOWEST)
		p.expect(tokens.OpRParen)
	}

	return ast.SourcePattern{Var: nameTok.Value, Type: typ, Guard: guard}
}

// parseTargetPatterns parses one or more comma-separated target patterns.
func (p *Parser) parseTargetPatterns() []ast.TargetPattern {
	var targets []ast.TargetPattern
	for {
		targets = append(targets, p.parseTargetPattern())
		if p.is(tokens.OpComma) {
			p.advance()
			continue
		}
		break
	}
	return targets
}

// parseTargetPattern parses `name : type-expr [( {prop <- expr}*, )]`.
func (p *Parser) parseTargetPattern() ast.TargetPattern {
	nameTok, _ := p.expect(tokens.Ident)
	p.expect(tokens.OpColon)
	typ := p.parseTypeRef()

	var bindings []ast.PropertyBinding
	if p.is(tokens.OpLParen) {
		p.advance()
		for !p.is(tokens.OpRParen, tokens.EOF) {
			propTok, _ := p.expect(tokens.Ident)
			p.expect(tokens.OpBind)
			val := p.parseExpression(LOWEST)
			bindings = append(bindings, ast.PropertyBinding{Property: propTok.Value, Value: val})
			if p.is(tokens.OpComma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(tokens.OpRParen)
	}

	return ast.TargetPattern{Var: nameTok.Value, Type: typ, Bindings: bindings}
}
