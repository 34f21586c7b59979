package parser

import "github.com/atl-run/atl/tokens"

// skipDoBlock discards a `do { ... }` imperative action block by brace
// matching. The reference dialect permits an empty imperative body; since
// nothing in this interpreter executes one, its contents are parsed only
// far enough to find the matching close brace, not as expressions.
func (p *Parser) skipDoBlock() {
	if !p.is(tokens.KeywordDo) {
		return
	}
	p.advance() // 'do'
	if !p.is(tokens.OpLCurly) {
		return
	}
	p.advance() // '{'
	depth := 1
	for depth > 0 {
		switch p.head().Kind {
		case tokens.EOF:
			p.errorf(p.head().Range, "unterminated do block")
			return
		case tokens.OpLCurly:
			depth++
		case tokens.OpRCurly:
			depth--
		}
		p.advance()
	}
}
