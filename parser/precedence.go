package parser

import "github.com/atl-run/atl/tokens"

// Precedence orders the binary-operator ladder, lowest to highest:
//   conditional → or → and → equality → relational → additive →
//   multiplicative → unary → postfix → primary
type Precedence uint8

const (
	LOWEST Precedence = iota
	CONDITIONAL
	OR
	AND
	EQUALITY
	RELATIONAL
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX
	PRIMARY
)

var precedences = map[tokens.Kind]Precedence{
	tokens.KeywordOr:     OR,
	tokens.KeywordAnd:    AND,
	tokens.OpAssign:      EQUALITY,
	tokens.OpNeq:         EQUALITY,
	tokens.OpLt:          RELATIONAL,
	tokens.OpGt:          RELATIONAL,
	tokens.OpLte:         RELATIONAL,
	tokens.OpGte:         RELATIONAL,
	tokens.OpPlus:        ADDITIVE,
	tokens.OpMinus:       ADDITIVE,
	tokens.OpMul:         MULTIPLICATIVE,
	tokens.OpDiv:         MULTIPLICATIVE,
	tokens.OpDot:         POSTFIX,
	tokens.OpArrow:       POSTFIX,
}

func (p *Parser) peekPrecedence() Precedence {
	if pr, ok := precedences[p.current.Kind]; ok {
		return pr
	}
	return LOWEST
}
