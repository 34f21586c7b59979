package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atl-run/atl/tokens"
)

// LiteralKind discriminates the handful of primitive literal forms the
// lexer can produce directly (collection and tuple literals are their own
// node types since they carry sub-expressions).
type LiteralKind uint8

const (
	LiteralInt LiteralKind = iota
	LiteralReal
	LiteralString
	LiteralBool
	LiteralNull
)

type Literal struct {
	*baseNode
	Kind LiteralKind
	I    int64
	F    float64
	S    string
	B    bool
}

func NewIntLiteral(i int64, r tokens.Range) *Literal {
	return &Literal{baseNode: &baseNode{Rnge: r}, Kind: LiteralInt, I: i}
}

func NewRealLiteral(f float64, r tokens.Range) *Literal {
	return &Literal{baseNode: &baseNode{Rnge: r}, Kind: LiteralReal, F: f}
}

func NewStringLiteral(s string, r tokens.Range) *Literal {
	return &Literal{baseNode: &baseNode{Rnge: r}, Kind: LiteralString, S: s}
}

func NewBoolLiteral(b bool, r tokens.Range) *Literal {
	return &Literal{baseNode: &baseNode{Rnge: r}, Kind: LiteralBool, B: b}
}

func NewNullLiteral(r tokens.Range) *Literal {
	return &Literal{baseNode: &baseNode{Rnge: r}, Kind: LiteralNull}
}

func (l *Literal) String() string {
	switch l.Kind {
	case LiteralInt:
		return fmt.Sprintf("%d", l.I)
	case LiteralReal:
		s := strconv.FormatFloat(l.F, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case LiteralString:
		return "'" + l.S + "'"
	case LiteralBool:
		return fmt.Sprintf("%t", l.B)
	default:
		return "null"
	}
}

func (l *Literal) expressionNode() {}

var _ Expression = (*Literal)(nil)

// Variable references a name bound in the current scope stack.
type Variable struct {
	*baseNode
	Name string
}

func NewVariable(name string, r tokens.Range) *Variable {
	return &Variable{baseNode: &baseNode{Rnge: r}, Name: name}
}

func (v *Variable) String() string   { return v.Name }
func (v *Variable) expressionNode() {}

var _ Expression = (*Variable)(nil)

// TypeLiteral denotes a bare type name, or an Alias!Class qualified type,
// used as a value (e.g. the receiver of allInstances).
type TypeLiteral struct {
	*baseNode
	Ref *TypeRef
}

func NewTypeLiteral(ref *TypeRef, r tokens.Range) *TypeLiteral {
	return &TypeLiteral{baseNode: &baseNode{Rnge: r}, Ref: ref}
}

func (t *TypeLiteral) String() string   { return t.Ref.String() }
func (t *TypeLiteral) expressionNode() {}

var _ Expression = (*TypeLiteral)(nil)
