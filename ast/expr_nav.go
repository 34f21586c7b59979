package ast

import "github.com/atl-run/atl/tokens"

// Navigation is a `.` property read, or a context-typed helper call falling
// back through the same syntax.
type Navigation struct {
	*baseNode
	Source Expression
	Prop   string
}

func NewNavigation(source Expression, prop string, r tokens.Range) *Navigation {
	return &Navigation{baseNode: &baseNode{Rnge: r}, Source: source, Prop: prop}
}

func (n *Navigation) String() string   { return n.Source.String() + "." + n.Prop }
func (n *Navigation) expressionNode() {}

var _ Expression = (*Navigation)(nil)

// BinaryOp is an eagerly-evaluated two-operand operator: arithmetic,
// comparison, equality, or logical and/or.
type BinaryOp struct {
	*baseNode
	Op          string
	Left, Right Expression
}

func NewBinaryOp(op string, left, right Expression, r tokens.Range) *BinaryOp {
	return &BinaryOp{baseNode: &baseNode{Rnge: r}, Op: op, Left: left, Right: right}
}

func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}
func (b *BinaryOp) expressionNode() {}

var _ Expression = (*BinaryOp)(nil)

// UnaryOp is `not` or unary `-`.
type UnaryOp struct {
	*baseNode
	Op      string
	Operand Expression
}

func NewUnaryOp(op string, operand Expression, r tokens.Range) *UnaryOp {
	return &UnaryOp{baseNode: &baseNode{Rnge: r}, Op: op, Operand: operand}
}

func (u *UnaryOp) String() string   { return u.Op + " " + u.Operand.String() }
func (u *UnaryOp) expressionNode() {}

var _ Expression = (*UnaryOp)(nil)

// Conditional is `if c then t else e endif`.
type Conditional struct {
	*baseNode
	Cond, Then, Else Expression
}

func NewConditional(cond, then, els Expression, r tokens.Range) *Conditional {
	return &Conditional{baseNode: &baseNode{Rnge: r}, Cond: cond, Then: then, Else: els}
}

func (c *Conditional) String() string {
	return "if " + c.Cond.String() + " then " + c.Then.String() + " else " + c.Else.String() + " endif"
}
func (c *Conditional) expressionNode() {}

var _ Expression = (*Conditional)(nil)
