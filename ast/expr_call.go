package ast

import (
	"strings"

	"github.com/atl-run/atl/tokens"
)

// HelperCall invokes a context-free helper (or query) by name.
type HelperCall struct {
	*baseNode
	Name string
	Args []Expression
}

func NewHelperCall(name string, args []Expression, r tokens.Range) *HelperCall {
	return &HelperCall{baseNode: &baseNode{Rnge: r}, Name: name, Args: args}
}

func (h *HelperCall) String() string {
	return h.Name + "(" + joinExprs(h.Args) + ")"
}
func (h *HelperCall) expressionNode() {}

var _ Expression = (*HelperCall)(nil)

// MethodCall is `receiver->name(args)` or `receiver.name(args)`: a
// collection-algebra operation, a context-typed helper, or a literal
// method (toString, mod, ...).
type MethodCall struct {
	*baseNode
	Receiver Expression
	Name     string
	Args     []Expression
	Arrow    bool // true for `->`, false for `.`
}

func NewMethodCall(recv Expression, name string, args []Expression, arrow bool, r tokens.Range) *MethodCall {
	return &MethodCall{baseNode: &baseNode{Rnge: r}, Receiver: recv, Name: name, Args: args, Arrow: arrow}
}

func (m *MethodCall) String() string {
	sep := "."
	if m.Arrow {
		sep = "->"
	}
	return m.Receiver.String() + sep + m.Name + "(" + joinExprs(m.Args) + ")"
}
func (m *MethodCall) expressionNode() {}

var _ Expression = (*MethodCall)(nil)

// CollectionLiteral is `Sequence{...}`, `Set{...}`, `Bag{...}`, or
// `OrderedSet{...}`.
type CollectionLiteral struct {
	*baseNode
	Kind  string // "Sequence" | "Set" | "Bag" | "OrderedSet"
	Elems []Expression
}

func NewCollectionLiteral(kind string, elems []Expression, r tokens.Range) *CollectionLiteral {
	return &CollectionLiteral{baseNode: &baseNode{Rnge: r}, Kind: kind, Elems: elems}
}

func (c *CollectionLiteral) String() string {
	return c.Kind + "{" + joinExprs(c.Elems) + "}"
}
func (c *CollectionLiteral) expressionNode() {}

var _ Expression = (*CollectionLiteral)(nil)

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
