// Package ast defines the typed expression/rule tree the parser produces
// and the evaluator walks. Every node is a plain struct embedding baseNode
// for its source Range; expressions additionally implement expressionNode()
// so the Go type system catches an expression used where a statement was
// required, and vice versa.
package ast

import "github.com/atl-run/atl/tokens"

type Node interface {
	String() string
	Position() tokens.Range
}

type Expression interface {
	Node
	expressionNode()
}

type Statement interface {
	Node
	statementNode()
}

type baseNode struct {
	Rnge tokens.Range
}

func (b *baseNode) Position() tokens.Range { return b.Rnge }
