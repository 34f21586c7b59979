package ast

import "github.com/atl-run/atl/tokens"

// Let is `let name [: type] = init in body`.
type Let struct {
	*baseNode
	Name string
	Type *TypeRef // nil if omitted
	Init Expression
	Body Expression
}

func NewLet(name string, typ *TypeRef, init, body Expression, r tokens.Range) *Let {
	return &Let{baseNode: &baseNode{Rnge: r}, Name: name, Type: typ, Init: init, Body: body}
}

func (l *Let) String() string {
	return "let " + l.Name + " = " + l.Init.String() + " in " + l.Body.String()
}
func (l *Let) expressionNode() {}

var _ Expression = (*Let)(nil)

// TupleField is one `name : type = expr` entry of a Tuple literal.
type TupleField struct {
	Name  string
	Type  *TypeRef
	Value Expression
}

// TupleExpr is `Tuple{ field : type = expr, ... }`.
type TupleExpr struct {
	*baseNode
	Fields []TupleField
}

func NewTupleExpr(fields []TupleField, r tokens.Range) *TupleExpr {
	return &TupleExpr{baseNode: &baseNode{Rnge: r}, Fields: fields}
}

func (t *TupleExpr) String() string {
	s := "Tuple{"
	for i, f := range t.Fields {
		if i > 0 {
			s += ", "
		}
		s += f.Name + " = " + f.Value.String()
	}
	return s + "}"
}
func (t *TupleExpr) expressionNode() {}

var _ Expression = (*TupleExpr)(nil)

// Lambda is the `ident | expr` form accepted as an argument to select,
// reject, collect, exists, forAll, one, and sortedBy.
type Lambda struct {
	*baseNode
	Param string
	Body  Expression
}

func NewLambda(param string, body Expression, r tokens.Range) *Lambda {
	return &Lambda{baseNode: &baseNode{Rnge: r}, Param: param, Body: body}
}

func (l *Lambda) String() string   { return l.Param + " | " + l.Body.String() }
func (l *Lambda) expressionNode() {}

var _ Expression = (*Lambda)(nil)

// Iterate is `source->iterate(param ; acc [: type] = init | body)`.
type Iterate struct {
	*baseNode
	Source  Expression
	Param   string
	Acc     string
	AccType *TypeRef
	Init    Expression
	Body    Expression
}

func NewIterate(source Expression, param, acc string, accType *TypeRef, init, body Expression, r tokens.Range) *Iterate {
	return &Iterate{baseNode: &baseNode{Rnge: r}, Source: source, Param: param, Acc: acc, AccType: accType, Init: init, Body: body}
}

func (it *Iterate) String() string {
	return it.Source.String() + "->iterate(" + it.Param + "; " + it.Acc + " = " + it.Init.String() + " | " + it.Body.String() + ")"
}
func (it *Iterate) expressionNode() {}

var _ Expression = (*Iterate)(nil)
