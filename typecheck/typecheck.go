// Package typecheck validates a value against a feature's declared
// type-expr before a Provider writes it: one checker per value.Kind,
// keyed by the Kind itself, validating a structural shape.
package typecheck

import (
	"strings"

	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
)

// ExprKind discriminates the three type-expr forms a schema's `type:`
// string can spell: a bare name (primitive or classifier), a parametrised
// collection, or a tuple shape.
type ExprKind uint8

const (
	Bare ExprKind = iota
	Generic
	TupleShape
)

// Expr is a feature's declared type, parsed once when its schema loads.
type Expr struct {
	Kind   ExprKind
	Name   string // bare name, or collection kind name ("Sequence", "Set", ...) for Generic
	Inner  *Expr  // Generic's element type
	Fields []Field
}

type Field struct {
	Name string
	Type *Expr
}

func (e *Expr) String() string {
	if e == nil {
		return "<untyped>"
	}
	switch e.Kind {
	case Generic:
		return e.Name + "(" + e.Inner.String() + ")"
	case TupleShape:
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.Name + " : " + f.Type.String()
		}
		return "TupleType(" + strings.Join(parts, ", ") + ")"
	default:
		return e.Name
	}
}

var primitiveNames = map[string]value.Kind{
	"Integer": value.KindInt,
	"Real":    value.KindReal,
	"String":  value.KindString,
	"Boolean": value.KindBool,
	"UUID":    value.KindUUID,
}

// Parse reads a schema feature's `type:` string into an Expr. An empty
// string means "untyped" (Parse returns nil, and Check never runs).
func Parse(s string) *Expr {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "TupleType(") && strings.HasSuffix(s, ")") {
		inner := s[len("TupleType(") : len(s)-1]
		return &Expr{Kind: TupleShape, Fields: parseFields(inner)}
	}
	for _, kind := range []string{"Sequence", "Set", "Bag", "OrderedSet"} {
		prefix := kind + "("
		if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, ")") {
			return &Expr{Kind: Generic, Name: kind, Inner: Parse(s[len(prefix) : len(s)-1])}
		}
	}
	return &Expr{Kind: Bare, Name: s}
}

func parseFields(s string) []Field {
	var fields []Field
	for _, part := range splitTopLevel(s) {
		nameAndType := strings.SplitN(part, ":", 2)
		if len(nameAndType) != 2 {
			continue
		}
		fields = append(fields, Field{
			Name: strings.TrimSpace(nameAndType[0]),
			Type: Parse(strings.TrimSpace(nameAndType[1])),
		})
	}
	return fields
}

// splitTopLevel splits s on commas that are not nested inside another
// type-expr's own parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

// checkers holds one validation function per value.Kind, keyed by the
// Kind itself since there is exactly one structural check per kind.
var checkers = map[value.Kind]func(t *Expr, v value.Value) error{
	value.KindNull:       func(t *Expr, v value.Value) error { return nil }, // null satisfies any declared type
	value.KindCollection: checkCollection,
	value.KindTuple:      checkTuple,
	value.KindObjectRef:  checkObjectRef,
}

// Check validates v against t, called just before a Provider writes v into
// a structural feature declared with type-expr t. A nil t (the feature
// carries no declared type) always passes.
func Check(t *Expr, v value.Value) error {
	if t == nil {
		return nil
	}
	if checker, ok := checkers[v.Kind]; ok {
		return checker(t, v)
	}
	return checkPrimitive(t, v)
}

func checkPrimitive(t *Expr, v value.Value) error {
	if t.Kind != Bare {
		return xerr.NewTypeError("declared type %s does not accept a %s value", t, v.Kind)
	}
	if want, isPrimitiveName := primitiveNames[t.Name]; isPrimitiveName && want != v.Kind {
		return xerr.NewTypeError("declared type %s does not accept a %s value", t, v.Kind)
	}
	return nil
}

func checkCollection(t *Expr, v value.Value) error {
	if t.Kind != Generic {
		return xerr.NewTypeError("declared type %s does not accept a Collection value", t)
	}
	if t.Name != v.CollectionKind().String() {
		return xerr.NewTypeError("declared type %s does not accept a %s", t, v.CollectionKind())
	}
	for _, elem := range v.Elements() {
		if err := Check(t.Inner, elem); err != nil {
			return err
		}
	}
	return nil
}

func checkTuple(t *Expr, v value.Value) error {
	if t.Kind != TupleShape {
		return xerr.NewTypeError("declared type %s does not accept a Tuple value", t)
	}
	tup := v.Tuple()
	for _, f := range t.Fields {
		fv, ok := tup.Get(f.Name)
		if !ok {
			return xerr.NewTypeError("declared type %s requires tuple field %q", t, f.Name)
		}
		if err := Check(f.Type, fv); err != nil {
			return err
		}
	}
	return nil
}

func checkObjectRef(t *Expr, v value.Value) error {
	if t.Kind != Bare {
		return xerr.NewTypeError("declared type %s does not accept an object reference", t)
	}
	if _, isPrimitiveName := primitiveNames[t.Name]; isPrimitiveName {
		return xerr.NewTypeError("declared type %s does not accept an object reference", t)
	}
	// A bare non-primitive name is a classifier reference; the metamodel
	// Provider that owns v's feature resolves whether v.ObjectRef().Class
	// actually satisfies it (including its supertype chain) — this
	// package has no Provider to ask, so it only rules out a primitive
	// name being used where an object was written.
	return nil
}
