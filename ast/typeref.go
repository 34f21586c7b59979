package ast

import "strings"

// TypeRefKind discriminates the four type-expr forms.
type TypeRefKind uint8

const (
	TypeRefBare       TypeRefKind = iota // Ident
	TypeRefQualified                     // Alias ! Ident
	TypeRefGeneric                       // Ident ( inner )
	TypeRefTuple                         // TupleType( field : type, ... )
)

// TypeRef is the parsed form of a type-expr. Exactly the fields relevant
// to Kind are populated.
type TypeRef struct {
	Kind TypeRefKind

	// TypeRefBare / TypeRefGeneric
	Name string

	// TypeRefQualified
	Alias string
	Class string

	// TypeRefGeneric
	Inner *TypeRef

	// TypeRefTuple
	Fields []TupleFieldType
}

type TupleFieldType struct {
	Name string
	Type *TypeRef
}

func (t *TypeRef) String() string {
	if t == nil {
		return "<?>"
	}
	switch t.Kind {
	case TypeRefBare:
		return t.Name
	case TypeRefQualified:
		return t.Alias + "!" + t.Class
	case TypeRefGeneric:
		return t.Name + "(" + t.Inner.String() + ")"
	case TypeRefTuple:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + " : " + f.Type.String()
		}
		return "TupleType(" + strings.Join(parts, ", ") + ")"
	default:
		return "<?>"
	}
}

// QualifiedName returns the Alias!Class form a source pattern resolves
// against, for bare (unqualified, under the default alias) type refs the
// caller supplies the default alias itself.
func (t *TypeRef) QualifiedName() (alias, class string, ok bool) {
	if t.Kind == TypeRefQualified {
		return t.Alias, t.Class, true
	}
	if t.Kind == TypeRefBare {
		return "", t.Name, true
	}
	return "", "", false
}
