// Package value implements the tagged Value union that flows through the
// lexer-independent parts of the interpreter: every expression evaluates
// to a Value, every feature read/write on the metamodel interface carries
// Values, and every trace link and lazy binding refers to Values.
package value

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Kind discriminates the tagged union. Unlike a plain `any`, Kind is always
// inspectable without a type switch on the Go runtime type.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindReal
	KindString
	KindUUID
	KindObjectRef
	KindCollection
	KindTuple
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Boolean"
	case KindInt:
		return "Integer"
	case KindReal:
		return "Real"
	case KindString:
		return "String"
	case KindUUID:
		return "UUID"
	case KindObjectRef:
		return "ObjectRef"
	case KindCollection:
		return "Collection"
	case KindTuple:
		return "Tuple"
	case KindType:
		return "Type"
	default:
		return "Unknown"
	}
}

// CollectionKind is one of the four ATL/OCL collection flavours. Sequence
// and Bag preserve duplicates and insertion order; Set and OrderedSet
// de-duplicate, OrderedSet additionally preserving first-insertion order
// (Set's own order is also insertion order here, since nothing in the
// specification asks for a canonical sort).
type CollectionKind uint8

const (
	Sequence CollectionKind = iota
	Set
	Bag
	OrderedSet
)

func (k CollectionKind) String() string {
	switch k {
	case Sequence:
		return "Sequence"
	case Set:
		return "Set"
	case Bag:
		return "Bag"
	case OrderedSet:
		return "OrderedSet"
	default:
		return "Collection"
	}
}

// ObjectRef identifies an instance in a specific resource (source or target
// model). The core never dereferences an ObjectRef itself; every read or
// write goes back through the metamodel.Provider for the named Alias.
type ObjectRef struct {
	Alias string // the source/target alias this object lives in
	ID    string // stable id within that resource
	Class string // qualified class name, cached to avoid a round trip on dispatch
}

// Value is the tagged union described by the data model: exactly one of
// its payload fields is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	b   bool
	i   int64
	f   float64
	s   string
	u   uuid.UUID
	ref ObjectRef

	collKind CollectionKind
	elems    []Value

	tuple *Tuple
}

// Null is the single Null value.
func Null() Value { return Value{Kind: KindNull} }

func Bool(b bool) Value    { return Value{Kind: KindBool, b: b} }
func Int(i int64) Value    { return Value{Kind: KindInt, i: i} }
func Real(f float64) Value { return Value{Kind: KindReal, f: f} }
func Str(s string) Value   { return Value{Kind: KindString, s: s} }
func UUID(u uuid.UUID) Value { return Value{Kind: KindUUID, u: u} }
func Ref(ref ObjectRef) Value { return Value{Kind: KindObjectRef, ref: ref} }
func TypeLit(qualifiedName string) Value { return Value{Kind: KindType, s: qualifiedName} }

// NewCollection builds a collection value of the given kind. For Set and
// OrderedSet it de-duplicates by structural equality, preserving the first
// occurrence of each distinct element, per the data model's equality rule.
func NewCollection(kind CollectionKind, elems []Value) Value {
	if kind == Set || kind == OrderedSet {
		elems = dedupPreserveFirst(elems)
	}
	out := make([]Value, len(elems))
	copy(out, elems)
	return Value{Kind: KindCollection, collKind: kind, elems: out}
}

func dedupPreserveFirst(elems []Value) []Value {
	seen := make(map[string]struct{}, len(elems))
	out := make([]Value, 0, len(elems))
	for _, e := range elems {
		key := HashKey(e)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

func NewTuple(t *Tuple) Value { return Value{Kind: KindTuple, tuple: t} }

// Accessors. Each panics if called on the wrong Kind; callers in the
// evaluator always Kind-switch first, so this only ever fires on an
// internal bug, not on malformed transformation programs.

func (v Value) Bool() bool {
	if v.Kind != KindBool {
		panic("value: Bool() on non-Boolean value")
	}
	return v.b
}

func (v Value) Int() int64 {
	if v.Kind != KindInt {
		panic("value: Int() on non-Integer value")
	}
	return v.i
}

func (v Value) Real() float64 {
	if v.Kind != KindReal {
		panic("value: Real() on non-Real value")
	}
	return v.f
}

func (v Value) Str() string {
	if v.Kind != KindString && v.Kind != KindType {
		panic("value: Str() on non-String/Type value")
	}
	return v.s
}

func (v Value) UUID() uuid.UUID {
	if v.Kind != KindUUID {
		panic("value: UUID() on non-UUID value")
	}
	return v.u
}

func (v Value) ObjectRef() ObjectRef {
	if v.Kind != KindObjectRef {
		panic("value: ObjectRef() on non-ObjectRef value")
	}
	return v.ref
}

func (v Value) CollectionKind() CollectionKind {
	if v.Kind != KindCollection {
		panic("value: CollectionKind() on non-Collection value")
	}
	return v.collKind
}

func (v Value) Elements() []Value {
	if v.Kind != KindCollection {
		panic("value: Elements() on non-Collection value")
	}
	return v.elems
}

func (v Value) Tuple() *Tuple {
	if v.Kind != KindTuple {
		panic("value: Tuple() on non-Tuple value")
	}
	return v.tuple
}

func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsReal widens an Int or Real to float64; used for mixed-mode arithmetic.
func (v Value) AsReal() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.i), true
	case KindReal:
		return v.f, true
	default:
		return 0, false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindReal:
		return formatReal(v.f)
	case KindString:
		return v.s
	case KindUUID:
		return v.u.String()
	case KindObjectRef:
		return fmt.Sprintf("#%s/%s", v.ref.Alias, v.ref.ID)
	case KindType:
		return v.s
	case KindCollection:
		return stringifyCollection(v)
	case KindTuple:
		return v.tuple.String()
	default:
		return "<unknown>"
	}
}

func formatReal(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return fmt.Sprintf("%.1f", f)
	}
	return fmt.Sprintf("%g", f)
}

func stringifyCollection(v Value) string {
	s := v.collKind.String() + "{"
	for i, e := range v.elems {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s + "}"
}

// Equal implements the data model's structural equality: Null equals only
// Null; Int/Real mixes widen to Real; collections compare element-wise
// respecting duplicate/order semantics per kind; Tuples compare field-wise
// in declaration order; anything else of differing Kind is unequal (no
// stringified fallback — see the specification's "preserve rather than
// guess" note on heterogeneous equality).
func (v Value) Equal(other Value) bool {
	if v.Kind == KindNull || other.Kind == KindNull {
		return v.Kind == KindNull && other.Kind == KindNull
	}

	if isNumeric(v.Kind) && isNumeric(other.Kind) {
		a, _ := v.AsReal()
		b, _ := other.AsReal()
		return a == b
	}

	if v.Kind != other.Kind {
		return false
	}

	switch v.Kind {
	case KindBool:
		return v.b == other.b
	case KindString, KindType:
		return v.s == other.s
	case KindUUID:
		return v.u == other.u
	case KindObjectRef:
		return v.ref == other.ref
	case KindTuple:
		return v.tuple.Equal(other.tuple)
	case KindCollection:
		return equalCollections(v, other)
	default:
		return false
	}
}

func isNumeric(k Kind) bool { return k == KindInt || k == KindReal }

func equalCollections(a, b Value) bool {
	if a.collKind != b.collKind {
		return false
	}
	switch a.collKind {
	case Sequence, OrderedSet:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !a.elems[i].Equal(b.elems[i]) {
				return false
			}
		}
		return true
	case Set, Bag:
		if len(a.elems) != len(b.elems) {
			return false
		}
		remaining := make([]Value, len(b.elems))
		copy(remaining, b.elems)
		for _, av := range a.elems {
			found := -1
			for i, bv := range remaining {
				if av.Equal(bv) {
					found = i
					break
				}
			}
			if found == -1 {
				return false
			}
			remaining = append(remaining[:found], remaining[found+1:]...)
		}
		return true
	default:
		return false
	}
}
