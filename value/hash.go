package value

import (
	"fmt"
	"sort"

	"github.com/mitchellh/hashstructure/v2"
)

// hashShape is a plain, exported-field mirror of Value that hashstructure
// can walk via reflection (Value's payload fields are unexported so the
// library would otherwise see an empty struct). Collections and tuples
// recurse into their own element hash keys rather than the elements
// themselves, so structurally-equal nested values always hash identically
// regardless of Go's map iteration order inside a Tuple.
type hashShape struct {
	Kind     Kind
	Bool     bool
	Int      int64
	Real     float64
	Str      string
	UUID     string
	Ref      ObjectRef
	CollKind CollectionKind
	ElemKeys []string
	TupleKV  map[string]string
}

// HashKey returns a string that is equal for structurally-equal Values and
// (with overwhelming probability) distinct otherwise. It backs Set/
// OrderedSet de-duplication and is used as a memoization key wherever the
// evaluator needs to compare values cheaply.
func HashKey(v Value) string {
	shape := hashShape{Kind: v.Kind}
	switch v.Kind {
	case KindBool:
		shape.Bool = v.b
	case KindInt:
		shape.Int = v.i
	case KindReal:
		// Normalize so 2 (Int) and 2.0 (Real) hash the same, matching the
		// data model's "numeric mixes compare by widened Real" rule.
		shape.Int = int64(v.f)
		shape.Real = v.f
	case KindString, KindType:
		shape.Str = v.s
	case KindUUID:
		shape.UUID = v.u.String()
	case KindObjectRef:
		shape.Ref = v.ref
	case KindCollection:
		shape.CollKind = v.collKind
		shape.ElemKeys = make([]string, len(v.elems))
		for i, e := range v.elems {
			shape.ElemKeys[i] = HashKey(e)
		}
		if v.collKind == Set || v.collKind == Bag {
			// Unordered kinds: element order must not affect the key.
			sort.Strings(shape.ElemKeys)
		}
	case KindTuple:
		shape.TupleKV = make(map[string]string, v.tuple.Len())
		for _, name := range v.tuple.Names() {
			fv, _ := v.tuple.Get(name)
			shape.TupleKV[name] = HashKey(fv)
		}
	}
	if v.Kind == KindInt {
		// Int widened for the same reason as above
		shape.Kind = KindReal
		shape.Real = float64(v.i)
	}

	h, err := hashstructure.Hash(shape, hashstructure.FormatV2, nil)
	if err != nil {
		// Hashing a plain struct of exported, non-cyclic fields cannot fail
		// in practice; fall back to a string form rather than panicking.
		return fmt.Sprintf("unhashable:%v", shape)
	}
	return fmt.Sprintf("%x", h)
}
