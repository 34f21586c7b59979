package interp

import (
	"sort"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
	"github.com/binaek/gocoll/collection"
)

// collectionOps names every operation callCollectionOp handles; a
// MethodCall on a non-Collection receiver, or one naming something not in
// this table, falls through to context-typed helper dispatch instead.
var collectionOps = map[string]bool{
	"size": true, "isEmpty": true, "notEmpty": true, "first": true, "last": true,
	"includes": true, "excludes": true, "including": true, "excluding": true,
	"union": true, "intersection": true, "flatten": true,
	"asSequence": true, "asSet": true, "asBag": true, "asOrderedSet": true,
	"select": true, "reject": true, "collect": true,
	"exists": true, "forAll": true, "one": true, "sortedBy": true,
}

func isCollectionOp(name string) bool { return collectionOps[name] }

func (ec *ExecutionContext) callCollectionOp(recv value.Value, name string, argExprs []ast.Expression) (value.Value, error) {
	elems := recv.Elements()
	kind := recv.CollectionKind()

	switch name {
	case "size":
		return value.Int(int64(len(elems))), nil
	case "isEmpty":
		return value.Bool(len(elems) == 0), nil
	case "notEmpty":
		return value.Bool(len(elems) != 0), nil
	case "first":
		if len(elems) == 0 {
			return value.Null(), xerr.NewRuntimeError("first: collection is empty")
		}
		return elems[0], nil
	case "last":
		if len(elems) == 0 {
			return value.Null(), xerr.NewRuntimeError("last: collection is empty")
		}
		return elems[len(elems)-1], nil
	case "includes", "excludes":
		args, err := ec.evalArgs(argExprs)
		if err != nil {
			return value.Null(), err
		}
		if len(args) != 1 {
			return value.Null(), xerr.NewTypeError("%s expects one argument", name)
		}
		found := containsValue(elems, args[0])
		if name == "includes" {
			return value.Bool(found), nil
		}
		return value.Bool(!found), nil
	case "including", "excluding":
		args, err := ec.evalArgs(argExprs)
		if err != nil {
			return value.Null(), err
		}
		if len(args) != 1 {
			return value.Null(), xerr.NewTypeError("%s expects one argument", name)
		}
		if name == "including" {
			merged := append(append([]value.Value{}, elems...), args[0])
			return value.NewCollection(kind, merged), nil
		}
		out := make([]value.Value, 0, len(elems))
		for _, e := range elems {
			if !e.Equal(args[0]) {
				out = append(out, e)
			}
		}
		return value.NewCollection(kind, out), nil
	case "union":
		args, err := ec.evalArgs(argExprs)
		if err != nil {
			return value.Null(), err
		}
		if len(args) != 1 || args[0].Kind != value.KindCollection {
			return value.Null(), xerr.NewTypeError("union expects one collection argument")
		}
		merged := append(append([]value.Value{}, elems...), args[0].Elements()...)
		return value.NewCollection(kind, merged), nil
	case "intersection":
		args, err := ec.evalArgs(argExprs)
		if err != nil {
			return value.Null(), err
		}
		if len(args) != 1 || args[0].Kind != value.KindCollection {
			return value.Null(), xerr.NewTypeError("intersection expects one collection argument")
		}
		other := args[0].Elements()
		out := make([]value.Value, 0, len(elems))
		for _, e := range elems {
			if containsValue(other, e) {
				out = append(out, e)
			}
		}
		return value.NewCollection(kind, out), nil
	case "flatten":
		out := make([]value.Value, 0, len(elems))
		for _, e := range elems {
			if e.Kind == value.KindCollection {
				out = append(out, e.Elements()...)
			} else {
				out = append(out, e)
			}
		}
		return value.NewCollection(kind, out), nil
	case "asSequence":
		return value.NewCollection(value.Sequence, elems), nil
	case "asSet":
		// asX preserves element values as-is (no narrowing to strings —
		// the redesign flags call this out as a prior bug).
		return value.NewCollection(value.Set, elems), nil
	case "asBag":
		return value.NewCollection(value.Bag, elems), nil
	case "asOrderedSet":
		return value.NewCollection(value.OrderedSet, elems), nil
	case "select":
		return ec.selectOrReject(elems, kind, argExprs, true)
	case "reject":
		return ec.selectOrReject(elems, kind, argExprs, false)
	case "collect":
		return ec.collect(elems, argExprs)
	case "exists":
		return ec.existsOrForAll(elems, argExprs, true)
	case "forAll":
		return ec.existsOrForAll(elems, argExprs, false)
	case "one":
		return ec.one(elems, argExprs)
	case "sortedBy":
		return ec.sortedBy(elems, kind, argExprs)
	default:
		return value.Null(), xerr.NewUnsupportedOperation(name, len(argExprs))
	}
}

func containsValue(elems []value.Value, v value.Value) bool {
	for _, e := range elems {
		if e.Equal(v) {
			return true
		}
	}
	return false
}

// selectOrReject raises a TypeError when the sole argument is not a lambda
// or its body does not evaluate to Boolean, rather than silently returning
// the unfiltered receiver.
func (ec *ExecutionContext) selectOrReject(elems []value.Value, kind value.CollectionKind, argExprs []ast.Expression, want bool) (value.Value, error) {
	lam, err := asLambda(argExprs)
	if err != nil {
		return value.Null(), err
	}
	out := make([]value.Value, 0, len(elems))
	for _, e := range elems {
		v, err := ec.callLambda(lam, e)
		if err != nil {
			return value.Null(), err
		}
		if v.Kind != value.KindBool {
			return value.Null(), xerr.NewTypeError("select/reject predicate must evaluate to a Boolean")
		}
		if v.Bool() == want {
			out = append(out, e)
		}
	}
	return value.NewCollection(kind, out), nil
}

// collect always yields a Bag (duplicates and the mapped element's own
// identity are both significant, per the data model), built via
// collection.From/collection.Map.
func (ec *ExecutionContext) collect(elems []value.Value, argExprs []ast.Expression) (value.Value, error) {
	lam, err := asLambda(argExprs)
	if err != nil {
		return value.Null(), err
	}
	var mapErr error
	mapped := collection.Map(collection.From(elems...), func(e value.Value) value.Value {
		if mapErr != nil {
			return value.Null()
		}
		v, err := ec.callLambda(lam, e)
		if err != nil {
			mapErr = err
			return value.Null()
		}
		return v
	}).Elements()
	if mapErr != nil {
		return value.Null(), mapErr
	}
	return value.NewCollection(value.Bag, mapped), nil
}

func (ec *ExecutionContext) existsOrForAll(elems []value.Value, argExprs []ast.Expression, isExists bool) (value.Value, error) {
	lam, err := asLambda(argExprs)
	if err != nil {
		return value.Null(), err
	}
	for _, e := range elems {
		v, err := ec.callLambda(lam, e)
		if err != nil {
			return value.Null(), err
		}
		if v.Kind != value.KindBool {
			return value.Null(), xerr.NewTypeError("exists/forAll predicate must evaluate to a Boolean")
		}
		if isExists && v.Bool() {
			return value.Bool(true), nil
		}
		if !isExists && !v.Bool() {
			return value.Bool(false), nil
		}
	}
	return value.Bool(!isExists), nil
}

func (ec *ExecutionContext) one(elems []value.Value, argExprs []ast.Expression) (value.Value, error) {
	lam, err := asLambda(argExprs)
	if err != nil {
		return value.Null(), err
	}
	count := 0
	for _, e := range elems {
		v, err := ec.callLambda(lam, e)
		if err != nil {
			return value.Null(), err
		}
		if v.Kind != value.KindBool {
			return value.Null(), xerr.NewTypeError("one predicate must evaluate to a Boolean")
		}
		if v.Bool() {
			count++
		}
	}
	return value.Bool(count == 1), nil
}

func (ec *ExecutionContext) sortedBy(elems []value.Value, kind value.CollectionKind, argExprs []ast.Expression) (value.Value, error) {
	lam, err := asLambda(argExprs)
	if err != nil {
		return value.Null(), err
	}
	type keyed struct {
		v   value.Value
		key value.Value
	}
	tagged := make([]keyed, len(elems))
	for i, e := range elems {
		k, err := ec.callLambda(lam, e)
		if err != nil {
			return value.Null(), err
		}
		tagged[i] = keyed{v: e, key: k}
	}
	var sortErr error
	sort.SliceStable(tagged, func(i, j int) bool {
		less, err := lessValue(tagged[i].key, tagged[j].key)
		if err != nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return value.Null(), sortErr
	}
	out := make([]value.Value, len(tagged))
	for i, t := range tagged {
		out[i] = t.v
	}
	return value.NewCollection(kind, out), nil
}

func lessValue(a, b value.Value) (bool, error) {
	if af, ok := a.AsReal(); ok {
		if bf, ok2 := b.AsReal(); ok2 {
			return af < bf, nil
		}
	}
	if a.Kind == value.KindString && b.Kind == value.KindString {
		return a.Str() < b.Str(), nil
	}
	return false, xerr.NewTypeError("sortedBy key must be Integer, Real, or String")
}
