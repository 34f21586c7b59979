package interp

import (
	"strings"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/metamodel"
	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
)

// evalNavigation handles the `.` form: a structural feature read on an
// object, a field read on a Tuple, or (falling through either of those) a
// zero-argument context-typed helper or scalar operation.
func (ec *ExecutionContext) evalNavigation(n *ast.Navigation) (value.Value, error) {
	ec.Stats.Navigations++
	src, err := ec.Eval(n.Source)
	if err != nil {
		return value.Null(), err
	}

	switch src.Kind {
	case value.KindObjectRef:
		return ec.readObjectFeature(src.ObjectRef(), n.Prop)
	case value.KindTuple:
		if v, ok := src.Tuple().Get(n.Prop); ok {
			return v, nil
		}
		return value.Null(), xerr.NewNavigation(n.Prop)
	default:
		if v, handled, err := ec.callScalarOp(src, n.Prop, nil); handled {
			return v, err
		}
		return ec.callContextHelper(src, n.Prop, nil)
	}
}

// readObjectFeature reads a structural feature off the instance a Provider
// owns; a feature the Provider does not recognise falls back to a
// context-typed helper of the same name, so a derived ATL "attribute"
// (really a zero-parameter helper) reads exactly like a structural one.
func (ec *ExecutionContext) readObjectFeature(ref value.ObjectRef, prop string) (value.Value, error) {
	p, ok := ec.resourceFor(ref.Alias)
	if !ok {
		return value.Null(), xerr.NewRuntimeError("navigation: unknown resource alias %q", ref.Alias)
	}
	v, err := p.ReadFeature(ref.ID, prop)
	if err == nil {
		return v, nil
	}
	if h, herr := ec.lookupHelper(ref.Class, prop); herr == nil {
		return ec.callHelper(h, value.Ref(ref), true, nil)
	}
	return value.Null(), xerr.NewNavigation(prop)
}

// evalMethodCall handles the `->` form plus any `.name(args)` call: a
// collection-algebra operation, Type->allInstances(), a scalar operation,
// or (falling through all of those) a context-typed helper call.
func (ec *ExecutionContext) evalMethodCall(m *ast.MethodCall) (value.Value, error) {
	recv, err := ec.Eval(m.Receiver)
	if err != nil {
		return value.Null(), err
	}

	if recv.Kind == value.KindType && m.Name == "allInstances" {
		return ec.evalAllInstances(recv)
	}

	if recv.Kind == value.KindCollection && isCollectionOp(m.Name) {
		return ec.callCollectionOp(recv, m.Name, m.Args)
	}

	if v, handled, err := ec.callScalarOp(recv, m.Name, m.Args); handled {
		return v, err
	}

	if recv.IsNull() {
		return value.Null(), xerr.NewTypeError("%s: receiver is Null", m.Name)
	}

	args, err := ec.evalArgs(m.Args)
	if err != nil {
		return value.Null(), err
	}
	return ec.callContextHelper(recv, m.Name, args)
}

// callContextHelper dispatches a context-typed helper keyed by recv's bare
// class (for an ObjectRef) or its primitive Kind name (so "self.toXYZ()"
// works uniformly whether self is a model element or a primitive).
func (ec *ExecutionContext) callContextHelper(recv value.Value, name string, args []value.Value) (value.Value, error) {
	h, err := ec.lookupHelper(classNameOf(recv), name)
	if err != nil {
		return value.Null(), xerr.NewNavigation(name)
	}
	return ec.callHelper(h, recv, true, args)
}

func classNameOf(v value.Value) string {
	if v.Kind == value.KindObjectRef {
		return v.ObjectRef().Class
	}
	return v.Kind.String()
}

// evalAllInstances resolves `Type->allInstances()`. recv.Str() holds either
// a bare class name or an "Alias!Class" qualified one; a bare name is
// resolved by asking every bound source, then every bound target, which
// Provider recognises it.
func (ec *ExecutionContext) evalAllInstances(recv value.Value) (value.Value, error) {
	alias, class := splitQualified(recv.Str())

	var provider metamodel.Provider
	var ok bool
	if alias != "" {
		provider, ok = ec.resourceFor(alias)
	} else {
		for a, p := range ec.sources {
			if _, has := p.ResolveClassifier(class); has {
				alias, provider, ok = a, p, true
				break
			}
		}
		if !ok {
			for a, p := range ec.targets {
				if _, has := p.ResolveClassifier(class); has {
					alias, provider, ok = a, p, true
					break
				}
			}
		}
	}
	if !ok {
		return value.Null(), xerr.NewRuntimeError("allInstances: unknown type %q", recv.Str())
	}

	ids, err := provider.AllInstances(class)
	if err != nil {
		return value.Null(), xerr.NewRuntimeError("allInstances: %s", err)
	}
	elems := make([]value.Value, len(ids))
	for i, id := range ids {
		cls, _ := provider.ClassOf(id)
		elems[i] = value.Ref(value.ObjectRef{Alias: alias, ID: id, Class: cls})
	}
	return value.NewCollection(value.Sequence, elems), nil
}

func splitQualified(name string) (alias, class string) {
	if i := strings.Index(name, "!"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
