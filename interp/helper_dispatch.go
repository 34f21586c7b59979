package interp

import (
	"context"
	"time"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
)

// lookupHelper resolves a context-typed helper as extension-method
// dispatch: a side index keyed by (classQualifiedName, helperName),
// walking the metamodel superclass chain on miss. The result is memoized
// in ec.helperCache since the same (class, name) pair is looked up once
// per matched-rule firing or navigation, and the superclass walk touches
// every bound Provider.
func (ec *ExecutionContext) lookupHelper(class, name string) (*ast.Helper, error) {
	key := class + "#" + name
	return ec.helperCache.Get(context.Background(), key, 10*time.Minute, func(context.Context) (*ast.Helper, error) {
		for _, c := range ec.classChain(class) {
			if h, ok := ec.mod.Helpers.Get(ast.HelperKey(c, name)); ok {
				return h, nil
			}
		}
		return nil, xerr.NewHelperNotFound(name)
	})
}

// classChain returns class followed by its supertypes, consulting whichever
// bound resource (source or target) recognises it — a context-typed helper
// must dispatch the same way regardless of which alias the instance came
// from.
func (ec *ExecutionContext) classChain(class string) []string {
	chain := []string{class}
	for _, p := range ec.sources {
		if _, ok := p.ResolveClassifier(class); ok {
			if sup := p.Supertypes(class); len(sup) > 0 {
				return append(chain, sup...)
			}
			return chain
		}
	}
	for _, p := range ec.targets {
		if _, ok := p.ResolveClassifier(class); ok {
			if sup := p.Supertypes(class); len(sup) > 0 {
				return append(chain, sup...)
			}
			return chain
		}
	}
	return chain
}

// callHelper binds self (when hasSelf, for a context-typed dispatch) and
// positional parameters (an unbound parameter defaults to Null), pushes a
// scope, evaluates the body, and pops.
func (ec *ExecutionContext) callHelper(h *ast.Helper, self value.Value, hasSelf bool, args []value.Value) (value.Value, error) {
	ec.Stats.HelperInvocations++
	return ec.WithScope(func() (value.Value, error) {
		if hasSelf {
			ec.SetVar("self", self)
		}
		for i, p := range h.Params {
			if i < len(args) {
				ec.SetVar(p.Name, args[i])
			} else {
				ec.SetVar(p.Name, value.Null())
			}
		}
		return ec.Eval(h.Body)
	})
}
