package interp

import (
	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
)

// asLambda extracts the single *ast.Lambda expected as the sole argument to
// select, reject, collect, exists, forAll, one, and sortedBy. A missing or
// wrongly-shaped argument is a TypeError, not a silent pass-through of the
// receiver (the bug the redesign flags call out).
func asLambda(exprs []ast.Expression) (*ast.Lambda, error) {
	if len(exprs) != 1 {
		return nil, xerr.NewTypeError("expected exactly one lambda argument, got %d", len(exprs))
	}
	lam, ok := exprs[0].(*ast.Lambda)
	if !ok {
		return nil, xerr.NewTypeError("expected a lambda argument, got %T", exprs[0])
	}
	return lam, nil
}

// callLambda binds elem to the lambda's parameter in a fresh scope,
// evaluates the body, and pops the scope on every exit path.
func (ec *ExecutionContext) callLambda(lam *ast.Lambda, elem value.Value) (value.Value, error) {
	return ec.WithScope(func() (value.Value, error) {
		ec.SetVar(lam.Param, elem)
		return ec.Eval(lam.Body)
	})
}
