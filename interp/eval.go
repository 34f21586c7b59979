package interp

import (
	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
)

// Eval is the single tree-walking entry point: the expression tree is a
// sum type and every variant dispatches through this one function.
func (ec *ExecutionContext) Eval(expr ast.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return evalLiteral(e)
	case *ast.Variable:
		return ec.GetVar(e.Name)
	case *ast.TypeLiteral:
		return value.TypeLit(qualifiedTypeName(e.Ref)), nil
	case *ast.Navigation:
		return ec.evalNavigation(e)
	case *ast.BinaryOp:
		return ec.evalBinary(e)
	case *ast.UnaryOp:
		return ec.evalUnary(e)
	case *ast.Conditional:
		return ec.evalConditional(e)
	case *ast.Let:
		return ec.evalLet(e)
	case *ast.TupleExpr:
		return ec.evalTuple(e)
	case *ast.HelperCall:
		return ec.evalHelperCall(e)
	case *ast.MethodCall:
		return ec.evalMethodCall(e)
	case *ast.CollectionLiteral:
		return ec.evalCollectionLiteral(e)
	case *ast.Iterate:
		return ec.evalIterate(e)
	case *ast.Lambda:
		// A bare lambda only ever reaches Eval if a caller mistakenly
		// evaluates it outside a combinator's argument position.
		return value.Null(), xerr.NewRuntimeError("lambda is not a value")
	default:
		return value.Null(), xerr.NewRuntimeError("unknown expression node %T", expr)
	}
}

func evalLiteral(l *ast.Literal) (value.Value, error) {
	switch l.Kind {
	case ast.LiteralInt:
		return value.Int(l.I), nil
	case ast.LiteralReal:
		return value.Real(l.F), nil
	case ast.LiteralString:
		return value.Str(l.S), nil
	case ast.LiteralBool:
		return value.Bool(l.B), nil
	default:
		return value.Null(), nil
	}
}

func qualifiedTypeName(ref *ast.TypeRef) string {
	if ref == nil {
		return ""
	}
	if ref.Kind == ast.TypeRefQualified {
		return ref.Alias + "!" + ref.Class
	}
	return ref.Name
}

func (ec *ExecutionContext) evalConditional(c *ast.Conditional) (value.Value, error) {
	cond, err := ec.Eval(c.Cond)
	if err != nil {
		return value.Null(), err
	}
	// A non-boolean condition is treated as false.
	if cond.Kind == value.KindBool && cond.Bool() {
		return ec.Eval(c.Then)
	}
	return ec.Eval(c.Else)
}

func (ec *ExecutionContext) evalLet(l *ast.Let) (value.Value, error) {
	init, err := ec.Eval(l.Init)
	if err != nil {
		return value.Null(), err
	}
	return ec.WithScope(func() (value.Value, error) {
		ec.SetVar(l.Name, init)
		return ec.Eval(l.Body)
	})
}

func (ec *ExecutionContext) evalTuple(t *ast.TupleExpr) (value.Value, error) {
	b := value.NewTupleBuilder()
	for _, f := range t.Fields {
		v, err := ec.Eval(f.Value)
		if err != nil {
			return value.Null(), err
		}
		b.Set(f.Name, v)
	}
	return value.NewTuple(b), nil
}

func (ec *ExecutionContext) evalHelperCall(h *ast.HelperCall) (value.Value, error) {
	helper, ok := ec.mod.Helpers.Get(ast.HelperKey("", h.Name))
	if !ok {
		return value.Null(), xerr.NewHelperNotFound(h.Name)
	}
	args := make([]value.Value, len(h.Args))
	for i, a := range h.Args {
		v, err := ec.Eval(a)
		if err != nil {
			return value.Null(), err
		}
		args[i] = v
	}
	return ec.callHelper(helper, value.Null(), false, args)
}

func (ec *ExecutionContext) evalCollectionLiteral(c *ast.CollectionLiteral) (value.Value, error) {
	elems := make([]value.Value, len(c.Elems))
	for i, e := range c.Elems {
		v, err := ec.Eval(e)
		if err != nil {
			return value.Null(), err
		}
		elems[i] = v
	}
	return value.NewCollection(collectionKindOf(c.Kind), elems), nil
}

// evalArgs evaluates each argument expression left to right; none of the
// call sites that reach this helper accept a lambda argument (lambdas are
// pulled out via asLambda before evalArgs ever sees them).
func (ec *ExecutionContext) evalArgs(exprs []ast.Expression) ([]value.Value, error) {
	args := make([]value.Value, len(exprs))
	for i, e := range exprs {
		v, err := ec.Eval(e)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func collectionKindOf(name string) value.CollectionKind {
	switch name {
	case "Set":
		return value.Set
	case "Bag":
		return value.Bag
	case "OrderedSet":
		return value.OrderedSet
	default:
		return value.Sequence
	}
}

func (ec *ExecutionContext) evalIterate(it *ast.Iterate) (value.Value, error) {
	src, err := ec.Eval(it.Source)
	if err != nil {
		return value.Null(), err
	}
	if src.Kind != value.KindCollection {
		return value.Null(), xerr.NewTypeError("iterate receiver must be a collection, got %s", src.Kind)
	}
	acc, err := ec.Eval(it.Init)
	if err != nil {
		return value.Null(), err
	}

	_, err = ec.WithScope(func() (value.Value, error) {
		for _, elem := range src.Elements() {
			ec.SetVar(it.Param, elem)
			ec.SetVar(it.Acc, acc)
			next, err := ec.Eval(it.Body)
			if err != nil {
				return value.Null(), err
			}
			acc = next
		}
		return value.Null(), nil
	})
	if err != nil {
		return value.Null(), err
	}
	return acc, nil
}
