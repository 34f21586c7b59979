package interp

import (
	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
)

// evalBinary evaluates both operands eagerly (ATL has no short-circuit
// and/or in the core language) then applies op.
func (ec *ExecutionContext) evalBinary(b *ast.BinaryOp) (value.Value, error) {
	left, err := ec.Eval(b.Left)
	if err != nil {
		return value.Null(), err
	}
	right, err := ec.Eval(b.Right)
	if err != nil {
		return value.Null(), err
	}

	switch b.Op {
	case "=":
		return value.Bool(left.Equal(right)), nil
	case "<>":
		return value.Bool(!left.Equal(right)), nil
	case "and":
		return boolBinary(left, right, func(a, b bool) bool { return a && b })
	case "or":
		return boolBinary(left, right, func(a, b bool) bool { return a || b })
	case "+":
		return arith(left, right, "+", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	case "-":
		return arith(left, right, "-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case "*":
		return arith(left, right, "*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case "/":
		return divide(left, right)
	case "<", "<=", ">", ">=":
		return compare(left, right, b.Op)
	default:
		return value.Null(), xerr.NewUnsupportedOperation(b.Op, 2)
	}
}

func boolBinary(left, right value.Value, fn func(a, b bool) bool) (value.Value, error) {
	if left.Kind != value.KindBool || right.Kind != value.KindBool {
		return value.Null(), xerr.NewTypeError("and/or require Boolean operands, got %s and %s", left.Kind, right.Kind)
	}
	return value.Bool(fn(left.Bool(), right.Bool())), nil
}

func arith(left, right value.Value, op string, intFn func(a, b int64) int64, realFn func(a, b float64) float64) (value.Value, error) {
	if left.Kind == value.KindInt && right.Kind == value.KindInt {
		return value.Int(intFn(left.Int(), right.Int())), nil
	}
	lf, lok := left.AsReal()
	rf, rok := right.AsReal()
	if !lok || !rok {
		if op == "+" && left.Kind == value.KindString && right.Kind == value.KindString {
			return value.Str(left.Str() + right.Str()), nil
		}
		return value.Null(), xerr.NewTypeError("%s requires numeric operands, got %s and %s", op, left.Kind, right.Kind)
	}
	return value.Real(realFn(lf, rf)), nil
}

func divide(left, right value.Value) (value.Value, error) {
	lf, lok := left.AsReal()
	rf, rok := right.AsReal()
	if !lok || !rok {
		return value.Null(), xerr.NewTypeError("/ requires numeric operands, got %s and %s", left.Kind, right.Kind)
	}
	if rf == 0 {
		return value.Null(), xerr.NewDivisionByZero()
	}
	return value.Real(lf / rf), nil
}

func compare(left, right value.Value, op string) (value.Value, error) {
	var less, equal bool
	switch {
	case left.Kind == value.KindString && right.Kind == value.KindString:
		less, equal = left.Str() < right.Str(), left.Str() == right.Str()
	default:
		lf, lok := left.AsReal()
		rf, rok := right.AsReal()
		if !lok || !rok {
			return value.Null(), xerr.NewTypeError("%s requires comparable operands, got %s and %s", op, left.Kind, right.Kind)
		}
		less, equal = lf < rf, lf == rf
	}
	switch op {
	case "<":
		return value.Bool(less), nil
	case "<=":
		return value.Bool(less || equal), nil
	case ">":
		return value.Bool(!less && !equal), nil
	case ">=":
		return value.Bool(!less), nil
	default:
		return value.Null(), xerr.NewUnsupportedOperation(op, 2)
	}
}

// evalUnary handles `not` and unary `-`.
func (ec *ExecutionContext) evalUnary(u *ast.UnaryOp) (value.Value, error) {
	v, err := ec.Eval(u.Operand)
	if err != nil {
		return value.Null(), err
	}
	switch u.Op {
	case "not":
		if v.Kind != value.KindBool {
			return value.Null(), xerr.NewTypeError("not requires a Boolean operand, got %s", v.Kind)
		}
		return value.Bool(!v.Bool()), nil
	case "-":
		switch v.Kind {
		case value.KindInt:
			return value.Int(-v.Int()), nil
		case value.KindReal:
			return value.Real(-v.Real()), nil
		default:
			return value.Null(), xerr.NewTypeError("unary - requires a numeric operand, got %s", v.Kind)
		}
	default:
		return value.Null(), xerr.NewUnsupportedOperation(u.Op, 1)
	}
}
