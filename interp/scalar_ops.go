package interp

import (
	"math"
	"strings"

	"github.com/atl-run/atl/ast"
	"github.com/atl-run/atl/value"
	"github.com/atl-run/atl/xerr"
)

// callScalarOp evaluates argExprs eagerly (none of these operations take a
// lambda) and handles the primitive String/Integer/Real operation table,
// plus oclIsUndefined which applies to every Kind. handled reports whether
// name named one of these operations for recv's Kind; a caller falls
// through to context-typed helper dispatch when handled is false.
func (ec *ExecutionContext) callScalarOp(recv value.Value, name string, argExprs []ast.Expression) (result value.Value, handled bool, err error) {
	if name == "oclIsUndefined" && len(argExprs) == 0 {
		return value.Bool(recv.IsNull()), true, nil
	}

	args, err := ec.evalArgs(argExprs)
	if err != nil {
		return value.Null(), true, err
	}

	switch recv.Kind {
	case value.KindString:
		return stringOp(recv, name, args)
	case value.KindInt, value.KindReal:
		return numericOp(recv, name, args)
	default:
		return value.Null(), false, nil
	}
}

func stringOp(recv value.Value, name string, args []value.Value) (value.Value, bool, error) {
	s := recv.Str()
	switch name {
	case "size":
		return value.Int(int64(len([]rune(s)))), true, nil
	case "toString":
		return recv, true, nil
	case "toUpperCase":
		return value.Str(strings.ToUpper(s)), true, nil
	case "toLowerCase":
		return value.Str(strings.ToLower(s)), true, nil
	case "reverse":
		r := []rune(s)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return value.Str(string(r)), true, nil
	case "concat":
		if len(args) != 1 || args[0].Kind != value.KindString {
			return value.Null(), true, xerr.NewTypeError("String.concat expects a String argument")
		}
		return value.Str(s + args[0].Str()), true, nil
	default:
		return value.Null(), false, nil
	}
}

func numericOp(recv value.Value, name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "toString":
		return value.Str(recv.String()), true, nil
	case "isEven":
		if recv.Kind != value.KindInt {
			return value.Null(), true, xerr.NewTypeError("isEven expects an Integer receiver")
		}
		return value.Bool(recv.Int()%2 == 0), true, nil
	case "square":
		if recv.Kind == value.KindInt {
			return value.Int(recv.Int() * recv.Int()), true, nil
		}
		f := recv.Real()
		return value.Real(f * f), true, nil
	case "mod":
		if recv.Kind != value.KindInt || len(args) != 1 || args[0].Kind != value.KindInt {
			return value.Null(), true, xerr.NewTypeError("mod expects two Integer operands")
		}
		if args[0].Int() == 0 {
			return value.Null(), true, xerr.NewDivisionByZero()
		}
		return value.Int(recv.Int() % args[0].Int()), true, nil
	case "power":
		if len(args) != 1 {
			return value.Null(), true, xerr.NewTypeError("power expects one argument")
		}
		base, _ := recv.AsReal()
		exp, ok := args[0].AsReal()
		if !ok {
			return value.Null(), true, xerr.NewTypeError("power expects a numeric exponent")
		}
		res := math.Pow(base, exp)
		if recv.Kind == value.KindInt && args[0].Kind == value.KindInt && exp == math.Trunc(exp) {
			return value.Int(int64(res)), true, nil
		}
		return value.Real(res), true, nil
	default:
		return value.Null(), false, nil
	}
}
