package akl

import (
	"math"

	"github.com/spf13/cast"
)

// builtin_arith.go implements is/2 and the arithmetic comparators over
// the operator set named in §4.3. Every evaluation failure (unbound
// variable, unknown functor, division by zero, wrong arity) degrades
// to BuiltinFail or, for is/2 specifically, is reported as a Go error
// only internally (never escaping to the caller) via ArithmeticError
// for documentation purposes — see errors.go.
//
// Grounded on the teacher's cast-based numeric coercion convention
// (go.mod's github.com/spf13/cast, carried over from
// dolthub-go-mysql-server's expression evaluators) rather than a
// hand-rolled int/float promotion switch.

func init() {
	registerBuiltin("is", 2, builtinIs)
	registerBuiltin("=:=", 2, arithCompare(func(a, b float64) bool { return a == b }))
	registerBuiltin("=\\=", 2, arithCompare(func(a, b float64) bool { return a != b }))
	registerBuiltin("<", 2, arithCompare(func(a, b float64) bool { return a < b }))
	registerBuiltin(">", 2, arithCompare(func(a, b float64) bool { return a > b }))
	registerBuiltin("=<", 2, arithCompare(func(a, b float64) bool { return a <= b }))
	registerBuiltin(">=", 2, arithCompare(func(a, b float64) bool { return a >= b }))
}

func builtinIs(w *Worker, b *AndBox, args []Term) BuiltinResult {
	val, err := evalArith(args[1])
	if err != nil {
		return fail()
	}
	return boolResult(Unify(args[0], val, w.trail))
}

func arithCompare(cmp func(a, b float64) bool) BuiltinFunc {
	return func(w *Worker, b *AndBox, args []Term) BuiltinResult {
		lv, err := evalArith(args[0])
		if err != nil {
			return fail()
		}
		rv, err := evalArith(args[1])
		if err != nil {
			return fail()
		}
		return boolResult(cmp(cast.ToFloat64(numericGo(lv)), cast.ToFloat64(numericGo(rv))))
	}
}

// numericGo unboxes an Int/Float Term to a plain Go number so cast can
// coerce it.
func numericGo(t Term) interface{} {
	switch v := t.(type) {
	case Int:
		return int64(v)
	case Float:
		return float64(v)
	default:
		return 0
	}
}

// evalArith evaluates an arithmetic expression term to an Int or
// Float, per §4.3's operator list.
func evalArith(t Term) (Term, error) {
	t = Deref(t)
	switch x := t.(type) {
	case Int, Float:
		return x, nil
	case *Var:
		return nil, &ArithmeticError{Op: "is", Message: "unbound variable"}
	case *Atom:
		switch x.name {
		case "pi":
			return Float(math.Pi), nil
		case "e":
			return Float(math.E), nil
		}
		return nil, &ArithmeticError{Op: x.name, Message: "not evaluable"}
	case *Compound:
		return evalCompound(x)
	default:
		return nil, &ArithmeticError{Op: "is", Message: "not a number"}
	}
}

func evalCompound(c *Compound) (Term, error) {
	name := c.Functor.name
	if len(c.Args) == 1 {
		v, err := evalArith(c.Args[0])
		if err != nil {
			return nil, err
		}
		return evalUnary(name, v)
	}
	if len(c.Args) == 2 {
		lv, err := evalArith(c.Args[0])
		if err != nil {
			return nil, err
		}
		rv, err := evalArith(c.Args[1])
		if err != nil {
			return nil, err
		}
		return evalBinary(name, lv, rv)
	}
	return nil, &ArithmeticError{Op: name, Message: "unsupported arity"}
}

func evalUnary(name string, v Term) (Term, error) {
	f := cast.ToFloat64(numericGo(v))
	i, isInt := v.(Int)

	switch name {
	case "-":
		if isInt {
			return -i, nil
		}
		return Float(-f), nil
	case "+":
		return v, nil
	case "abs":
		if isInt {
			if i < 0 {
				return -i, nil
			}
			return i, nil
		}
		return Float(math.Abs(f)), nil
	case "sign":
		switch {
		case f > 0:
			if isInt {
				return Int(1), nil
			}
			return Float(1), nil
		case f < 0:
			if isInt {
				return Int(-1), nil
			}
			return Float(-1), nil
		default:
			if isInt {
				return Int(0), nil
			}
			return Float(0), nil
		}
	case "\\":
		return Int(^cast.ToInt64(int64(i))), nil
	case "sqrt":
		return Float(math.Sqrt(f)), nil
	case "sin":
		return Float(math.Sin(f)), nil
	case "cos":
		return Float(math.Cos(f)), nil
	case "float":
		return Float(f), nil
	case "integer", "truncate":
		return Int(int64(f)), nil
	case "round":
		return Int(int64(math.Round(f))), nil
	case "ceiling":
		return Int(int64(math.Ceil(f))), nil
	case "floor":
		return Int(int64(math.Floor(f))), nil
	default:
		return nil, &ArithmeticError{Op: name, Message: "unknown unary operator"}
	}
}

func evalBinary(name string, lv, rv Term) (Term, error) {
	li, lIsInt := lv.(Int)
	ri, rIsInt := rv.(Int)
	bothInt := lIsInt && rIsInt
	lf := cast.ToFloat64(numericGo(lv))
	rf := cast.ToFloat64(numericGo(rv))

	switch name {
	case "+":
		if bothInt {
			return li + ri, nil
		}
		return Float(lf + rf), nil
	case "-":
		if bothInt {
			return li - ri, nil
		}
		return Float(lf - rf), nil
	case "*":
		if bothInt {
			return li * ri, nil
		}
		return Float(lf * rf), nil
	case "/":
		if rf == 0 {
			return nil, &ArithmeticError{Op: "/", Message: "division by zero"}
		}
		if bothInt && li%ri == 0 {
			return li / ri, nil
		}
		return Float(lf / rf), nil
	case "//":
		if ri == 0 {
			return nil, &ArithmeticError{Op: "//", Message: "division by zero"}
		}
		return Int(int64(lf) / int64(rf)), nil
	case "mod":
		if ri == 0 {
			return nil, &ArithmeticError{Op: "mod", Message: "division by zero"}
		}
		m := li % ri
		if (m < 0) != (ri < 0) && m != 0 {
			m += ri
		}
		return m, nil
	case "**":
		r := math.Pow(lf, rf)
		if bothInt && r == math.Trunc(r) {
			return Int(int64(r)), nil
		}
		return Float(r), nil
	case "/\\":
		return Int(int64(li) & int64(ri)), nil
	case "\\/":
		return Int(int64(li) | int64(ri)), nil
	case "xor":
		return Int(int64(li) ^ int64(ri)), nil
	case "<<":
		return Int(int64(li) << uint(ri)), nil
	case ">>":
		return Int(int64(li) >> uint(ri)), nil
	case "min":
		if lf <= rf {
			return lv, nil
		}
		return rv, nil
	case "max":
		if lf >= rf {
			return lv, nil
		}
		return rv, nil
	default:
		return nil, &ArithmeticError{Op: name, Message: "unknown binary operator"}
	}
}
