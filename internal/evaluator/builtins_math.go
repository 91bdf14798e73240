package evaluator

import (
	"lispy/internal/object"
	"math"
)

// funcArith folds op over its arguments from left to right. The first argument is
// the accumulator: two integers combine exactly, any other pairing updates only
// the floating value and leaves the accumulator's type alone.
func funcArith(op string) *object.Builtin {
	return newBuiltin(op, func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		return arith(op, args)
	})
}

func arith(op string, args *object.List) object.Object {
	for _, a := range args.Elements {
		if _, ok := a.(object.Number); !ok {
			return object.NewError("Cannot operate on non-number!")
		}
	}
	if err := assertAtLeast(op, args, 1); err != nil {
		return err
	}

	x := args.PopAt(0)

	if op == "-" && args.Len() == 0 {
		switch x := x.(type) {
		case *object.Integer:
			x.Value = -x.Value
			x.Shadow = -x.Shadow
		case *object.Decimal:
			x.Value = -x.Value
		}
		return x
	}

	for args.Len() > 0 {
		y := args.PopAt(0)

		xi, xInt := x.(*object.Integer)
		yi, yInt := y.(*object.Integer)
		if xInt && yInt {
			if err := integerOp(op, xi, yi.Value); err != nil {
				return err
			}
			xi.Sync()
			continue
		}

		r, err := floatOp(op, x.(object.Number).Float(), y.(object.Number).Float())
		if err != nil {
			return err
		}
		switch x := x.(type) {
		case *object.Integer:
			x.Shadow = r
		case *object.Decimal:
			x.Value = r
		}
	}

	return x
}

func integerOp(op string, x *object.Integer, y int64) *object.Error {
	switch op {
	case "+":
		x.Value += y
	case "-":
		x.Value -= y
	case "*":
		x.Value *= y
	case "/":
		if y == 0 {
			return errDivisionByZero()
		}
		x.Value /= y
	case "%":
		if y == 0 {
			return errDivisionByZero()
		}
		x.Value %= y
	case "^":
		p, err := power(x.Value, y)
		if err != nil {
			return err
		}
		x.Value = p
	}
	return nil
}

func floatOp(op string, x, y float64) (float64, *object.Error) {
	switch op {
	case "+":
		return x + y, nil
	case "-":
		return x - y, nil
	case "*":
		return x * y, nil
	case "/":
		if y == 0 {
			return 0, errDivisionByZero()
		}
		return x / y, nil
	case "%":
		if y == 0 {
			return 0, errDivisionByZero()
		}
		return math.Mod(x, y), nil
	case "^":
		return math.Pow(x, y), nil
	}
	return x, nil
}

// power raises x to y by squaring. Negative exponents use the integer
// reciprocal of x, so only 1 and -1 survive them.
func power(x, y int64) (int64, *object.Error) {
	if y >= 0 {
		return ipow(x, uint64(y)), nil
	}
	if x == 0 {
		return 0, errDivisionByZero()
	}
	return ipow(1/x, uint64(-(y+1))+1), nil
}

func ipow(base int64, n uint64) int64 {
	result := int64(1)
	for n > 0 {
		if n&1 == 1 {
			result *= base
		}
		base *= base
		n >>= 1
	}
	return result
}

func errDivisionByZero() *object.Error {
	return object.NewError("Division By Zero!")
}

// funcExtremum keeps the first argument as the accumulator, like funcArith. Two
// integers compare exactly; any other pairing compares and updates only the
// floating value.
func funcExtremum(name string) *object.Builtin {
	return newBuiltin(name, func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		for _, a := range args.Elements {
			if _, ok := a.(object.Number); !ok {
				return object.NewError("Cannot operate on non-number!")
			}
		}
		if err := assertAtLeast(name, args, 1); err != nil {
			return err
		}

		x := args.PopAt(0)
		for args.Len() > 0 {
			y := args.PopAt(0)

			xi, xInt := x.(*object.Integer)
			yi, yInt := y.(*object.Integer)
			if xInt && yInt {
				if (name == "max" && xi.Value <= yi.Value) || (name == "min" && xi.Value >= yi.Value) {
					xi.Value = yi.Value
				}
				xi.Sync()
				continue
			}

			xf, yf := x.(object.Number).Float(), y.(object.Number).Float()
			if !takes(name, xf, yf) {
				continue
			}
			switch x := x.(type) {
			case *object.Integer:
				x.Shadow = yf
			case *object.Decimal:
				x.Value = yf
			}
		}
		return x
	})
}

func takes(name string, x, y float64) bool {
	if name == "max" {
		return x <= y
	}
	return x >= y
}

func funcOrder(op string) *object.Builtin {
	return newBuiltin(op, func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount(op, args, 2); err != nil {
			return err
		}
		x, xok := args.Elements[0].(object.Number)
		y, yok := args.Elements[1].(object.Number)
		if !xok || !yok {
			return object.NewError("Error, %s can only compare numbers", op)
		}

		a, b := x.Float(), y.Float()
		var r bool
		switch op {
		case ">":
			r = a > b
		case "<":
			r = a < b
		case ">=":
			r = a >= b
		case "<=":
			r = a <= b
		}
		return object.NewBoolean(r)
	})
}

func funcCompare(op string) *object.Builtin {
	return newBuiltin(op, func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount(op, args, 2); err != nil {
			return err
		}
		eq := object.Equal(args.Elements[0], args.Elements[1])
		if op == "!=" {
			eq = !eq
		}
		return object.NewBoolean(eq)
	})
}

func funcAnd() *object.Builtin {
	return newBuiltin("and", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		x, y, err := booleanPair("and", args)
		if err != nil {
			return err
		}
		return object.NewBoolean(x == 1 && y == 1)
	})
}

func funcOr() *object.Builtin {
	return newBuiltin("or", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		x, y, err := booleanPair("or", args)
		if err != nil {
			return err
		}
		return object.NewBoolean(x == 1 || y == 1)
	})
}

func booleanPair(name string, args *object.List) (int64, int64, *object.Error) {
	if err := assertCount(name, args, 2); err != nil {
		return 0, 0, err
	}
	for i := range args.Elements {
		if err := assertType(name, args, i, object.INTEGER_OBJ); err != nil {
			return 0, 0, err
		}
	}
	return args.Elements[0].(*object.Integer).Value, args.Elements[1].(*object.Integer).Value, nil
}

func funcNot() *object.Builtin {
	return newBuiltin("not", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("not", args, 1); err != nil {
			return err
		}
		if err := assertType("not", args, 0, object.INTEGER_OBJ); err != nil {
			return err
		}
		return object.NewBoolean(args.Elements[0].(*object.Integer).Value == 0)
	})
}

// funcIf evaluates one of two Q-expression branches depending on whether the
// condition is non-zero.
func funcIf() *object.Builtin {
	return newBuiltin("if", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("if", args, 3); err != nil {
			return err
		}
		if err := assertType("if", args, 0, object.INTEGER_OBJ); err != nil {
			return err
		}
		if err := assertType("if", args, 1, object.QEXPR_OBJ); err != nil {
			return err
		}
		if err := assertType("if", args, 2, object.QEXPR_OBJ); err != nil {
			return err
		}

		branch := args.Elements[2].(*object.List)
		if args.Elements[0].(*object.Integer).Value != 0 {
			branch = args.Elements[1].(*object.List)
		}
		branch.Evaluable = true
		return ctx.Eval(env, branch)
	})
}
