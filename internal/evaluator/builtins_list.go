package evaluator

import (
	"lispy/internal/object"
)

func funcList() *object.Builtin {
	return newBuiltin("list", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		args.Evaluable = false
		return args
	})
}

// funcHead keeps only the first element of a Q-expression, or the first character
// of a string.
func funcHead() *object.Builtin {
	return newBuiltin("head", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("head", args, 1); err != nil {
			return err
		}
		switch x := args.TakeAt(0).(type) {
		case *object.List:
			if x.Evaluable {
				break
			}
			if x.Len() == 0 {
				return object.NewError("Function 'head' passed {} for argument 0.")
			}
			x.Elements = x.Elements[:1]
			return x
		case *object.String:
			runes := []rune(x.Value)
			if len(runes) == 0 {
				return object.NewError("Function 'head' cannot process \"\"")
			}
			return &object.String{Value: string(runes[:1])}
		}
		return object.NewError("Function 'head' expected a String or a Q-expression")
	})
}

// funcTail drops the first element of a Q-expression, or the first character of a string.
func funcTail() *object.Builtin {
	return newBuiltin("tail", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("tail", args, 1); err != nil {
			return err
		}
		switch x := args.TakeAt(0).(type) {
		case *object.List:
			if x.Evaluable {
				break
			}
			if x.Len() == 0 {
				return object.NewError("Function 'tail' passed {} for argument 0.")
			}
			x.PopAt(0)
			return x
		case *object.String:
			runes := []rune(x.Value)
			if len(runes) == 0 {
				return object.NewError("Function 'tail' cannot process \"\"")
			}
			return &object.String{Value: string(runes[1:])}
		}
		return object.NewError("Function 'tail' expected a String or a Q-expression")
	})
}

// funcInit drops the last element of a Q-expression, or the last character of a string.
func funcInit() *object.Builtin {
	return newBuiltin("init", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("init", args, 1); err != nil {
			return err
		}
		switch x := args.TakeAt(0).(type) {
		case *object.List:
			if x.Evaluable {
				break
			}
			if x.Len() == 0 {
				return object.NewError("Function 'init' passed {} for argument 0.")
			}
			x.PopAt(x.Len() - 1)
			return x
		case *object.String:
			runes := []rune(x.Value)
			if len(runes) == 0 {
				return object.NewError("Function 'init' cannot process \"\"")
			}
			return &object.String{Value: string(runes[:len(runes)-1])}
		}
		return object.NewError("Function 'init' expected a String or a Q-expression")
	})
}

func funcEval() *object.Builtin {
	return newBuiltin("eval", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("eval", args, 1); err != nil {
			return err
		}
		if err := assertType("eval", args, 0, object.QEXPR_OBJ); err != nil {
			return err
		}
		x := args.TakeAt(0).(*object.List)
		x.Evaluable = true
		return ctx.Eval(env, x)
	})
}

// funcJoin concatenates Q-expressions, or strings when the first argument is not
// a Q-expression.
func funcJoin() *object.Builtin {
	return newBuiltin("join", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertAtLeast("join", args, 1); err != nil {
			return err
		}
		want := object.ObjectType(object.STRING_OBJ)
		if args.Elements[0].Type() == object.QEXPR_OBJ {
			want = object.QEXPR_OBJ
		}
		for i := range args.Elements {
			if err := assertType("join", args, i, want); err != nil {
				return err
			}
		}

		x := args.PopAt(0)
		for args.Len() > 0 {
			x = object.Join(x, args.PopAt(0))
		}
		return x
	})
}

// funcCons prepends a value to a Q-expression. A Q-expression in first position
// is joined rather than nested.
func funcCons() *object.Builtin {
	return newBuiltin("cons", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("cons", args, 2); err != nil {
			return err
		}
		if err := assertType("cons", args, 1, object.QEXPR_OBJ); err != nil {
			return err
		}
		x := args.PopAt(0)
		if x.Type() != object.QEXPR_OBJ {
			x = object.NewQExpr(x)
		}
		return object.Join(x, args.TakeAt(0))
	})
}

func funcLen() *object.Builtin {
	return newBuiltin("len", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("len", args, 1); err != nil {
			return err
		}
		if err := assertType("len", args, 0, object.QEXPR_OBJ); err != nil {
			return err
		}
		return object.NewInteger(int64(args.Elements[0].(*object.List).Len()))
	})
}

// funcIndex returns the element at a zero based position, wrapped in a Q-expression.
func funcIndex() *object.Builtin {
	return newBuiltin("index", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("index", args, 2); err != nil {
			return err
		}
		if err := assertType("index", args, 0, object.INTEGER_OBJ); err != nil {
			return err
		}
		if err := assertType("index", args, 1, object.QEXPR_OBJ); err != nil {
			return err
		}
		if err := assertNotEmpty("index", args, 1); err != nil {
			return err
		}

		i := args.Elements[0].(*object.Integer).Value
		list := args.Elements[1].(*object.List)
		if i < 0 || i >= int64(list.Len()) {
			return object.NewError("index out of range, the list has length %d", list.Len())
		}
		return object.NewQExpr(list.Elements[i])
	})
}

// funcPack calls a function with all of its remaining arguments gathered into a
// single Q-expression.
func funcPack() *object.Builtin {
	return newBuiltin("pack", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertAtLeast("pack", args, 1); err != nil {
			return err
		}
		if err := assertType("pack", args, 0, object.FUNCTION_OBJ); err != nil {
			return err
		}
		fn := args.PopAt(0)
		call := object.NewSExpr(fn, object.NewQExpr(args.Elements...))
		return ctx.Eval(env, call)
	})
}

// funcUnpack calls a function with the elements of a Q-expression as its arguments.
func funcUnpack() *object.Builtin {
	return newBuiltin("unpack", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("unpack", args, 2); err != nil {
			return err
		}
		if err := assertType("unpack", args, 0, object.FUNCTION_OBJ); err != nil {
			return err
		}
		if err := assertType("unpack", args, 1, object.QEXPR_OBJ); err != nil {
			return err
		}
		if err := assertNotEmpty("unpack", args, 1); err != nil {
			return err
		}
		fn := args.PopAt(0)
		list := args.TakeAt(0).(*object.List)
		call := object.NewSExpr(append([]object.Object{fn}, list.Elements...)...)
		return ctx.Eval(env, call)
	})
}
