package evaluator

import (
	"fmt"
	"lispy/internal/object"
	"strings"
)

// funcEnv lists the names bound in the calling frame. It is invoked even when
// called with no arguments.
func funcEnv() *object.Builtin {
	return &object.Builtin{
		Name: "env",
		Kind: object.CallDirect,
		Fn: func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
			names := object.NewQExpr()
			for _, name := range env.Names() {
				names.Append(&object.Symbol{Name: name})
			}
			return names
		},
	}
}

func funcExit() *object.Builtin {
	return &object.Builtin{
		Name: "exit",
		Kind: object.CallTerminate,
		Fn: func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
			ctx.Exit(0)
			return object.NewSExpr()
		},
	}
}

// funcLambda builds a function from a Q-expression of formal symbols and a body.
func funcLambda() *object.Builtin {
	return newBuiltin(`\`, func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount(`\`, args, 2); err != nil {
			return err
		}
		if err := assertType(`\`, args, 0, object.QEXPR_OBJ); err != nil {
			return err
		}
		if err := assertType(`\`, args, 1, object.QEXPR_OBJ); err != nil {
			return err
		}

		formals := args.Elements[0].(*object.List)
		for _, f := range formals.Elements {
			if f.Type() != object.SYMBOL_OBJ {
				return object.NewError("Cannot define non-symbol. Got %s, Expected %s.", f.Type(), object.SYMBOL_OBJ)
			}
		}
		return object.NewLambda(formals, args.Elements[1].(*object.List))
	})
}

func funcDef() *object.Builtin {
	return newBuiltin("def", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		return define("def", env, args, env.Def)
	})
}

func funcPut() *object.Builtin {
	return newBuiltin("=", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		return define("=", env, args, env.Put)
	})
}

// define binds the symbols of the first argument to the remaining arguments, one
// to one, using bind.
func define(name string, env *object.Environment, args *object.List, bind func(string, object.Object)) object.Object {
	if err := assertType(name, args, 0, object.QEXPR_OBJ); err != nil {
		return err
	}

	syms := args.Elements[0].(*object.List)
	for _, s := range syms.Elements {
		if s.Type() != object.SYMBOL_OBJ {
			return object.NewError("Function '%s' cannot define non-symbol. Got %s, Expected %s.",
				name, s.Type(), object.SYMBOL_OBJ)
		}
	}

	if syms.Len() != args.Len()-1 {
		return object.NewError("Function '%s' passed too many arguments for symbols. Got %d, Expected %d.",
			name, syms.Len(), args.Len()-1)
	}

	for i, s := range syms.Elements {
		bind(s.(*object.Symbol).Name, args.Elements[i+1])
	}
	return object.NewSExpr()
}

// funcFun defines a named function globally: the first symbol of the header is the
// name, the rest are its formals.
func funcFun() *object.Builtin {
	return newBuiltin("fun", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("fun", args, 2); err != nil {
			return err
		}
		if err := assertType("fun", args, 0, object.QEXPR_OBJ); err != nil {
			return err
		}
		if err := assertType("fun", args, 1, object.QEXPR_OBJ); err != nil {
			return err
		}
		if err := assertNotEmpty("fun", args, 0); err != nil {
			return err
		}
		if err := assertNotEmpty("fun", args, 1); err != nil {
			return err
		}

		header := args.Elements[0].(*object.List)
		for _, s := range header.Elements {
			if s.Type() != object.SYMBOL_OBJ {
				return object.NewError("Function 'fun' cannot define non-symbol. Got %s, Expected %s.",
					s.Type(), object.SYMBOL_OBJ)
			}
		}

		name := header.PopAt(0).(*object.Symbol)
		env.Def(name.Name, object.NewLambda(header, args.Elements[1].(*object.List)))
		return object.NewSExpr()
	})
}

func funcLoad() *object.Builtin {
	return newBuiltin("load", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("load", args, 1); err != nil {
			return err
		}
		if err := assertType("load", args, 0, object.STRING_OBJ); err != nil {
			return err
		}
		return ctx.LoadFile(env, args.Elements[0].(*object.String).Value)
	})
}

// funcPrint writes each argument followed by a space, then a newline.
func funcPrint() *object.Builtin {
	return newBuiltin("print", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		var out strings.Builder
		for _, a := range args.Elements {
			out.WriteString(a.Inspect())
			out.WriteString(" ")
		}
		fmt.Fprintln(ctx.Output(), out.String())
		return object.NewSExpr()
	})
}

func funcError() *object.Builtin {
	return newBuiltin("error", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("error", args, 1); err != nil {
			return err
		}
		if err := assertType("error", args, 0, object.STRING_OBJ); err != nil {
			return err
		}
		return &object.Error{Message: args.Elements[0].(*object.String).Value}
	})
}
