package evaluator

import (
	"lispy/internal/object"
)

// builtins is kept in registration order so that `env` lists them predictably.
var builtins = []*object.Builtin{
	// variable functions
	funcEnv(),
	funcLambda(),
	funcDef(),
	funcPut(),
	funcFun(),
	funcExit(),

	// list functions
	funcList(),
	funcHead(),
	funcTail(),
	funcEval(),
	funcJoin(),
	funcCons(),
	funcLen(),
	funcInit(),
	funcIndex(),
	funcPack(),
	funcUnpack(),

	// mathematical functions
	funcArith("+"),
	funcArith("-"),
	funcArith("*"),
	funcArith("/"),
	funcArith("%"),
	funcArith("^"),
	funcExtremum("max"),
	funcExtremum("min"),

	// comparison functions
	funcIf(),
	funcOrder(">"),
	funcOrder("<"),
	funcOrder(">="),
	funcOrder("<="),
	funcCompare("=="),
	funcCompare("!="),
	funcAnd(),
	funcOr(),
	funcNot(),

	// string functions
	funcLoad(),
	funcError(),
	funcPrint(),
}

// AddBuiltins binds every primitive in env.
func AddBuiltins(env *object.Environment) {
	for _, b := range builtins {
		env.Put(b.Name, b)
	}
}

func newBuiltin(name string, fn object.BuiltinFunction) *object.Builtin {
	return &object.Builtin{Name: name, Kind: object.CallApply, Fn: fn}
}

func assertCount(name string, args *object.List, want int) *object.Error {
	if args.Len() != want {
		return object.NewError("Function '%s' passed incorrect number of arguments. Got %d, Expected %d.",
			name, args.Len(), want)
	}
	return nil
}

func assertAtLeast(name string, args *object.List, want int) *object.Error {
	if args.Len() < want {
		return object.NewError("Function '%s' passed incorrect number of arguments. Got %d, Expected at least %d.",
			name, args.Len(), want)
	}
	return nil
}

func assertType(name string, args *object.List, i int, want object.ObjectType) *object.Error {
	if i >= args.Len() {
		return assertAtLeast(name, args, i+1)
	}
	if got := args.Elements[i].Type(); got != want {
		return object.NewError("Function '%s' passed incorrect type for argument %d. Got %s, Expected %s.",
			name, i, got, want)
	}
	return nil
}

// assertNotEmpty expects the i-th argument to already be known as a list.
func assertNotEmpty(name string, args *object.List, i int) *object.Error {
	if l, ok := args.Elements[i].(*object.List); ok && l.Len() == 0 {
		return object.NewError("Function '%s' passed {} for argument %d.", name, i)
	}
	return nil
}
