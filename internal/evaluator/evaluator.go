package evaluator

import (
	"fmt"
	"io"
	"lispy/internal/ast"
	"lispy/internal/object"
	"lispy/internal/parser"
	"log/slog"
	"os"
)

// Evaluator walks values produced by the reader. It owns the global environment
// and the host resources builtins reach through object.EvaluatorContext.
type Evaluator struct {
	Parser *parser.Parser
	Global *object.Environment
	Out    io.Writer
	// OnExit terminates the process; it defaults to os.Exit.
	OnExit func(code int)

	dbs *dbRegistry
}

// New builds an evaluator with every builtin bound in a fresh global environment.
func New(p *parser.Parser, out io.Writer) *Evaluator {
	e := &Evaluator{
		Parser: p,
		Global: object.NewEnvironment(),
		Out:    out,
		OnExit: os.Exit,
		dbs:    newDBRegistry(),
	}
	AddBuiltins(e.Global)
	for _, b := range e.dbs.builtins() {
		e.Global.Put(b.Name, b)
	}
	return e
}

// Close releases host resources held on behalf of the program.
func (e *Evaluator) Close() error {
	return e.dbs.closeAll()
}

func (e *Evaluator) Output() io.Writer { return e.Out }

func (e *Evaluator) Exit(code int) {
	slog.Debug("exit requested", slog.Int("code", code))
	if err := e.Close(); err != nil {
		slog.Warn("closing databases on exit", slog.Any("error", err))
	}
	e.OnExit(code)
}

// Eval evaluates obj in env. Symbols are resolved, S-expressions are evaluated and
// every other value is returned unchanged.
func (e *Evaluator) Eval(env *object.Environment, obj object.Object) object.Object {
	switch obj := obj.(type) {
	case *object.Symbol:
		return env.Get(obj.Name)
	case *object.List:
		if obj.Evaluable {
			return e.evalSExpr(env, obj)
		}
	}
	return obj
}

func (e *Evaluator) evalSExpr(env *object.Environment, v *object.List) object.Object {
	for i, child := range v.Elements {
		v.Elements[i] = e.Eval(env, child)
	}

	for i, child := range v.Elements {
		if object.IsError(child) {
			return v.TakeAt(i)
		}
	}

	if v.Len() == 0 {
		return v
	}

	if b, ok := v.Elements[0].(*object.Builtin); ok && b.Kind != object.CallApply {
		v.PopAt(0)
		return b.Fn(e, env, v)
	}

	if v.Len() == 1 {
		return v.TakeAt(0)
	}

	f := v.PopAt(0)
	switch f.(type) {
	case *object.Builtin, *object.Lambda:
		return e.Apply(env, f, v)
	default:
		return object.NewError("S-Expression starts with incorrect type. Got %s, Expected %s.",
			f.Type(), object.FUNCTION_OBJ)
	}
}

// Apply calls fn with args from env. It takes ownership of both fn and args.
func (e *Evaluator) Apply(env *object.Environment, fn object.Object, args *object.List) object.Object {
	switch fn := fn.(type) {
	case *object.Builtin:
		return fn.Fn(e, env, args)
	case *object.Lambda:
		return e.applyLambda(env, fn, args)
	default:
		return object.NewError("S-Expression starts with incorrect type. Got %s, Expected %s.",
			fn.Type(), object.FUNCTION_OBJ)
	}
}

// applyLambda binds args to the formals of fn inside fn's own environment. Once
// every formal is bound the environment is chained to the caller's and the body
// runs there; otherwise the partially applied lambda is returned.
func (e *Evaluator) applyLambda(env *object.Environment, fn *object.Lambda, args *object.List) object.Object {
	given, total := args.Len(), fn.Formals.Len()

	slog.Debug("applying lambda",
		slog.String("formals", fn.Formals.Inspect()),
		slog.Int("given", given))

	for args.Len() > 0 {
		if fn.Formals.Len() == 0 {
			return object.NewError("Function passed too many arguments. Got %d, Expected %d.", given, total)
		}

		name, err := formalName(fn.Formals.PopAt(0))
		if err != nil {
			return err
		}

		if name == object.VariadicMarker {
			if fn.Formals.Len() != 1 {
				return errVariadicFormat()
			}
			rest, err := formalName(fn.Formals.PopAt(0))
			if err != nil {
				return err
			}
			fn.Env.Put(rest, object.NewQExpr(args.Elements...))
			args.Elements = nil
			break
		}

		fn.Env.Put(name, args.PopAt(0))
	}

	if fn.Formals.Len() > 0 && isVariadicMarker(fn.Formals.Elements[0]) {
		if fn.Formals.Len() != 2 {
			return errVariadicFormat()
		}
		fn.Formals.PopAt(0)
		rest, err := formalName(fn.Formals.PopAt(0))
		if err != nil {
			return err
		}
		fn.Env.Put(rest, object.NewQExpr())
	}

	if fn.Formals.Len() > 0 {
		return fn.Copy()
	}

	fn.Env.Outer = env
	body := fn.Body.Copy().(*object.List)
	body.Evaluable = true
	return e.Eval(fn.Env, body)
}

func formalName(obj object.Object) (string, *object.Error) {
	sym, ok := obj.(*object.Symbol)
	if !ok {
		return "", object.NewError("Cannot define non-symbol. Got %s, Expected %s.", obj.Type(), object.SYMBOL_OBJ)
	}
	return sym.Name, nil
}

func isVariadicMarker(obj object.Object) bool {
	sym, ok := obj.(*object.Symbol)
	return ok && sym.Name == object.VariadicMarker
}

func errVariadicFormat() *object.Error {
	return object.NewError("Function format invalid. Symbol '%s' not followed by single symbol.", object.VariadicMarker)
}

// EvalSource parses src and evaluates all of it as a single top-level form, the
// way a line typed at the prompt is evaluated.
func (e *Evaluator) EvalSource(name, src string) (object.Object, error) {
	root, err := e.Parser.Parse(name, src)
	if err != nil {
		return nil, err
	}
	return e.Eval(e.Global, Read(root)), nil
}

// LoadFile evaluates every top-level form of the file at path in env. Errors
// produced by a form are printed and do not stop the remaining forms.
func (e *Evaluator) LoadFile(env *object.Environment, path string) object.Object {
	root, err := e.Parser.ParseFile(path)
	if err != nil {
		return object.NewError("Could not load Library %s", err)
	}
	slog.Debug("loading file", slog.String("path", path))
	e.evalForms(env, root)
	return object.NewSExpr()
}

// LoadSource is LoadFile for source text that does not live on disk.
func (e *Evaluator) LoadSource(env *object.Environment, name, src string) object.Object {
	root, err := e.Parser.Parse(name, src)
	if err != nil {
		return object.NewError("Could not load Library %s", err)
	}
	slog.Debug("loading source", slog.String("name", name))
	e.evalForms(env, root)
	return object.NewSExpr()
}

func (e *Evaluator) evalForms(env *object.Environment, root *ast.Node) {
	forms, ok := Read(root).(*object.List)
	if !ok {
		return
	}
	for forms.Len() > 0 {
		x := e.Eval(env, forms.PopAt(0))
		if object.IsError(x) {
			fmt.Fprintln(e.Out, x.Inspect())
		}
	}
}
