package object

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

const (
	INTEGER_OBJ  = "Integer"
	DECIMAL_OBJ  = "Decimal"
	ERROR_OBJ    = "Error"
	STRING_OBJ   = "String"
	SYMBOL_OBJ   = "Symbol"
	FUNCTION_OBJ = "Function"
	SEXPR_OBJ    = "S-Expression"
	QEXPR_OBJ    = "Q-Expression"
)

// VariadicMarker is the formal that collects every remaining argument into a list.
const VariadicMarker = "&"

// shadowTolerance is how far an Integer's floating mirror may drift before it is
// rendered as a decimal.
const shadowTolerance = 0.000001

// EvaluatorContext provides the bridge between native builtins and the interpreter,
// giving them access to evaluation, application and the host side effects.
type EvaluatorContext interface {
	Eval(env *Environment, obj Object) Object
	Apply(env *Environment, fn Object, args *List) Object
	LoadFile(env *Environment, path string) Object
	Output() io.Writer
	Exit(code int)
}

// BuiltinFunction receives ownership of args.
type BuiltinFunction func(ctx EvaluatorContext, env *Environment, args *List) Object

// BuiltinKind tells the evaluator how a builtin takes part in S-expression evaluation.
type BuiltinKind int

const (
	// CallApply builtins go through the regular application protocol.
	CallApply BuiltinKind = iota
	// CallDirect builtins are invoked on the remaining elements even when there are
	// none, without the single-element shortcut.
	CallDirect
	// CallTerminate builtins end the process.
	CallTerminate
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
	Copy() Object
}

// Number is implemented by Integer and Decimal.
type Number interface {
	Object
	Float() float64
}

type Integer struct {
	Value  int64
	Shadow float64
}

func NewInteger(v int64) *Integer { return &Integer{Value: v, Shadow: float64(v)} }

// NewBoolean encodes b as the integer 1 or 0.
func NewBoolean(b bool) *Integer {
	if b {
		return NewInteger(1)
	}
	return NewInteger(0)
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string {
	if math.Abs(float64(i.Value)-i.Shadow) > shadowTolerance {
		return fmt.Sprintf("%f", i.Shadow)
	}
	return fmt.Sprintf("%d", i.Value)
}
func (i *Integer) Copy() Object   { return &Integer{Value: i.Value, Shadow: i.Shadow} }
func (i *Integer) Float() float64 { return i.Shadow }

// Sync refreshes the floating mirror from the exact value.
func (i *Integer) Sync() { i.Shadow = float64(i.Value) }

type Decimal struct {
	Value float64
}

func (d *Decimal) Type() ObjectType { return DECIMAL_OBJ }
func (d *Decimal) Inspect() string  { return fmt.Sprintf("%f", d.Value) }
func (d *Decimal) Copy() Object     { return &Decimal{Value: d.Value} }
func (d *Decimal) Float() float64   { return d.Value }

type Error struct {
	Message string
}

func NewError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "Error: " + e.Message }
func (e *Error) Copy() Object     { return &Error{Message: e.Message} }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return `"` + Escape(s.Value) + `"` }
func (s *String) Copy() Object     { return &String{Value: s.Value} }

type Symbol struct {
	Name string
}

func (s *Symbol) Type() ObjectType { return SYMBOL_OBJ }
func (s *Symbol) Inspect() string  { return s.Name }
func (s *Symbol) Copy() Object     { return &Symbol{Name: s.Name} }

// Builtin is a native primitive. Two builtins are the same function when they share a name.
type Builtin struct {
	Name string
	Kind BuiltinKind
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return FUNCTION_OBJ }
func (b *Builtin) Inspect() string  { return "<builtin>" }
func (b *Builtin) Copy() Object     { return &Builtin{Name: b.Name, Kind: b.Kind, Fn: b.Fn} }

// Lambda is a user function. It owns its environment, which holds the arguments
// bound so far by partial application.
type Lambda struct {
	Env     *Environment
	Formals *List
	Body    *List
}

func NewLambda(formals, body *List) *Lambda {
	return &Lambda{Env: NewEnvironment(), Formals: formals, Body: body}
}

func (l *Lambda) Type() ObjectType { return FUNCTION_OBJ }
func (l *Lambda) Inspect() string {
	return `(\ ` + l.Formals.Inspect() + " " + l.Body.Inspect() + ")"
}
func (l *Lambda) Copy() Object {
	return &Lambda{
		Env:     l.Env.Copy(),
		Formals: l.Formals.Copy().(*List),
		Body:    l.Body.Copy().(*List),
	}
}

// List is an S-expression when Evaluable is set, otherwise a Q-expression.
type List struct {
	Elements  []Object
	Evaluable bool
}

func NewSExpr(elements ...Object) *List { return &List{Elements: elements, Evaluable: true} }
func NewQExpr(elements ...Object) *List { return &List{Elements: elements} }

func (l *List) Type() ObjectType {
	if l.Evaluable {
		return SEXPR_OBJ
	}
	return QEXPR_OBJ
}

func (l *List) Inspect() string {
	var out bytes.Buffer
	open, close := "{", "}"
	if l.Evaluable {
		open, close = "(", ")"
	}
	out.WriteString(open)
	for i, e := range l.Elements {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(e.Inspect())
	}
	out.WriteString(close)
	return out.String()
}

func (l *List) Copy() Object {
	elements := make([]Object, len(l.Elements))
	for i, e := range l.Elements {
		elements[i] = e.Copy()
	}
	return &List{Elements: elements, Evaluable: l.Evaluable}
}

func (l *List) Len() int { return len(l.Elements) }

// Append adds x as the last child and returns the list.
func (l *List) Append(x Object) *List {
	l.Elements = append(l.Elements, x)
	return l
}

// PopAt removes the child at i and returns it, shifting the rest left.
func (l *List) PopAt(i int) Object {
	x := l.Elements[i]
	copy(l.Elements[i:], l.Elements[i+1:])
	l.Elements[len(l.Elements)-1] = nil
	l.Elements = l.Elements[:len(l.Elements)-1]
	return x
}

// TakeAt pops the child at i and discards the rest of the list.
func (l *List) TakeAt(i int) Object {
	x := l.PopAt(i)
	l.Elements = nil
	return x
}

// Join concatenates two lists or two strings, consuming both operands.
func Join(x, y Object) Object {
	switch x := x.(type) {
	case *List:
		yl, ok := y.(*List)
		if !ok {
			return NewError("Cannot join %s with %s.", x.Type(), y.Type())
		}
		x.Elements = append(x.Elements, yl.Elements...)
		yl.Elements = nil
		return x
	case *String:
		ys, ok := y.(*String)
		if !ok {
			return NewError("Cannot join %s with %s.", x.Type(), y.Type())
		}
		return &String{Value: x.Value + ys.Value}
	default:
		return NewError("Cannot join %s with %s.", x.Type(), y.Type())
	}
}

// IsError reports whether obj is an Error value.
func IsError(obj Object) bool {
	_, ok := obj.(*Error)
	return ok
}
