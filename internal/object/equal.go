package object

// Equal reports structural equality. Integers and Decimals compare by their
// floating values; lambdas compare formals and body but not their environments.
func Equal(x, y Object) bool {
	if xn, ok := x.(Number); ok {
		yn, ok := y.(Number)
		return ok && xn.Float() == yn.Float()
	}

	switch x := x.(type) {
	case *Error:
		y, ok := y.(*Error)
		return ok && x.Message == y.Message
	case *Symbol:
		y, ok := y.(*Symbol)
		return ok && x.Name == y.Name
	case *String:
		y, ok := y.(*String)
		return ok && x.Value == y.Value
	case *Builtin:
		y, ok := y.(*Builtin)
		return ok && x.Name == y.Name
	case *Lambda:
		y, ok := y.(*Lambda)
		return ok && Equal(x.Formals, y.Formals) && Equal(x.Body, y.Body)
	case *List:
		y, ok := y.(*List)
		if !ok || x.Evaluable != y.Evaluable || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !Equal(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}
