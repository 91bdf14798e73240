package evaluator

import (
	"lispy/internal/ast"
	"lispy/internal/object"
	"strconv"
	"strings"
)

// Read converts a parsed tree into values. The root and every parenthesised list
// become S-expressions, braced lists become Q-expressions.
func Read(node *ast.Node) object.Object {
	switch node.Tag {
	case ast.NUMBER:
		return readNumber(node.Contents)
	case ast.SYMBOL:
		return &object.Symbol{Name: node.Contents}
	case ast.STRING:
		return readString(node.Contents)
	}

	var list *object.List
	switch node.Tag {
	case ast.ROOT, ast.SEXPR:
		list = object.NewSExpr()
	case ast.QEXPR:
		list = object.NewQExpr()
	default:
		return object.NewError("Unknown syntax node '%s'", node.Tag)
	}

	for _, child := range node.Children {
		if skipOnRead(child) {
			continue
		}
		list.Append(Read(child))
	}
	return list
}

func skipOnRead(node *ast.Node) bool {
	switch node.Tag {
	case ast.CHAR, ast.REGEX, ast.COMMENT:
		return true
	}
	switch node.Contents {
	case "(", ")", "{", "}":
		return node.IsLeaf()
	}
	return false
}

func readNumber(literal string) object.Object {
	if strings.Contains(literal, ".") {
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return object.NewError("invalid number")
		}
		return &object.Decimal{Value: f}
	}
	n, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return object.NewError("invalid number")
	}
	return object.NewInteger(n)
}

func readString(literal string) object.Object {
	if len(literal) < 2 {
		return &object.String{}
	}
	return &object.String{Value: object.Unescape(literal[1 : len(literal)-1])}
}
