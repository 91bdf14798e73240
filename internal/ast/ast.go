package ast

import (
	"bytes"
	"strings"
)

// Node tags produced by the parser.
const (
	ROOT    = ">"
	NUMBER  = "number"
	SYMBOL  = "symbol"
	STRING  = "string"
	COMMENT = "comment"
	SEXPR   = "sexpr"
	QEXPR   = "qexpr"
	CHAR    = "char"  // structural delimiters: ( ) { }
	REGEX   = "regex" // start and end of input anchors
)

// Node is a generic syntax tree node: a category tag, the literal text it was
// read from and its ordered children.
type Node struct {
	Tag      string
	Contents string
	Position int // the src index of the node
	Children []*Node
}

func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// String renders the node back into source form, comments and anchors omitted.
func (n *Node) String() string {
	var out bytes.Buffer

	switch n.Tag {
	case REGEX, COMMENT:
		return ""
	case ROOT, SEXPR, QEXPR:
		parts := []string{}
		open, close := "", ""
		for _, c := range n.Children {
			if c.Tag == CHAR {
				if open == "" {
					open = c.Contents
				} else {
					close = c.Contents
				}
				continue
			}
			if s := c.String(); s != "" {
				parts = append(parts, s)
			}
		}
		out.WriteString(open)
		out.WriteString(strings.Join(parts, " "))
		out.WriteString(close)
	default:
		out.WriteString(n.Contents)
	}

	return out.String()
}
