package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Literals
	NUMBER  = "NUMBER"  // 42, -7, 3.14, .5
	SYMBOL  = "SYMBOL"  // head, +, \, &, def
	STRING  = "STRING"  // "foobar"
	COMMENT = "COMMENT" // ; to the end of the line

	// Delimiters
	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
}

// IsSymbolChar reports whether ch may appear in a symbol.
func IsSymbolChar(ch rune) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	switch ch {
	case '_', '+', '-', '*', '/', '\\', '=', '<', '>', '!', '^', '%', '&':
		return true
	}
	return false
}
