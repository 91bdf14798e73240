package lexer

import (
	"lispy/internal/token"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input        string
	position     int  // current byte position in input (points to start of current rune)
	readPosition int  // next byte position in input (start of next rune)
	ch           rune // current rune under examination; 0 means EOF
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	startPosition := l.position

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Literal: "", Position: startPosition}
	case '(':
		return l.single(token.LPAREN)
	case ')':
		return l.single(token.RPAREN)
	case '{':
		return l.single(token.LBRACE)
	case '}':
		return l.single(token.RBRACE)
	case ';':
		return token.Token{Type: token.COMMENT, Literal: l.readComment(), Position: startPosition}
	case '"':
		literal, ok := l.readString()
		if !ok {
			return token.Token{Type: token.ILLEGAL, Literal: literal, Position: startPosition}
		}
		return token.Token{Type: token.STRING, Literal: literal, Position: startPosition}
	}

	if end := l.matchNumber(); end > 0 {
		literal := l.input[startPosition:end]
		for l.position < end {
			l.readChar()
		}
		return token.Token{Type: token.NUMBER, Literal: literal, Position: startPosition}
	}

	if token.IsSymbolChar(l.ch) {
		return token.Token{Type: token.SYMBOL, Literal: l.readSymbol(), Position: startPosition}
	}

	tok := token.Token{Type: token.ILLEGAL, Literal: string(l.ch), Position: startPosition}
	l.readChar()
	return tok
}

func (l *Lexer) single(t token.TokenType) token.Token {
	tok := token.Token{Type: t, Literal: string(l.ch), Position: l.position}
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch != 0 && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

func (l *Lexer) readSymbol() string {
	start := l.position
	for token.IsSymbolChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readComment() string {
	start := l.position
	for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readString consumes a quoted literal, quotes and escapes included. It reports
// false when the input ends before the closing quote.
func (l *Lexer) readString() (string, bool) {
	start := l.position
	l.readChar() // consume the opening "
	for {
		switch l.ch {
		case 0:
			return l.input[start:l.position], false
		case '\\':
			l.readChar()
			if l.ch == 0 {
				return l.input[start:l.position], false
			}
		case '"':
			l.readChar() // consume the closing "
			return l.input[start:l.position], true
		}
		l.readChar()
	}
}

// matchNumber returns the end offset of a number literal starting at the current
// position, or 0 when there is none. A number running straight into symbol
// characters is not a number.
func (l *Lexer) matchNumber() int {
	i := l.position
	if i < len(l.input) && (l.input[i] == '+' || l.input[i] == '-') {
		i++
	}
	intStart := i
	for i < len(l.input) && isDigit(l.input[i]) {
		i++
	}
	digits := i > intStart
	if i+1 < len(l.input) && l.input[i] == '.' && isDigit(l.input[i+1]) {
		i++
		for i < len(l.input) && isDigit(l.input[i]) {
			i++
		}
		digits = true
	}
	if !digits {
		return 0
	}
	if i < len(l.input) {
		next, _ := utf8.DecodeRuneInString(l.input[i:])
		if token.IsSymbolChar(next) {
			return 0
		}
	}
	return i
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
