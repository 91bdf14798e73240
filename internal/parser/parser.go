package parser

import (
	"fmt"
	"lispy/internal/ast"
	"lispy/internal/lexer"
	"lispy/internal/token"
	"lispy/internal/util"
	"log/slog"
	"os"
)

// Error is a syntax error with its location in the source.
type Error struct {
	Filename string
	Line     int
	Column   int
	Message  string
	Src      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: error: %s", e.Filename, e.Line, e.Column, e.Message)
}

// Context renders the offending source lines with a marker under the error column.
func (e *Error) Context() string {
	return util.GetContextLines(e.Src, e.Line, e.Column)
}

// Parser holds the grammar for the language. It keeps no state between calls and
// is built once, then handed to whatever needs to read source text.
type Parser struct {
	// DebugHook, when set, receives every successfully parsed tree.
	DebugHook func(filename string, root *ast.Node)
}

func New() *Parser {
	return &Parser{}
}

// Parse reads every expression of src into a root node.
func (p *Parser) Parse(filename, src string) (*ast.Node, error) {
	r := &run{
		l:        lexer.New(src),
		src:      src,
		filename: filename,
	}
	// Read two tokens, so curToken and peekToken are both set
	r.nextToken()
	r.nextToken()

	root, err := r.parseRoot()
	if err != nil {
		slog.Debug("parse failed",
			slog.String("file", filename),
			slog.Any("error", err))
		return nil, err
	}
	if p.DebugHook != nil {
		p.DebugHook(filename, root)
	}
	return root, nil
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(path string) (*ast.Node, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read '%s': %w", path, err)
	}
	return p.Parse(path, string(src))
}

type run struct {
	l        *lexer.Lexer
	src      string
	filename string

	curToken  token.Token
	peekToken token.Token
}

func (r *run) nextToken() {
	r.curToken = r.peekToken
	r.peekToken = r.l.NextToken()
}

func (r *run) curTokenIs(t token.TokenType) bool {
	return r.curToken.Type == t
}

func (r *run) errorAt(pos int, message string, args ...interface{}) *Error {
	line, col := util.GetLineAndColumn(r.src, pos)
	return &Error{
		Filename: r.filename,
		Line:     line,
		Column:   col,
		Message:  fmt.Sprintf(message, args...),
		Src:      r.src,
	}
}

func (r *run) parseRoot() (*ast.Node, error) {
	root := &ast.Node{Tag: ast.ROOT}
	root.Children = append(root.Children, &ast.Node{Tag: ast.REGEX, Position: 0})

	for !r.curTokenIs(token.EOF) {
		if r.curTokenIs(token.RPAREN) || r.curTokenIs(token.RBRACE) {
			return nil, r.errorAt(r.curToken.Position, "unexpected '%s', expected expression or end of input", r.curToken.Literal)
		}
		expr, err := r.parseExpression()
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, expr)
	}

	root.Children = append(root.Children, &ast.Node{Tag: ast.REGEX, Position: len(r.src)})
	return root, nil
}

func (r *run) parseExpression() (*ast.Node, error) {
	tok := r.curToken
	var node *ast.Node

	switch tok.Type {
	case token.NUMBER:
		node = &ast.Node{Tag: ast.NUMBER, Contents: tok.Literal, Position: tok.Position}
	case token.SYMBOL:
		node = &ast.Node{Tag: ast.SYMBOL, Contents: tok.Literal, Position: tok.Position}
	case token.STRING:
		node = &ast.Node{Tag: ast.STRING, Contents: tok.Literal, Position: tok.Position}
	case token.COMMENT:
		node = &ast.Node{Tag: ast.COMMENT, Contents: tok.Literal, Position: tok.Position}
	case token.LPAREN:
		return r.parseList(ast.SEXPR, token.RPAREN)
	case token.LBRACE:
		return r.parseList(ast.QEXPR, token.RBRACE)
	case token.ILLEGAL:
		if len(tok.Literal) > 0 && tok.Literal[0] == '"' {
			return nil, r.errorAt(tok.Position, "unterminated string literal")
		}
		return nil, r.errorAt(tok.Position, "unexpected '%s', expected expression", tok.Literal)
	default:
		return nil, r.errorAt(tok.Position, "unexpected '%s', expected expression", tok.Literal)
	}

	r.nextToken()
	return node, nil
}

func (r *run) parseList(tag string, closing token.TokenType) (*ast.Node, error) {
	open := r.curToken
	node := &ast.Node{Tag: tag, Position: open.Position}
	node.Children = append(node.Children, &ast.Node{Tag: ast.CHAR, Contents: open.Literal, Position: open.Position})
	r.nextToken()

	for !r.curTokenIs(closing) {
		switch r.curToken.Type {
		case token.EOF:
			return nil, r.errorAt(r.curToken.Position, "expected '%s' at end of input", string(closing))
		case token.RPAREN, token.RBRACE:
			return nil, r.errorAt(r.curToken.Position, "unexpected '%s', expected '%s'", r.curToken.Literal, string(closing))
		}
		child, err := r.parseExpression()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	node.Children = append(node.Children, &ast.Node{Tag: ast.CHAR, Contents: r.curToken.Literal, Position: r.curToken.Position})
	r.nextToken()
	return node, nil
}
