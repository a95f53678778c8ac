// Package sexy reads the s-expression notation used by the markdown test
// corpus and matches parsed expressions against patterns.
package sexy

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeEllipsis
	NodeList
)

func (t NodeType) String() string {
	switch t {
	case NodeSymbol:
		return "symbol"
	case NodeString:
		return "string"
	case NodeInteger:
		return "integer"
	case NodeEllipsis:
		return "ellipsis"
	case NodeList:
		return "list"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Node is an atom or a list.
type Node struct {
	Type  NodeType
	Text  string  // NodeSymbol, NodeString, NodeInteger
	Items []*Node // NodeList
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		return n.Text
	case NodeString:
		return strconv.Quote(n.Text)
	case NodeEllipsis:
		return "..."
	case NodeList:
		parts := make([]string, len(n.Items))
		for i, item := range n.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewEllipsis() *Node {
	return &Node{Type: NodeEllipsis}
}

func NewList(items ...*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	return n.Type != NodeList
}

// Parse parses exactly one datum. Comments run from ';' to end of line.
func Parse(input string) (*Node, error) {
	p := &parser{l: &lexer{input: input}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	result, err := p.datum()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != tokenEOF {
		return nil, fmt.Errorf("offset %d: expected EOF but got %s", p.tok.pos, p.tok.typ)
	}
	return result, nil
}

type parser struct {
	l   *lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.l.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) datum() (*Node, error) {
	tok := p.tok
	switch tok.typ {
	case tokenSymbol:
		return NewSymbol(tok.text), p.advance()
	case tokenString:
		return NewString(tok.text), p.advance()
	case tokenInteger:
		return NewInteger(tok.text), p.advance()
	case tokenEllipsis:
		return NewEllipsis(), p.advance()
	case tokenLParen:
		return p.list()
	default:
		return nil, fmt.Errorf("offset %d: unexpected token: %s", tok.pos, tok.typ)
	}
}

func (p *parser) list() (*Node, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	items := []*Node{}
	for p.tok.typ != tokenRParen {
		if p.tok.typ == tokenEOF {
			return nil, fmt.Errorf("offset %d: expected ')' but got EOF", p.tok.pos)
		}
		item, err := p.datum()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return NewList(items...), p.advance()
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenEllipsis
	tokenLParen
	tokenRParen
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenEllipsis:
		return "ellipsis"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	typ  tokenType
	text string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) peek(ahead int) byte {
	if l.pos+ahead >= len(l.input) {
		return 0
	}
	return l.input[l.pos+ahead]
}

func (l *lexer) next() (token, error) {
	for {
		for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
			l.pos++
		}
		if l.peek(0) != ';' {
			break
		}
		for l.pos < len(l.input) && l.input[l.pos] != '\n' {
			l.pos++
		}
	}

	start := l.pos
	c := l.peek(0)
	switch {
	case l.pos >= len(l.input):
		return token{typ: tokenEOF, pos: start}, nil
	case c == '(':
		l.pos++
		return token{typ: tokenLParen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return token{typ: tokenRParen, text: ")", pos: start}, nil
	case c == '"':
		return l.readString()
	case c == '.':
		if l.peek(1) == '.' && l.peek(2) == '.' {
			l.pos += 3
			return token{typ: tokenEllipsis, text: "...", pos: start}, nil
		}
		return token{}, fmt.Errorf("offset %d: unexpected character '.'", start)
	case isDigit(c) || ((c == '-' || c == '+') && isDigit(l.peek(1))):
		l.pos++
		for isDigit(l.peek(0)) {
			l.pos++
		}
		return token{typ: tokenInteger, text: l.input[start:l.pos], pos: start}, nil
	case isSymbolChar(c):
		for l.pos < len(l.input) && isSymbolChar(l.input[l.pos]) {
			l.pos++
		}
		return token{typ: tokenSymbol, text: l.input[start:l.pos], pos: start}, nil
	default:
		return token{}, fmt.Errorf("offset %d: unexpected character '%c'", start, c)
	}
}

func (l *lexer) readString() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.input) {
			return token{}, fmt.Errorf("offset %d: unterminated string", start)
		}
		c := l.input[l.pos]
		l.pos++
		switch c {
		case '"':
			return token{typ: tokenString, text: b.String(), pos: start}, nil
		case '\\':
			esc := l.peek(0)
			if esc != '"' && esc != '\\' {
				return token{}, fmt.Errorf("offset %d: invalid escape sequence: \\%c", l.pos-1, esc)
			}
			b.WriteByte(esc)
			l.pos++
		default:
			b.WriteByte(c)
		}
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// Symbols cover the operator spellings and type names that appear in AST
// dumps, e.g. <=, int*, l.return.
func isSymbolChar(c byte) bool {
	switch c {
	case 0, '(', ')', '"', ';':
		return false
	}
	return !unicode.IsSpace(rune(c))
}
