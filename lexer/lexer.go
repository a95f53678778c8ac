// Package lexer splits source text into tokens.
package lexer

import (
	"math"
	"strconv"

	"github.com/strager/yamcc/diag"
)

var keywords = map[string]bool{
	"return": true,
	"if":     true,
	"else":   true,
	"for":    true,
	"while":  true,
	"int":    true,
}

// Longest match first: these are checked before the single characters.
var twoCharPuncts = []string{"==", "!=", "<=", ">="}

const oneCharPuncts = "+-*/&(){};,=<>"

func isIdent1(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isIdent2(c byte) bool {
	return isIdent1(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// readPunct returns the length of the punctuator at the start of s, or 0.
func readPunct(s string) int {
	for _, p := range twoCharPuncts {
		if len(s) >= 2 && s[:2] == p {
			return 2
		}
	}
	for i := 0; i < len(oneCharPuncts); i++ {
		if s[0] == oneCharPuncts[i] {
			return 1
		}
	}
	return 0
}

// Tokenize scans src and returns its tokens terminated by an EOF token.
// On error no tokens are returned.
func Tokenize(src string) ([]Token, error) {
	var toks []Token
	p := 0

	for p < len(src) {
		c := src[p]

		if isSpace(c) {
			p++
			continue
		}

		if isDigit(c) {
			start := p
			for p < len(src) && isDigit(src[p]) {
				p++
			}
			// A run of digits can only fail to parse by overflowing.
			val, err := strconv.ParseInt(src[start:p], 10, 64)
			if err != nil || val > math.MaxInt32 {
				return nil, diag.Errorf(diag.LexError, start, "number literal out of range")
			}
			toks = append(toks, Token{Kind: Num, Pos: start, Lit: src[start:p], Val: val})
			continue
		}

		if isIdent1(c) {
			start := p
			for p < len(src) && isIdent2(src[p]) {
				p++
			}
			toks = append(toks, Token{Kind: Ident, Pos: start, Lit: src[start:p]})
			continue
		}

		if n := readPunct(src[p:]); n > 0 {
			toks = append(toks, Token{Kind: Punct, Pos: p, Lit: src[p : p+n]})
			p += n
			continue
		}

		return nil, diag.Errorf(diag.LexError, p, "invalid token")
	}

	toks = append(toks, Token{Kind: EOF, Pos: len(src)})
	convertKeywords(toks)
	return toks, nil
}

// convertKeywords reclassifies reserved identifiers once the whole stream
// exists, so only complete identifiers are ever matched.
func convertKeywords(toks []Token) {
	for i := range toks {
		if toks[i].Kind == Ident && keywords[toks[i].Lit] {
			toks[i].Kind = Keyword
		}
	}
}
