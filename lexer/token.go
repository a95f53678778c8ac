package lexer

import "fmt"

// Kind identifies the category of a token.
type Kind int

const (
	EOF     Kind = iota // end of input
	Ident               // identifiers
	Num                 // numeric literals
	Punct               // punctuators
	Keyword             // keywords
)

var kindNames = [...]string{
	EOF:     "EOF",
	Ident:   "IDENT",
	Num:     "NUM",
	Punct:   "PUNCT",
	Keyword: "KEYWORD",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a classified slice of the source text.
type Token struct {
	Kind Kind
	Pos  int    // byte offset of the first character
	Lit  string // the matched source text (shares the source buffer)
	Val  int64  // if Kind is Num, its value
}

// Is reports whether the token is the punctuator or keyword s.
func (t Token) Is(s string) bool {
	return (t.Kind == Punct || t.Kind == Keyword) && t.Lit == s
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Lit)
}
