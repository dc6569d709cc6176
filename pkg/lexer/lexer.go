// Package lexer implements the lispir tokenizer.
package lexer

import (
	"strconv"
	"strings"
)

// TokenType identifies the type of a lexer token.
type TokenType int

const (
	TokLParen TokenType = iota // (
	TokRParen                  // )
	TokInt
	TokSymbol
)

func (t TokenType) String() string {
	switch t {
	case TokLParen:
		return "("
	case TokRParen:
		return ")"
	case TokInt:
		return "integer"
	case TokSymbol:
		return "symbol"
	default:
		return "token(" + strconv.Itoa(int(t)) + ")"
	}
}

// Token represents a single lexer token.
// Int is only meaningful for TokInt.
type Token struct {
	Type  TokenType
	Value string
	Int   int64
}

func (t Token) String() string {
	switch t.Type {
	case TokInt:
		return "Integer(" + t.Value + ")"
	case TokSymbol:
		return "Symbol(" + strconv.Quote(t.Value) + ")"
	default:
		return t.Type.String()
	}
}

var parenPadder = strings.NewReplacer("(", " ( ", ")", " ) ")

// Tokenize breaks a line of source into tokens. It never fails: any word that
// is not a paren and does not parse as a base-10 int64 is a symbol.
func Tokenize(source string) []Token {
	words := strings.Fields(parenPadder.Replace(source))
	tokens := make([]Token, 0, len(words))

	for _, word := range words {
		switch word {
		case "(":
			tokens = append(tokens, Token{Type: TokLParen, Value: word})
		case ")":
			tokens = append(tokens, Token{Type: TokRParen, Value: word})
		default:
			if n, err := strconv.ParseInt(word, 10, 64); err == nil {
				tokens = append(tokens, Token{Type: TokInt, Value: word, Int: n})
			} else {
				tokens = append(tokens, Token{Type: TokSymbol, Value: word})
			}
		}
	}

	return tokens
}
