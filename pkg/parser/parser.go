// Package parser builds lispir syntax objects from tokens.
package parser

import (
	"errors"
	"fmt"

	"github.com/thomasrohde/lispir/pkg/diagnostics"
	"github.com/thomasrohde/lispir/pkg/lexer"
	"github.com/thomasrohde/lispir/pkg/object"
)

// ParseError reports malformed parenthesization.
type ParseError struct {
	Code    string
	Message string
	// Open is the number of lists still unclosed when input ran out.
	Open int
}

func (e *ParseError) Error() string {
	return e.Message
}

// Diagnostic converts the error into a diagnostic record.
func (e *ParseError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(e.Code, e.Message, "")
}

type parser struct {
	tokens []lexer.Token
	pos    int
	depth  int
}

// Parse consumes tokens from the front and returns exactly one List.
// Tokens after the first complete list are ignored.
func Parse(tokens []lexer.Token) (object.Object, error) {
	p := &parser{tokens: tokens}
	return p.parseList()
}

// ParseSource tokenizes and parses a line of source.
func ParseSource(source string) (object.Object, error) {
	return Parse(lexer.Tokenize(source))
}

// ParseComplete is ParseSource for callers that must not drop input: tokens
// left after the first complete list are an error.
func ParseComplete(source string) (object.Object, error) {
	p := &parser{tokens: lexer.Tokenize(source)}
	obj, err := p.parseList()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, &ParseError{
			Code:    diagnostics.EParse,
			Message: fmt.Sprintf("unexpected %s after the first list", p.tokens[p.pos]),
		}
	}
	return obj, nil
}

// IsIncomplete reports whether err means the input ended inside an open
// list, i.e. more lines could complete it.
func IsIncomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Code == diagnostics.EUnexpectedEOF && pe.Open > 0
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *parser) parseList() (object.Object, error) {
	if p.atEnd() {
		return nil, &ParseError{Code: diagnostics.EUnexpectedEOF, Message: "expected (, found end of input", Open: p.depth}
	}
	if tok := p.advance(); tok.Type != lexer.TokLParen {
		return nil, &ParseError{Code: diagnostics.EExpectedOpenParen, Message: fmt.Sprintf("expected (, found %s", tok)}
	}

	p.depth++
	items := []object.Object{}

	for !p.atEnd() {
		tok := p.tokens[p.pos]
		switch tok.Type {
		case lexer.TokInt:
			p.advance()
			items = append(items, object.NewInteger(tok.Int))
		case lexer.TokSymbol:
			p.advance()
			items = append(items, object.NewSymbol(tok.Value))
		case lexer.TokLParen:
			sub, err := p.parseList()
			if err != nil {
				return nil, err
			}
			items = append(items, sub)
		case lexer.TokRParen:
			p.advance()
			p.depth--
			return object.NewList(items), nil
		}
	}

	return nil, &ParseError{Code: diagnostics.EUnexpectedEOF, Message: "insufficient tokens", Open: p.depth}
}
