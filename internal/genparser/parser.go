// Package genparser is a recursive-descent parser over the GenQuery2 query
// grammar. It shares the error-accumulation-free, single-shot parsing style
// and ParseError shape of the pgtofu DDL parser (internal/parser) but owns
// an entirely different grammar: one SELECT-shaped expression rather than
// a registry of DDL statement kinds.
package genparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/accented-ai/genquery2/internal/ast"
	"github.com/accented-ai/genquery2/internal/lexer"
)

// ParseError reports where in the input string parsing failed. Offset is a
// byte offset, matching the lexer's token Start field. When tokenizing
// itself fails, Offset is the length of the input rather than the position
// of the offending character; that position appears only in Message.
type ParseError struct {
	Offset  int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// CompileErrorKind identifies this error to callers switching on
// genquery2.CompileError.CompileErrorKind().
func (ParseError) CompileErrorKind() string { return "ParseError" }

var aggregateFunctions = map[string]struct{}{ //nolint:gochecknoglobals
	"COUNT": {},
	"SUM":   {},
	"AVG":   {},
	"MIN":   {},
	"MAX":   {},
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

// Parse tokenizes and parses query, returning the root Select node.
func Parse(query string) (*ast.Select, error) {
	tokens, err := lexer.Tokenize(query)
	if err != nil {
		return nil, ParseError{Offset: len(query), Message: err.Error()}
	}

	p := &parser{tokens: tokens}

	sel, err := p.parseSelect()
	if err != nil {
		return nil, err
	}

	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input %q", p.current().Literal)
	}

	return sel, nil
}

func (p *parser) parseSelect() (*ast.Select, error) {
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	sel := &ast.Select{}

	if p.isKeyword("DISTINCT") {
		p.advance()

		sel.Distinct = true
	}

	proj, err := p.parseProjection()
	if err != nil {
		return nil, err
	}

	sel.Selections = append(sel.Selections, proj)

	for p.isComma() {
		p.advance()

		proj, err := p.parseProjection()
		if err != nil {
			return nil, err
		}

		sel.Selections = append(sel.Selections, proj)
	}

	if p.isKeyword("WHERE") {
		p.advance()

		terms, err := p.parseConditions()
		if err != nil {
			return nil, err
		}

		sel.Conditions = terms
	}

	if p.isKeyword("GROUP") {
		p.advance()

		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}

		cols, err := p.parseColumnList()
		if err != nil {
			return nil, err
		}

		sel.GroupBy = cols
	}

	if p.isKeyword("ORDER") {
		p.advance()

		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}

		sorts, err := p.parseSortList()
		if err != nil {
			return nil, err
		}

		sel.OrderBy = sorts
	}

	if p.isKeyword("FETCH") || p.isKeyword("LIMIT") {
		n, err := p.parseLimit()
		if err != nil {
			return nil, err
		}

		sel.Range.Limit = &n
	}

	if p.isKeyword("OFFSET") {
		p.advance()

		n, err := p.parseInt()
		if err != nil {
			return nil, err
		}

		sel.Range.Offset = &n
	}

	if len(sel.Selections) == 0 {
		return nil, p.errorf("empty select list")
	}

	return sel, nil
}

func (p *parser) parseProjection() (ast.Projection, error) {
	if p.current().Type == lexer.TokenKeyword {
		upper := strings.ToUpper(p.current().Literal)
		if _, ok := aggregateFunctions[upper]; ok {
			p.advance()

			if err := p.expect(lexer.TokenLParen); err != nil {
				return nil, err
			}

			col, err := p.parseColumn()
			if err != nil {
				return nil, err
			}

			if err := p.expect(lexer.TokenRParen); err != nil {
				return nil, err
			}

			return ast.AggregateCall{Function: upper, Column: col}, nil
		}
	}

	return p.parseColumn()
}

func (p *parser) parseColumn() (ast.Column, error) {
	if p.isKeyword("CAST") {
		p.advance()

		if err := p.expect(lexer.TokenLParen); err != nil {
			return ast.Column{}, err
		}

		name, err := p.parseIdentifier()
		if err != nil {
			return ast.Column{}, err
		}

		if err := p.expectKeyword("AS"); err != nil {
			return ast.Column{}, err
		}

		typeName, err := p.parseIdentifier()
		if err != nil {
			return ast.Column{}, err
		}

		if err := p.expect(lexer.TokenRParen); err != nil {
			return ast.Column{}, err
		}

		return ast.Column{Name: name, CastType: typeName}, nil
	}

	name, err := p.parseIdentifier()
	if err != nil {
		return ast.Column{}, err
	}

	return ast.Column{Name: name}, nil
}

func (p *parser) parseColumnList() ([]ast.Column, error) {
	var cols []ast.Column

	col, err := p.parseColumn()
	if err != nil {
		return nil, err
	}

	cols = append(cols, col)

	for p.isComma() {
		p.advance()

		col, err := p.parseColumn()
		if err != nil {
			return nil, err
		}

		cols = append(cols, col)
	}

	return cols, nil
}

func (p *parser) parseSortList() ([]ast.Sort, error) {
	var sorts []ast.Sort

	for {
		col, err := p.parseColumn()
		if err != nil {
			return nil, err
		}

		s := ast.Sort{Column: col}

		switch {
		case p.isKeyword("ASC"):
			p.advance()
		case p.isKeyword("DESC"):
			p.advance()

			s.Descending = true
		}

		sorts = append(sorts, s)

		if !p.isComma() {
			break
		}

		p.advance()
	}

	return sorts, nil
}

func (p *parser) parseLimit() (int, error) {
	if p.isKeyword("LIMIT") {
		p.advance()

		return p.parseInt()
	}

	if err := p.expectKeyword("FETCH"); err != nil {
		return 0, err
	}

	if err := p.expectKeyword("FIRST"); err != nil {
		return 0, err
	}

	n, err := p.parseInt()
	if err != nil {
		return 0, err
	}

	if err := p.expectKeyword("ROWS"); err != nil {
		return 0, err
	}

	if err := p.expectKeyword("ONLY"); err != nil {
		return 0, err
	}

	return n, nil
}

// parseConditions parses a WHERE clause body: a sequence of terms joined by
// AND/OR, the first carrying no combinator.
func (p *parser) parseConditions() ([]ast.LogicalTerm, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	terms := []ast.LogicalTerm{first}

	for p.isKeyword("AND") || p.isKeyword("OR") {
		isAnd := p.isKeyword("AND")

		p.advance()

		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		if isAnd {
			terms = append(terms, ast.And{Term: term})
		} else {
			terms = append(terms, ast.Or{Term: term})
		}
	}

	return terms, nil
}

func (p *parser) parseTerm() (ast.LogicalTerm, error) {
	if p.isKeyword("NOT") {
		p.advance()

		inner, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		return ast.Not{Term: inner}, nil
	}

	if p.current().Type == lexer.TokenLParen {
		p.advance()

		terms, err := p.parseConditions()
		if err != nil {
			return nil, err
		}

		if err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}

		return ast.Group{Terms: terms}, nil
	}

	col, err := p.parseColumn()
	if err != nil {
		return nil, err
	}

	pred, err := p.parsePredicate()
	if err != nil {
		return nil, err
	}

	return ast.Condition{Column: col, Predicate: pred}, nil
}

func (p *parser) parsePredicate() (ast.Predicate, error) { //nolint:cyclop
	if p.isKeyword("IS") {
		p.advance()

		if p.isKeyword("NOT") {
			p.advance()

			if err := p.expectKeyword("NULL"); err != nil {
				return nil, err
			}

			return ast.IsNotNull{}, nil
		}

		if err := p.expectKeyword("NULL"); err != nil {
			return nil, err
		}

		return ast.IsNull{}, nil
	}

	if p.isKeyword("BETWEEN") {
		p.advance()

		lo, err := p.parseString()
		if err != nil {
			return nil, err
		}

		if err := p.expectKeyword("AND"); err != nil {
			return nil, err
		}

		hi, err := p.parseString()
		if err != nil {
			return nil, err
		}

		return ast.Between{Low: lo, High: hi}, nil
	}

	if p.isKeyword("IN") {
		p.advance()

		if err := p.expect(lexer.TokenLParen); err != nil {
			return nil, err
		}

		var values []string

		v, err := p.parseString()
		if err != nil {
			return nil, err
		}

		values = append(values, v)

		for p.isComma() {
			p.advance()

			v, err := p.parseString()
			if err != nil {
				return nil, err
			}

			values = append(values, v)
		}

		if err := p.expect(lexer.TokenRParen); err != nil {
			return nil, err
		}

		return ast.In{Values: values}, nil
	}

	if p.isKeyword("LIKE") {
		p.advance()

		v, err := p.parseString()
		if err != nil {
			return nil, err
		}

		return ast.Like{Pattern: v}, nil
	}

	if p.current().Type != lexer.TokenOperator {
		return nil, p.errorf("expected comparison operator, got %q", p.current().Literal)
	}

	op := p.current().Literal
	p.advance()

	v, err := p.parseString()
	if err != nil {
		return nil, err
	}

	switch op {
	case "=":
		return ast.Eq{Value: v}, nil
	case "!=":
		return ast.NotEq{Value: v}, nil
	case "<":
		return ast.Lt{Value: v}, nil
	case "<=":
		return ast.Le{Value: v}, nil
	case ">":
		return ast.Gt{Value: v}, nil
	case ">=":
		return ast.Ge{Value: v}, nil
	default:
		return nil, p.errorf("unknown operator %q", op)
	}
}

func (p *parser) parseIdentifier() (string, error) {
	tok := p.current()
	if tok.Type != lexer.TokenIdentifier && tok.Type != lexer.TokenKeyword {
		return "", p.errorf("expected identifier, got %q", tok.Literal)
	}

	p.advance()

	return tok.Literal, nil
}

// parseString parses a single-quoted string literal token and unescapes
// doubled embedded quotes, returning the bare value (no surrounding quotes).
func (p *parser) parseString() (string, error) {
	tok := p.current()
	if tok.Type != lexer.TokenString {
		return "", p.errorf("expected string literal, got %q", tok.Literal)
	}

	p.advance()

	inner := tok.Literal[1 : len(tok.Literal)-1]

	return strings.ReplaceAll(inner, "''", "'"), nil
}

func (p *parser) parseInt() (int, error) {
	tok := p.current()
	if tok.Type != lexer.TokenNumber {
		return 0, p.errorf("expected integer, got %q", tok.Literal)
	}

	p.advance()

	n, err := strconv.Atoi(tok.Literal)
	if err != nil {
		return 0, ParseError{Offset: tok.Start, Message: fmt.Sprintf("invalid integer %q", tok.Literal)}
	}

	return n, nil
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}
	}

	return p.tokens[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *parser) atEOF() bool {
	return p.current().Type == lexer.TokenEOF
}

func (p *parser) isKeyword(kw string) bool {
	tok := p.current()

	return tok.Type == lexer.TokenKeyword && strings.EqualFold(tok.Literal, kw)
}

func (p *parser) isComma() bool {
	return p.current().Type == lexer.TokenComma
}

func (p *parser) expect(tt lexer.TokenType) error {
	if p.current().Type != tt {
		return p.errorf("expected %s, got %q", tt, p.current().Literal)
	}

	p.advance()

	return nil
}

func (p *parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.errorf("expected %q, got %q", kw, p.current().Literal)
	}

	p.advance()

	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return ParseError{Offset: p.current().Start, Message: fmt.Sprintf(format, args...)}
}
