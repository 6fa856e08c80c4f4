// Package reader turns a lexer.Token stream into Cell trees (spec.md §4.2).
// Every compound form parses to an SExpr container, in textual order; a
// dotted tail (an explicit `.` before the closing delimiter) instead
// produces a genuine Pair chain, since SExpr has no room for an improper
// tail — this covers both quoted dotted data and lambda's dotted formals,
// which the reader can't tell apart from an ordinary list at parse time.
// Reader macros (', `, ,, ,@) expand to canonical head-symbol forms here,
// not downstream, matching the teacher's recursive-descent internal/parser
// shape (one parseX method per grammar production) even though the
// grammar itself is Scheme's rather than Sentra's.
package reader

import (
	"cozenage/internal/cell"
	"cozenage/internal/lexer"
	"cozenage/internal/schemerr"
	"cozenage/internal/symtab"
)

// Parser consumes a fixed token slice produced by lexer.Scanner.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ReadAll parses every top-level datum in the token stream. A structural
// failure yields an Error cell in place of the offending datum, per
// spec.md §4.2's error policy, rather than aborting the whole parse.
func ReadAll(source string) []*cell.Cell {
	tokens := lexer.NewScanner(source).ScanTokens()
	p := NewParser(tokens)
	var forms []*cell.Cell
	for !p.atEnd() {
		forms = append(forms, p.readDatum())
	}
	return forms
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) errorf(line int, format string, args ...interface{}) *cell.Cell {
	return cell.NewError(schemerr.New(schemerr.Read, format, args...).At("", line, 0))
}

// readDatum parses a single datum, dispatching on the next token's type.
func (p *Parser) readDatum() *cell.Cell {
	tok := p.advance()
	switch tok.Type {
	case lexer.EOF:
		return p.errorf(tok.Line, "unexpected end of input")
	case lexer.ERROR:
		return p.errorf(tok.Line, "%s", tok.Message)

	case lexer.LPAREN:
		return p.readList(tok.Line)

	case lexer.HASH:
		if p.peek().Type == lexer.LPAREN {
			p.advance()
			return p.readVector(tok.Line)
		}
		return p.errorf(tok.Line, "unexpected # datum")

	case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
		return p.errorf(tok.Line, "unexpected %s", tok.Lexeme)

	case lexer.QUOTE:
		return p.readQuoteLike(tok.Line, "quote")
	case lexer.QUASIQUOTE:
		return p.readQuoteLike(tok.Line, "quasiquote")
	case lexer.COMMA:
		return p.readQuoteLike(tok.Line, "unquote")
	case lexer.COMMA_AT:
		return p.readQuoteLike(tok.Line, "unquote-splicing")

	case lexer.STRING:
		return cell.NewString(unescapeString(tok.Lexeme))

	case lexer.CHAR:
		r, ok := lexer.NamedChar(tok.Lexeme)
		if !ok {
			return p.errorf(tok.Line, "bad character literal #\\%s", tok.Lexeme)
		}
		return cell.NewChar(r)

	case lexer.BOOLEAN:
		return cell.Bool(tok.Lexeme == "#t" || tok.Lexeme == "#true")

	case lexer.NUMBER:
		n, ok := ParseNumber(tok.Lexeme)
		if !ok {
			return p.errorf(tok.Line, "malformed number %q", tok.Lexeme)
		}
		return n

	case lexer.SYMBOL:
		if tok.Lexeme == "#u8" {
			if p.peek().Type != lexer.LPAREN {
				return p.errorf(tok.Line, "#u8 must be followed by (")
			}
			p.advance()
			return p.readBytevector(tok.Line)
		}
		return symtab.Intern(tok.Lexeme)

	default:
		return p.errorf(tok.Line, "unexpected token %s", tok)
	}
}

// readQuoteLike wraps the next datum in (head datum) as an SExpr.
func (p *Parser) readQuoteLike(line int, head string) *cell.Cell {
	if p.atEnd() {
		return p.errorf(line, "expected a datum after %s", head)
	}
	datum := p.readDatum()
	return cell.NewSExpr(symtab.Intern(head), datum)
}

// readList parses the body of a list already past its opening delimiter,
// up to a matching close (RPAREN/RBRACKET/RBRACE accepted interchangeably).
// A `.` before the close yields a genuine dotted Pair chain instead of an
// SExpr.
func (p *Parser) readList(openLine int) *cell.Cell {
	var elems []*cell.Cell
	var tail *cell.Cell

	for {
		if p.atEnd() {
			return p.errorf(openLine, "unterminated list starting on line %d", openLine)
		}
		switch p.peek().Type {
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			p.advance()
			if tail != nil {
				return buildDotted(elems, tail)
			}
			return cell.NewSExpr(elems...)
		case lexer.SYMBOL:
			if p.peek().Lexeme == "." && tail == nil {
				dotLine := p.peek().Line
				p.advance()
				if p.atEnd() {
					return p.errorf(dotLine, "expected a datum after .")
				}
				tail = p.readDatum()
				continue
			}
		}
		elems = append(elems, p.readDatum())
	}
}

func buildDotted(elems []*cell.Cell, tail *cell.Cell) *cell.Cell {
	result := tail
	for i := len(elems) - 1; i >= 0; i-- {
		result = cell.Cons(elems[i], result)
	}
	return result
}

// readVector parses the body of a #( ... ) literal, already past both the
// HASH and LPAREN tokens, into a literal Vector cell.
func (p *Parser) readVector(openLine int) *cell.Cell {
	var elems []*cell.Cell
	for {
		if p.atEnd() {
			return p.errorf(openLine, "unterminated vector starting on line %d", openLine)
		}
		switch p.peek().Type {
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			p.advance()
			return &cell.Cell{Kind: cell.Vector, Vec: elems}
		}
		elems = append(elems, p.readDatum())
	}
}

// readBytevector parses the body of a #u8( ... ) literal, already past the
// #u8 symbol and LPAREN tokens, into a u8 Bytevector cell.
func (p *Parser) readBytevector(openLine int) *cell.Cell {
	var bytes []byte
	for {
		if p.atEnd() {
			return p.errorf(openLine, "unterminated bytevector starting on line %d", openLine)
		}
		switch p.peek().Type {
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			p.advance()
			return &cell.Cell{Kind: cell.Bytevector, BVType: cell.U8, BV: bytes}
		}
		line := p.peek().Line
		datum := p.readDatum()
		if datum.Kind != cell.Integer || datum.I64 < 0 || datum.I64 > 255 {
			return p.errorf(line, "bytevector element out of range 0..255")
		}
		bytes = append(bytes, byte(datum.I64))
	}
}

// unescapeString resolves the backslash escapes the lexer passed through
// uninterpreted (spec.md §4.1): \n \t \r \\ \" \a, a \<newline> line
// continuation that swallows surrounding intraline whitespace, and \xHH;
// hex scalar escapes.
func unescapeString(s string) string {
	var out []rune
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '\\' || i+1 >= len(runes) {
			out = append(out, c)
			continue
		}
		i++
		switch runes[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case 'a':
			out = append(out, 0x07)
		case 'b':
			out = append(out, 0x08)
		case '\\':
			out = append(out, '\\')
		case '"':
			out = append(out, '"')
		case 'x', 'X':
			j := i + 1
			var v int64
			for j < len(runes) && runes[j] != ';' {
				d, ok := hexDigit(runes[j])
				if !ok {
					break
				}
				v = v*16 + int64(d)
				j++
			}
			out = append(out, rune(v))
			if j < len(runes) && runes[j] == ';' {
				i = j
			} else {
				i = j - 1
			}
		case ' ', '\t', '\n':
			j := i
			for j < len(runes) && (runes[j] == ' ' || runes[j] == '\t') {
				j++
			}
			if j >= len(runes) || runes[j] != '\n' {
				out = append(out, runes[i])
				continue
			}
			i = j + 1
			for i < len(runes) && (runes[i] == ' ' || runes[i] == '\t') {
				i++
			}
			i--
		default:
			out = append(out, runes[i])
		}
	}
	return string(out)
}

func hexDigit(c rune) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}
