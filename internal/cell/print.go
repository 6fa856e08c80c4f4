package cell

import (
	"fmt"
	"strconv"
	"strings"
)

// Display renders c the way `display` does: strings and characters print
// their raw content, with no quoting or escaping.
func Display(c *Cell) string {
	var sb strings.Builder
	writeCell(&sb, c, false)
	return sb.String()
}

// Write renders c the way `write` does: strings are quoted and escaped,
// characters use their `#\name` form — output that read back reproduces
// the same value wherever that's possible.
func Write(c *Cell) string {
	var sb strings.Builder
	writeCell(&sb, c, true)
	return sb.String()
}

func writeCell(sb *strings.Builder, c *Cell, quoted bool) {
	switch c.Kind {
	case Integer:
		sb.WriteString(strconv.FormatInt(c.I64, 10))
	case Rational:
		fmt.Fprintf(sb, "%d/%d", c.Num, c.Den)
	case Real:
		sb.WriteString(formatReal(c.F64))
	case BigInt:
		sb.WriteString(c.Big.String())
	case BigRat:
		sb.WriteString(c.BigRat.RatString())
	case BigFloat:
		sb.WriteString(c.BigFloat.Text('g', -1))
	case Complex:
		writeCell(sb, c.Re, quoted)
		if !strings.HasPrefix(Display(c.Im), "-") {
			sb.WriteByte('+')
		}
		writeCell(sb, c.Im, quoted)
		sb.WriteByte('i')
	case Boolean:
		if c.Bool {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case Char:
		if quoted {
			sb.WriteString("#\\")
			sb.WriteString(charName(c.Rune))
		} else {
			sb.WriteRune(c.Rune)
		}
	case String:
		if quoted {
			sb.WriteByte('"')
			sb.WriteString(escapeString(string(c.Str.Bytes)))
			sb.WriteByte('"')
		} else {
			sb.Write(c.Str.Bytes)
		}
	case Symbol:
		sb.WriteString(c.Sym.Name)
	case Nil:
		sb.WriteString("()")
	case Pair:
		writePair(sb, c, quoted)
	case Vector:
		sb.WriteString("#(")
		for i, e := range c.Vec {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeCell(sb, e, quoted)
		}
		sb.WriteByte(')')
	case Bytevector:
		sb.WriteString("#u8(")
		for i, b := range c.BV {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "%d", b)
		}
		sb.WriteByte(')')
	case Procedure:
		if c.Proc.IsBuiltin {
			fmt.Fprintf(sb, "#<procedure:%s>", c.Proc.Native.Name)
		} else {
			name := c.Proc.Closure.Name
			if name == "" {
				name = "lambda"
			}
			fmt.Fprintf(sb, "#<procedure:%s>", name)
		}
	case Promise:
		sb.WriteString("#<promise>")
	case Stream:
		sb.WriteString("#<stream>")
	case Port:
		fmt.Fprintf(sb, "#<port:%s>", c.Prt.ID)
	case Error:
		fmt.Fprintf(sb, "#<error:%s %s>", c.Err.Kind, c.Err.Message)
	case EOF:
		sb.WriteString("#<eof>")
	case Unspecified:
		// nothing: unspecified values print as empty at top level, the
		// same way the REPL suppresses printing them (spec.md §4.2)
	case Environment:
		sb.WriteString("#<environment>")
	default:
		fmt.Fprintf(sb, "#<%s>", c.Kind.String())
	}
}

func writePair(sb *strings.Builder, c *Cell, quoted bool) {
	sb.WriteByte('(')
	writeCell(sb, c.CarCell, quoted)
	rest := c.CdrCell
	for rest.Kind == Pair {
		sb.WriteByte(' ')
		writeCell(sb, rest.CarCell, quoted)
		rest = rest.CdrCell
	}
	if rest.Kind != Nil {
		sb.WriteString(" . ")
		writeCell(sb, rest, quoted)
	}
	sb.WriteByte(')')
}

func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += "."
	}
	return s
}

func escapeString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

var writeCharNames = map[rune]string{
	' ':    "space",
	'\n':   "newline",
	'\t':   "tab",
	0:      "nul",
	0x1b:   "escape",
	'\b':   "backspace",
	0x7f:   "delete",
	'\f':   "page",
	'\r':   "return",
	0x07:   "alarm",
	0x03bb: "lambda",
	0x20ac: "euro",
}

func charName(r rune) string {
	if name, ok := writeCharNames[r]; ok {
		return name
	}
	return string(r)
}
