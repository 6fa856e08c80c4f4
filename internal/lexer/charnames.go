package lexer

import "strings"

// namedChars is the named-character table carried forward from
// original_source/src/chars.c (spec.md's SUPPLEMENTED FEATURES): names the
// reader recognizes after #\ besides a single literal character.
var namedChars = map[string]rune{
	"space":     ' ',
	"newline":   '\n',
	"tab":       '\t',
	"nul":       0,
	"null":      0,
	"altmode":   0x1B,
	"escape":    0x1B,
	"backspace": 0x08,
	"delete":    0x7F,
	"rubout":    0x7F,
	"linefeed":  '\n',
	"page":      0x0C,
	"return":    '\r',
	"alarm":     0x07,
	"lambda":    0x03BB,
	"euro":      0x20AC,
}

// NamedChar resolves a #\-literal's text (without the leading #\) to its
// rune, trying the named-character table (case-insensitively, as R7RS
// implementations conventionally do) before falling back to a single
// literal rune.
func NamedChar(text string) (rune, bool) {
	if text == "" {
		return 0, false
	}
	runes := []rune(text)
	if len(runes) == 1 {
		return runes[0], true
	}
	if r, ok := namedChars[strings.ToLower(text)]; ok {
		return r, true
	}
	if strings.HasPrefix(text, "x") || strings.HasPrefix(text, "X") {
		// #\xHH hex scalar-value literal
		if v, ok := parseHexRune(text[1:]); ok {
			return v, true
		}
	}
	return 0, false
}

func parseHexRune(hex string) (rune, bool) {
	if hex == "" {
		return 0, false
	}
	var v int64
	for _, c := range hex {
		v *= 16
		switch {
		case c >= '0' && c <= '9':
			v += int64(c - '0')
		case c >= 'a' && c <= 'f':
			v += int64(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v += int64(c-'A') + 10
		default:
			return 0, false
		}
	}
	return rune(v), true
}
