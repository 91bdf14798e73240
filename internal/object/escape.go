package object

import "strings"

// Escape restores the escape sequences of a string literal.
func Escape(s string) string {
	var out strings.Builder
	for _, r := range s {
		switch r {
		case '\a':
			out.WriteString(`\a`)
		case '\b':
			out.WriteString(`\b`)
		case '\f':
			out.WriteString(`\f`)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		case '\t':
			out.WriteString(`\t`)
		case '\v':
			out.WriteString(`\v`)
		case '\\':
			out.WriteString(`\\`)
		case '"':
			out.WriteString(`\"`)
		case 0:
			out.WriteString(`\0`)
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

// Unescape interprets the escape sequences of a string literal body. Unknown
// sequences are kept verbatim.
func Unescape(s string) string {
	var out strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i+1 == len(runes) {
			out.WriteRune(r)
			continue
		}
		i++
		switch runes[i] {
		case 'a':
			out.WriteRune('\a')
		case 'b':
			out.WriteRune('\b')
		case 'f':
			out.WriteRune('\f')
		case 'n':
			out.WriteRune('\n')
		case 'r':
			out.WriteRune('\r')
		case 't':
			out.WriteRune('\t')
		case 'v':
			out.WriteRune('\v')
		case '\\':
			out.WriteRune('\\')
		case '\'':
			out.WriteRune('\'')
		case '"':
			out.WriteRune('"')
		case '0':
			out.WriteRune(0)
		default:
			out.WriteRune('\\')
			out.WriteRune(runes[i])
		}
	}
	return out.String()
}
