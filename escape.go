package hl7v2

import (
	"strings"
)

// Escape sequence codes per the HL7 v2 encoding rules. A sequence is the
// escape character, a code, and a closing escape character:
//
//	\F\  field separator literal
//	\S\  component separator literal
//	\T\  subcomponent separator literal
//	\R\  repetition separator literal
//	\E\  escape character literal
//	\Xhh..hh\  hexadecimal data (pairs of hex digits)
//	\.br\      line break
//
// An unterminated or unrecognized sequence is a decode error, never silently
// passed through.

// unescape decodes escape sequences in raw using the message's delimiters.
// base is the byte offset of raw within the original input, used for error
// reporting.
func unescape(raw string, d Delimiters, base int) (string, error) {
	esc := d.Escape
	if strings.IndexByte(raw, esc) < 0 {
		return raw, nil
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		c := raw[i]
		if c != esc {
			b.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(raw[i+1:], esc)
		if end < 0 {
			return "", decodeErrorf(ErrUnterminatedEscape, base+i,
				"escape sequence opened at %q has no closing %q", raw[i:], esc)
		}
		code := raw[i+1 : i+1+end]
		decoded, ok := decodeEscapeCode(code, d)
		if !ok {
			return "", decodeErrorf(ErrUnknownEscapeCode, base+i,
				"unrecognized escape code %q", code)
		}
		b.WriteString(decoded)
		i += end + 2
	}
	return b.String(), nil
}

// decodeEscapeCode maps one escape code (the text between the escape
// characters) to its literal value.
func decodeEscapeCode(code string, d Delimiters) (string, bool) {
	switch code {
	case "F":
		return string(d.Field), true
	case "S":
		return string(d.Component), true
	case "T":
		return string(d.Subcomponent), true
	case "R":
		return string(d.Repetition), true
	case "E":
		return string(d.Escape), true
	case ".br":
		return "\n", true
	}
	if len(code) > 1 && code[0] == 'X' {
		return decodeHex(code[1:])
	}
	return "", false
}

// decodeHex decodes an even-length run of hex digit pairs into raw bytes.
func decodeHex(digits string) (string, bool) {
	if len(digits) == 0 || len(digits)%2 != 0 {
		return "", false
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		hi, ok1 := hexDigit(digits[i])
		lo, ok2 := hexDigit(digits[i+1])
		if !ok1 || !ok2 {
			return "", false
		}
		out = append(out, hi<<4|lo)
	}
	return string(out), true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

const hexUpper = "0123456789ABCDEF"
