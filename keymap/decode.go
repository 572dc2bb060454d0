package keymap

import (
	"unicode"
	"unicode/utf8"
)

const esc = 0x1b

// Decode splits raw terminal input into key presses. Escape sequences other
// than Delete (ESC [ 3 ~) are dropped; a lone ESC is the Escape key.
func Decode(b []byte) []Key {
	var keys []Key
	for len(b) > 0 {
		c := b[0]
		switch {
		case c == esc:
			n := sequenceLen(b)
			if n == 1 {
				keys = append(keys, Key{Name: "Escape"})
			} else if string(b[:n]) == "\x1b[3~" {
				keys = append(keys, Key{Name: "Delete"})
			}
			b = b[n:]
			continue
		case c == '\r' || c == '\n':
			keys = append(keys, Key{Name: "Enter"})
		case c == 0x7f || c == 0x08:
			keys = append(keys, Key{Name: "Backspace"})
		case c >= 0x01 && c <= 0x1a:
			keys = append(keys, Key{Name: string(rune('a' + c - 1)), Ctrl: true})
		case c < utf8.RuneSelf:
			if unicode.IsPrint(rune(c)) {
				keys = append(keys, Key{Name: string(rune(c))})
			}
		default:
			r, size := utf8.DecodeRune(b)
			if r != utf8.RuneError && unicode.IsPrint(r) {
				keys = append(keys, Key{Name: string(r)})
			}
			b = b[size:]
			continue
		}
		b = b[1:]
	}
	return keys
}

// sequenceLen returns the length of the escape sequence starting at b[0].
func sequenceLen(b []byte) int {
	if len(b) < 2 || (b[1] != '[' && b[1] != 'O') {
		return 1
	}
	for i := 2; i < len(b); i++ {
		// final byte of a CSI sequence
		if b[i] >= 0x40 && b[i] <= 0x7e {
			return i + 1
		}
	}
	return len(b)
}
