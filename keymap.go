package main

import (
	"strings"
	"unicode"
)

// Keypad    =>  Keyboard
// |1|2|3|C|     |1|2|3|4|
// |4|5|6|D|     |Q|W|E|R|
// |7|8|9|E|     |A|S|D|F|
// |A|0|B|F|     |Z|X|C|V|
//
// keypadKeys[k] is the keyboard key bound to keypad key k.
const keypadKeys = "x123qweasdzc4rfv"

// keypadIndex returns the keypad key bound to keyboard key r.
func keypadIndex(r rune) (uint8, bool) {
	i := strings.IndexRune(keypadKeys, unicode.ToLower(r))
	if i < 0 {
		return 0, false
	}
	return uint8(i), true
}
