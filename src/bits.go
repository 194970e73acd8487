package gibberlink

/*------------------------------------------------------------------
 *
 * Purpose:	Text to bit-string codec.
 *
 * Description:	Bit sequences are strings of '0' and '1' runes, one
 *		8-bit group per character.  Only code points 0..255 are
 *		representable; anything wider is rejected rather than
 *		mangled.
 *
 *		Decoding consumes 8-bit groups and DISCARDS a trailing
 *		group shorter than 8 bits.  Frame padding is always under
 *		8 bits, so the discard rule is what makes padding vanish
 *		on decode instead of turning into a spurious character.
 *		Do not "fix" this without adding an explicit length field
 *		to the raw-text frame format.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"strconv"
	"strings"
)

func TextToBits(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text) * 8)

	for i, r := range text {
		if r > 0xFF {
			return "", fmt.Errorf("rune %q at %d: %w", r, i, ErrUnsupportedCharacter)
		}
		fmt.Fprintf(&b, "%08b", r)
	}

	return b.String(), nil
}

func BitsToText(bits string) (string, error) {
	var b strings.Builder

	for i := 0; i+8 <= len(bits); i += 8 {
		var value, err = strconv.ParseUint(bits[i:i+8], 2, 16)
		if err != nil {
			return "", fmt.Errorf("bit group at %d: %w", i, err)
		}
		b.WriteRune(rune(value))
	}

	return b.String(), nil
}
