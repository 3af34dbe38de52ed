// Package radix50 decodes DEC Radix-50, a 40-symbol alphabet packing
// 3 characters into one 16-bit word (spec.md §9). Out of core scope
// beyond what's needed to render RT-11/ODS-1 file names, per spec.md
// §1 — a pure table lookup, not a general text-codec layer.
package radix50

// alphabet is the 40-character Radix-50 symbol table, index == code.
const alphabet = " ABCDEFGHIJKLMNOPQRSTUVWXYZ$.%0123456789"

// Decode unpacks one 16-bit Radix-50 word into its three characters.
func Decode(word uint16) [3]byte {
	var out [3]byte
	v := int(word)
	out[2] = alphabet[v%40]
	v /= 40
	out[1] = alphabet[v%40]
	v /= 40
	out[0] = alphabet[v%40]
	return out
}

// DecodeString unpacks a sequence of Radix-50 words and trims trailing
// spaces, the convention RT-11/ODS-1 names use for short components.
func DecodeString(words ...uint16) string {
	buf := make([]byte, 0, len(words)*3)
	for _, w := range words {
		c := Decode(w)
		buf = append(buf, c[0], c[1], c[2])
	}
	end := len(buf)
	for end > 0 && buf[end-1] == ' ' {
		end--
	}
	return string(buf[:end])
}
