package synth

// EncodeCodeUnit renders a single UTF-16 code unit (a Java char) as
// Modified UTF-8 (spec §4.E's char_A_to_string directive, GLOSSARY
// "Modified UTF-8"). Unlike standard UTF-8, the null code point is
// encoded as the two-byte overlong sequence 0xC0 0x80 instead of a
// single zero byte; every other code unit in the Basic Multilingual
// Plane (0x0000-0xFFFF, which is all a single UTF-16 code unit can
// represent) follows ordinary UTF-8 byte-length rules.
func EncodeCodeUnit(unit uint16) string {
	cp := uint32(unit)
	switch {
	case cp == 0:
		return string([]byte{0xC0, 0x80})
	case cp <= 0x7F:
		return string([]byte{byte(cp)})
	case cp <= 0x7FF:
		return string([]byte{
			0xC0 | byte(cp>>6),
			0x80 | byte(cp&0x3F),
		})
	default:
		return string([]byte{
			0xE0 | byte(cp>>12),
			0x80 | byte((cp>>6)&0x3F),
			0x80 | byte(cp&0x3F),
		})
	}
}
