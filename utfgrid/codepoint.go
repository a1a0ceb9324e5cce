package utfgrid

// Legend indices are written as BMP characters starting at U+0020, skipping
// '"' and '\' so rows can be embedded in JSON strings without escaping.
// Clients decode a character c back to its index as
// c - 32 - (c >= 35) - (c >= 93).
const (
	firstCodepoint = 32
	quote          = 34
	backslash      = 92
	surrogateStart = 0xD800
)

// MaxKeys is the largest legend an encoded grid may carry, including the
// empty key at index 0. The last index maps to U+D7FF, below the UTF-16
// surrogate range.
const MaxKeys = surrogateStart - firstCodepoint - 2

// Codepoint returns the character encoding legend index i.
// It reports false when i is outside [0, MaxKeys).
func Codepoint(i int) (uint16, bool) {
	if i < 0 || i >= MaxKeys {
		return 0, false
	}
	c := firstCodepoint + i
	if c >= quote {
		c++
	}
	if c >= backslash {
		c++
	}
	return uint16(c), true
}

// Index is the inverse of Codepoint.
func Index(c uint16) (int, bool) {
	if c < firstCodepoint || c == quote || c == backslash || c >= surrogateStart {
		return 0, false
	}
	i := int(c) - firstCodepoint
	if c > backslash {
		i--
	}
	if c > quote {
		i--
	}
	return i, true
}
