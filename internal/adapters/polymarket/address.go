package polymarket

// ValidAddress reports whether s looks like an EVM address: 0x followed
// by exactly 40 hex characters. The Data API answers garbage queries
// with empty pages, so this is checked before spending requests.
func ValidAddress(s string) bool {
	if len(s) != 42 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
