package ethaddr

import "strings"

// IsValid reports whether s looks like a 20-byte hex address with 0x prefix.
// Checksum casing is not enforced; addresses are normalized to lower case
// before they are stored or compared.
func IsValid(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
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

func Normalize(s string) string {
	return strings.ToLower(s)
}

// Equal compares two addresses ignoring case.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}
