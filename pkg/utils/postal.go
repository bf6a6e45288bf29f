package utils

import "strings"

// NormalizePostalCode strips whitespace and a leading country prefix like
// "D-41061" from free-text postal input. Returns "" when nothing usable is left.
func NormalizePostalCode(raw string) string {
	code := strings.TrimSpace(raw)
	code = strings.ReplaceAll(code, " ", "")
	if idx := strings.Index(code, "-"); idx >= 0 && idx <= 2 {
		code = code[idx+1:]
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return code
}

// ZipPrefix returns the leading prefixLength digits of a normalized postal
// code, the coarse coverage key of the routing layer. Returns "" when the
// code is absent or shorter than the prefix.
func ZipPrefix(raw string, prefixLength int) string {
	code := NormalizePostalCode(raw)
	if prefixLength <= 0 || len(code) < prefixLength {
		return ""
	}
	return code[:prefixLength]
}
