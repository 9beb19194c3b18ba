package core

import (
	"regexp"
	"strings"
)

var (
	addressPattern   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	signaturePattern = regexp.MustCompile(`^0x[0-9a-fA-F]{130}$`)
)

// ValidAddress reports whether s is a 0x-prefixed 20-byte hex address.
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// ValidSignatureHex reports whether s is a 0x-prefixed 65-byte hex signature.
func ValidSignatureHex(s string) bool {
	return signaturePattern.MatchString(s)
}

// NormalizeAddress lower-cases an address; addresses are case-insensitive and
// stored lower-cased.
func NormalizeAddress(s string) string {
	return strings.ToLower(s)
}
