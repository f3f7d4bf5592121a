package domain

import (
	"regexp"
	"strings"
)

// emailRe accepts the conventional address grammar used by reference
// data: one '@' with a non-empty local part and a dotted domain.
var emailRe = regexp.MustCompile(`^[A-Za-z0-9_.+-]+@(?:[A-Za-z0-9-]+\.)+[A-Za-z0-9-]+$`)

// ValidEmail reports whether the address is syntactically usable for
// identity resolution. Malformed addresses degrade to the anonymous
// path; they are never an error.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// EmailDomain returns the lower-cased domain portion after '@', or ""
// when the address has no usable domain.
func EmailDomain(email string) string {
	_, dom, ok := strings.Cut(email, "@")
	if !ok || dom == "" {
		return ""
	}
	return strings.ToLower(dom)
}
