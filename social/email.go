package social

import (
	"regexp"
	"strings"
)

// emailPattern accepts a local part of alphanumerics, underscore, and
// hyphen with optional interior dot-separated segments, followed by
// dot-separated domain labels and a final label of at least two letters.
// Leading or trailing dots on either side are rejected.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*@[^-][A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*(\.[A-Za-z]{2,})$`)

// IsValidEmail reports whether the candidate address passes the fixed
// validation pattern. The local part is limited to 64 characters; the
// check is explicit because RE2 has no lookahead.
func IsValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at < 1 || at > 64 {
		return false
	}
	return emailPattern.MatchString(email)
}
