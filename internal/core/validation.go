// internal/core/validation.go
package core

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// A single ASCII label after IDNA conversion: alphanumerics, underscores and inner
// hyphens, at most 63 characters. Punycode labels (xn--) match as well.
var labelValidationRegex = regexp.MustCompile(`^[a-z0-9_]([a-z0-9_-]{0,61}[a-z0-9_])?$`)

const maxDomainNameLength = 253

// UTS #46 lookup mapping without the STD3 restriction, so underscore labels
// (_dmarc.example.com, under_score.example.com) survive conversion.
var domainProfile = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.StrictDomainName(false),
)

// NormalizeDomainName trims whitespace, lowercases, and drops a trailing root dot.
// Internationalized names are stored in their Unicode form, so "xn--fiqs8s.cn",
// "中国.cn" and "中国。cn" all normalize to "中国.cn". Names IDNA cannot map are
// returned trimmed and lowercased for IsValidDomainName to reject.
func NormalizeDomainName(name string) string {
	name = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
	if name == "" {
		return ""
	}

	ascii, err := domainProfile.ToASCII(name)
	if err != nil {
		return name
	}
	unicode, err := domainProfile.ToUnicode(ascii)
	if err != nil {
		return name
	}
	return strings.TrimSuffix(unicode, ".")
}

// IsValidDomainName checks that a normalized name has at least two labels and that
// every label, once converted to its ASCII form, is a valid hostname label.
func IsValidDomainName(name string) bool {
	if name == "" || name != strings.ToLower(name) {
		return false
	}

	ascii, err := domainProfile.ToASCII(name)
	if err != nil || len(ascii) > maxDomainNameLength {
		return false
	}
	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !labelValidationRegex.MatchString(label) {
			return false
		}
	}
	return true
}
