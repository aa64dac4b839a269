// internal/verification/normalize/normalize.go
package normalize

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumLower = regexp.MustCompile(`[^a-z0-9\s]`)
	nonAlnumUpper = regexp.MustCompile(`[^A-Z0-9 ]`)
	nonAlphaUpper = regexp.MustCompile(`[^A-Z ]`)
	whitespace    = regexp.MustCompile(`\s+`)
	nonDigit      = regexp.MustCompile(`\D`)
)

// fold maps full-width and accented OCR output onto plain ASCII.
func fold(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	return unidecode.Unidecode(s)
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// Text lower-cases s, keeps only ASCII letters, digits and spaces, and
// collapses runs of whitespace.
func Text(s string) string {
	t := strings.ToLower(fold(s))
	t = nonAlnumLower.ReplaceAllString(t, " ")
	return collapse(t)
}

// TextStrict is the upper-case variant used for plates and registry fields.
func TextStrict(s string) string {
	t := strings.ToUpper(fold(s))
	t = nonAlnumUpper.ReplaceAllString(t, " ")
	return collapse(t)
}

// Tokens splits Text(s) on spaces.
func Tokens(s string) []string {
	t := Text(s)
	if t == "" {
		return nil
	}
	return strings.Split(t, " ")
}

// Phone returns the last ten digits of s, or "" when fewer than ten are present.
func Phone(s string) string {
	d := nonDigit.ReplaceAllString(s, "")
	if len(d) < 10 {
		return ""
	}
	return d[len(d)-10:]
}

// PhoneDigits is like Phone but keeps short numbers instead of dropping them.
func PhoneDigits(s string) string {
	d := nonDigit.ReplaceAllString(s, "")
	if len(d) >= 10 {
		return d[len(d)-10:]
	}
	return d
}

// Alnum upper-cases s and drops everything that is not A-Z or 0-9.
func Alnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
