package config

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IDPolicy synthesises element ids from label text.
type IDPolicy struct {
	Prefix    string
	MaxLength int
}

// Generate strips characters that are neither word characters nor spaces,
// removes spaces, lowercases the first character, truncates the body to
// MaxLength runes and prepends Prefix. A non-positive MaxLength disables
// truncation.
func (p IDPolicy) Generate(text string) string {
	var b strings.Builder
	for _, r := range text {
		if isWordRune(r) {
			b.WriteRune(r)
		}
	}
	body := b.String()

	if first, size := utf8.DecodeRuneInString(body); size > 0 {
		body = string(unicode.ToLower(first)) + body[size:]
	}
	if p.MaxLength > 0 {
		if runes := []rune(body); len(runes) > p.MaxLength {
			body = string(runes[:p.MaxLength])
		}
	}
	return p.Prefix + body
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
