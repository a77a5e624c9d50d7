// Package plaintext reduces short marked-up strings to the plain text that
// belongs in HTML <title> and <meta> tags.
package plaintext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FromMarkup returns the visible text of s with whitespace collapsed, and whether
// it differs from s. Strings without tags or entities are returned unchanged.
func FromMarkup(s string) (string, bool) {
	if !strings.ContainsAny(s, "<&") {
		return s, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s, false
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	return text, text != s
}
