package review

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SanitizeText strips leftover markup from a review. Review text arrives
// scraped from marketplace pages and regularly carries tags, entities and
// script fragments that would pollute theme extraction.
func SanitizeText(text string) string {
	// The common case is plain prose; skip the parser entirely.
	if !strings.ContainsAny(text, "<&") {
		return collapseWhitespace(text)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return collapseWhitespace(text)
	}
	doc.Find("script, style").Remove()
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
