package analyzer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlMarker recognizes content that needs HTML extraction; markdown and
// plain text pass through untouched.
var htmlMarker = regexp.MustCompile(`(?i)<\s*(!doctype|html|head|body|div|p|a|span|article|section|main|meta|title|h[1-6])[\s>]`)

// ExtractText reduces crawled page content to plain text. HTML is parsed
// and stripped of script, style and noscript elements; anything that
// does not look like HTML is returned as-is.
func ExtractText(content string) string {
	if !htmlMarker.MatchString(content) {
		return content
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	doc.Find("script, style, noscript").Remove()

	body := doc.Find("body")
	if body.Length() > 0 {
		return strings.TrimSpace(body.Text())
	}
	return strings.TrimSpace(doc.Text())
}
