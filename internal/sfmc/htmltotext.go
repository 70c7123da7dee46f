package sfmc

import (
	"regexp"
	"strings"
)

var (
	brPattern    = regexp.MustCompile(`(?i)<br\s*/?>`)
	pOpenPattern = regexp.MustCompile(`(?i)<p[^>]*>`)
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
)

// HTMLToText produces the plain-text part of an outbound message from its
// HTML body. Block boundaries become newlines, remaining tags are stripped
// and common entities decoded.
func HTMLToText(html string) string {
	if html == "" {
		return ""
	}

	text := brPattern.ReplaceAllString(html, "\n")
	text = pOpenPattern.ReplaceAllString(text, "\n")
	text = strings.ReplaceAll(text, "</p>", "\n")
	text = tagPattern.ReplaceAllString(text, "")

	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
	)
	return strings.TrimSpace(replacer.Replace(text))
}
