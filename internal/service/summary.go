package service

import (
	"regexp"
)

// Applied in order: paragraph open tags, line breaks, then any other tag.
// Attribute contents go with the tag.
var (
	paragraphTagRegex = regexp.MustCompile(`<p .*?>`)
	lineBreakTagRegex = regexp.MustCompile(`<br\s*/?>`)
	anyTagRegex       = regexp.MustCompile(`<.*?>`)
)

// StripHTML removes markup tags from content. Malformed markup is left as
// whatever text survives the patterns.
func StripHTML(content string) string {
	content = paragraphTagRegex.ReplaceAllString(content, "")
	content = lineBreakTagRegex.ReplaceAllString(content, "")
	return anyTagRegex.ReplaceAllString(content, "")
}

// DeriveSummary returns the first length characters of the stripped content
func DeriveSummary(htmlContent string, length int) string {
	runes := []rune(StripHTML(htmlContent))
	if len(runes) > length {
		runes = runes[:length]
	}
	return string(runes)
}
