package utils

import (
	"regexp"
)

var (
	mdLinkRegex    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	mdHeadingRegex = regexp.MustCompile(`(?m)^#+\s*(.+)$`)
	mdBoldRegex    = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// ConvertMarkdownToSlack rewrites common markdown into Slack mrkdwn:
// [text](url) links, headings, and **bold**.
func ConvertMarkdownToSlack(message string) string {
	result := mdLinkRegex.ReplaceAllString(message, "<$2|$1>")

	// Headings become bold lines; strip any embedded bold markers first
	result = mdHeadingRegex.ReplaceAllStringFunc(result, func(match string) string {
		content := mdHeadingRegex.ReplaceAllString(match, "$1")
		content = mdBoldRegex.ReplaceAllString(content, "$1")
		return "*" + content + "*"
	})

	return mdBoldRegex.ReplaceAllString(result, "*$1*")
}
