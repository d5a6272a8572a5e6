// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	// blockClosePattern and blockOpenPattern match the tags that end up as
	// paragraph or line breaks in plain text.
	blockClosePattern = regexp.MustCompile(`(?i)</(div|p|br|h[1-6]|li)\s*>`)
	blockOpenPattern  = regexp.MustCompile(`(?i)<(div|p|br|h[1-6]|li)\b[^>]*>`)

	anyTagPattern = regexp.MustCompile(`<[^>]+>`)

	// Go's \s is ASCII only; \p{Zs} adds the non-breaking space that
	// &nbsp; decodes to.
	blankLinesPattern = regexp.MustCompile(`\n[\s\p{Zs}]*\n`)
	hspacePattern     = regexp.MustCompile(`[ \t]+`)
)

// CleanMarkup projects lightly structured HTML onto plain text. Block
// elements become line breaks, every other tag is dropped, runs of blank
// lines collapse to one and runs of spaces or tabs collapse to a single
// space.
func CleanMarkup(s string) string {
	if s == "" {
		return ""
	}

	text := html.UnescapeString(s)
	text = blockClosePattern.ReplaceAllString(text, "\n")
	text = blockOpenPattern.ReplaceAllString(text, "\n")
	text = anyTagPattern.ReplaceAllString(text, "")

	return normalizeWhitespace(text)
}

func normalizeWhitespace(text string) string {
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	text = hspacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
