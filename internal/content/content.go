// ABOUTME: Text processing for podcast and episode descriptions
// ABOUTME: Strips markup to plain text and converts show notes to Markdown for display

package content

import (
	"html"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
)

// htmlTagPattern matches common HTML tags
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote)[^>]*>`)

// IsHTML checks if content appears to be HTML
func IsHTML(content string) bool {
	// Quick checks for obvious HTML markers
	if strings.Contains(content, "<!DOCTYPE") || strings.Contains(content, "<html") {
		return true
	}

	// Check for common HTML tags
	return htmlTagPattern.MatchString(content)
}

// ToMarkdown converts HTML content to Markdown
// If the content doesn't appear to be HTML, returns it unchanged
func ToMarkdown(content string) string {
	if content == "" {
		return content
	}

	if !IsHTML(content) {
		return content
	}

	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		// If conversion fails, return original content
		return content
	}

	// Clean up excessive whitespace
	markdown = strings.TrimSpace(markdown)

	return markdown
}

// blockTagPattern matches tags that separate words when rendered
var blockTagPattern = regexp.MustCompile(`(?i)<\s*/?\s*(p|div|br|li|ul|ol|h[1-6]|tr|td|th|table|blockquote|pre|hr|section|article|header|footer)\b[^>]*>`)

var stripPolicy = bluemonday.StrictPolicy()

// Sanitize removes all markup from s, keeping the text content.
// Inline tags vanish in place ("Intro <b>bold</b> end" -> "Intro bold end");
// block tags become word breaks. Entities are decoded and runs of
// whitespace collapse to a single space.
func Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	s = blockTagPattern.ReplaceAllString(s, " $0 ")
	s = stripPolicy.Sanitize(s)
	s = html.UnescapeString(s)

	return strings.Join(strings.Fields(s), " ")
}
