package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all markup from user or model supplied text.
// LinkedIn posts are plain text, so entities are decoded back afterwards.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(input)))
}

// SanitizePtr applies SanitizeText to an optional field.
func SanitizePtr(input *string) *string {
	if input == nil {
		return nil
	}
	s := SanitizeText(*input)
	return &s
}
