package gochart

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	captionPolicyOnce sync.Once
	captionPolicy     *bluemonday.Policy
)

func captionSanitizer() *bluemonday.Policy {
	captionPolicyOnce.Do(func() {
		captionPolicy = bluemonday.StrictPolicy()
	})
	return captionPolicy
}

// sanitizeCaption strips markup from layout titles. The result is safe to
// embed in HTML as-is.
func sanitizeCaption(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	// Undo entity encoding first so "&lt;b&gt;" cannot survive as markup.
	return strings.TrimSpace(captionSanitizer().Sanitize(html.UnescapeString(trimmed)))
}
