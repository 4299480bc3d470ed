package export

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textSanitizer cleans widget text before it is written into markup.
// Inline formatting survives; scripts, event handlers and javascript: URLs do not.
//
// Thread-safe for concurrent use.
type textSanitizer struct {
	policy *bluemonday.Policy
}

func newTextSanitizer() *textSanitizer {
	return &textSanitizer{policy: bluemonday.UGCPolicy()}
}

// Sanitize returns HTML-safe text
func (s *textSanitizer) Sanitize(text string) string {
	return s.policy.Sanitize(text)
}

// safeURL returns raw when it is relative or uses an allowed scheme, "" otherwise
func safeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return raw
	default:
		return ""
	}
}
