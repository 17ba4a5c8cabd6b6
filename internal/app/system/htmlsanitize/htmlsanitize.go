// Package htmlsanitize cleans user-supplied text before it is stored.
//
// Long-form fields (meeting summaries, action and pain point descriptions)
// may carry basic formatting and go through Sanitize. Short labels (titles,
// venues, names) go through PlainText, which removes all markup.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps safe formatting markup and drops scripts, event handlers
// and javascript: URLs. Text outside the markup comes back unescaped, so
// "R&D" stays "R&D". When unescaping would itself produce markup the policy
// rejects (input written as "&lt;script&gt;"), the escaped form is kept.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	clean := ugc.Sanitize(s)
	raw := html.UnescapeString(clean)
	if raw != clean && ugc.Sanitize(raw) != clean {
		return strings.TrimSpace(clean)
	}
	return strings.TrimSpace(raw)
}

// PlainText strips every tag and returns the remaining text unescaped, so
// "Q&A" stays "Q&A" rather than "Q&amp;A".
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
