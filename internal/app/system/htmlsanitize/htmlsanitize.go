// Package htmlsanitize strips unsafe markup from user-supplied rich text
// before it is stored or rendered.
//
// Project tier content, deal descriptions, and CRM notes accept limited
// HTML from admin forms; everything else is plain text and should use
// SanitizeStrict.
package htmlsanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once      sync.Once
	ugcPolicy *bluemonday.Policy
	strict    *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	once.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
		strict = bluemonday.StrictPolicy()
	})
	return ugcPolicy, strict
}

// Sanitize removes unsafe HTML (scripts, event handlers, javascript: URLs)
// while keeping common formatting tags and safe links.
func Sanitize(s string) string {
	ugc, _ := policies()
	return ugc.Sanitize(s)
}

// SanitizeStrict strips all HTML tags, leaving only text content.
// Use for fields that should never contain markup (names, usernames).
func SanitizeStrict(s string) string {
	_, st := policies()
	return st.Sanitize(s)
}
