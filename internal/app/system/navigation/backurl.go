// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/admin", "/crm").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit", "/delete", "/new").
	// These prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string

	// PreserveQueryParam is an optional query parameter to preserve in the fallback URL.
	// For example, "technology" would check for a technology filter and append it.
	PreserveQueryParam string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return", validates
// the URL is safe (not an open redirect), optionally validates the prefix,
// and excludes specified subpaths to prevent redirect loops.
//
// Example usage:
//
//	url := navigation.SafeBackURL(r, navigation.CRMBackURL)
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	// Try query parameter first, then form value
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	if ret != "" {
		valid := true

		if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
			valid = false
		}

		for _, excluded := range opts.ExcludedSubpaths {
			if strings.Contains(ret, excluded) {
				valid = false
				break
			}
		}

		if valid {
			return ret
		}
	}

	// Build fallback URL, optionally preserving a query parameter
	fallback := opts.Fallback
	if opts.PreserveQueryParam != "" {
		param := query.Get(r, opts.PreserveQueryParam)
		if param == "" {
			param = strings.TrimSpace(r.FormValue(opts.PreserveQueryParam))
		}
		if param != "" && param != "all" {
			if strings.Contains(fallback, "?") {
				fallback += "&" + opts.PreserveQueryParam + "=" + param
			} else {
				fallback += "?" + opts.PreserveQueryParam + "=" + param
			}
		}
	}

	return fallback
}

// Common back URL configurations for reuse across packages.
var (
	// AdminBackURL returns options for admin dashboard pages.
	AdminBackURL = BackURLOptions{
		AllowedPrefix:    "/admin",
		ExcludedSubpaths: []string{"/new", "/assign"},
		Fallback:         "/admin",
	}

	// CRMBackURL returns options for CRM pages.
	CRMBackURL = BackURLOptions{
		AllowedPrefix:      "/crm",
		ExcludedSubpaths:   []string{"/new", "/delete"},
		Fallback:           "/crm",
		PreserveQueryParam: "technology",
	}

	// ProjectsBackURL returns options for project upload and distribution pages.
	ProjectsBackURL = BackURLOptions{
		AllowedPrefix:    "/projects",
		ExcludedSubpaths: []string{"/upload", "/distribute"},
		Fallback:         "/projects/upload",
	}

	// IntroducerBackURL returns options for the introducer portal.
	IntroducerBackURL = BackURLOptions{
		AllowedPrefix:    "/introducer",
		ExcludedSubpaths: []string{"/new"},
		Fallback:         "/introducer",
	}

	// InvestorBackURL returns options for the investor portal.
	InvestorBackURL = BackURLOptions{
		AllowedPrefix: "/investor",
		Fallback:      "/investor",
	}
)
