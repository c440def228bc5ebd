// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Sanitizers for text that arrives from outside the app: catalog
// overviews and taglines from the TMDB API, and anything a user types
// that later renders inside markup. Policies are built once at init.
package htmlsanitize

import (
	"html/template"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows basic formatting (links, emphasis, lists) and strips
	// scripts, event handlers, and unknown protocols.
	ugc = bluemonday.UGCPolicy()

	// strict strips every tag, leaving plain text.
	strict = bluemonday.StrictPolicy()
)

// Sanitize strips dangerous markup, keeping basic formatting.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// SanitizeToHTML sanitizes and marks the result safe for direct
// template interpolation.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// StripTags removes all markup, returning plain text. Used for catalog
// overview text on cards and in page metadata.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strict.Sanitize(s)
}

// Snippet strips markup and truncates to at most max runes, cutting at
// a word boundary and appending an ellipsis when shortened.
func Snippet(s string, max int) string {
	s = strings.TrimSpace(StripTags(s))
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	cut := max
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = max
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + "…"
}
