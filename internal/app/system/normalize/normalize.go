// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address. Lookups and the unique
// index both assume emails are stored in this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// AuthMethod lowercases and trims an auth method label ("password",
// "google").
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
