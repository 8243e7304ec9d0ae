// Package normalize maps raw field values to canonical comparable forms so
// textual noise (whitespace, casing, phone punctuation, tracking parameters)
// does not produce false mismatches.
package normalize

import (
	"net/url"
	"strings"

	"github.com/ppiankov/listingcheck/internal/model"
)

// Value maps a raw field value to its canonical comparable form. It is pure,
// deterministic, idempotent, and total over all string inputs; blank input
// normalizes to the empty string for every field kind.
func Value(kind model.FieldKind, raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	switch kind {
	case model.FieldPhone:
		return phone(s)
	case model.FieldEntityName, model.FieldAddress, model.FieldHours, model.FieldWebsiteAnchor:
		return strings.ToUpper(collapseSpace(s))
	case model.FieldWebsiteURL:
		return websiteURL(s)
	}
	// Identity normalization for any field kind outside the enumerated set.
	return s
}

// phone keeps digits only; numbers with a country prefix are cut down to
// their last ten digits. Shorter numbers pass through as-is.
func phone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) >= 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// websiteURL reduces a URL to lower-cased scheme://host/path with trailing
// slashes removed, defaulting to https when no scheme is present.
// Query strings and fragments are dropped so tracking parameters never cause
// a mismatch. Unparseable input falls back to the trimmed, lower-cased raw
// string.
func websiteURL(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return strings.ToLower(s)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "https"
	}
	host := strings.ToLower(u.Host)
	path := strings.ToLower(strings.TrimRight(u.Path, "/"))

	return scheme + "://" + host + path
}

// collapseSpace trims s and collapses internal whitespace runs to single
// spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
