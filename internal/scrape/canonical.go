package scrape

import (
	"net/url"
	"strings"

	"github.com/ppiankov/listingcheck/internal/model"
)

// defaultRedirects covers sites whose outbound-link wrapping is known ahead
// of time. A rule book may override these per site.
var defaultRedirects = map[model.Site]model.RedirectRule{
	model.SiteYelp: {Marker: "biz_redir", Param: "url"},
}

// redirectRuleFor resolves the redirect rule for a site: the rule book's, or
// the built-in default, or nil when the site does not wrap links.
func redirectRuleFor(site model.Site, rules *model.SiteRules) *model.RedirectRule {
	if rules != nil && rules.Redirect != nil {
		return rules.Redirect
	}
	if r, ok := defaultRedirects[site]; ok {
		return &r
	}
	return nil
}

// CanonicalizeTarget rewrites a link target wrapped by a site's outbound
// redirect into the real destination. Targets without the redirect marker
// pass through untouched, and any parse failure falls back to the raw input;
// a malformed URL never fails a scan.
func CanonicalizeTarget(site model.Site, rules *model.SiteRules, raw string) string {
	if raw == "" {
		return ""
	}

	rule := redirectRuleFor(site, rules)
	if rule == nil || !strings.Contains(raw, rule.Marker) {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	inner := u.Query().Get(rule.Param)
	if inner == "" {
		return raw
	}
	if decoded, err := url.QueryUnescape(inner); err == nil {
		return decoded
	}
	return inner
}
