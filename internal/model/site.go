package model

import "fmt"

// Site identifies one of the supported listing directories.
type Site string

const (
	SiteGoogle Site = "google"
	SiteApple  Site = "apple"
	SiteBing   Site = "bing"
	SiteYelp   Site = "yelp"
	SiteYahoo  Site = "yahoo"
)

// AllSites returns the supported sites in their canonical scan order.
func AllSites() []Site {
	return []Site{SiteGoogle, SiteApple, SiteBing, SiteYelp, SiteYahoo}
}

// ParseSite validates a free-form site name against the closed site set.
func ParseSite(s string) (Site, error) {
	site := Site(s)
	if !site.Valid() {
		return "", fmt.Errorf("unknown site %q (expected one of %v)", s, AllSites())
	}
	return site, nil
}

// Valid reports whether the site is one of the supported directories.
func (s Site) Valid() bool {
	switch s {
	case SiteGoogle, SiteApple, SiteBing, SiteYelp, SiteYahoo:
		return true
	}
	return false
}

// Label returns the human-readable directory name.
func (s Site) Label() string {
	switch s {
	case SiteGoogle:
		return "Google Business Profile"
	case SiteApple:
		return "Apple Maps"
	case SiteBing:
		return "Bing Maps"
	case SiteYelp:
		return "Yelp"
	case SiteYahoo:
		return "Yahoo Local"
	}
	return string(s)
}

// Layout identifies a structural variant of a site's page markup. Sites that
// render more than one DOM shape carry one locator set per layout.
type Layout string

const (
	LayoutType1 Layout = "type1"
	LayoutType2 Layout = "type2"
)

// FieldKind identifies one of the six comparable listing attributes.
type FieldKind string

const (
	FieldEntityName    FieldKind = "entity_name"
	FieldAddress       FieldKind = "address"
	FieldPhone         FieldKind = "phone"
	FieldWebsiteURL    FieldKind = "website_url"
	FieldWebsiteAnchor FieldKind = "website_anchor"
	FieldHours         FieldKind = "hours"
)

// AllFieldKinds returns the comparable fields in their canonical order.
func AllFieldKinds() []FieldKind {
	return []FieldKind{
		FieldEntityName,
		FieldAddress,
		FieldPhone,
		FieldWebsiteURL,
		FieldWebsiteAnchor,
		FieldHours,
	}
}
