package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ExprChain is an ordered list of locator expressions for one field. The
// evaluator tries them front to back and keeps the first match, so the chain
// encodes rule priority; inactive rules simply never make it into the chain.
// In YAML a chain may be written as a single scalar or as a sequence.
type ExprChain []string

// UnmarshalYAML accepts both `field: "h1"` and `field: ["h1", ".title"]`.
func (c *ExprChain) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		if s == "" {
			*c = nil
			return nil
		}
		*c = ExprChain{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*c = ExprChain(ss)
		return nil
	default:
		return fmt.Errorf("locator expression must be a string or a list of strings (line %d)", value.Line)
	}
}

// FieldExprs maps each rule field to its locator expression chain. The
// website_link_anchor rule feeds two output fields: its anchor text becomes
// website_anchor and its canonicalized link target becomes website_url.
type FieldExprs struct {
	EntityName        ExprChain `yaml:"entity_name"`
	Address           ExprChain `yaml:"address"`
	Phone             ExprChain `yaml:"phone"`
	WebsiteLinkAnchor ExprChain `yaml:"website_link_anchor"`
	Hours             ExprChain `yaml:"hours"`
}

// RedirectRule describes a site's outbound-redirect wrapping: when Marker
// appears in a link target, the true destination sits URL-encoded in the
// Param query parameter.
type RedirectRule struct {
	Marker string `yaml:"marker"`
	Param  string `yaml:"param"`
}

// SiteRules is the rule set for one site: either a flat field map, or a
// detector expression plus one field map per layout. Expressions are opaque
// to everything but the evaluator.
type SiteRules struct {
	Detector string                 `yaml:"detector,omitempty"`
	Fields   *FieldExprs            `yaml:"fields,omitempty"`
	Layouts  map[Layout]*FieldExprs `yaml:"layouts,omitempty"`
	Redirect *RedirectRule          `yaml:"redirect,omitempty"`
}

// MultiLayout reports whether the site carries per-layout field maps.
func (r *SiteRules) MultiLayout() bool {
	return r != nil && len(r.Layouts) > 0
}

// ExprsFor returns the field map for the given layout, or the flat field map
// for layout-free sites. Never returns nil.
func (r *SiteRules) ExprsFor(layout Layout) *FieldExprs {
	if r == nil {
		return &FieldExprs{}
	}
	if r.MultiLayout() {
		if exprs := r.Layouts[layout]; exprs != nil {
			return exprs
		}
		return &FieldExprs{}
	}
	if r.Fields != nil {
		return r.Fields
	}
	return &FieldExprs{}
}

// RuleBook is the full rule store: one rule set per site, loaded once per
// process from static configuration.
type RuleBook struct {
	Sites map[Site]*SiteRules `yaml:"sites"`
}

// ForSite returns the rule set for a site, or nil when none is configured.
func (b *RuleBook) ForSite(site Site) *SiteRules {
	if b == nil {
		return nil
	}
	return b.Sites[site]
}

// LoadRuleBook reads and validates a YAML rule book.
func LoadRuleBook(path string) (*RuleBook, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule book: %w", err)
	}

	var book RuleBook
	if err := yaml.Unmarshal(b, &book); err != nil {
		return nil, fmt.Errorf("parse rule book yaml: %w", err)
	}
	if len(book.Sites) == 0 {
		return nil, fmt.Errorf("%s defines no site rules", path)
	}

	for site, rules := range book.Sites {
		if !site.Valid() {
			return nil, fmt.Errorf("rule book names unknown site %q", site)
		}
		if rules == nil {
			continue
		}
		if rules.Fields != nil && len(rules.Layouts) > 0 {
			return nil, fmt.Errorf("site %q mixes a flat field map with layouts", site)
		}
		for layout := range rules.Layouts {
			if layout != LayoutType1 && layout != LayoutType2 {
				return nil, fmt.Errorf("site %q names unknown layout %q", site, layout)
			}
		}
		if rules.Redirect != nil && (rules.Redirect.Marker == "" || rules.Redirect.Param == "") {
			return nil, fmt.Errorf("site %q has an incomplete redirect rule", site)
		}
	}
	return &book, nil
}
