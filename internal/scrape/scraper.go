// Package scrape is the extraction engine: it fetches a listing page and
// applies a site's locator rules to produce a complete field record.
package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ppiankov/listingcheck/internal/model"
)

// telPrefix marks telephone link targets; the digits-bearing remainder is
// the phone value.
const telPrefix = "tel:"

// Scraper drives the full extraction for one site URL: fetch, parse, layout
// resolution, per-field locator evaluation, link canonicalization.
type Scraper struct {
	fetcher *Fetcher
}

// NewScraper wraps a fetcher into a scraper.
func NewScraper(fetcher *Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

// Scrape produces the field record for one site URL. A fetch failure
// propagates unmodified: a failed fetch is a failed scrape for that site,
// never a partial record. Per-field failures degrade to empty values.
func (s *Scraper) Scrape(ctx context.Context, site model.Site, rawURL string, rules *model.SiteRules) (model.FieldRecord, error) {
	markup, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return model.FieldRecord{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return model.FieldRecord{}, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	return extract(doc, site, rules), nil
}

// extract runs the site's locator rules against a parsed document. All six
// output fields are always populated, possibly with empty strings.
func extract(doc *goquery.Document, site model.Site, rules *model.SiteRules) model.FieldRecord {
	var exprs *model.FieldExprs
	if rules.MultiLayout() {
		exprs = rules.ExprsFor(ResolveLayout(doc, rules))
	} else {
		exprs = rules.ExprsFor(model.LayoutType1)
	}

	var rec model.FieldRecord
	rec.EntityName = EvaluateChain(doc, exprs.EntityName).Text
	rec.Address = EvaluateChain(doc, exprs.Address).Text
	rec.Hours = EvaluateChain(doc, exprs.Hours).Text

	phone := EvaluateChain(doc, exprs.Phone)
	if phone.HasTarget && strings.HasPrefix(phone.Target, telPrefix) {
		rec.Phone = strings.TrimPrefix(phone.Target, telPrefix)
	} else {
		rec.Phone = phone.Text
	}

	// One rule feeds two fields: the anchor text and the (canonicalized)
	// link target of the website link.
	link := EvaluateChain(doc, exprs.WebsiteLinkAnchor)
	rec.WebsiteAnchor = link.Text
	if link.HasTarget {
		rec.WebsiteURL = CanonicalizeTarget(site, rules, link.Target)
	}

	return rec
}

// Probe evaluates a single ad-hoc expression against a live URL and returns
// the same (text, canonicalized link) pair a field extraction would. This is
// the debugging surface for authoring locator rules.
func (s *Scraper) Probe(ctx context.Context, site model.Site, rawURL, expr string, rules *model.SiteRules) (Extraction, error) {
	markup, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return Extraction{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Extraction{}, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	ex := Evaluate(doc, expr)
	if ex.HasTarget {
		ex.Target = CanonicalizeTarget(site, rules, ex.Target)
	}
	return ex, nil
}
