package scrape

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/ppiankov/listingcheck/internal/model"
)

// ResolveLayout picks which layout variant a multi-layout site rendered for
// this document. The detector expression selects type1 when it yields any
// non-empty text or a present link target; otherwise type2. Sites without a
// detector default to type1. The choice is re-derived per scrape, never
// cached.
func ResolveLayout(doc *goquery.Document, rules *model.SiteRules) model.Layout {
	if rules == nil || rules.Detector == "" {
		return model.LayoutType1
	}

	ex := Evaluate(doc, rules.Detector)
	if ex.Outcome == Matched && !ex.Empty() {
		return model.LayoutType1
	}
	return model.LayoutType2
}
