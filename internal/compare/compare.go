// Package compare checks an extracted field record against the SSOT record.
package compare

import (
	"github.com/ppiankov/listingcheck/internal/model"
	"github.com/ppiankov/listingcheck/internal/normalize"
)

// Result is the outcome of comparing one extracted record to the SSOT.
type Result struct {
	// Match is true only when every field matches and at least one field was
	// actually extracted: a fully empty extraction is never a match, even
	// though each empty field trivially equals an empty SSOT field.
	Match      bool
	Fields     []model.FieldComparison
	Mismatched []model.FieldKind
}

// Records compares field by field in normalized form. A field matches when
// the normalized values are equal; absence on both sides is not a mismatch.
func Records(extracted model.FieldRecord, ssot model.SSOTRecord) Result {
	res := Result{Match: true}

	for _, kind := range model.AllFieldKinds() {
		rawExtracted := extracted.Get(kind)
		rawSSOT := ssot.Get(kind)
		match := normalize.Value(kind, rawExtracted) == normalize.Value(kind, rawSSOT)

		res.Fields = append(res.Fields, model.FieldComparison{
			Field:     kind,
			Extracted: rawExtracted,
			SSOT:      rawSSOT,
			Match:     match,
		})
		if !match {
			res.Mismatched = append(res.Mismatched, kind)
		}
	}

	res.Match = len(res.Mismatched) == 0 && extracted.AnyNonEmpty()
	return res
}
