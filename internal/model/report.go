package model

import "time"

// FieldComparison is the per-field outcome of comparing an extracted record
// to the SSOT record.
type FieldComparison struct {
	Field     FieldKind `json:"field"`
	Extracted string    `json:"extracted"`
	SSOT      string    `json:"ssot"`
	Match     bool      `json:"match"`
}

// SiteResult is the outcome of scanning one site for one client. A site that
// could not be scanned carries a Note and Match=false; its siblings are
// unaffected.
type SiteResult struct {
	Site       Site              `json:"site"`
	Label      string            `json:"label"`
	URL        string            `json:"url,omitempty"`
	Extracted  FieldRecord       `json:"extracted"`
	Match      bool              `json:"match"`
	Mismatched []FieldKind       `json:"mismatched,omitempty"`
	Fields     []FieldComparison `json:"fields,omitempty"`
	Note       string            `json:"note,omitempty"`
}

// Report is the complete consistency report for one client scan.
type Report struct {
	Client    string       `json:"client"`
	ScannedAt time.Time    `json:"scanned_at"`
	SSOT      SSOTRecord   `json:"ssot"`
	Results   []SiteResult `json:"results"`
	Summary   string       `json:"summary,omitempty"` // optional LLM remediation notes
}

// MismatchCount returns the number of sites that did not fully match.
func (r *Report) MismatchCount() int {
	n := 0
	for _, res := range r.Results {
		if !res.Match {
			n++
		}
	}
	return n
}
