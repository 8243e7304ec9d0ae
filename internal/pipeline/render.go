package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ppiankov/listingcheck/internal/model"
)

// Renderer writes scan reports as a stdout table, JSON, or CSV.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a renderer writing its summary table to out.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// RenderSummary prints the per-site consistency table for one report.
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Fprintf(r.out, "\nClient: %s (scanned %s)\n", report.Client, report.ScannedAt.Format("2006-01-02 15:04:05 MST"))

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"Site", "Match", "Entity Name", "Phone", "Website URL", "Notes"})

	for _, res := range report.Results {
		t.AppendRow(table.Row{
			res.Label,
			matchMark(res.Match),
			res.Extracted.EntityName,
			res.Extracted.Phone,
			res.Extracted.WebsiteURL,
			notesFor(res),
		})
	}
	t.Render()

	if report.Summary != "" {
		fmt.Fprintf(r.out, "\nSummary:\n%s\n", report.Summary)
	}
}

func matchMark(match bool) string {
	if match {
		return "✓"
	}
	return "✗"
}

// notesFor mirrors the diff column: either the scan note or the list of
// mismatched field names.
func notesFor(res model.SiteResult) string {
	if res.Note != "" {
		return res.Note
	}
	if len(res.Mismatched) == 0 {
		return ""
	}
	names := make([]string, len(res.Mismatched))
	for i, kind := range res.Mismatched {
		names[i] = string(kind)
	}
	return strings.Join(names, "; ")
}

// RenderJSON writes the full reports to path as a JSON array.
func (r *Renderer) RenderJSON(reports []*model.Report, path string) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}

// csvHeader matches the dashboard export column set.
var csvHeader = []string{
	"Client", "Site", "URL",
	"Entity Name", "Address", "Phone", "Website URL", "Website Anchor", "Hours",
	"Match (overall)", "Notes",
}

// RenderCSV writes one row per (client, site) to path.
func (r *Renderer) RenderCSV(reports []*model.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, report := range reports {
		for _, res := range report.Results {
			row := []string{
				report.Client,
				res.Label,
				res.URL,
				res.Extracted.EntityName,
				res.Extracted.Address,
				res.Extracted.Phone,
				res.Extracted.WebsiteURL,
				res.Extracted.WebsiteAnchor,
				res.Extracted.Hours,
				fmt.Sprintf("%t", res.Match),
				notesFor(res),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	return w.Error()
}
