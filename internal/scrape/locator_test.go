package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const locatorPage = `<!DOCTYPE html>
<html>
<body>
  <h1 class="biz-name">Acme   Clinic</h1>
  <div class="contact">
    <span>Call us:</span>
    <a href="tel:+16195550100">(619) 555-0100</a>
  </div>
  <a class="website" href="https://www.acme.com" data-analytics="cta">acme.com</a>
  <div class="hours">
    Mon - Fri
    9am - 5pm
  </div>
  <a class="bare">no destination</a>
</body>
</html>`

func doc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return d
}

func TestEvaluate_TextNode(t *testing.T) {
	ex := Evaluate(doc(t, locatorPage), "h1.biz-name")
	if ex.Outcome != Matched {
		t.Fatalf("outcome = %v, want Matched", ex.Outcome)
	}
	if ex.Text != "Acme Clinic" {
		t.Errorf("text = %q, want flattened %q", ex.Text, "Acme Clinic")
	}
	if ex.HasTarget {
		t.Error("plain element should carry no link target")
	}
}

func TestEvaluate_DirectAnchor(t *testing.T) {
	ex := Evaluate(doc(t, locatorPage), "a.website")
	if ex.Outcome != Matched {
		t.Fatalf("outcome = %v, want Matched", ex.Outcome)
	}
	if ex.Text != "acme.com" {
		t.Errorf("text = %q, want %q", ex.Text, "acme.com")
	}
	if !ex.HasTarget || ex.Target != "https://www.acme.com" {
		t.Errorf("target = (%q, %v), want href", ex.Target, ex.HasTarget)
	}
}

func TestEvaluate_ContainerDescendsToAnchor(t *testing.T) {
	// A matched container yields its first hyperlink descendant, not its
	// own flattened text.
	ex := Evaluate(doc(t, locatorPage), "div.contact")
	if ex.Outcome != Matched {
		t.Fatalf("outcome = %v, want Matched", ex.Outcome)
	}
	if ex.Text != "(619) 555-0100" {
		t.Errorf("text = %q, want anchor text", ex.Text)
	}
	if !ex.HasTarget || ex.Target != "tel:+16195550100" {
		t.Errorf("target = (%q, %v), want tel link", ex.Target, ex.HasTarget)
	}
}

func TestEvaluate_MultilineTextFlattens(t *testing.T) {
	ex := Evaluate(doc(t, locatorPage), "div.hours")
	if ex.Text != "Mon - Fri 9am - 5pm" {
		t.Errorf("text = %q, want single-spaced", ex.Text)
	}
}

func TestEvaluate_AnchorWithoutHref(t *testing.T) {
	ex := Evaluate(doc(t, locatorPage), "a.bare")
	if ex.Outcome != Matched {
		t.Fatalf("outcome = %v, want Matched", ex.Outcome)
	}
	if ex.HasTarget {
		t.Error("anchor without href must not report a target")
	}
	if ex.Text != "no destination" {
		t.Errorf("text = %q", ex.Text)
	}
}

func TestEvaluate_AttributeSuffix(t *testing.T) {
	ex := Evaluate(doc(t, locatorPage), "a.website@data-analytics")
	if ex.Outcome != Matched || ex.Text != "cta" {
		t.Errorf("got (%v, %q), want attribute value", ex.Outcome, ex.Text)
	}
	if ex.HasTarget {
		t.Error("attribute selection never yields a target")
	}

	if ex := Evaluate(doc(t, locatorPage), "a.website@data-missing"); ex.Outcome != NoMatch {
		t.Errorf("missing attribute: outcome = %v, want NoMatch", ex.Outcome)
	}
}

func TestEvaluate_AtInsideBracketsIsNotASuffix(t *testing.T) {
	page := `<html><body><a href="mailto:info@acme.com">write us</a></body></html>`
	ex := Evaluate(doc(t, page), `a[href*="@acme"]`)
	if ex.Outcome != Matched {
		t.Fatalf("outcome = %v, want Matched", ex.Outcome)
	}
	if ex.Target != "mailto:info@acme.com" {
		t.Errorf("target = %q", ex.Target)
	}
}

func TestEvaluate_NoMatch(t *testing.T) {
	ex := Evaluate(doc(t, locatorPage), "h2.absent")
	if ex.Outcome != NoMatch {
		t.Errorf("outcome = %v, want NoMatch", ex.Outcome)
	}
	if !ex.Empty() {
		t.Error("no-match extraction should be empty")
	}
}

func TestEvaluate_InvalidExpression(t *testing.T) {
	for _, expr := range []string{"[[[", "div[", "h1 >"} {
		if ex := Evaluate(doc(t, locatorPage), expr); ex.Outcome != InvalidExpression {
			t.Errorf("Evaluate(%q): outcome = %v, want InvalidExpression", expr, ex.Outcome)
		}
	}
}

func TestEvaluateChain_FirstMatchWins(t *testing.T) {
	ex := EvaluateChain(doc(t, locatorPage), []string{"h2.absent", "h1.biz-name", "a.website"})
	if ex.Outcome != Matched || ex.Text != "Acme Clinic" {
		t.Errorf("got (%v, %q), want first matching expression's result", ex.Outcome, ex.Text)
	}
}

func TestEvaluateChain_Outcomes(t *testing.T) {
	d := doc(t, locatorPage)

	if ex := EvaluateChain(d, []string{"[[[", "h2.absent"}); ex.Outcome != NoMatch {
		t.Errorf("mixed chain: outcome = %v, want NoMatch", ex.Outcome)
	}
	if ex := EvaluateChain(d, []string{"[[[", "div["}); ex.Outcome != InvalidExpression {
		t.Errorf("all-invalid chain: outcome = %v, want InvalidExpression", ex.Outcome)
	}
	if ex := EvaluateChain(d, nil); ex.Outcome != NoMatch {
		t.Errorf("empty chain: outcome = %v, want NoMatch", ex.Outcome)
	}
}

func TestSplitAttr(t *testing.T) {
	tests := []struct {
		expr     string
		selector string
		attr     string
	}{
		{"a.website@href", "a.website", "href"},
		{"meta[property=\"og:url\"]@content", "meta[property=\"og:url\"]", "content"},
		{`a[href*="@acme"]`, `a[href*="@acme"]`, ""},
		{"h1.biz-name", "h1.biz-name", ""},
		{"a@", "a@", ""},
		{"a@not an attr", "a@not an attr", ""},
	}

	for _, tt := range tests {
		sel, attr := splitAttr(tt.expr)
		if sel != tt.selector || attr != tt.attr {
			t.Errorf("splitAttr(%q) = (%q, %q), want (%q, %q)", tt.expr, sel, attr, tt.selector, tt.attr)
		}
	}
}
