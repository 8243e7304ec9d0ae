package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Outcome tags the result of evaluating one locator expression, so callers
// can tell "field genuinely absent on the page" apart from "expression was
// broken". Both degrade to an empty extraction.
type Outcome int

const (
	// NoMatch means the expression executed but matched nothing.
	NoMatch Outcome = iota
	// Matched means the expression matched at least one node.
	Matched
	// InvalidExpression means the expression failed to compile. A malformed
	// user-authored expression never crashes a scan.
	InvalidExpression
)

// Extraction is the universal return shape of one locator evaluation: the
// flattened text of the first match and, when the match is or contains a
// hyperlink, its link target.
type Extraction struct {
	Outcome   Outcome
	Text      string
	Target    string
	HasTarget bool
}

// Empty reports whether the extraction carries no value at all.
func (e Extraction) Empty() bool {
	return e.Text == "" && !e.HasTarget
}

// Evaluate runs one locator expression against the document and returns the
// extraction for the first match in document order.
//
// Expressions are CSS selectors, optionally followed by "@attr" to select an
// attribute value directly. Selection rules for element matches:
//   - a matched hyperlink yields its own text and link target,
//   - a matched container yields its first hyperlink descendant's text and
//     target when one exists,
//   - anything else yields the node's flattened text with no target.
func Evaluate(doc *goquery.Document, expr string) Extraction {
	selector, attr := splitAttr(expr)

	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return Extraction{Outcome: InvalidExpression}
	}

	sel := doc.FindMatcher(matcher).First()
	if sel.Length() == 0 {
		return Extraction{Outcome: NoMatch}
	}

	// Attribute selection produces a plain string value, never a target.
	if attr != "" {
		val, ok := sel.Attr(attr)
		if !ok {
			return Extraction{Outcome: NoMatch}
		}
		return Extraction{Outcome: Matched, Text: strings.TrimSpace(val)}
	}

	if isHyperlink(sel.Nodes[0]) {
		return anchorExtraction(sel)
	}
	if a := sel.Find("a").First(); a.Length() > 0 {
		return anchorExtraction(a)
	}
	return Extraction{Outcome: Matched, Text: flattenText(sel)}
}

// EvaluateChain tries expressions in priority order and keeps the first that
// matches. When nothing matches, a chain that was entirely malformed reports
// InvalidExpression; otherwise NoMatch. An empty chain is NoMatch without any
// evaluation.
func EvaluateChain(doc *goquery.Document, chain []string) Extraction {
	sawValid := false
	for _, expr := range chain {
		ex := Evaluate(doc, expr)
		if ex.Outcome == Matched {
			return ex
		}
		if ex.Outcome == NoMatch {
			sawValid = true
		}
	}
	if len(chain) > 0 && !sawValid {
		return Extraction{Outcome: InvalidExpression}
	}
	return Extraction{Outcome: NoMatch}
}

func anchorExtraction(a *goquery.Selection) Extraction {
	target, ok := a.Attr("href")
	return Extraction{
		Outcome:   Matched,
		Text:      flattenText(a),
		Target:    target,
		HasTarget: ok,
	}
}

// flattenText returns the selection's full descendant text with whitespace
// runs collapsed to single spaces and surrounding whitespace trimmed.
func flattenText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

func isHyperlink(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.A
}

// splitAttr splits an optional "@attr" suffix off an expression. The suffix
// is only honored when it is a bare attribute name sitting after any bracket
// expression, so selectors like `a[href*="@"]` stay intact.
func splitAttr(expr string) (selector, attr string) {
	i := strings.LastIndex(expr, "@")
	if i < 0 || strings.LastIndex(expr, "]") > i {
		return expr, ""
	}
	candidate := strings.TrimSpace(expr[i+1:])
	if candidate == "" || !isAttrName(candidate) {
		return expr, ""
	}
	return strings.TrimSpace(expr[:i]), candidate
}

func isAttrName(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ':':
		default:
			return false
		}
	}
	return true
}
