package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ppiankov/listingcheck/internal/model"
)

const listingPage = `<!DOCTYPE html>
<html>
<body>
  <h1 class="biz-name">Acme Clinic</h1>
  <address>123 Main St, Encinitas, CA 92024</address>
  <a class="phone" href="tel:+16195550100">(619) 555-0100</a>
  <a class="website" href="https://www.yelp.com/biz_redir?url=https%3A%2F%2Fwww.acme.com&amp;src=profile">acme.com</a>
  <div class="hours">Mon-Fri 9-5</div>
</body>
</html>`

func yelpRules() *model.SiteRules {
	return &model.SiteRules{
		Fields: &model.FieldExprs{
			EntityName:        model.ExprChain{"h1.biz-name"},
			Address:           model.ExprChain{"address"},
			Phone:             model.ExprChain{"a.phone"},
			WebsiteLinkAnchor: model.ExprChain{"a.website"},
			Hours:             model.ExprChain{"div.hours"},
		},
	}
}

func newTestScraper(t *testing.T) *Scraper {
	t.Helper()
	f, err := NewFetcher(
		model.HTTPConfig{Timeout: 5 * time.Second},
		model.RetryConfig{Attempts: 1, BaseDelay: time.Millisecond},
	)
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}
	return NewScraper(f)
}

func TestScrape_FullRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	rec, err := newTestScraper(t).Scrape(context.Background(), model.SiteYelp, srv.URL, yelpRules())
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}

	want := model.FieldRecord{
		EntityName:    "Acme Clinic",
		Address:       "123 Main St, Encinitas, CA 92024",
		Phone:         "+16195550100", // tel: target wins over anchor text
		WebsiteURL:    "https://www.acme.com",
		WebsiteAnchor: "acme.com",
		Hours:         "Mon-Fri 9-5",
	}
	if rec != want {
		t.Errorf("record = %+v\nwant %+v", rec, want)
	}
}

func TestScrape_MissingExpressionsYieldEmptyFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	rules := &model.SiteRules{
		Fields: &model.FieldExprs{EntityName: model.ExprChain{"h1.biz-name"}},
	}
	rec, err := newTestScraper(t).Scrape(context.Background(), model.SiteYelp, srv.URL, rules)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if rec.EntityName != "Acme Clinic" {
		t.Errorf("entity name = %q", rec.EntityName)
	}
	if rec.Phone != "" || rec.WebsiteURL != "" || rec.Hours != "" {
		t.Errorf("unconfigured fields should stay empty, got %+v", rec)
	}
}

func TestScrape_PhoneFallsBackToText(t *testing.T) {
	page := `<html><body><span class="phone">(619) 555-0100</span></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	rules := &model.SiteRules{
		Fields: &model.FieldExprs{Phone: model.ExprChain{"span.phone"}},
	}
	rec, err := newTestScraper(t).Scrape(context.Background(), model.SiteGoogle, srv.URL, rules)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if rec.Phone != "(619) 555-0100" {
		t.Errorf("phone = %q, want visible text when no tel link", rec.Phone)
	}
}

func TestScrape_MultiLayout(t *testing.T) {
	// The page renders the type2 variant: no legacy marker present.
	page := `<html><body><h2 class="new-name">Acme Clinic</h2></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	rules := &model.SiteRules{
		Detector: "div.legacy-marker",
		Layouts: map[model.Layout]*model.FieldExprs{
			model.LayoutType1: {EntityName: model.ExprChain{"h1.old-name"}},
			model.LayoutType2: {EntityName: model.ExprChain{"h2.new-name"}},
		},
	}
	rec, err := newTestScraper(t).Scrape(context.Background(), model.SiteApple, srv.URL, rules)
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}
	if rec.EntityName != "Acme Clinic" {
		t.Errorf("entity name = %q, want type2 rules applied", rec.EntityName)
	}
}

func TestScrape_FetchFailureIsNotAPartialRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	rec, err := newTestScraper(t).Scrape(context.Background(), model.SiteYelp, srv.URL, yelpRules())
	if !IsFetchError(err) {
		t.Fatalf("err = %v, want FetchError", err)
	}
	if rec.AnyNonEmpty() {
		t.Errorf("failed fetch must yield an empty record, got %+v", rec)
	}
	var fe *FetchError
	if errors.As(err, &fe) && fe.Status != http.StatusGone {
		t.Errorf("status = %d, want 410", fe.Status)
	}
}

func TestProbe_CanonicalizesLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	ex, err := newTestScraper(t).Probe(context.Background(), model.SiteYelp, srv.URL, "a.website", nil)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if ex.Outcome != Matched || ex.Text != "acme.com" {
		t.Errorf("got (%v, %q)", ex.Outcome, ex.Text)
	}
	if ex.Target != "https://www.acme.com" {
		t.Errorf("target = %q, want redirect unwrapped", ex.Target)
	}
}
