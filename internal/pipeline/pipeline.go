// Package pipeline wires the extraction engine, comparator, and renderers
// into whole-client scans.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ppiankov/listingcheck/internal/compare"
	"github.com/ppiankov/listingcheck/internal/llm"
	"github.com/ppiankov/listingcheck/internal/model"
	"github.com/ppiankov/listingcheck/internal/scrape"
	"github.com/ppiankov/listingcheck/internal/util"
	"github.com/ppiankov/listingcheck/internal/worker"
)

// Pipeline scans clients against the rule book. It holds no per-scan state:
// concurrent scans of different sites or clients are fully independent.
type Pipeline struct {
	cfg        *model.Config
	rules      *model.RuleBook
	scraper    *scrape.Scraper
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	summarizer *llm.Summarizer
}

// New builds a pipeline from configuration and a loaded rule book.
func New(cfg *model.Config, rules *model.RuleBook) (*Pipeline, error) {
	fetcher, err := scrape.NewFetcher(cfg.HTTP, cfg.Retry)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:     cfg,
		rules:   rules,
		scraper: scrape.NewScraper(fetcher),
	}

	if cfg.RateLimiting.RequestsPerSecond > 0 {
		p.limiter = worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.Burst)
	}
	if cfg.Robots.Enabled {
		p.robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout, cfg.Robots.CacheTTL)
	}
	if cfg.LLM.Enabled {
		summarizer, err := llm.NewSummarizer(cfg.LLM)
		if err != nil {
			return nil, err
		}
		p.summarizer = summarizer
	}

	return p, nil
}

// ScanClient scans the client's five site URLs concurrently and compares
// each extraction against the SSOT record. A failure on one site is reported
// alongside — never instead of — its siblings' results.
func (p *Pipeline) ScanClient(ctx context.Context, client model.Client) *model.Report {
	sites := model.AllSites()
	results := make([]model.SiteResult, len(sites))

	maxWorkers := p.cfg.Concurrency.SiteWorkers
	if maxWorkers <= 0 {
		maxWorkers = len(sites)
	}
	semaphore := make(chan struct{}, maxWorkers)

	var wg sync.WaitGroup
	for i, site := range sites {
		wg.Add(1)
		go func(idx int, site model.Site) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.SiteResult{
					Site:  site,
					Label: site.Label(),
					URL:   client.URLs[site],
					Note:  "scan cancelled",
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = p.scanSite(ctx, client, site)
		}(i, site)
	}
	wg.Wait()

	report := &model.Report{
		Client:    client.Name,
		ScannedAt: time.Now().UTC(),
		SSOT:      client.SSOT,
		Results:   results,
	}

	if p.summarizer != nil {
		summary, err := p.summarizer.Summarize(ctx, report)
		if err != nil {
			// A summary failure never fails the scan.
			fmt.Fprintf(os.Stderr, "Warning: LLM summary failed: %v\n", err)
		} else {
			report.Summary = summary
		}
	}

	return report
}

// scanSite scrapes one site URL and compares the extraction to the SSOT.
func (p *Pipeline) scanSite(ctx context.Context, client model.Client, site model.Site) model.SiteResult {
	result := model.SiteResult{
		Site:  site,
		Label: site.Label(),
		URL:   client.URLs[site],
	}
	if result.URL == "" {
		result.Note = "no URL provided"
		return result
	}

	if p.robots != nil {
		if allowed, err := p.robots.CanFetch(ctx, result.URL); err == nil && !allowed {
			result.Note = "blocked by robots.txt"
			return result
		}
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, result.URL); err != nil {
			result.Note = fmt.Sprintf("rate limit wait: %v", err)
			return result
		}
	}

	extracted, err := p.scraper.Scrape(ctx, site, result.URL, p.rules.ForSite(site))
	if err != nil {
		result.Note = err.Error()
		return result
	}
	result.Extracted = extracted

	cmp := compare.Records(extracted, client.SSOT)
	result.Match = cmp.Match
	result.Mismatched = cmp.Mismatched
	result.Fields = cmp.Fields
	if !cmp.Match && len(cmp.Mismatched) == 0 {
		// Page fetched but no locator produced a value: every field pair is
		// trivially equal-empty, yet the scan found nothing to certify.
		result.Note = "no fields extracted"
	}

	return result
}
