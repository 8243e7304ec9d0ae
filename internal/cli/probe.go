package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/listingcheck/internal/model"
	"github.com/ppiankov/listingcheck/internal/scrape"
)

var (
	probeSite    string
	probeRules   string
	probeTimeout time.Duration
)

// probeCmd represents the probe command
var probeCmd = &cobra.Command{
	Use:   "probe <url> <expression>",
	Short: "Run one locator expression against a live URL",
	Long: `Probe is the debugging surface for authoring locator rules: it fetches
the URL, evaluates a single expression, and prints the same (text, link)
pair a field extraction would see — including redirect unwrapping for the
selected site.

Expressions are CSS selectors, optionally followed by @attr to read an
attribute value directly.

Example:
  listingcheck probe https://www.yelp.com/biz/acme 'h1'
  listingcheck probe https://www.yelp.com/biz/acme 'a[href*="biz_redir"]' --site yelp`,
	Args: cobra.ExactArgs(2),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringVar(&probeSite, "site", string(model.SiteYelp), "site identity for link canonicalization")
	probeCmd.Flags().StringVar(&probeRules, "rules", "", "optional rule book supplying redirect rules")
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 30*time.Second, "probe timeout")
}

func runProbe(cmd *cobra.Command, args []string) error {
	rawURL, expr := args[0], args[1]

	site, err := model.ParseSite(probeSite)
	if err != nil {
		return err
	}

	var rules *model.SiteRules
	if probeRules != "" {
		book, err := model.LoadRuleBook(probeRules)
		if err != nil {
			return err
		}
		rules = book.ForSite(site)
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	fetcher, err := scrape.NewFetcher(cfg.HTTP, cfg.Retry)
	if err != nil {
		return err
	}

	ex, err := scrape.NewScraper(fetcher).Probe(ctx, site, rawURL, expr, rules)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	switch ex.Outcome {
	case scrape.InvalidExpression:
		fmt.Println("expression: invalid")
	case scrape.NoMatch:
		fmt.Println("match: none")
	default:
		fmt.Printf("text: %q\n", ex.Text)
		if ex.HasTarget {
			fmt.Printf("link: %q\n", ex.Target)
		} else {
			fmt.Println("link: (absent)")
		}
	}
	return nil
}
