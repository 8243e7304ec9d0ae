package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/listingcheck/internal/model"
	"github.com/ppiankov/listingcheck/internal/pipeline"
	"github.com/ppiankov/listingcheck/internal/worker"
)

var (
	rulesPath     string
	clientFilter  string
	outJSON       string
	outCSV        string
	scanTimeout   time.Duration
	httpTimeout   time.Duration
	userAgent     string
	proxyURL      string
	concurrency   int
	siteWorkers   int
	rps           float64
	burst         int
	respectRobots bool
	llmEnabled    bool
	llmModel      string
	llmBaseURL    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <clients.yaml>",
	Short: "Scan clients' listings and report consistency against their SSOT",
	Long: `Scan reads a YAML client file (SSOT record plus per-site listing URLs,
one or more clients) and checks every listed site:
- fetch the listing page with retry and a fixed browser identity
- extract the six listing fields with the site's locator rules
- compare each field, in normalized form, against the SSOT record
- print a per-site consistency table and optional JSON/CSV exports

A site that cannot be scanned is reported alongside its siblings; it never
aborts the rest of the scan.

Example:
  listingcheck scan clients.yaml --rules rules.yaml
  listingcheck scan clients.yaml --rules rules.yaml --client "Acme Dermatology" --csv results.csv
  listingcheck scan clients.yaml --rules rules.yaml --llm --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&rulesPath, "rules", "rules.yaml", "locator rule book (YAML)")
	scanCmd.Flags().StringVar(&clientFilter, "client", "", "scan only the named client")

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	scanCmd.Flags().StringVar(&outCSV, "csv", "", "output CSV path (optional)")

	// HTTP flags
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 5*time.Minute, "overall scan timeout")
	scanCmd.Flags().DurationVar(&httpTimeout, "http-timeout", 20*time.Second, "per-fetch timeout")
	scanCmd.Flags().StringVar(&userAgent, "ua", model.DefaultUserAgent, "HTTP User-Agent")
	scanCmd.Flags().StringVar(&proxyURL, "proxy", "", "HTTP proxy URL")
	scanCmd.Flags().BoolVar(&respectRobots, "respect-robots", false, "honor robots.txt before fetching")

	// Concurrency flags
	scanCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of clients scanned in parallel")
	scanCmd.Flags().IntVar(&siteWorkers, "site-concurrency", len(model.AllSites()), "number of sites scanned in parallel per client")
	scanCmd.Flags().Float64Var(&rps, "rps", 1, "max requests per second per host")
	scanCmd.Flags().IntVar(&burst, "burst", 3, "rate limiter burst per host")

	// LLM flags
	scanCmd.Flags().BoolVar(&llmEnabled, "llm", false, "generate an LLM remediation summary per client")
	scanCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
	scanCmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "custom OpenAI-compatible base URL")
}

func runScan(cmd *cobra.Command, args []string) error {
	clientsPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	clients, err := model.LoadClients(clientsPath)
	if err != nil {
		return err
	}
	if clientFilter != "" {
		clients = filterClients(clients, clientFilter)
		if len(clients) == 0 {
			return fmt.Errorf("no client named %q in %s", clientFilter, clientsPath)
		}
	}

	rules, err := model.LoadRuleBook(rulesPath)
	if err != nil {
		return err
	}

	cfg := buildConfig()

	p, err := pipeline.New(cfg, rules)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Clients: %d\n", len(clients))
		fmt.Fprintf(os.Stderr, "Rule book: %s\n", rulesPath)
		fmt.Fprintf(os.Stderr, "Workers: %d clients x %d sites\n", cfg.Concurrency.ClientWorkers, cfg.Concurrency.SiteWorkers)
		fmt.Fprintln(os.Stderr)
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.ClientWorkers)
	results := processor.Process(ctx, clients)

	renderer := pipeline.NewRenderer(os.Stdout)
	reports := make([]*model.Report, 0, len(results))
	for _, res := range results {
		if res.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.Client, res.Error)
			continue
		}
		reports = append(reports, res.Report)
		renderer.RenderSummary(res.Report)
	}

	if outJSON != "" {
		if err := renderer.RenderJSON(reports, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outCSV != "" {
		if err := renderer.RenderCSV(reports, outCSV); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote CSV: %s\n", outCSV)
		}
	}

	return nil
}

// buildConfig layers the scan flags over the defaults.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = httpTimeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.ProxyURL = proxyURL
	cfg.Concurrency.ClientWorkers = concurrency
	cfg.Concurrency.SiteWorkers = siteWorkers
	cfg.RateLimiting.RequestsPerSecond = rps
	cfg.RateLimiting.Burst = burst
	cfg.Robots.Enabled = respectRobots
	cfg.Output.Verbose = verbose
	cfg.Output.JSONPath = outJSON
	cfg.Output.CSVPath = outCSV

	if llmEnabled {
		cfg.LLM.Enabled = true
		cfg.LLM.Model = llmModel
		cfg.LLM.BaseURL = llmBaseURL
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg
}

func filterClients(clients []model.Client, name string) []model.Client {
	var out []model.Client
	for _, c := range clients {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
