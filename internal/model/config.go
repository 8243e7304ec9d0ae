package model

import "time"

// Config captures all tunables for a scan run.
type Config struct {
	HTTP         HTTPConfig        `yaml:"http"`
	Retry        RetryConfig       `yaml:"retry"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting"`
	Robots       RobotsConfig      `yaml:"robots"`
	Output       OutputConfig      `yaml:"output"`
	LLM          LLMConfig         `yaml:"llm"`
}

// HTTPConfig controls the fetcher. Listing sites alter markup or refuse
// requests for unrecognized clients, so the default identity is a fixed
// desktop browser with an English language preference.
type HTTPConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	AcceptLanguage string        `yaml:"accept_language"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	ProxyURL       string        `yaml:"proxy_url"`
}

// RetryConfig controls the retry wrapper around each fetch.
type RetryConfig struct {
	Attempts  int           `yaml:"attempts"`
	BaseDelay time.Duration `yaml:"base_delay"`
	MaxDelay  time.Duration `yaml:"max_delay"`
}

// ConcurrencyConfig controls worker counts. ClientWorkers parallelizes whole
// clients; SiteWorkers bounds concurrent site scans within one client.
type ConcurrencyConfig struct {
	ClientWorkers int `yaml:"client_workers"`
	SiteWorkers   int `yaml:"site_workers"`
}

// RateLimitConfig controls the per-host rate limiter applied before fetches.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// RobotsConfig controls the optional robots.txt gate. Disabled by default:
// the engine's contract is to fetch exactly the URLs it is given.
type RobotsConfig struct {
	Enabled  bool          `yaml:"enabled"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose  bool   `yaml:"verbose"`
	JSONPath string `yaml:"json_path"`
	CSVPath  string `yaml:"csv_path"`
}

// LLMConfig controls the optional remediation summary. The summary never
// affects match results.
type LLMConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DefaultUserAgent is the fixed desktop-browser identity sent with every
// fetch.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:        20 * time.Second,
			UserAgent:      DefaultUserAgent,
			AcceptLanguage: "en-US,en;q=0.9",
			MaxBodyBytes:   4_000_000,
		},
		Retry: RetryConfig{
			Attempts:  2,
			BaseDelay: 1 * time.Second,
			MaxDelay:  4 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			ClientWorkers: 4,
			SiteWorkers:   len(AllSites()),
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             3,
		},
		Robots: RobotsConfig{
			Enabled:  false,
			CacheTTL: 1 * time.Hour,
		},
		Output: OutputConfig{},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			MaxTokens: 600,
			Timeout:   30 * time.Second,
		},
	}
}
