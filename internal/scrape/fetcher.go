package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ppiankov/listingcheck/internal/model"
)

// FetchError is a transport or HTTP failure for one URL. It is the only
// retryable error class: everything else is a programming error and surfaces
// immediately.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Fetcher retrieves raw markup over HTTP. Every call re-fetches; the fetcher
// holds no cross-call state beyond the shared transport.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
	maxBytes       int64
	policy         Policy
}

// NewFetcher builds a fetcher from HTTP and retry configuration. Redirects
// are followed transparently.
func NewFetcher(httpCfg model.HTTPConfig, retryCfg model.RetryConfig) (*Fetcher, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if httpCfg.ProxyURL != "" {
		proxyURL, err := url.Parse(httpCfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	userAgent := httpCfg.UserAgent
	if userAgent == "" {
		userAgent = model.DefaultUserAgent
	}
	acceptLanguage := httpCfg.AcceptLanguage
	if acceptLanguage == "" {
		acceptLanguage = "en-US,en;q=0.9"
	}
	maxBytes := httpCfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 4_000_000
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   httpCfg.Timeout,
			Transport: transport,
		},
		userAgent:      userAgent,
		acceptLanguage: acceptLanguage,
		maxBytes:       maxBytes,
		policy: Policy{
			Attempts:  retryCfg.Attempts,
			BaseDelay: retryCfg.BaseDelay,
			MaxDelay:  retryCfg.MaxDelay,
		},
	}, nil
}

// Fetch retrieves the markup at rawURL, retrying on FetchError per the
// configured policy.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	var body string
	err := Retry(ctx, f.policy, IsFetchError, func(ctx context.Context) error {
		var err error
		body, err = f.fetchOnce(ctx, rawURL)
		return err
	})
	return body, err
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", f.acceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}
