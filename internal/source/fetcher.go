// Package source loads the achievement document from disk or over HTTP.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/logging"
	"github.com/epic-tm/completionist/internal/version"
)

const (
	// DefaultLocation is the document looked up next to the working directory.
	DefaultLocation = "achievements.json"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 15 * time.Second
)

// Fetcher reads achievement documents.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a document fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultTimeout,
		userAgent: "completionist/" + version.Version,
	}

	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Result contains the result of a fetch.
type Result struct {
	Data      []byte
	Location  string
	FetchedAt time.Time
	Duration  time.Duration
	Err       error
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Fetch reads location: http(s) URLs with GET, anything else from disk.
func (f *Fetcher) Fetch(ctx context.Context, location string) Result {
	start := time.Now()
	result := Result{Location: location, FetchedAt: start}

	if IsRemote(location) {
		result.Data, result.Err = f.fetchHTTP(ctx, location)
	} else {
		result.Data, result.Err = os.ReadFile(location)
		if result.Err != nil {
			result.Err = fmt.Errorf("read %s: %w", location, result.Err)
		}
	}
	result.Duration = time.Since(start)
	return result
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status code: %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// LoadDocument fetches and normalises the document at location. Any failure
// falls back to the built-in demo document and reports false.
func LoadDocument(ctx context.Context, f *Fetcher, location string, shape achievements.Shape, log *logging.Logger) (*achievements.Document, bool) {
	if location == "" {
		log.Info("no data document configured, using demo data")
		return achievements.Default(shape), false
	}

	res := f.Fetch(ctx, location)
	if res.Err != nil {
		log.Warn("no valid achievements document, using demo data: %v", res.Err)
		return achievements.Default(shape), false
	}

	doc, err := achievements.Parse(res.Data, shape)
	if err != nil {
		log.Warn("no valid achievements document, using demo data: %v", err)
		return achievements.Default(shape), false
	}

	log.Debug("loaded %s in %v (%d bytes)", location, res.Duration, len(res.Data))
	return doc, true
}
