package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/fortuna/mystats/internal/config"
)

const (
	// UserAgent for sheet requests
	UserAgent = "Mozilla/5.0 (compatible; mystats/1.0; +https://mystats.pro)"

	maxBodyBytes = 16 << 20
)

// ErrNoSource is returned for an empty or "n/a" source reference.
var ErrNoSource = errors.New("ingest: no source")

// IsNoSource reports whether a source reference means "nothing to fetch".
func IsNoSource(source string) bool {
	s := strings.TrimSpace(source)
	return s == "" || strings.EqualFold(s, "n/a")
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// LocalSources returns the sources that are files on disk.
func LocalSources(sources ...string) []string {
	var local []string
	for _, s := range sources {
		if IsNoSource(s) || isRemote(s) {
			continue
		}
		local = append(local, strings.TrimSpace(s))
	}
	return local
}

// Cache stores fetched text keyed by source.
type Cache interface {
	Lookup(ctx context.Context, source string) (text string, ok bool, err error)
	Store(ctx context.Context, source, text string) error
}

// Getter retrieves the body of a remote URL.
type Getter interface {
	Get(ctx context.Context, url string) (string, error)
}

// Fetcher resolves a source reference to its text. Local paths are read from
// disk; URLs go through the rate limiter and, when configured, the cache.
type Fetcher struct {
	getter  Getter
	limiter *rate.Limiter
	cache   Cache
}

// NewFetcher creates a fetcher allowing rps remote requests per second. cache may be nil.
func NewFetcher(getter Getter, rps float64, cache Cache) *Fetcher {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Fetcher{
		getter:  getter,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		cache:   cache,
	}
}

// Fetch returns the text behind source.
func (f *Fetcher) Fetch(ctx context.Context, source string) (string, error) {
	if IsNoSource(source) {
		return "", ErrNoSource
	}
	source = strings.TrimSpace(source)

	if !isRemote(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", source, err)
		}
		return string(data), nil
	}

	if f.cache != nil {
		text, ok, err := f.cache.Lookup(ctx, source)
		if err != nil {
			log.Printf("[sheets] ⚠️  cache lookup failed for %s: %v", source, err)
		} else if ok {
			return text, nil
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	text, err := f.getter.Get(ctx, source)
	if err != nil {
		return "", err
	}

	if f.cache != nil {
		if err := f.cache.Store(ctx, source, text); err != nil {
			log.Printf("[sheets] ⚠️  cache store failed for %s: %v", source, err)
		}
	}
	return text, nil
}

// HTTPGetter fetches published sheets over plain HTTP.
type HTTPGetter struct {
	client *http.Client
	accept string
}

// NewHTTPGetter creates a getter with the given request timeout. accept sets
// the Accept header, e.g. "text/csv" or "text/html".
func NewHTTPGetter(timeout time.Duration, accept string) *HTTPGetter {
	return &HTTPGetter{
		client: &http.Client{Timeout: timeout},
		accept: accept,
	}
}

// Get implements Getter.
func (g *HTTPGetter) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	if g.accept != "" {
		req.Header.Set("Accept", g.accept)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), nil
}

// NewFetcherForMode builds a fetcher for a configured fetch mode. The returned
// close function releases any browser the mode started.
func NewFetcherForMode(mode string, rps float64, timeout time.Duration, cache Cache) (*Fetcher, func()) {
	switch mode {
	case config.FetchBrowser:
		b := NewBrowserGetter(timeout)
		return NewFetcher(b, rps, cache), b.Close
	case config.FetchHTML:
		return NewFetcher(NewHTTPGetter(timeout, "text/html"), rps, cache), func() {}
	default:
		return NewFetcher(NewHTTPGetter(timeout, "text/csv"), rps, cache), func() {}
	}
}
