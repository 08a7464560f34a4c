package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/egmembers/internal/cache"
	"github.com/ppiankov/egmembers/internal/model"
	"github.com/ppiankov/egmembers/internal/util"
)

// ErrDisallowedByRobots is returned for URLs excluded by the site's robots.txt
var ErrDisallowedByRobots = errors.New("disallowed by robots.txt")

// ErrBodyTooLarge is returned when a response is longer than http.max_body_bytes
var ErrBodyTooLarge = errors.New("response body too large")

// Fetcher fetches HTML pages through the page cache
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache
	robots     *util.RobotsChecker // nil unless robots.txt is respected
}

// NewFetcher creates a Fetcher. A nil cache disables caching.
func NewFetcher(cfg model.HTTPConfig, c cache.Cache) *Fetcher {
	if c == nil {
		c = cache.Noop{}
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		cache:      c,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, client)
	}
	return f
}

// FetchMeta contains HTTP metadata of a network fetch
type FetchMeta struct {
	StatusCode   int
	ContentType  string
	LastModified string
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML     string
	FinalURL string
	Cached   bool
	Meta     FetchMeta
}

// Fetch returns the page at rawURL, from the cache when present
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	key := cache.CacheKey(rawURL)
	if body, found := f.cache.Get(key); found {
		return &FetchResult{
			HTML:     string(body),
			FinalURL: rawURL,
			Cached:   true,
		}, nil
	}

	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrDisallowedByRobots, rawURL)
		}
	}

	result, err := f.fetchRemote(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(key, []byte(result.HTML), 0); err != nil {
		return nil, fmt.Errorf("cache page: %w", err)
	}

	return result, nil
}

// FetchHTML returns only the body of the page at rawURL
func (f *Fetcher) FetchHTML(ctx context.Context, rawURL string) (string, error) {
	result, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ar,en;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	// a cut page would lose its pager and be cached forever
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, rawURL, f.maxBytes)
	}

	return &FetchResult{
		HTML:     string(data),
		FinalURL: resp.Request.URL.String(),
		Meta: FetchMeta{
			StatusCode:   resp.StatusCode,
			ContentType:  resp.Header.Get("Content-Type"),
			LastModified: resp.Header.Get("Last-Modified"),
		},
	}, nil
}

// NewPageCache builds the page cache described by cfg, or nil when disabled
func NewPageCache(cfg model.CacheConfig) cache.Cache {
	if !cfg.Enabled {
		return nil
	}
	memoryTTL := cfg.MemoryTTL
	if memoryTTL <= 0 {
		memoryTTL = 30 * time.Minute
	}
	return cache.NewLayeredCache(memoryTTL, cfg.Dir, cfg.DiskTTL)
}
