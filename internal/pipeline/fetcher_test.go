package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/egmembers/internal/cache"
	"github.com/ppiankov/egmembers/internal/extract"
	"github.com/ppiankov/egmembers/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "egmembers-test/0.1",
		MaxBodyBytes: 1 << 20,
	}
}

func TestFetcher_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "egmembers-test/0.1" {
			t.Errorf("unexpected User-Agent %q", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(), nil)
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.HTML != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if result.Cached {
		t.Error("Expected network fetch, got cached result")
	}
	if result.Meta.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", result.Meta.StatusCode)
	}
}

func TestFetcher_CachesByURL(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = fmt.Fprintf(w, "<html>%s</html>", r.URL.Query().Get("page"))
	}))
	defer server.Close()

	dir := t.TempDir()
	fetcher := NewFetcher(testHTTPConfig(), cache.NewDiskCache(dir, 0))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		html, err := fetcher.FetchHTML(ctx, server.URL+"/search?page=1")
		if err != nil {
			t.Fatalf("FetchHTML failed: %v", err)
		}
		if html != "<html>1</html>" {
			t.Errorf("Unexpected HTML: %s", html)
		}
	}
	if _, err := fetcher.FetchHTML(ctx, server.URL+"/search?page=2"); err != nil {
		t.Fatalf("FetchHTML failed: %v", err)
	}

	if hits.Load() != 2 {
		t.Errorf("Expected 2 network hits, got %d", hits.Load())
	}

	// A fresh fetcher over the same directory reads from disk
	again := NewFetcher(testHTTPConfig(), cache.NewDiskCache(dir, 0))
	result, err := again.Fetch(ctx, server.URL+"/search?page=1")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !result.Cached {
		t.Error("Expected cached result from disk")
	}
}

func TestFetcher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := cache.NewMemoryCache(time.Minute, time.Minute)
	fetcher := NewFetcher(testHTTPConfig(), c)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	if got := err.Error(); got != "unexpected status: 404 Not Found" {
		t.Errorf("Unexpected error: %s", got)
	}
	if c.Len() != 0 {
		t.Error("Expected failed fetch not to be cached")
	}
}

func TestFetcher_MaxBodyBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "0123456789")
	}))
	defer server.Close()

	tests := []struct {
		name    string
		max     int64
		wantErr bool
	}{
		{"under cap", 11, false},
		{"exactly at cap", 10, false},
		{"over cap", 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testHTTPConfig()
			cfg.MaxBodyBytes = tt.max
			c := cache.NewMemoryCache(time.Minute, time.Minute)

			html, err := NewFetcher(cfg, c).FetchHTML(context.Background(), server.URL)
			if tt.wantErr {
				if !errors.Is(err, ErrBodyTooLarge) {
					t.Fatalf("Expected ErrBodyTooLarge, got %v (body %q)", err, html)
				}
				if c.Len() != 0 {
					t.Error("Expected oversized page not to be cached")
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchHTML failed: %v", err)
			}
			if html != "0123456789" {
				t.Errorf("Expected full body, got %q", html)
			}
		})
	}
}

func TestFetcher_OversizedPageStopsWalk(t *testing.T) {
	pageOne := `<html><body>` + strings.Repeat("<p>filler</p>", 20) +
		`<ul class="pager"><li class="pager-item"><a href="/list?page=1">2</a></li></ul></body></html>`

	mux := http.NewServeMux()
	mux.HandleFunc("/list", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			_, _ = fmt.Fprint(w, `<html><body></body></html>`)
			return
		}
		_, _ = fmt.Fprint(w, pageOne)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 100

	pages := 0
	var walkErr error
	for _, err := range extract.NewWalker(NewFetcher(cfg, nil)).Walk(context.Background(), server.URL+"/list") {
		if err != nil {
			walkErr = err
			break
		}
		pages++
	}

	if !errors.Is(walkErr, ErrBodyTooLarge) {
		t.Fatalf("Expected walk to fail with ErrBodyTooLarge, got %v after %d pages", walkErr, pages)
	}
	if pages != 0 {
		t.Errorf("Expected no pages before the failure, got %d", pages)
	}
}

func TestFetcher_RespectsRobots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
			return
		}
		_, _ = fmt.Fprint(w, "<html>ok</html>")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.RespectRobots = true
	fetcher := NewFetcher(cfg, nil)
	ctx := context.Background()

	if _, err := fetcher.Fetch(ctx, server.URL+"/members/mem-1"); err != nil {
		t.Fatalf("Expected allowed fetch, got %v", err)
	}

	_, err := fetcher.Fetch(ctx, server.URL+"/private/page")
	if !errors.Is(err, ErrDisallowedByRobots) {
		t.Errorf("Expected ErrDisallowedByRobots, got %v", err)
	}
}

func TestNewPageCache(t *testing.T) {
	if c := NewPageCache(model.CacheConfig{Enabled: false}); c != nil {
		t.Errorf("Expected nil cache when disabled, got %T", c)
	}
	if _, ok := NewPageCache(model.CacheConfig{Enabled: true, Dir: t.TempDir()}).(*cache.LayeredCache); !ok {
		t.Error("Expected layered cache when enabled")
	}
}
