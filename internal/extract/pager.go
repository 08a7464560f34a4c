package extract

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
)

const pagerLinkSelector = "ul.pager > li.pager-item > a"

// Fetcher returns the HTML body for a URL
type Fetcher interface {
	FetchHTML(ctx context.Context, rawURL string) (string, error)
}

// FetchDocument fetches and parses a single page
func FetchDocument(ctx context.Context, f Fetcher, rawURL string) (*Document, error) {
	body, err := f.FetchHTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return ParseDocument(body)
}

// Page is one listing page produced by Walker
type Page struct {
	Num int
	URL string
	Doc *Document
}

// Walker follows the numbered pager of a listing
type Walker struct {
	fetcher Fetcher
}

// NewWalker creates a Walker that fetches pages with f
func NewWalker(f Fetcher) *Walker {
	return &Walker{fetcher: f}
}

// Walk yields startURL and every following page until the pager has no link
// for the next page number. An error is yielded at most once and ends the walk.
func (w *Walker) Walk(ctx context.Context, startURL string) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		pageURL := startURL
		pageNum := 1

		for {
			doc, err := FetchDocument(ctx, w.fetcher, pageURL)
			if err != nil {
				yield(Page{}, fmt.Errorf("page %d (%s): %w", pageNum, pageURL, err))
				return
			}
			if !yield(Page{Num: pageNum, URL: pageURL, Doc: doc}, nil) {
				return
			}

			pageNum++
			next, err := NextPageURL(doc, pageURL, pageNum)
			if err != nil {
				yield(Page{}, err)
				return
			}
			if next == "" {
				return
			}
			pageURL = next
		}
	}
}

// NextPageURL finds the pager link whose text is pageNum and resolves it
// against pageURL. It returns "" when there is no such link.
func NextPageURL(doc *Document, pageURL string, pageNum int) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url %q: %w", pageURL, err)
	}

	want := strconv.Itoa(pageNum)
	var links []string
	for _, a := range doc.Find(pagerLinkSelector) {
		if strings.TrimSpace(a.Text()) != want {
			continue
		}
		link, err := resolveHref(base, a)
		if err != nil {
			return "", fmt.Errorf("pager link on %s: %w", pageURL, err)
		}
		links = append(links, link)
	}

	switch len(links) {
	case 0:
		return "", nil
	case 1:
		return links[0], nil
	default:
		return "", fmt.Errorf("%w: %d links to page %d on %s", ErrAmbiguousPagination, len(links), pageNum, pageURL)
	}
}
