package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page queried with CSS selectors
type Document struct {
	root *goquery.Selection
}

// Element is a single element inside a Document
type Element struct {
	sel *goquery.Selection
}

// ParseDocument parses HTML content into a queryable Document
func ParseDocument(htmlContent string) (*Document, error) {
	node, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: goquery.NewDocumentFromNode(node).Selection}, nil
}

// Find returns every element matching selector, in document order
func (d *Document) Find(selector string) []Element {
	return elements(d.root.Find(selector))
}

// Find returns every descendant of e matching selector, in document order
func (e Element) Find(selector string) []Element {
	return elements(e.sel.Find(selector))
}

// Text returns the text content of the element, untrimmed
func (e Element) Text() string {
	return e.sel.Text()
}

// Attr returns the named attribute and whether it was present
func (e Element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func elements(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Element{sel: s})
	})
	return out
}

// resolveHref resolves the href of an anchor against base
func resolveHref(base *url.URL, a Element) (string, error) {
	href, ok := a.Attr("href")
	if !ok {
		return "", fmt.Errorf("anchor %q has no href", strings.TrimSpace(a.Text()))
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parse href %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}
