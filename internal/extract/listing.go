package extract

import (
	"fmt"
	"net/url"
)

const memberLinkSelector = "div.members ul > li > h3 > a"

// MemberLinks returns the absolute member detail URLs listed on a roster page.
// Duplicates are kept; the caller owns deduplication.
func MemberLinks(doc *Document, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url %q: %w", pageURL, err)
	}

	anchors := doc.Find(memberLinkSelector)
	links := make([]string, 0, len(anchors))
	for _, a := range anchors {
		link, err := resolveHref(base, a)
		if err != nil {
			return nil, fmt.Errorf("member link on %s: %w", pageURL, err)
		}
		links = append(links, link)
	}
	return links, nil
}
