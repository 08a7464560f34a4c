package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppiankov/egmembers/internal/extract"
	"github.com/ppiankov/egmembers/internal/model"
	"github.com/ppiankov/egmembers/internal/storage"
	"github.com/ppiankov/egmembers/internal/worker"
)

// Pipeline crawls a parliament's member roster and upserts one record per member
type Pipeline struct {
	fetcher   extract.Fetcher
	walker    *extract.Walker
	extractor *extract.MemberExtractor
	sink      storage.Sink
	baseURL   string
	workers   int
	logger    *slog.Logger
}

// Summary describes a finished run
type Summary struct {
	ParliamentID int
	Pages        int
	MemberURLs   int
	Records      int
}

// NewPipeline wires a pipeline from configuration
func NewPipeline(cfg *model.Config, fetcher extract.Fetcher, sink storage.Sink, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		fetcher:   fetcher,
		walker:    extract.NewWalker(fetcher),
		extractor: extract.NewMemberExtractor(extract.NewSessionTable(cfg.Sessions), logger),
		sink:      sink,
		baseURL:   strings.TrimSuffix(cfg.Source.BaseURL, "/"),
		workers:   cfg.Concurrency.Workers,
		logger:    logger,
	}
}

// StartURL returns the first roster page of a parliament
func (p *Pipeline) StartURL(parliamentID int) string {
	return fmt.Sprintf("%s/search?title=&field_chamber_tid=All&field_session_nid=%d", p.baseURL, parliamentID)
}

// Run crawls every roster page of a parliament, then scrapes each unique
// member page into the sink. The first failure aborts the run; records
// already upserted are kept.
func (p *Pipeline) Run(ctx context.Context, parliamentID int) (Summary, error) {
	summary := Summary{ParliamentID: parliamentID}

	urls, pages, err := p.MemberURLs(ctx, p.StartURL(parliamentID))
	summary.Pages = pages
	summary.MemberURLs = len(urls)
	if err != nil {
		return summary, err
	}

	p.logger.Info("collected member urls", "parliament", parliamentID, "pages", pages, "members", len(urls))

	err = worker.Run(ctx, p.workers, worker.MemberJobs(p, urls), func(r worker.Result) error {
		res := r.(*worker.MemberResult)
		if res.Error != nil {
			return res.Error
		}
		if err := p.sink.Upsert(ctx, res.Record); err != nil {
			return err
		}
		summary.Records++
		p.logger.Debug("stored member", "id", res.Record.ID, "name", res.Record.Name)
		return nil
	})
	return summary, err
}

// MemberURLs walks the roster from startURL and returns the unique member
// URLs in first-seen order, with the number of pages read
func (p *Pipeline) MemberURLs(ctx context.Context, startURL string) ([]string, int, error) {
	seen := make(map[string]bool)
	var urls []string
	pages := 0

	for page, err := range p.walker.Walk(ctx, startURL) {
		if err != nil {
			return urls, pages, err
		}
		pages++
		p.logger.Info("considering url", "url", page.URL, "page", page.Num)

		links, err := extract.MemberLinks(page.Doc, page.URL)
		if err != nil {
			return urls, pages, err
		}
		for _, link := range links {
			if !seen[link] {
				seen[link] = true
				urls = append(urls, link)
			}
		}
	}

	return urls, pages, nil
}

// ScrapeMember fetches one member detail page and extracts its record
func (p *Pipeline) ScrapeMember(ctx context.Context, memberURL string) (model.MemberRecord, error) {
	p.logger.Debug("fetching member", "url", memberURL)

	doc, err := extract.FetchDocument(ctx, p.fetcher, memberURL)
	if err != nil {
		return model.MemberRecord{}, err
	}
	return p.extractor.Extract(doc, memberURL)
}
