package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/egmembers/internal/model"
)

// MemberScraper fetches and extracts a single member page
type MemberScraper interface {
	ScrapeMember(ctx context.Context, memberURL string) (model.MemberRecord, error)
}

// MemberJob scrapes one member URL
type MemberJob struct {
	URL     string
	Scraper MemberScraper
}

// Execute executes the member job
func (j *MemberJob) Execute(ctx context.Context) Result {
	record, err := j.Scraper.ScrapeMember(ctx, j.URL)
	if err != nil {
		return &MemberResult{URL: j.URL, Error: fmt.Errorf("member %s: %w", j.URL, err)}
	}
	return &MemberResult{URL: j.URL, Record: record}
}

// MemberResult represents the result of a member job
type MemberResult struct {
	URL    string
	Record model.MemberRecord
	Error  error
}

// GetError returns the error from the member result
func (r *MemberResult) GetError() error {
	return r.Error
}

// MemberJobs wraps each URL in a MemberJob
func MemberJobs(scraper MemberScraper, urls []string) []Job {
	jobs := make([]Job, len(urls))
	for i, u := range urls {
		jobs[i] = &MemberJob{URL: u, Scraper: scraper}
	}
	return jobs
}

// ReadURLsFromFile reads member URLs from a file (one per line)
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
