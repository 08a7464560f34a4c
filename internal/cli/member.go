package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/ppiankov/egmembers/internal/pipeline"
	"github.com/ppiankov/egmembers/internal/worker"
	"github.com/spf13/cobra"
)

var memberURLsFile string

// memberCmd represents the member command
var memberCmd = &cobra.Command{
	Use:   "member [url...]",
	Short: "Scrape individual member pages and print their records",
	Long: `Member fetches member detail pages directly and prints each record as JSON
on stdout. Nothing is written to the output sink. Useful for checking how a
single page is read.

Example:
  egmembers member http://egpw.org/members/mem-4821
  egmembers member --file urls.txt`,
	PreRunE: bindFlags,
	RunE:    runMember,
}

func init() {
	rootCmd.AddCommand(memberCmd)
	addFetchFlags(memberCmd)
	memberCmd.Flags().StringVar(&memberURLsFile, "file", "", "read member URLs from file (one per line)")
}

func runMember(cmd *cobra.Command, args []string) error {
	cfg, err := runtimeConfig()
	if err != nil {
		return err
	}

	urls := args
	if memberURLsFile != "" {
		fromFile, err := worker.ReadURLsFromFile(memberURLsFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return errors.New("no member URLs given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fetcher := pipeline.NewFetcher(cfg.HTTP, pipeline.NewPageCache(cfg.Cache))
	p := pipeline.NewPipeline(cfg, fetcher, nil, newLogger(cfg))

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return worker.Run(ctx, cfg.Concurrency.Workers, worker.MemberJobs(p, urls), func(r worker.Result) error {
		res := r.(*worker.MemberResult)
		if res.Error != nil {
			return res.Error
		}
		if err := enc.Encode(res.Record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		return nil
	})
}
