package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/ppiankov/egmembers/internal/model"
	"github.com/ppiankov/egmembers/internal/pipeline"
	"github.com/ppiankov/egmembers/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var noCache bool

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [parliament-id...]",
	Short: "Scrape every member of one or more parliaments into the output sink",
	Long: `Scrape walks the paginated member search of each parliament, collects the
unique member pages and upserts one record per member into the sink.

Without arguments the parliaments from the config are scraped (default: the
latest parliament, 3750). Any extraction failure aborts the run; records
already written stay in the sink.

Example:
  egmembers scrape
  egmembers scrape 3750 --output members.sqlite
  egmembers scrape 3750 --format jsonl --output - --workers 4`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: bindFlags,
	RunE:    runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	addFetchFlags(scrapeCmd)

	defaults := model.DefaultConfig()
	scrapeCmd.Flags().String("output", defaults.Output.Path, "output path (\"-\" for stdout with --format jsonl)")
	scrapeCmd.Flags().String("format", defaults.Output.Format, "output format (sqlite, jsonl)")
}

// addFetchFlags registers the flags shared by commands that fetch pages
func addFetchFlags(cmd *cobra.Command) {
	defaults := model.DefaultConfig()

	cmd.Flags().String("base-url", defaults.Source.BaseURL, "records site base URL")
	cmd.Flags().Duration("timeout", defaults.HTTP.Timeout, "per-request HTTP timeout")
	cmd.Flags().String("ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	cmd.Flags().Bool("respect-robots", defaults.HTTP.RespectRobots, "refuse URLs disallowed by robots.txt")
	cmd.Flags().String("cache-dir", defaults.Cache.Dir, "page cache directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	cmd.Flags().Int("workers", defaults.Concurrency.Workers, "concurrent member page fetches")
}

// flagKeys maps command flags to config keys
var flagKeys = map[string]string{
	"base-url":       "source.base_url",
	"timeout":        "http.timeout",
	"ua":             "http.user_agent",
	"respect-robots": "http.respect_robots",
	"cache-dir":      "cache.dir",
	"workers":        "concurrency.workers",
	"output":         "output.path",
	"format":         "output.format",
}

// bindFlags binds the running command's flags to viper. Several commands
// share flag names and viper keeps one flag per key, so binding happens
// at run time rather than in init.
func bindFlags(cmd *cobra.Command, args []string) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// runtimeConfig loads the config and applies flags viper does not track
func runtimeConfig() (*model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := runtimeConfig()
	if err != nil {
		return err
	}

	ids := cfg.Source.Parliaments
	if len(args) > 0 {
		ids = make([]int, 0, len(args))
		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid parliament id %q", arg)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return errors.New("no parliament ids to scrape")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(cfg)

	sink, err := storage.Open(cfg.Output)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Error("close output", "err", err)
		}
	}()

	fetcher := pipeline.NewFetcher(cfg.HTTP, pipeline.NewPageCache(cfg.Cache))
	p := pipeline.NewPipeline(cfg, fetcher, sink, logger)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  egmembers scrape\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Source:       %s\n", cfg.Source.BaseURL)
	fmt.Fprintf(os.Stderr, "  Parliaments:  %v\n", ids)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Cache:        %v (%s)\n", cfg.Cache.Enabled, cfg.Cache.Dir)
	fmt.Fprintf(os.Stderr, "  Output:       %s (%s)\n", cfg.Output.Path, cfg.Output.Format)
	fmt.Fprintf(os.Stderr, "\n")

	start := time.Now()
	total := 0
	for _, id := range ids {
		summary, err := p.Run(ctx, id)
		total += summary.Records
		if err != nil {
			return fmt.Errorf("parliament %d: %w", id, err)
		}
		fmt.Fprintf(os.Stderr, "✓ Parliament %d: %d pages, %d members, %d records\n",
			id, summary.Pages, summary.MemberURLs, summary.Records)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d records in %v\n", total, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
