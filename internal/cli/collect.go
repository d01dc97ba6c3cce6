package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/langid/internal/collect"
)

func (c *CLI) newCollectCommand() *cobra.Command {
	var (
		seedFile  string
		output    string
		timeout   int
		delay     int
		userAgent string
		maxPages  int
		minChars  int
		maxBytes  int
		render    bool
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Fetch seed URLs into a labelled evaluation corpus",
		Example: `  langid collect --seed seeds.jsonl --output crawl.tsv
  langid collect --seed seeds.jsonl --output crawl.tsv --max 100 --delay 500
  langid collect --seed spa-seeds.jsonl --output crawl.tsv --render
  langid evaluate crawl.tsv --domains`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := collect.LoadSeeds(seedFile)
			if err != nil {
				return fmt.Errorf("load seeds: %w", err)
			}
			slog.Info("Loaded seeds", "count", len(seeds))

			seen, err := collect.Seen(output)
			if err != nil {
				return fmt.Errorf("read existing corpus: %w", err)
			}
			if len(seen) > 0 {
				slog.Info("Resuming", "collected", len(seen))
			}

			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			collector := &collect.Collector{
				Client:    collect.NewHTTPClient(time.Duration(timeout) * time.Second),
				UserAgent: userAgent,
				Delay:     time.Duration(delay) * time.Millisecond,
				MinChars:  minChars,
				MaxBytes:  maxBytes,
				MaxPages:  maxPages,
			}
			if render {
				r, err := collect.NewRenderer(cmd.Context(), userAgent, time.Duration(timeout)*time.Second)
				if err != nil {
					return err
				}
				defer r.Close()
				collector.Renderer = r
				slog.Debug("Rendering pages in headless browser")
			}
			n, err := collector.Collect(cmd.Context(), seeds, seen, f)
			if err != nil {
				return err
			}
			slog.Info("Collection complete", "collected", n, "output", output)
			return f.Close()
		},
	}

	cmd.Flags().StringVar(&seedFile, "seed", "", "Path to seed file (JSONL)")
	cmd.Flags().StringVar(&output, "output", "corpus.tsv", "Corpus file to append to")
	cmd.Flags().IntVar(&timeout, "timeout", 30, "HTTP timeout in seconds")
	cmd.Flags().IntVar(&delay, "delay", 1000, "Delay between requests in ms")
	cmd.Flags().StringVar(&userAgent, "user-agent", "Mozilla/5.0 (compatible; langid-collect/1.0)", "User-Agent header")
	cmd.Flags().IntVar(&maxPages, "max", 0, "Max pages to collect (0=unlimited)")
	cmd.Flags().IntVar(&minChars, "min-chars", 200, "Skip pages with less visible text")
	cmd.Flags().IntVar(&maxBytes, "max-bytes", 10000, "Truncate visible text to this many bytes (0=unlimited)")
	cmd.Flags().BoolVar(&render, "render", false, "Render pages in headless Chrome to include script-generated text")
	_ = cmd.MarkFlagRequired("seed")
	return cmd
}
