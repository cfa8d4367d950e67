// Package cli defines the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"gdoscore/config"
	"gdoscore/internal/analysis"
	"gdoscore/internal/auth"
	"gdoscore/internal/browser"
	"gdoscore/internal/normalizer"
	"gdoscore/internal/scraper"
	"gdoscore/internal/storage"
	"gdoscore/logger"
)

type scrapeFlags struct {
	output   string
	headless string
	debug    bool
	filename string
	years    string
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		logger.ForComponent("cli").Error().Err(err).Msg("Command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	flags := &scrapeFlags{}

	root := &cobra.Command{
		Use:           "gdoscore",
		Short:         "Scrape golf scores from the GDO score site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd.Context(), flags)
		},
	}
	root.Flags().StringVarP(&flags.output, "output", "o", "", "output directory (default from GDO_OUTPUT_DIR)")
	root.Flags().StringVar(&flags.headless, "headless", "", "run the browser headless, true or false")
	root.Flags().BoolVarP(&flags.debug, "debug", "d", false, "save screenshots, page dumps, and a step trace")
	root.Flags().StringVarP(&flags.filename, "filename", "f", "", "output filename (default scores_<timestamp>.json)")
	root.Flags().StringVarP(&flags.years, "year", "y", "", "comma separated years to keep, e.g. 2023,2024")

	root.AddCommand(newAnalyzeCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Report statistics over saved score files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := analysis.LoadRounds(args...)
			if err != nil {
				return err
			}
			normalizer.Load(dataDir).ApplyAll(records)
			analysis.Render(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "directory holding the name mapping files")
	return cmd
}

func runScrape(ctx context.Context, flags *scrapeFlags) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := buildConfig(flags)
	if err != nil {
		return err
	}

	years, err := parseYears(flags.years)
	if err != nil {
		return err
	}

	session, err := browser.NewSession(&cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	gw := browser.NewGateway(session, &cfg)
	if err := auth.Login(gw, &cfg); err != nil {
		return err
	}

	return scrapeAndSave(ctx, &cfg, gw, years, flags.filename)
}

// scrapeAndSave crawls every round and persists exactly what was
// scraped. The saved file mirrors the site; name normalization happens
// at analysis time only.
func scrapeAndSave(ctx context.Context, cfg *config.Config, loader scraper.PageLoader, years []int, filename string) error {
	log := logger.ForComponent("cli")

	records, crawlErr := scraper.New(loader, cfg).Run(ctx, years)

	if len(records) == 0 {
		if crawlErr != nil {
			return crawlErr
		}
		log.Warn().Msg("No rounds scraped, nothing to save")
		return nil
	}

	path, err := storage.Save(records, cfg.OutputDir, filename)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Int("records", len(records)).Msg("Saved scores")

	// An aborted crawl still saves what it collected
	return crawlErr
}

func buildConfig(flags *scrapeFlags) (config.Config, error) {
	var opts []config.Option
	if flags.output != "" {
		opts = append(opts, config.WithOutputDir(flags.output))
	}
	if flags.headless != "" {
		headless, err := strconv.ParseBool(flags.headless)
		if err != nil {
			return config.Config{}, fmt.Errorf("invalid --headless value %q", flags.headless)
		}
		opts = append(opts, config.WithHeadless(headless))
	}
	if flags.debug {
		opts = append(opts, config.WithDebug())
	}

	cfg := config.LoadConfig().With(opts...)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// parseYears reads the comma separated --year value
func parseYears(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var years []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}
