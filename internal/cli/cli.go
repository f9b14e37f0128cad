package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhartmann/frankenevents/internal/calendar"
	"github.com/mhartmann/frankenevents/internal/config"
	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/filter"
	"github.com/mhartmann/frankenevents/internal/logger"
	"github.com/mhartmann/frankenevents/internal/pipeline"
	"github.com/mhartmann/frankenevents/internal/resolver"
	"github.com/mhartmann/frankenevents/internal/storage"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

var (
	flagConfig  string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command. Running it without a subcommand
// performs a scrape.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frankenevents",
		Short: "Scrape regional event listings into a review queue",
		Long: `Scrapes configured event sources (RSS/Atom feeds, HTML listings,
Frankenpost calendars) into a pending-events queue for editorial review.
Locations are resolved against a curated venue database; what cannot be
resolved is flagged for review rather than guessed.`,
		RunE:          runScrape,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(flagVerbose)
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "config.json", "Path to the configuration file")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newResolveLocationsCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

func loadPipeline() (*pipeline.Pipeline, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg)
}

func loadStore() (*storage.Store, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir)
}

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Scrape all enabled sources into the pending queue",
		RunE:  runScrape,
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	p, err := loadPipeline()
	if err != nil {
		return err
	}

	summary, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	if err := WriteSummary(os.Stdout, summary, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	// Cron setups key off the exit code to notify on new candidates.
	if summary.Added > 0 {
		os.Exit(ExitNewEvents)
	}
	return nil
}

func newResolveLocationsCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "resolve-locations",
		Short: "Backfill placeholder venue names from event detail pages",
		Long: `Revisits queued events whose location is a generic placeholder
(e.g. the source name) and scrapes their detail pages for the actual
venue. With --dry-run the queue is left untouched and the command only
reports what would change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			p, err := loadPipeline()
			if err != nil {
				return err
			}

			events, err := p.Store().LoadPending()
			if err != nil {
				return err
			}

			backfill := resolver.NewBackfill(p.Client(), p.Verified())
			summary := backfill.Run(cmd.Context(), events, dryRun)

			if !dryRun && summary.Resolved > 0 {
				if err := p.Store().SavePending(events); err != nil {
					return fmt.Errorf("saving queue: %w", err)
				}
			}

			return WriteBackfill(os.Stdout, &summary, format)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without saving the queue")
	return cmd
}

func newListCmd() *cobra.Command {
	var (
		dates      string
		cities     []string
		categories []string
		maxDays    int
		sortFlag   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued events",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			f, err := buildFilter(dates, cities, categories, maxDays)
			if err != nil {
				return err
			}

			order := SortOrder(strings.ToLower(sortFlag))
			switch order {
			case SortByDate, SortByTitle, SortBySource:
			default:
				return fmt.Errorf("invalid sort order: %s (must be 'date', 'title', or 'source')", sortFlag)
			}

			store, err := loadStore()
			if err != nil {
				return err
			}
			events, err := store.LoadPending()
			if err != nil {
				return err
			}

			events = f.Apply(events)
			sortEvents(events, order)

			return WriteEvents(os.Stdout, events, f, format, flagVerbose)
		},
	}

	cmd.Flags().StringVar(&dates, "dates", "", `Date or range, German notation (e.g. "15.3." or "1.3.-15.3.")`)
	cmd.Flags().StringSliceVar(&cities, "city", nil, "Only events whose location matches a city")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Only events in one of these categories")
	cmd.Flags().IntVar(&maxDays, "max-days", 0, "Only events starting within this many days")
	cmd.Flags().StringVar(&sortFlag, "sort", "date", "Sort order: date, title, or source")

	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		output string
		name   string
		dates  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export queued events as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := buildFilter(dates, nil, nil, 0)
			if err != nil {
				return err
			}

			store, err := loadStore()
			if err != nil {
				return err
			}
			events, err := store.LoadPending()
			if err != nil {
				return err
			}
			events = f.Apply(events)

			ics := calendar.GenerateBulkICS(events, name)
			if ics == "" {
				fmt.Println("No events to export.")
				return nil
			}

			if output == "-" {
				fmt.Print(ics)
				return nil
			}
			if err := os.WriteFile(output, []byte(ics), 0644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			fmt.Printf("Exported %d events to %s\n", len(events), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "events.ics", `Output file ("-" for stdout)`)
	cmd.Flags().StringVar(&name, "name", "Frankenevents", "Calendar name")
	cmd.Flags().StringVar(&dates, "dates", "", `Date or range, German notation (e.g. "1.3.-15.3.")`)

	return cmd
}

// buildFilter assembles the event filter shared by list and export.
func buildFilter(dates string, cities, categories []string, maxDays int) (*filter.Filter, error) {
	f := filter.New()
	if dates != "" {
		from, to, err := filter.ParseDateRange(dates)
		if err != nil {
			return nil, fmt.Errorf("parsing --dates: %w", err)
		}
		f.DateFrom = from
		f.DateTo = to
	}
	f.Cities = cities
	f.Categories = categories
	f.MaxDaysAhead = maxDays
	return f, nil
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

// eventDateLabel formats an event's start for list output.
func eventDateLabel(evt *event.Event) string {
	if evt.StartTime == nil {
		return "(no date)"
	}
	return evt.StartTime.Format("02.01.2006 15:04")
}
