// Command report fetches orders from a running API and writes a period report
// PDF to a local directory.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"dry-cleaner/internal/client"
	"dry-cleaner/internal/config"
	"dry-cleaner/internal/report"
	"dry-cleaner/internal/stats"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	kind := fs.String("type", string(stats.RangeToday), "report range: today, week, month, year or custom")
	start := fs.String("start", "", "custom range start date (YYYY-MM-DD)")
	end := fs.String("end", "", "custom range end date (YYYY-MM-DD)")
	outDir := fs.String("out", ".", "directory the PDF is written to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger, cfg.App, "report")

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}
	now := time.Now().In(loc)

	period, err := parsePeriod(*kind, *start, *end, loc)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api := client.New(cfg.Client.BaseURL, cfg.Auth.APIKey, logger, client.WithTimeout(cfg.Client.Timeout()))
	orders, err := api.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch orders from %s: %w", cfg.Client.BaseURL, err)
	}

	rep, err := stats.PeriodReport(orders, period, now)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.NewExporter(cfg.App.Name, loc).Render(&buf, rep, now); err != nil {
		return err
	}

	location, err := report.NewFileStore(*outDir, logger).Save(ctx, report.Filename(cfg.App.Name, rep.Type, now), buf.Bytes())
	if err != nil {
		return err
	}

	logger.Info().
		Str("file", filepath.Clean(location)).
		Int("total_orders", rep.TotalOrders).
		Str("total_revenue", report.FormatCurrency(rep.TotalRevenue)).
		Msg("report written")
	return nil
}

func parsePeriod(kind, start, end string, loc *time.Location) (stats.Period, error) {
	k, err := stats.ParseRangeKind(kind)
	if err != nil {
		return stats.Period{}, err
	}
	period := stats.Period{Kind: k}
	if k != stats.RangeCustom {
		return period, nil
	}

	if start == "" || end == "" {
		return stats.Period{}, errors.New("custom range requires -start and -end")
	}
	if period.Start, err = time.ParseInLocation(time.DateOnly, start, loc); err != nil {
		return stats.Period{}, fmt.Errorf("invalid -start: %w", err)
	}
	if period.End, err = time.ParseInLocation(time.DateOnly, end, loc); err != nil {
		return stats.Period{}, fmt.Errorf("invalid -end: %w", err)
	}
	return period, nil
}
