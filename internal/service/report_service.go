package service

import (
	"bytes"
	"context"
	"time"

	"dry-cleaner/internal/metrics"
	"dry-cleaner/internal/report"
	"dry-cleaner/internal/repository"
	"dry-cleaner/internal/stats"

	"github.com/rs/zerolog"
)

// reportService implements ReportService.
type reportService struct {
	repo     repository.OrderRepository
	exporter *report.Exporter
	store    report.Store
	appName  string
	metrics  *metrics.Metrics
	now      Clock
	logger   zerolog.Logger
}

// NewReportService creates a report service. A nil store disables archiving.
func NewReportService(
	repo repository.OrderRepository,
	exporter *report.Exporter,
	store report.Store,
	appName string,
	m *metrics.Metrics,
	clock Clock,
	logger zerolog.Logger,
) ReportService {
	if clock == nil {
		clock = time.Now
	}
	return &reportService{
		repo:     repo,
		exporter: exporter,
		store:    store,
		appName:  appName,
		metrics:  m,
		now:      clock,
		logger:   logger.With().Str("service", "report").Logger(),
	}
}

func (s *reportService) Generate(ctx context.Context, period stats.Period) (*stats.Report, error) {
	return s.generate(ctx, period, s.now())
}

func (s *reportService) generate(ctx context.Context, period stats.Period, now time.Time) (*stats.Report, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	rep, err := stats.PeriodReport(orders, period, now)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("type", string(rep.Type)).
		Int("total_orders", rep.TotalOrders).
		Int64("total_revenue", rep.TotalRevenue).
		Msg("report generated")

	return rep, nil
}

// Export renders the report and archives a copy. Archive failures are logged
// and do not fail the export.
func (s *reportService) Export(ctx context.Context, period stats.Period) (*Export, error) {
	now := s.now()
	rep, err := s.generate(ctx, period, now)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.exporter.Render(&buf, rep, now); err != nil {
		return nil, err
	}

	out := &Export{
		Filename: report.Filename(s.appName, rep.Type, now),
		Data:     buf.Bytes(),
	}

	if s.store != nil {
		location, err := s.store.Save(ctx, out.Filename, out.Data)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", out.Filename).Msg("failed to archive report")
		} else {
			out.Location = location
		}
	}

	s.metrics.ReportsExported.WithLabelValues(string(rep.Type)).Inc()
	s.logger.Info().
		Str("file", out.Filename).
		Int("bytes", len(out.Data)).
		Int("total_orders", rep.TotalOrders).
		Msg("report exported")

	return out, nil
}
