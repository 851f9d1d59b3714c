package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"dry-cleaner/internal/model"
	"dry-cleaner/internal/service"
	"dry-cleaner/internal/stats"

	"github.com/rs/zerolog"
)

// ReportHandler serves period reports and their PDF exports.
type ReportHandler struct {
	service service.ReportService
	loc     *time.Location
	logger  zerolog.Logger
}

// NewReportHandler creates a report handler. Custom range dates are read in loc.
func NewReportHandler(service service.ReportService, loc *time.Location, logger zerolog.Logger) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{
		service: service,
		loc:     loc,
		logger:  logger.With().Str("handler", "report").Logger(),
	}
}

// Generate handles GET /api/reports?type=&start=&end=.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	period, err := h.parsePeriod(r)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	rep, err := h.service.Generate(r.Context(), period)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, rep, h.logger)
}

// Export handles GET /api/reports/export and streams the PDF as a download.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	period, err := h.parsePeriod(r)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	out, err := h.service.Export(r.Context(), period)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	if out.Location != "" {
		w.Header().Set("X-Report-Archive", out.Location)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Data); err != nil {
		h.logger.Warn().Err(err).Str("file", out.Filename).Msg("failed to stream report")
	}
}

// parsePeriod reads type (default today) and, for custom ranges, start and end as YYYY-MM-DD.
func (h *ReportHandler) parsePeriod(r *http.Request) (stats.Period, error) {
	q := r.URL.Query()

	raw := q.Get("type")
	if raw == "" {
		raw = string(stats.RangeToday)
	}
	kind, err := stats.ParseRangeKind(raw)
	if err != nil {
		return stats.Period{}, err
	}

	period := stats.Period{Kind: kind}
	if kind != stats.RangeCustom {
		return period, nil
	}

	if period.Start, err = h.parseDate(q.Get("start"), "start"); err != nil {
		return stats.Period{}, err
	}
	if period.End, err = h.parseDate(q.Get("end"), "end"); err != nil {
		return stats.Period{}, err
	}
	return period, nil
}

func (h *ReportHandler) parseDate(raw, field string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, model.NewValidationError(field + " date is required for a custom range")
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, h.loc)
	if err != nil {
		return time.Time{}, model.NewValidationError(fmt.Sprintf("%s date must be YYYY-MM-DD, got %q", field, raw))
	}
	return t, nil
}
