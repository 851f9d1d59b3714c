package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier records events in the structured log instead of sending them.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "log-notifier").Logger()}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	e := n.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("order_code", event.OrderCode).
		Str("client_name", event.ClientName).
		Int64("total_amount", event.TotalAmount)
	if event.ClientEmail != nil {
		e = e.Str("client_email", *event.ClientEmail)
	}
	e.Msg("notification")
	return nil
}

func (n *LogNotifier) Close() error { return nil }
