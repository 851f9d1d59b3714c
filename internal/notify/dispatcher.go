package notify

import (
	"context"
	"sync"
	"time"

	"dry-cleaner/internal/metrics"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single delivery.
const DefaultTimeout = 5 * time.Second

// Dispatcher delivers events in the background. A failed delivery is logged
// and counted; it never affects the caller.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher wraps notifier. A non-positive timeout uses DefaultTimeout.
func NewDispatcher(notifier Notifier, timeout time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		notifier: notifier,
		timeout:  timeout,
		metrics:  m,
		logger:   logger.With().Str("component", "notify-dispatcher").Logger(),
	}
}

// Dispatch sends event asynchronously.
func (d *Dispatcher) Dispatch(event Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, event); err != nil {
			d.metrics.Notifications.WithLabelValues(string(event.Type), "failed").Inc()
			d.logger.Warn().
				Err(err).
				Str("event_type", string(event.Type)).
				Str("order_code", event.OrderCode).
				Msg("notification delivery failed")
			return
		}
		d.metrics.Notifications.WithLabelValues(string(event.Type), "sent").Inc()
	}()
}

// Wait blocks until every dispatched event has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close waits for pending deliveries and closes the notifier.
func (d *Dispatcher) Close() error {
	d.wg.Wait()
	return d.notifier.Close()
}
