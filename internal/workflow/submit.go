package workflow

import (
	"context"
	"strings"
	"sync"
	"time"

	"dry-cleaner/internal/lifecycle"
	"dry-cleaner/internal/model"

	"github.com/rs/zerolog"
)

// OrderCreator persists an assembled order.
type OrderCreator interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
}

// SubmitRequest carries everything needed to create an order.
type SubmitRequest struct {
	// SessionKey scopes the in-flight guard; one submission per key at a time.
	SessionKey    string
	ClientName    string
	ClientPhone   string
	ClientEmail   *string
	Items         []model.LineItem
	PaymentMethod model.PaymentMethod
	PaymentStatus model.PaymentStatus
}

// Submitter validates submit requests and hands assembled orders to the repository.
type Submitter struct {
	creator  OrderCreator
	logger   zerolog.Logger
	now      func() time.Time
	newCode  func(time.Time) string
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Submitter) { s.now = now }
}

// WithCodeGenerator overrides order code generation.
func WithCodeGenerator(gen func(time.Time) string) Option {
	return func(s *Submitter) { s.newCode = gen }
}

// NewSubmitter creates a submitter that persists through creator.
func NewSubmitter(creator OrderCreator, logger zerolog.Logger, opts ...Option) *Submitter {
	s := &Submitter{
		creator:  creator,
		logger:   logger.With().Str("component", "order-submitter").Logger(),
		now:      time.Now,
		newCode:  GenerateOrderCode,
		inFlight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the request, assembles a Pending order and creates it.
// While a submission for the same session is in flight, further calls return
// model.ErrSubmitInProgress without reaching the repository.
func (s *Submitter) Submit(ctx context.Context, req SubmitRequest) (*model.Order, error) {
	if !s.acquire(req.SessionKey) {
		s.logger.Warn().
			Str("session", req.SessionKey).
			Msg("duplicate submission rejected while another is in flight")
		return nil, model.ErrSubmitInProgress
	}
	defer s.release(req.SessionKey)

	order, err := s.assemble(req)
	if err != nil {
		s.logger.Debug().Err(err).Msg("order submission failed validation")
		return nil, err
	}

	created, err := s.creator.Create(ctx, order)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_code", order.OrderCode).
			Msg("failed to create order")
		return nil, err
	}

	s.logger.Info().
		Str("order_id", created.ID).
		Str("order_code", created.OrderCode).
		Int("item_count", len(created.Items)).
		Int64("total_amount", created.TotalAmount).
		Msg("order submitted")

	return created, nil
}

// inFlightFor reports whether a submission for key is currently running.
func (s *Submitter) inFlightFor(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[key]
	return busy
}

func (s *Submitter) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *Submitter) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

func (s *Submitter) assemble(req SubmitRequest) (*model.Order, error) {
	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return nil, model.NewValidationError("Client name is required")
	}

	phone := strings.TrimSpace(req.ClientPhone)
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}

	if len(req.Items) == 0 {
		return nil, model.NewValidationError("Add at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 || item.Price < 0 {
			return nil, model.NewValidationError("Item quantity must be at least one and price must not be negative")
		}
		if !validLine(item.Quantity, item.Price) {
			return nil, model.NewValidationError("Item quantity or price is too large")
		}
	}
	total, err := CalculateTotal(req.Items)
	if err != nil {
		return nil, model.NewValidationError("Order total is too large")
	}

	email := normaliseEmail(req.ClientEmail)
	if email != nil {
		if err := ValidateEmail(*email); err != nil {
			return nil, err
		}
	}

	if !lifecycle.ValidPaymentMethod(req.PaymentMethod) {
		return nil, model.NewValidationError("Unknown payment method")
	}
	if !lifecycle.ValidPaymentStatus(req.PaymentStatus) {
		return nil, model.NewValidationError("Unknown payment status")
	}

	now := s.now()
	items := make([]model.LineItem, len(req.Items))
	copy(items, req.Items)

	return &model.Order{
		OrderCode:     s.newCode(now),
		ClientName:    name,
		ClientPhone:   phone,
		ClientEmail:   email,
		Items:         items,
		Status:        model.StatusPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
		TotalAmount:   total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
