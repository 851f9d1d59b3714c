package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dry-cleaner/internal/lifecycle"
	"dry-cleaner/internal/metrics"
	"dry-cleaner/internal/model"
	"dry-cleaner/internal/notify"
	"dry-cleaner/internal/repository"
	"dry-cleaner/internal/workflow"

	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	repo       repository.OrderRepository
	submitter  *workflow.Submitter
	dispatcher EventDispatcher
	metrics    *metrics.Metrics
	now        Clock
	logger     zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	repo repository.OrderRepository,
	dispatcher EventDispatcher,
	m *metrics.Metrics,
	clock Clock,
	logger zerolog.Logger,
) OrderService {
	if clock == nil {
		clock = time.Now
	}
	return &orderService{
		repo:       repo,
		submitter:  workflow.NewSubmitter(repo, logger, workflow.WithClock(clock)),
		dispatcher: dispatcher,
		metrics:    m,
		now:        clock,
		logger:     logger.With().Str("service", "order").Logger(),
	}
}

func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	return s.repo.List(ctx)
}

func (s *orderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the request through the submitter and sends the
// confirmation event when the client left an email.
func (s *orderService) Create(ctx context.Context, sessionKey string, req *model.OrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.NewValidationError("Order details are required")
	}

	items := make([]model.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.LineItem{Type: strings.TrimSpace(item.Type), Quantity: item.Quantity, Price: item.Price}
	}

	order, err := s.submitter.Submit(ctx, workflow.SubmitRequest{
		SessionKey:    sessionKey,
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		ClientEmail:   req.ClientEmail,
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrdersCreated.Inc()
	if order.HasEmail() {
		s.dispatcher.Dispatch(notify.NewEvent(notify.EventConfirmation, order, s.now()))
	}

	return order, nil
}

func (s *orderService) Advance(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := order.Status
	if lifecycle.IsTerminal(before) {
		s.logger.Debug().Str("order_id", id).Msg("order already picked up, advance ignored")
		return order, nil
	}
	if !lifecycle.Advance(order, s.now()) {
		return nil, fmt.Errorf("%w: cannot advance from %q", model.ErrInvalidStatus, before)
	}

	return s.persistStatus(ctx, order, before, model.OrderUpdate{Status: &order.Status, UpdatedAt: order.UpdatedAt})
}

func (s *orderService) Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	if update.Status == nil && update.PaymentStatus == nil {
		return nil, model.NewValidationError("Nothing to update: provide status or payment_status")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := order.Status
	now := s.now()
	if update.Status != nil {
		if err := lifecycle.SetStatus(order, *update.Status, now); err != nil {
			return nil, err
		}
	}
	if update.PaymentStatus != nil {
		if err := lifecycle.SetPaymentStatus(order, *update.PaymentStatus, now); err != nil {
			return nil, err
		}
	}

	return s.persistStatus(ctx, order, before, model.OrderUpdate{
		Status:        update.Status,
		PaymentStatus: update.PaymentStatus,
		UpdatedAt:     now,
	})
}

func (s *orderService) MarkPaid(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.MarkPaid(order, s.now()); err != nil {
		return nil, err
	}

	return s.persistStatus(ctx, order, order.Status, model.OrderUpdate{
		PaymentStatus: &order.PaymentStatus,
		UpdatedAt:     order.UpdatedAt,
	})
}

// persistStatus writes the update and fires the ready event on a transition into Ready.
func (s *orderService) persistStatus(ctx context.Context, order *model.Order, before model.Status, update model.OrderUpdate) (*model.Order, error) {
	updated, err := s.repo.Update(ctx, order.ID, update)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to update order")
		return nil, err
	}

	if updated.Status != before {
		s.metrics.StatusTransitions.WithLabelValues(string(updated.Status)).Inc()
		s.logger.Info().
			Str("order_id", updated.ID).
			Str("order_code", updated.OrderCode).
			Str("from", string(before)).
			Str("to", string(updated.Status)).
			Msg("order status changed")
	}
	if lifecycle.BecameReady(before, updated.Status) {
		s.dispatcher.Dispatch(notify.NewEvent(notify.EventReady, updated, s.now()))
	}

	return updated, nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("order_id", id).Msg("order deleted")
	return nil
}

func (s *orderService) Search(ctx context.Context, query string) ([]model.Order, error) {
	return s.repo.Search(ctx, query)
}

func (s *orderService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	return s.repo.Stats(ctx, s.now())
}
