package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"dry-cleaner/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id::text, order_code, client_name, client_phone, client_email,
	status, payment_method, payment_status, total_amount, created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// List returns every order with its items, newest first.
func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, order_code DESC`
	return r.queryOrders(ctx, query)
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id).Msg("order not found")
			return nil, fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.loadItems(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

// Create inserts the order and its items in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) (_ *model.Order, err error) {
	o := *order
	o.Items = slices.Clone(order.Items)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	query := `
		INSERT INTO orders (id, order_code, client_name, client_phone, client_email,
			status, payment_method, payment_status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.Exec(ctx, query,
		o.ID, o.OrderCode, o.ClientName, o.ClientPhone, o.ClientEmail,
		string(o.Status), string(o.PaymentMethod), string(o.PaymentStatus),
		o.TotalAmount, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_code", o.OrderCode).
			Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = r.insertItems(ctx, tx, o.ID, o.Items); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", o.ID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", o.ID).
		Str("order_code", o.OrderCode).
		Int("item_count", len(o.Items)).
		Msg("order created successfully")

	return &o, nil
}

func (r *orderRepository) insertItems(ctx context.Context, tx pgx.Tx, orderID string, items []model.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, position, type, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, orderID, i, item.Type, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", orderID).
				Int("position", i).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

// Update applies the non-nil fields of update and refreshes updated_at.
func (r *orderRepository) Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
	}

	updatedAt := update.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	var status, paymentStatus *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}
	if update.PaymentStatus != nil {
		s := string(*update.PaymentStatus)
		paymentStatus = &s
	}

	query := `
		UPDATE orders
		SET status = COALESCE($2, status),
			payment_status = COALESCE($3, payment_status),
			updated_at = $4
		WHERE id = $1
		RETURNING ` + orderColumns

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id, status, paymentStatus, updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to update order")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	items, err := r.loadItems(ctx, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	r.logger.Debug().
		Str("order_id", id).
		Str("status", string(order.Status)).
		Str("payment_status", string(order.PaymentStatus)).
		Msg("order updated")

	return order, nil
}

// Delete removes the order; items go with it through ON DELETE CASCADE.
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrOrderNotFound, id)
	}

	r.logger.Debug().Str("order_id", id).Msg("order deleted")
	return nil
}

// Search matches the query against order code, phone and client name.
func (r *orderRepository) Search(ctx context.Context, query string) ([]model.Order, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx)
	}

	sql := `SELECT ` + orderColumns + `
		FROM orders
		WHERE order_code ILIKE $1 OR client_phone ILIKE $1 OR client_name ILIKE $1
		ORDER BY created_at DESC, order_code DESC`

	return r.queryOrders(ctx, sql, "%"+escapeLike(query)+"%")
}

// Stats computes the dashboard counters in SQL.
func (r *orderRepository) Stats(ctx context.Context, today time.Time) (*model.DashboardStats, error) {
	start, end := dayBounds(today)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
			COUNT(*) FILTER (WHERE status <> $3),
			COALESCE(SUM(total_amount) FILTER (WHERE created_at >= $1 AND created_at < $2 AND payment_status = $4), 0)::bigint,
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = $5), 0)::bigint
		FROM orders
	`

	var s model.DashboardStats
	err := r.pool.QueryRow(ctx, query, start, end,
		string(model.StatusPickedUp), string(model.PaymentPaid), string(model.PaymentUnpaid),
	).Scan(&s.TodayOrders, &s.PendingOrders, &s.TodayIncome, &s.UnpaidAmount)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to compute dashboard stats")
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	return &s, nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]model.LineItem, error) {
	query := `
		SELECT order_id::text, type, quantity, price
		FROM order_items
		WHERE order_id = ANY($1::text[]::uuid[])
		ORDER BY order_id, position
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("order_count", len(orderIDs)).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]model.LineItem, len(orderIDs))
	for rows.Next() {
		var orderID string
		var item model.LineItem
		if err := rows.Scan(&orderID, &item.Type, &item.Quantity, &item.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[orderID] = append(items[orderID], item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var status, paymentMethod, paymentStatus string
	err := row.Scan(
		&o.ID,
		&o.OrderCode,
		&o.ClientName,
		&o.ClientPhone,
		&o.ClientEmail,
		&status,
		&paymentMethod,
		&paymentStatus,
		&o.TotalAmount,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = model.Status(status)
	o.PaymentMethod = model.PaymentMethod(paymentMethod)
	o.PaymentStatus = model.PaymentStatus(paymentStatus)
	return &o, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
