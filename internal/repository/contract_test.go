package repository

import (
	"context"
	"testing"
	"time"

	"dry-cleaner/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func sampleOrder(code, name, phone string, createdAt time.Time) *model.Order {
	items := []model.LineItem{
		{Type: "shirt", Quantity: 2, Price: 1500},
		{Type: "trousers", Quantity: 1, Price: 2000},
	}
	return &model.Order{
		OrderCode:     code,
		ClientName:    name,
		ClientPhone:   phone,
		Items:         items,
		Status:        model.StatusPending,
		PaymentMethod: model.PaymentMethodCash,
		PaymentStatus: model.PaymentUnpaid,
		TotalAmount:   5000,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func codes(orders []model.Order) []string {
	out := make([]string, len(orders))
	for i := range orders {
		out[i] = orders[i].OrderCode
	}
	return out
}

// testOrderRepository runs the behaviour every OrderRepository must share.
// newRepo must return an empty repository.
func testOrderRepository(t *testing.T, newRepo func(t *testing.T) OrderRepository) {
	ctx := context.Background()

	t.Run("Create and get", func(t *testing.T) {
		repo := newRepo(t)
		email := "alice@example.com"
		in := sampleOrder("DC100000001", "Alice", "0788123456", baseTime)
		in.ClientEmail = &email

		created, err := repo.Create(ctx, in)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.Empty(t, in.ID, "input must not be mutated")

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "DC100000001", got.OrderCode)
		assert.Equal(t, in.Items, got.Items)
		assert.Equal(t, int64(5000), got.TotalAmount)
		require.NotNil(t, got.ClientEmail)
		assert.Equal(t, email, *got.ClientEmail)
		assert.True(t, baseTime.Equal(got.CreatedAt))
	})

	t.Run("Get unknown id", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, model.ErrOrderNotFound)

		_, err = repo.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})

	t.Run("List newest first", func(t *testing.T) {
		repo := newRepo(t)

		orders, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, orders)

		for i, code := range []string{"DC1", "DC2", "DC3"} {
			_, err := repo.Create(ctx, sampleOrder(code, "Client", "0788123456", baseTime.Add(time.Duration(i)*time.Hour)))
			require.NoError(t, err)
		}

		orders, err = repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"DC3", "DC2", "DC1"}, codes(orders))
		for _, o := range orders {
			assert.Len(t, o.Items, 2)
		}
	})

	t.Run("Update applies only given fields", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, sampleOrder("DC1", "Bob", "0788123456", baseTime))
		require.NoError(t, err)

		ready := model.StatusReady
		later := baseTime.Add(2 * time.Hour)
		updated, err := repo.Update(ctx, created.ID, model.OrderUpdate{Status: &ready, UpdatedAt: later})
		require.NoError(t, err)
		assert.Equal(t, model.StatusReady, updated.Status)
		assert.Equal(t, model.PaymentUnpaid, updated.PaymentStatus)
		assert.True(t, later.Equal(updated.UpdatedAt))
		assert.Len(t, updated.Items, 2)

		paid := model.PaymentPaid
		updated, err = repo.Update(ctx, created.ID, model.OrderUpdate{PaymentStatus: &paid, UpdatedAt: later})
		require.NoError(t, err)
		assert.Equal(t, model.StatusReady, updated.Status)
		assert.Equal(t, model.PaymentPaid, updated.PaymentStatus)
	})

	t.Run("Update unknown id", func(t *testing.T) {
		repo := newRepo(t)
		ready := model.StatusReady

		_, err := repo.Update(ctx, uuid.NewString(), model.OrderUpdate{Status: &ready})
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, sampleOrder("DC1", "Bob", "0788123456", baseTime))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, created.ID))

		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, created.ID), model.ErrOrderNotFound)
	})

	t.Run("Search", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, sampleOrder("DC123456001", "Jean Marie", "0788111111", baseTime))
		require.NoError(t, err)
		_, err = repo.Create(ctx, sampleOrder("DC654321002", "Alice Uwase", "0722999999", baseTime.Add(time.Hour)))
		require.NoError(t, err)

		tests := []struct {
			query string
			want  []string
		}{
			{query: "dc1234", want: []string{"DC123456001"}},
			{query: "0722", want: []string{"DC654321002"}},
			{query: "JEAN", want: []string{"DC123456001"}},
			{query: "e", want: []string{"DC654321002", "DC123456001"}},
			{query: "", want: []string{"DC654321002", "DC123456001"}},
			{query: "%", want: []string{}},
			{query: "nobody", want: []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.query, func(t *testing.T) {
				orders, err := repo.Search(ctx, tt.query)
				require.NoError(t, err)
				assert.Equal(t, tt.want, codes(orders))
			})
		}
	})

	t.Run("Stats", func(t *testing.T) {
		repo := newRepo(t)
		today := time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)

		paidToday := sampleOrder("DC1", "A", "0788123456", today.Add(-time.Hour))
		paidToday.Items = []model.LineItem{{Type: "suit", Quantity: 1, Price: 8500}}
		paidToday.TotalAmount = 8500
		paidToday.PaymentStatus = model.PaymentPaid
		paidToday.Status = model.StatusPickedUp

		unpaidOld := sampleOrder("DC2", "B", "0788123456", today.AddDate(0, 0, -3))

		_, err := repo.Create(ctx, paidToday)
		require.NoError(t, err)
		_, err = repo.Create(ctx, unpaidOld)
		require.NoError(t, err)

		s, err := repo.Stats(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, model.DashboardStats{
			TodayOrders:   1,
			PendingOrders: 1,
			TodayIncome:   8500,
			UnpaidAmount:  5000,
		}, *s)
	})

	t.Run("Stats on empty repository", func(t *testing.T) {
		repo := newRepo(t)

		s, err := repo.Stats(ctx, baseTime)
		require.NoError(t, err)
		assert.Equal(t, model.DashboardStats{}, *s)
	})
}
