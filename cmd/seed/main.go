// Command seed checks the database connection, applies the schema and fills
// the orders table with sample data for demos and report testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"dry-cleaner/internal/config"
	"dry-cleaner/internal/database"
	"dry-cleaner/internal/model"
	"dry-cleaner/internal/repository"
	"dry-cleaner/internal/workflow"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

var clients = []struct{ name, phone, email string }{
	{"Alice Uwase", "0788123456", "alice@example.com"},
	{"Jean Habimana", "0722456789", ""},
	{"Grace Mukamana", "0733987654", "grace@example.com"},
	{"Eric Niyonzima", "0789001122", ""},
	{"Diane Ingabire", "0728334455", ""},
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	count := fs.Int("count", 40, "number of orders to create")
	days := fs.Int("days", 30, "spread orders over this many past days")
	checkOnly := fs.Bool("check", false, "only verify the database connection")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *count < 1 || *days < 1 {
		return fmt.Errorf("count and days must be positive")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("seeding requires DB_ENABLED=true")
	}
	logger := config.NewLogger(cfg.Logger, cfg.App, "seed")

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	dbName, err := currentDatabase(ctx, pool)
	if err != nil {
		return err
	}
	logger.Info().Str("database", dbName).Msg("connected")
	if *checkOnly {
		return nil
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	repo := repository.NewOrderRepository(pool, logger)
	created, err := seed(ctx, repo, *count, *days, time.Now().In(loc), logger)
	logger.Info().Int("orders", created).Msg("seeding finished")
	return err
}

func currentDatabase(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	var name string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&name); err != nil {
		return "", fmt.Errorf("failed to query current database: %w", err)
	}
	return name, nil
}

// seed submits count random orders backdated across the last days, then
// advances each one a random number of stages.
func seed(ctx context.Context, repo repository.OrderRepository, count, days int, now time.Time, logger zerolog.Logger) (int, error) {
	var at time.Time
	submitter := workflow.NewSubmitter(repo, logger, workflow.WithClock(func() time.Time { return at }))

	for i := range count {
		at = now.Add(-time.Duration(rand.Int64N(int64(days) * int64(24*time.Hour))))
		c := clients[rand.IntN(len(clients))]

		basket := workflow.NewBasket()
		for range 1 + rand.IntN(4) {
			item := model.Catalogue[rand.IntN(len(model.Catalogue))]
			if err := basket.AddItem(item.Value, 1+rand.IntN(3), item.DefaultPrice); err != nil {
				return i, err
			}
		}

		req := workflow.SubmitRequest{
			SessionKey:    "seed",
			ClientName:    c.name,
			ClientPhone:   c.phone,
			Items:         basket.Items(),
			PaymentMethod: model.PaymentMethods[rand.IntN(len(model.PaymentMethods))],
			PaymentStatus: model.PaymentStatuses[rand.IntN(len(model.PaymentStatuses))],
		}
		if c.email != "" {
			req.ClientEmail = &c.email
		}

		order, err := submitter.Submit(ctx, req)
		if err != nil {
			return i, fmt.Errorf("failed to create order %d: %w", i+1, err)
		}

		status := model.OrderStatuses[rand.IntN(len(model.OrderStatuses))]
		if status != model.StatusPending {
			if _, err := repo.Update(ctx, order.ID, model.OrderUpdate{Status: &status, UpdatedAt: at}); err != nil {
				return i, fmt.Errorf("failed to update order %s: %w", order.OrderCode, err)
			}
		}
	}
	return count, nil
}
