package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/config"
	"github.com/oksasatya/go-address-dispatch/internal/container"
	pginfra "github.com/oksasatya/go-address-dispatch/internal/infrastructure/postgres"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
)

type sampleAddress struct {
	street, houseNumber, city, postcode string
	lat, lng                            float64
	flats, levels                       int
}

var samples = []sampleAddress{
	{"Karl-Marx-Allee", "34", "Berlin", "10178", 52.5176, 13.4274, 48, 8},
	{"Schönhauser Allee", "112", "Berlin", "10439", 52.5492, 13.4133, 16, 5},
	{"Sonnenallee", "67", "Berlin", "12045", 52.4840, 13.4380, 22, 6},
	{"Reeperbahn", "1", "Hamburg", "20359", 53.5497, 9.9658, 12, 4},
	{"Mönckebergstraße", "7", "Hamburg", "20095", 53.5503, 10.0006, 30, 7},
	{"Leopoldstraße", "82", "München", "80802", 48.1619, 11.5862, 18, 5},
	{"Sendlinger Straße", "20", "München", "80331", 48.1350, 11.5700, 9, 4},
	{"Zeil", "106", "Frankfurt am Main", "60313", 50.1147, 8.6860, 40, 9},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("init: %v", err)
	}
	defer c.Close()

	hash, err := helpers.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = c.PGPool.QueryRow(ctx, `
		INSERT INTO users (name, email, password, is_admin)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (email) DO UPDATE SET password = EXCLUDED.password, is_admin = TRUE
		RETURNING id::text
	`, "Admin", cfg.SeedAdminEmail, hash).Scan(&id)
	if err != nil {
		logger.Fatalf("failed to seed admin: %v", err)
	}
	logger.WithFields(logrus.Fields{"id": id, "email": cfg.SeedAdminEmail}).Info("seeded admin")

	n, err := seedAddresses(ctx, c.PGPool)
	if err != nil {
		logger.Fatalf("failed to seed addresses: %v", err)
	}
	logger.WithField("rows", n).Info("seeded addresses")

	if c.AddressSvc.Search == nil {
		logger.Warn("elasticsearch not configured; seeded addresses are not searchable")
		return
	}
	indexed, err := c.AddressSvc.ReindexAll(ctx)
	if err != nil {
		logger.Fatalf("failed to index addresses: %v", err)
	}
	logger.WithField("rows", indexed).Info("indexed addresses")
}

// seedAddresses only fills an empty table so reruns do not duplicate rows.
func seedAddresses(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var existing int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM addresses`).Scan(&existing); err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}
	for _, a := range samples {
		_, err := pool.Exec(ctx, `
			INSERT INTO addresses (street, house_number, city, postcode, lat, lng, flats, levels)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, a.street, a.houseNumber, a.city, a.postcode, a.lat, a.lng, a.flats, a.levels)
		if err != nil {
			return 0, err
		}
	}
	return len(samples), nil
}
