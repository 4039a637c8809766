package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	"github.com/oksasatya/go-address-dispatch/internal/domain/repository"
	"github.com/oksasatya/go-address-dispatch/pkg/helpers"
)

// startPostgres boots a throwaway database with the real migrations applied.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("addresses"),
		tcpostgres.WithUsername("dispatch"),
		tcpostgres.WithPassword("dispatch"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(dsn, "../../../db/migrations", helpers.NewNopLogger()))

	pool, err := NewPool(ctx, dsn, 4, 1, time.Hour)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func insertAddress(t *testing.T, pool *pgxpool.Pool, city string, flats int, createdAt time.Time) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
		INSERT INTO addresses (street, house_number, city, postcode, flats, levels, created_at)
		VALUES ('Hauptstraße', '1', $1, '10115', $2, 3, $3)
		RETURNING id::text
	`, city, flats, createdAt).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestRepositories_Postgres(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	users := NewUserRepository(pool, 5*time.Second)
	addresses := NewAddressRepository(pool, 5*time.Second)

	// users
	alice := &entity.User{Name: "Alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, users.Create(ctx, alice))
	require.NotEmpty(t, alice.ID)
	assert.ErrorIs(t, users.Create(ctx, &entity.User{Email: "alice@example.com", Password: "x"}), repository.ErrDuplicate)

	got, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = users.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// addresses
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a1 := insertAddress(t, pool, "Berlin", 4, base)
	a2 := insertAddress(t, pool, "Berlin", 12, base.Add(time.Minute))
	a3 := insertAddress(t, pool, "Hamburg", 30, base.Add(2*time.Minute))

	all, err := addresses.List(ctx, entity.AddressFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{a3, a2, a1}, []string{all[0].ID, all[1].ID, all[2].ID})

	minFlats := 12
	big, err := addresses.List(ctx, entity.AddressFilter{MinFlats: &minFlats})
	require.NoError(t, err)
	assert.Len(t, big, 2)

	now := time.Now().UTC().Truncate(time.Microsecond)
	updated, err := addresses.UpdateLifecycle(ctx, a2, entity.Lifecycle{AssignedTo: &alice.ID, AssignedAt: &now})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, alice.ID, *updated.AssignedTo)
	assert.Equal(t, entity.StatusAssigned, updated.Status())

	mine, err := addresses.List(ctx, entity.AddressFilter{AssignedTo: alice.ID, Status: entity.StatusAssigned})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a2, mine[0].ID)

	n, err := addresses.Count(ctx, entity.AddressFilter{City: "Berlin"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	byCity, err := addresses.CountByCity(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Berlin": 2, "Hamburg": 1}, byCity)

	byStatus, err := addresses.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[entity.Status]int64{entity.StatusPending: 2, entity.StatusAssigned: 1}, byStatus)

	_, err = addresses.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = addresses.UpdateLifecycle(ctx, "garbage", entity.Lifecycle{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
