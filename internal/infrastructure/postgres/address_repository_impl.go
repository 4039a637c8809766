package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	"github.com/oksasatya/go-address-dispatch/internal/domain/repository"
)

type AddressRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewAddressRepository(pool *pgxpool.Pool, storeTimeout time.Duration) *AddressRepository {
	return &AddressRepository{pool: pool, timeout: storeTimeout}
}

func (r *AddressRepository) List(ctx context.Context, f entity.AddressFilter) ([]entity.Address, error) {
	ctx, cancel := timeout(ctx, r.timeout)
	defer cancel()

	sql, args := newAddressQuery(f).selectSQL(f.Limit, f.Offset)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("addresses: list: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("addresses: scan: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("addresses: list: %w", err)
	}
	return out, nil
}

func (r *AddressRepository) Count(ctx context.Context, f entity.AddressFilter) (int64, error) {
	ctx, cancel := timeout(ctx, r.timeout)
	defer cancel()

	sql, args := newAddressQuery(f).countSQL()
	var n int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("addresses: count: %w", err)
	}
	return n, nil
}

func (r *AddressRepository) GetByID(ctx context.Context, id string) (*entity.Address, error) {
	ctx, cancel := timeout(ctx, r.timeout)
	defer cancel()

	a, err := scanAddress(r.pool.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id))
	if err != nil {
		return nil, wrapLookup("addresses: get by id", err)
	}
	return a, nil
}

// UpdateLifecycle overwrites the lifecycle columns. There is no version
// check, concurrent writers simply race and the last one wins.
func (r *AddressRepository) UpdateLifecycle(ctx context.Context, id string, l entity.Lifecycle) (*entity.Address, error) {
	ctx, cancel := timeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		UPDATE addresses
		SET assigned_to = $2, assigned_at = $3, completed_at = $4
		WHERE id = $1
		RETURNING `+addressColumns, id, l.AssignedTo, l.AssignedAt, l.CompletedAt)
	a, err := scanAddress(row)
	if err != nil {
		return nil, wrapLookup("addresses: update lifecycle", err)
	}
	return a, nil
}

func (r *AddressRepository) CountByCity(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := timeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT city, count(*) FROM addresses GROUP BY city`)
	if err != nil {
		return nil, fmt.Errorf("addresses: count by city: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var (
			city string
			n    int64
		)
		if err := rows.Scan(&city, &n); err != nil {
			return nil, fmt.Errorf("addresses: count by city: %w", err)
		}
		out[city] = n
	}
	return out, rows.Err()
}

func (r *AddressRepository) CountByStatus(ctx context.Context) (map[entity.Status]int64, error) {
	ctx, cancel := timeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT `+statusExpr+` AS status, count(*) FROM addresses GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("addresses: count by status: %w", err)
	}
	defer rows.Close()

	out := map[entity.Status]int64{}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("addresses: count by status: %w", err)
		}
		out[entity.Status(status)] = n
	}
	return out, rows.Err()
}

func scanAddress(row pgx.Row) (*entity.Address, error) {
	a := &entity.Address{}
	err := row.Scan(
		&a.ID,
		&a.Street,
		&a.HouseNumber,
		&a.City,
		&a.Postcode,
		&a.Lat,
		&a.Lng,
		&a.Flats,
		&a.Levels,
		&a.CreatedAt,
		&a.AssignedTo,
		&a.AssignedAt,
		&a.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

var _ repository.AddressRepository = (*AddressRepository)(nil)
