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

const userColumns = `id::text, name, email, password, is_admin`

type UserRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewUserRepository(pool *pgxpool.Pool, storeTimeout time.Duration) *UserRepository {
	return &UserRepository{pool: pool, timeout: storeTimeout}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	ctx, cancel := timeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text
	`, u.Name, u.Email, u.Password, u.IsAdmin)

	if err := row.Scan(&u.ID); err != nil {
		if err = translate(err); err == repository.ErrDuplicate {
			return err
		}
		return fmt.Errorf("users: create: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, cancel := timeout(ctx, r.timeout)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, wrapLookup("users: get by id", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := timeout(ctx, r.timeout)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, wrapLookup("users: get by email", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.IsAdmin); err != nil {
		return nil, err
	}
	return u, nil
}

// wrapLookup keeps ErrNotFound bare so callers can compare with errors.Is
// without caring about the operation prefix.
func wrapLookup(op string, err error) error {
	err = translate(err)
	if err == repository.ErrNotFound {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
