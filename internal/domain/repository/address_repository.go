package repository

import (
	"context"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
)

// AddressRepository is the address store. Filtering, ordering and counting
// are all done by the store.
type AddressRepository interface {
	// List returns rows matching f ordered by created_at descending.
	// Limit <= 0 means no limit.
	List(ctx context.Context, f entity.AddressFilter) ([]entity.Address, error)
	Count(ctx context.Context, f entity.AddressFilter) (int64, error)
	GetByID(ctx context.Context, id string) (*entity.Address, error)
	UpdateLifecycle(ctx context.Context, id string, l entity.Lifecycle) (*entity.Address, error)
	CountByCity(ctx context.Context) (map[string]int64, error)
	CountByStatus(ctx context.Context) (map[entity.Status]int64, error)
}
