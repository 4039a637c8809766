package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	repo "github.com/oksasatya/go-address-dispatch/internal/domain/repository"
)

type AddressRepository struct {
	mu   sync.RWMutex
	rows map[string]entity.Address
}

func NewAddressRepository(seed ...entity.Address) *AddressRepository {
	r := &AddressRepository{rows: map[string]entity.Address{}}
	for _, a := range seed {
		r.Insert(a)
	}
	return r
}

// Insert adds a row, assigning an id when a has none.
func (r *AddressRepository) Insert(a entity.Address) entity.Address {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.rows[a.ID] = a
	return a
}

func matches(a *entity.Address, f entity.AddressFilter) bool {
	if f.City != "" && a.City != f.City {
		return false
	}
	if f.MinFlats != nil && a.Flats < *f.MinFlats {
		return false
	}
	if f.Status != "" && a.Status() != f.Status {
		return false
	}
	if f.AssignedTo != "" && (a.AssignedTo == nil || *a.AssignedTo != f.AssignedTo) {
		return false
	}
	return true
}

func (r *AddressRepository) filtered(f entity.AddressFilter) []entity.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Address, 0, len(r.rows))
	for _, a := range r.rows {
		if matches(&a, f) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *AddressRepository) List(_ context.Context, f entity.AddressFilter) ([]entity.Address, error) {
	out := r.filtered(f)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []entity.Address{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *AddressRepository) Count(_ context.Context, f entity.AddressFilter) (int64, error) {
	return int64(len(r.filtered(f))), nil
}

func (r *AddressRepository) GetByID(_ context.Context, id string) (*entity.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &a, nil
}

func (r *AddressRepository) UpdateLifecycle(_ context.Context, id string, l entity.Lifecycle) (*entity.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	a.AssignedTo, a.AssignedAt, a.CompletedAt = l.AssignedTo, l.AssignedAt, l.CompletedAt
	r.rows[id] = a
	return &a, nil
}

func (r *AddressRepository) CountByCity(_ context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[string]int64{}
	for _, a := range r.rows {
		out[a.City]++
	}
	return out, nil
}

func (r *AddressRepository) CountByStatus(_ context.Context) (map[entity.Status]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[entity.Status]int64{}
	for _, a := range r.rows {
		out[a.Status()]++
	}
	return out, nil
}
