// Package memory holds in-process repositories with the same filtering,
// ordering and uniqueness rules as the postgres ones. It is a test double:
// only tests import it, the binaries always run against postgres.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	repo "github.com/oksasatya/go-address-dispatch/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]entity.User
	email map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]entity.User{}, email: map[string]string{}}
}

// Create assigns an id and enforces email uniqueness like the unique index.
func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := r.email[key]; ok {
		return repo.ErrDuplicate
	}
	u.ID = uuid.NewString()
	r.byID[u.ID] = *u
	r.email[key] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.email[strings.ToLower(email)]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u := r.byID[id]
	return &u, nil
}
