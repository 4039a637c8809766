package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	repo "github.com/oksasatya/go-address-dispatch/internal/domain/repository"
)

func TestUserRepository_DuplicateEmail(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &entity.User{Email: "a@example.com"}))
	assert.ErrorIs(t, r.Create(ctx, &entity.User{Email: "A@example.com"}), repo.ErrDuplicate)
}

func TestAddressRepository_ListOrderAndPaging(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewAddressRepository(
		entity.Address{ID: "a", City: "Berlin", CreatedAt: base},
		entity.Address{ID: "b", City: "Berlin", CreatedAt: base.Add(time.Hour)},
		entity.Address{ID: "c", City: "Hamburg", CreatedAt: base.Add(2 * time.Hour)},
	)
	ctx := context.Background()

	all, err := r.List(ctx, entity.AddressFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(all))

	page, err := r.List(ctx, entity.AddressFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(page))

	past, err := r.List(ctx, entity.AddressFilter{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, past)

	n, err := r.Count(ctx, entity.AddressFilter{City: "Berlin"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func ids(rows []entity.Address) []string {
	out := make([]string, len(rows))
	for i, a := range rows {
		out[i] = a.ID
	}
	return out
}
