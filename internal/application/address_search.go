package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	repo "github.com/oksasatya/go-address-dispatch/internal/domain/repository"
	"github.com/oksasatya/go-address-dispatch/pkg/apperror"
)

// AddressSearcher is the full-text index. The event worker keeps single rows
// in sync; ReindexAll backfills everything else.
type AddressSearcher interface {
	Index(ctx context.Context, a *entity.Address) error
	IndexBatch(ctx context.Context, rows []entity.Address) error
	Search(ctx context.Context, q SearchQuery) ([]entity.Address, error)
}

type SearchQuery struct {
	Text       string
	Size       int
	AssignedTo string
}

// SearchAddresses runs a text query against the index. Non-admins only see
// hits assigned to them, same as the listing.
func (s *AddressService) SearchAddresses(ctx context.Context, actor entity.Actor, text string, size int) ([]entity.Address, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.Validation("q is required")
	}
	if s.Search == nil {
		return []entity.Address{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	q := SearchQuery{Text: text, Size: size}
	if !actor.IsAdmin {
		q.AssignedTo = actor.UserID
	}
	hits, err := s.Search.Search(ctx, q)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUnavailable, "search unavailable", err)
	}
	if hits == nil {
		hits = []entity.Address{}
	}
	return hits, nil
}

// Reindex copies the current row for id into the search index.
func (s *AddressService) Reindex(ctx context.Context, id string) error {
	if s.Search == nil {
		return nil
	}
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAddressNotFound
		}
		return apperror.Store(err)
	}
	return s.Search.Index(ctx, a)
}

// reindexPageSize bounds each bulk request sent by ReindexAll.
const reindexPageSize = 200

// ReindexAll copies every stored address into the search index, page by
// page, and returns how many rows were written. Rows inserted outside the
// API (seeding, manual SQL) only become searchable this way.
func (s *AddressService) ReindexAll(ctx context.Context) (int, error) {
	if s.Search == nil {
		return 0, nil
	}
	written := 0
	for offset := 0; ; offset += reindexPageSize {
		rows, err := s.Repo.List(ctx, entity.AddressFilter{Limit: reindexPageSize, Offset: offset})
		if err != nil {
			return written, apperror.Store(err)
		}
		if len(rows) == 0 {
			break
		}
		if err := s.Search.IndexBatch(ctx, rows); err != nil {
			return written, apperror.Wrap(apperror.KindUnavailable, "search unavailable", err)
		}
		written += len(rows)
		s.Logger.WithFields(logrus.Fields{"offset": offset, "rows": len(rows)}).Debug("reindexed address page")
		if len(rows) < reindexPageSize {
			break
		}
	}
	return written, nil
}
