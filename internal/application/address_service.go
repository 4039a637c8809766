package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	"github.com/oksasatya/go-address-dispatch/internal/domain/event"
	repo "github.com/oksasatya/go-address-dispatch/internal/domain/repository"
	"github.com/oksasatya/go-address-dispatch/pkg/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 500
)

var (
	ErrAddressNotFound  = apperror.NotFound("address not found")
	ErrTransitionDenied = apperror.Forbidden("address is not assigned to you")
)

type AddressService struct {
	Repo     repo.AddressRepository
	Redis    *redis.Client
	StatsTTL time.Duration
	Pub      EventPublisher
	Search   AddressSearcher
	Uploader ObjectUploader
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewAddressService(repo repo.AddressRepository, rdb *redis.Client, statsTTL time.Duration, pub EventPublisher, logger *logrus.Logger) *AddressService {
	return &AddressService{
		Repo:     repo,
		Redis:    rdb,
		StatsTTL: statsTTL,
		Pub:      pub,
		Logger:   logger,
		Now:      nowUTC,
	}
}

type ListInput struct {
	City     string
	MinFlats *int
	Status   entity.Status
	Page     int
	Limit    int
}

type ListResult struct {
	Data  []entity.Address `json:"data"`
	Total int64            `json:"total"`
}

// filterFor scopes a filter to what actor is allowed to see.
func filterFor(actor entity.Actor, in ListInput) entity.AddressFilter {
	f := entity.AddressFilter{City: in.City, MinFlats: in.MinFlats, Status: in.Status}
	if !actor.IsAdmin {
		f.AssignedTo = actor.UserID
	}
	return f
}

// List returns one page of the addresses visible to actor plus the total
// number of matching rows.
func (s *AddressService) List(ctx context.Context, actor entity.Actor, in ListInput) (*ListResult, error) {
	if in.Page < 1 {
		in.Page = DefaultPage
	}
	if in.Limit < 1 {
		in.Limit = DefaultLimit
	}
	if in.Limit > MaxLimit {
		in.Limit = MaxLimit
	}
	f := filterFor(actor, in)

	total, err := s.Repo.Count(ctx, f)
	if err != nil {
		return nil, apperror.Store(err)
	}
	f.Limit = in.Limit
	f.Offset = (in.Page - 1) * in.Limit
	data, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return &ListResult{Data: data, Total: total}, nil
}

// Transition moves an address to the requested status using the transition
// table in entity. The current status is not a precondition.
func (s *AddressService) Transition(ctx context.Context, actor entity.Actor, id, status string) (*entity.Address, error) {
	cur, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, apperror.Store(err)
	}

	target := entity.TargetStatus(status)
	if !entity.CanTransition(cur, target, actor) {
		return nil, ErrTransitionDenied
	}

	next := entity.ApplyTransition(cur.Lifecycle(), target, actor, s.Now())
	updated, err := s.Repo.UpdateLifecycle(ctx, id, next)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, apperror.Store(err)
	}

	s.invalidateStats(ctx)
	publish(ctx, s.Pub, s.Logger, event.Event{
		Type:       event.ForStatus(target),
		AddressID:  updated.ID,
		UserID:     actor.UserID,
		Status:     string(updated.Status()),
		OccurredAt: s.Now(),
	})
	return updated, nil
}

// PublicFeed lists every address, newest first, without paging.
func (s *AddressService) PublicFeed(ctx context.Context, city string, minFlats *int) ([]entity.Address, error) {
	data, err := s.Repo.List(ctx, entity.AddressFilter{City: city, MinFlats: minFlats})
	if err != nil {
		return nil, apperror.Store(err)
	}
	if data == nil {
		data = []entity.Address{}
	}
	return data, nil
}
