package application

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	"github.com/oksasatya/go-address-dispatch/internal/domain/event"
)

var errStoreDown = errors.New("connection refused")

type fakePublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := body.(event.Event); ok {
		p.events = append(p.events, e)
	}
	return p.err
}

type fakeSearcher struct {
	last    SearchQuery
	hits    []entity.Address
	indexed []string
	batches int
	err     error
}

func (s *fakeSearcher) Index(_ context.Context, a *entity.Address) error {
	s.indexed = append(s.indexed, a.ID)
	return s.err
}

func (s *fakeSearcher) IndexBatch(_ context.Context, rows []entity.Address) error {
	if s.err != nil {
		return s.err
	}
	s.batches++
	for _, a := range rows {
		s.indexed = append(s.indexed, a.ID)
	}
	return nil
}

func (s *fakeSearcher) Search(_ context.Context, q SearchQuery) ([]entity.Address, error) {
	s.last = q
	return s.hits, s.err
}

type fakeUploader struct {
	path, contentType string
	body              []byte
	err               error
}

func (u *fakeUploader) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.path, u.contentType, u.body = objectPath, contentType, b
	return "https://storage.googleapis.com/bucket/" + objectPath, nil
}

// brokenUsers fails every call like an unreachable store.
type brokenUsers struct{}

func (brokenUsers) Create(context.Context, *entity.User) error { return errStoreDown }
func (brokenUsers) GetByID(context.Context, string) (*entity.User, error) {
	return nil, errStoreDown
}
func (brokenUsers) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, errStoreDown
}
