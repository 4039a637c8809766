package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-address-dispatch/internal/domain/event"
	"github.com/oksasatya/go-address-dispatch/pkg/apperror"
	"github.com/oksasatya/go-address-dispatch/pkg/mailer"
)

type fakeIndex struct {
	ids []string
	err error
}

func (f *fakeIndex) Reindex(_ context.Context, id string) error {
	f.ids = append(f.ids, id)
	return f.err
}

type fakeSender struct {
	jobs []mailer.EmailJob
	err  error
}

func (f *fakeSender) Send(_ context.Context, job mailer.EmailJob) error {
	f.jobs = append(f.jobs, job)
	return f.err
}

func body(t *testing.T, e event.Event) []byte {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return b
}

func TestHandle_AddressEventReindexes(t *testing.T) {
	idx := &fakeIndex{}
	c := &Consumer{Index: idx}

	err := c.Handle(context.Background(), body(t, event.Event{Type: event.AddressAssigned, AddressID: "a1"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a1"}, idx.ids)
}

func TestHandle_MissingAddressIsDropped(t *testing.T) {
	c := &Consumer{Index: &fakeIndex{err: apperror.NotFound("address not found")}}

	err := c.Handle(context.Background(), body(t, event.Event{Type: event.AddressCompleted, AddressID: "gone"}))
	assert.ErrorIs(t, err, ErrBadMessage)
}

func TestHandle_TransientIndexFailureRetries(t *testing.T) {
	c := &Consumer{Index: &fakeIndex{err: errors.New("es down")}}

	err := c.Handle(context.Background(), body(t, event.Event{Type: event.AddressUnassigned, AddressID: "a1"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadMessage)
}

func TestHandle_UserRegisteredSendsWelcome(t *testing.T) {
	mail := &fakeSender{}
	c := &Consumer{Mail: mail, AppName: "dispatch"}

	err := c.Handle(context.Background(), body(t, event.Event{
		Type:       event.UserRegistered,
		UserID:     "u1",
		Email:      "alice@example.com",
		Name:       "Alice",
		OccurredAt: time.Now().UTC(),
	}))
	require.NoError(t, err)
	require.Len(t, mail.jobs, 1)
	assert.Equal(t, "alice@example.com", mail.jobs[0].To)
	assert.Equal(t, "Welcome to dispatch", mail.jobs[0].Subject)
}

func TestHandle_MailDisabledAcks(t *testing.T) {
	c := &Consumer{}
	err := c.Handle(context.Background(), body(t, event.Event{Type: event.UserRegistered, Email: "a@b.c"}))
	assert.NoError(t, err)
}

func TestHandle_BadPayloads(t *testing.T) {
	c := &Consumer{Index: &fakeIndex{}, Mail: &fakeSender{}}
	cases := map[string][]byte{
		"not json":      []byte("{"),
		"unknown type":  body(t, event.Event{Type: "user.deleted"}),
		"no address id": body(t, event.Event{Type: event.AddressAssigned}),
		"no user email": body(t, event.Event{Type: event.UserRegistered, UserID: "u1"}),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, c.Handle(context.Background(), b), ErrBadMessage)
		})
	}
}
