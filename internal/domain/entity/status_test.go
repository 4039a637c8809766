package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusPending, DeriveStatus(false, false))
	assert.Equal(t, StatusAssigned, DeriveStatus(true, false))
	assert.Equal(t, StatusCompleted, DeriveStatus(true, true))
	assert.Equal(t, StatusCompleted, DeriveStatus(false, true))
}

func TestTargetStatus_UnknownMeansPending(t *testing.T) {
	assert.Equal(t, StatusAssigned, TargetStatus("assigned"))
	assert.Equal(t, StatusCompleted, TargetStatus(" Completed "))
	assert.Equal(t, StatusPending, TargetStatus("pending"))
	assert.Equal(t, StatusPending, TargetStatus("archived"))
	assert.Equal(t, StatusPending, TargetStatus(""))
}

func TestApplyTransition(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)
	actor := Actor{UserID: "u1"}

	t.Run("assigned sets caller and clears completion", func(t *testing.T) {
		cur := Lifecycle{AssignedTo: strp("u0"), AssignedAt: &earlier, CompletedAt: &earlier}
		got := ApplyTransition(cur, StatusAssigned, actor, now)
		require.NotNil(t, got.AssignedTo)
		assert.Equal(t, "u1", *got.AssignedTo)
		assert.Equal(t, now, *got.AssignedAt)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("completed keeps the assignee", func(t *testing.T) {
		cur := Lifecycle{AssignedTo: strp("u0"), AssignedAt: &earlier}
		got := ApplyTransition(cur, StatusCompleted, actor, now)
		assert.Equal(t, "u0", *got.AssignedTo)
		assert.Equal(t, earlier, *got.AssignedAt)
		assert.Equal(t, now, *got.CompletedAt)
	})

	t.Run("completed on unassigned assigns the caller", func(t *testing.T) {
		got := ApplyTransition(Lifecycle{}, StatusCompleted, actor, now)
		assert.Equal(t, "u1", *got.AssignedTo)
		assert.Equal(t, now, *got.AssignedAt)
		assert.Equal(t, now, *got.CompletedAt)
	})

	t.Run("pending clears everything", func(t *testing.T) {
		cur := Lifecycle{AssignedTo: strp("u0"), AssignedAt: &earlier, CompletedAt: &earlier}
		assert.Equal(t, Lifecycle{}, ApplyTransition(cur, StatusPending, actor, now))
	})

	t.Run("unknown target behaves like pending", func(t *testing.T) {
		cur := Lifecycle{AssignedTo: strp("u0"), AssignedAt: &earlier}
		assert.Equal(t, Lifecycle{}, ApplyTransition(cur, Status("bogus"), actor, now))
	})
}

func TestCanTransition(t *testing.T) {
	mine := &Address{AssignedTo: strp("u1")}
	theirs := &Address{AssignedTo: strp("u2")}
	free := &Address{}
	user := Actor{UserID: "u1"}
	admin := Actor{UserID: "root", IsAdmin: true}

	cases := []struct {
		name   string
		a      *Address
		target Status
		actor  Actor
		want   bool
	}{
		{"own address any target", mine, StatusPending, user, true},
		{"own address complete", mine, StatusCompleted, user, true},
		{"someone else's address", theirs, StatusAssigned, user, false},
		{"claim unassigned", free, StatusAssigned, user, true},
		{"complete unassigned", free, StatusCompleted, user, false},
		{"admin on someone else's", theirs, StatusPending, admin, true},
		{"admin on unassigned", free, StatusCompleted, admin, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.a, tc.target, tc.actor))
		})
	}
}

func TestAddressStatus(t *testing.T) {
	now := time.Now()
	assert.Equal(t, StatusPending, (&Address{}).Status())
	assert.Equal(t, StatusAssigned, (&Address{AssignedTo: strp("u1")}).Status())
	assert.Equal(t, StatusCompleted, (&Address{AssignedTo: strp("u1"), CompletedAt: &now}).Status())
}
