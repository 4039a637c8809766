package entity

import (
	"strings"
	"time"
)

// Status is the derived lifecycle label of an address. It is never stored.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
)

// Statuses lists every derived status in display order.
var Statuses = []Status{StatusPending, StatusAssigned, StatusCompleted}

// DeriveStatus applies the same rule the store uses in its grouping query:
// completed wins over assigned, and an address with neither is pending.
func DeriveStatus(assigned, completed bool) Status {
	switch {
	case completed:
		return StatusCompleted
	case assigned:
		return StatusAssigned
	default:
		return StatusPending
	}
}

// ParseStatus recognises a filter value. ok is false for unknown labels.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusAssigned:
		return StatusAssigned, true
	case StatusCompleted:
		return StatusCompleted, true
	}
	return "", false
}

// TargetStatus maps a requested transition target. Anything that is not
// "assigned" or "completed" means unassign.
func TargetStatus(s string) Status {
	if st, ok := ParseStatus(s); ok {
		return st
	}
	return StatusPending
}

// Actor is the authenticated caller performing a transition.
type Actor struct {
	UserID  string
	IsAdmin bool
}

type transitionFunc func(cur Lifecycle, actor Actor, now time.Time) Lifecycle

// transitions depends on the target only; the current status is never a
// precondition, so completed addresses can be reopened.
var transitions = map[Status]transitionFunc{
	StatusAssigned: func(_ Lifecycle, actor Actor, now time.Time) Lifecycle {
		uid := actor.UserID
		return Lifecycle{AssignedTo: &uid, AssignedAt: &now}
	},
	StatusCompleted: func(cur Lifecycle, actor Actor, now time.Time) Lifecycle {
		next := Lifecycle{AssignedTo: cur.AssignedTo, AssignedAt: cur.AssignedAt, CompletedAt: &now}
		if next.AssignedTo == nil {
			uid := actor.UserID
			next.AssignedTo = &uid
		}
		if next.AssignedAt == nil {
			next.AssignedAt = &now
		}
		return next
	},
	StatusPending: func(Lifecycle, Actor, time.Time) Lifecycle {
		return Lifecycle{}
	},
}

// ApplyTransition computes the lifecycle fields after moving to target.
func ApplyTransition(cur Lifecycle, target Status, actor Actor, now time.Time) Lifecycle {
	fn, ok := transitions[target]
	if !ok {
		fn = transitions[StatusPending]
	}
	return fn(cur, actor, now)
}

// CanTransition reports whether actor may move the address to target.
// Admins may move anything; everyone else may only touch addresses assigned
// to them, or claim an unassigned one.
func CanTransition(a *Address, target Status, actor Actor) bool {
	if actor.IsAdmin {
		return true
	}
	if a.AssignedTo == nil {
		return target == StatusAssigned
	}
	return *a.AssignedTo == actor.UserID
}
