package event

import (
	"time"

	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
)

// Type names a domain event on the events queue.
type Type string

const (
	UserRegistered    Type = "user.registered"
	AddressAssigned   Type = "address.assigned"
	AddressCompleted  Type = "address.completed"
	AddressUnassigned Type = "address.pending"
)

// Event is the JSON payload published to the events queue.
type Event struct {
	Type       Type      `json:"type"`
	AddressID  string    `json:"address_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ForStatus returns the event emitted when an address lands in s.
func ForStatus(s entity.Status) Type {
	switch s {
	case entity.StatusAssigned:
		return AddressAssigned
	case entity.StatusCompleted:
		return AddressCompleted
	default:
		return AddressUnassigned
	}
}

// IsAddressEvent reports whether t concerns an address row.
func IsAddressEvent(t Type) bool {
	switch t {
	case AddressAssigned, AddressCompleted, AddressUnassigned:
		return true
	}
	return false
}
