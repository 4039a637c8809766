package entity

import "time"

// Address is a pre-seeded work item that field users get assigned to.
// The lifecycle fields are the only ones the application ever writes.
type Address struct {
	ID          string     `json:"id"`
	Street      string     `json:"street"`
	HouseNumber string     `json:"house_number"`
	City        string     `json:"city"`
	Postcode    string     `json:"postcode"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Flats       int        `json:"flats"`
	Levels      int        `json:"levels"`
	CreatedAt   time.Time  `json:"created_at"`
	AssignedTo  *string    `json:"assigned_to"`
	AssignedAt  *time.Time `json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Status derives the lifecycle label from the timestamp fields.
func (a *Address) Status() Status {
	return DeriveStatus(a.AssignedTo != nil, a.CompletedAt != nil)
}

// Lifecycle is the writable part of an address.
type Lifecycle struct {
	AssignedTo  *string
	AssignedAt  *time.Time
	CompletedAt *time.Time
}

// Lifecycle returns the current lifecycle fields of the address.
func (a *Address) Lifecycle() Lifecycle {
	return Lifecycle{AssignedTo: a.AssignedTo, AssignedAt: a.AssignedAt, CompletedAt: a.CompletedAt}
}

// AddressFilter narrows listing, export and the public feed.
// Zero values mean "no filter".
type AddressFilter struct {
	City       string
	MinFlats   *int
	Status     Status
	AssignedTo string
	Limit      int
	Offset     int
}

// AddressStats is the aggregate returned by the stats endpoint.
type AddressStats struct {
	Total        int64            `json:"total"`
	ByCity       map[string]int64 `json:"byCity"`
	StatusCounts map[Status]int64 `json:"statusCounts"`
}
