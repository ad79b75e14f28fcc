package appspace

import (
	"time"

	"github.com/example/deskbooker/internal/timewindow"
)

// Event lifecycle statuses as the reservation API spells them.
const (
	StatusNotConfirmed = "NotConfirmed"
	StatusPending      = "Pending"
	StatusCheckin      = "Checkin"
	StatusActive       = "Active"
	StatusConflict     = "Conflict"
	StatusCompleted    = "Completed"
	StatusConfirmed    = "Confirmed"
)

// BookingStatuses is the filter used when checking for an existing
// reservation on the target day.
var BookingStatuses = []string{
	StatusNotConfirmed, StatusPending, StatusCheckin,
	StatusActive, StatusConflict, StatusCompleted,
}

type Resource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SourceObject is the nested event representation some endpoints return
// instead of (or in addition to) the flat resource list.
type SourceObject struct {
	Resources []Resource `json:"resources"`
}

// Event is the read-only view of a remote reservation. Only the fields
// needed for matching and check-in eligibility are decoded.
type Event struct {
	ID           string        `json:"id"`
	EventStatus  string        `json:"eventStatus"`
	StartAt      string        `json:"startAt"`
	Resources    []Resource    `json:"resources"`
	SourceObject *SourceObject `json:"sourceObject"`
}

// ResourceIDs normalizes the flat and nested resource representations
// into one id list. Every matching site goes through this accessor.
func (e Event) ResourceIDs() []string {
	var ids []string
	for _, r := range e.Resources {
		ids = append(ids, r.ID)
	}
	if e.SourceObject != nil {
		for _, r := range e.SourceObject.Resources {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// HasResource reports whether the event involves the given resource in
// either representation.
func (e Event) HasResource(resourceID string) bool {
	for _, id := range e.ResourceIDs() {
		if id == resourceID {
			return true
		}
	}
	return false
}

// StartTime parses the event start instant. The second return is false
// when the event carries no usable start time.
func (e Event) StartTime() (time.Time, bool) {
	if e.StartAt == "" {
		return time.Time{}, false
	}
	t, err := timewindow.ParseAPI(e.StartAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CreateKind classifies the outcome of a reservation create call.
type CreateKind int

const (
	CreateCreated CreateKind = iota
	CreateConflict
	CreateUnauthorized
	CreateFailed
	CreateTransportError
)

// CreateResult is the tagged outcome of CreateReservation. Which fields
// are populated depends on Kind: ID/Status on CreateCreated, HTTPStatus
// and Body on CreateConflict/CreateFailed, Err on CreateTransportError.
type CreateResult struct {
	Kind       CreateKind
	ID         string
	Status     string
	HTTPStatus int
	Body       string
	Err        error
}
