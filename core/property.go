package core

import (
	"context"
	"time"
)

// PropertyRecord is a read-only catalog snapshot supplied by the property
// catalog collaborator for the duration of a resolution or search call.
type PropertyRecord struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	City        string  `json:"city"`
	Price       float64 `json:"price"`
	SizeSqft    float64 `json:"size_sqft"`
}

// Filter narrows a catalog listing. Nil fields are unconstrained.
type Filter struct {
	City     string
	MinPrice *float64
	MaxPrice *float64
}

// PropertyCatalog supplies property snapshots. Implementations must return
// records the caller may keep without affecting the backing store.
type PropertyCatalog interface {
	// List returns the properties matching the filter.
	List(ctx context.Context, f Filter) ([]PropertyRecord, error)

	// Get returns a single property by identifier. ErrNoMatch when absent.
	Get(ctx context.Context, id int64) (PropertyRecord, error)
}

// BookingStatus tracks the lifecycle of a scheduled viewing.
type BookingStatus string

// Viewing lifecycle states.
const (
	BookingScheduled BookingStatus = "scheduled"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingRecord is a confirmed viewing appointment.
type BookingRecord struct {
	ID          int64         `json:"id"`
	PropertyID  int64         `json:"property_id"`
	UserID      int64         `json:"user_id"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Status      BookingStatus `json:"status"`
	Created     time.Time     `json:"created"`
}

// BookingService schedules and lists property viewings.
type BookingService interface {
	Create(ctx context.Context, propertyID, userID int64, scheduledAt time.Time) (BookingRecord, error)
	List(ctx context.Context, userID int64) ([]BookingRecord, error)
}
