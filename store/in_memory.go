package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/TonySuccar/autogen-realestate/core"
)

// InMemoryCatalog is a process-local PropertyCatalog. Reads return copies so
// callers can keep records across calls.
type InMemoryCatalog struct {
	mu         sync.RWMutex
	properties []core.PropertyRecord
}

var _ core.PropertyCatalog = (*InMemoryCatalog)(nil)

// NewInMemoryCatalog constructs a catalog seeded with the given records.
func NewInMemoryCatalog(properties ...core.PropertyRecord) *InMemoryCatalog {
	c := &InMemoryCatalog{}
	c.Add(properties...)
	return c
}

// Add appends records, assigning identifiers when absent.
func (c *InMemoryCatalog) Add(properties ...core.PropertyRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range properties {
		if p.ID == 0 {
			p.ID = int64(len(c.properties) + 1)
		}
		c.properties = append(c.properties, p)
	}
}

// List implements core.PropertyCatalog. City matching is a case-insensitive
// substring, mirroring the catalog semantics the search capability expects.
func (c *InMemoryCatalog) List(ctx context.Context, f core.Filter) ([]core.PropertyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]core.PropertyRecord, 0, len(c.properties))
	for _, p := range c.properties {
		if f.City != "" && !strings.Contains(strings.ToLower(p.City), strings.ToLower(f.City)) {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Get implements core.PropertyCatalog.
func (c *InMemoryCatalog) Get(ctx context.Context, id int64) (core.PropertyRecord, error) {
	if err := ctx.Err(); err != nil {
		return core.PropertyRecord{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.properties {
		if p.ID == id {
			return p, nil
		}
	}
	return core.PropertyRecord{}, core.ErrNoMatch
}

// InMemoryKnowledgeBase is a process-local KnowledgeBase.
type InMemoryKnowledgeBase struct {
	mu      sync.RWMutex
	entries []core.EmbeddingEntry
}

var _ core.KnowledgeBase = (*InMemoryKnowledgeBase)(nil)

// NewInMemoryKnowledgeBase constructs a knowledge base seeded with the given
// entries.
func NewInMemoryKnowledgeBase(entries ...core.EmbeddingEntry) *InMemoryKnowledgeBase {
	kb := &InMemoryKnowledgeBase{}
	kb.Add(entries...)
	return kb
}

// Add appends entries, assigning identifiers when absent.
func (kb *InMemoryKnowledgeBase) Add(entries ...core.EmbeddingEntry) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	for _, e := range entries {
		if e.ID == 0 {
			e.ID = int64(len(kb.entries) + 1)
		}
		kb.entries = append(kb.entries, e)
	}
}

// AllEntries implements core.KnowledgeBase; entries without a vector are
// skipped.
func (kb *InMemoryKnowledgeBase) AllEntries(ctx context.Context) ([]core.EmbeddingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	out := make([]core.EmbeddingEntry, 0, len(kb.entries))
	for _, e := range kb.entries {
		if len(e.Vector) == 0 {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// InMemoryBookings is a process-local BookingService assigning sequential
// confirmation numbers.
type InMemoryBookings struct {
	mu       sync.Mutex
	bookings []core.BookingRecord
	nextID   int64
}

var _ core.BookingService = (*InMemoryBookings)(nil)

// NewInMemoryBookings constructs an empty booking service.
func NewInMemoryBookings() *InMemoryBookings {
	return &InMemoryBookings{nextID: 1}
}

// Create implements core.BookingService.
func (b *InMemoryBookings) Create(ctx context.Context, propertyID, userID int64, scheduledAt time.Time) (core.BookingRecord, error) {
	if err := ctx.Err(); err != nil {
		return core.BookingRecord{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	rec := core.BookingRecord{
		ID:          b.nextID,
		PropertyID:  propertyID,
		UserID:      userID,
		ScheduledAt: scheduledAt,
		Status:      core.BookingScheduled,
		Created:     time.Now().UTC(),
	}
	b.nextID++
	b.bookings = append(b.bookings, rec)
	return rec, nil
}

// List implements core.BookingService.
func (b *InMemoryBookings) List(ctx context.Context, userID int64) ([]core.BookingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]core.BookingRecord, 0, len(b.bookings))
	for _, rec := range b.bookings {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}
