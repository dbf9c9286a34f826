package domain

import (
	"context"
	"time"
)

// HotelDirectory is the persistent record store of hotel entities.
type HotelDirectory interface {
	// Upsert inserts or updates by HotelID and recomputes popularity as
	// part of every write.
	Upsert(ctx context.Context, h Hotel) error
	// GetByID returns ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, hotelID string) (Hotel, error)
	// FindByLocation matches city/country case-insensitively (partial),
	// sorted stars desc, review score desc, popularity desc.
	FindByLocation(ctx context.Context, q LocationQuery) ([]Hotel, error)
	// SearchByName runs full-text relevance over name, description, city,
	// address and amenity names, optionally narrowed by location.
	SearchByName(ctx context.Context, name string, loc *LocationQuery) ([]Hotel, error)
	// FindAlternatives excludes the original, requires the same city and
	// country, and keeps star ratings within ±1 of the original (clamped
	// to [1,5]).
	FindAlternatives(ctx context.Context, original Hotel, c AlternativeCriteria) ([]Hotel, error)
}

// SearchCache memoizes search outcomes by signature.
//
// Store counts the write itself as one hit; this mirrors the behavior of
// the system it replaces and is intentional.
type SearchCache interface {
	Lookup(ctx context.Context, signature string) (*CacheEntry, bool, error)
	Store(ctx context.Context, signature string, criteria SearchCriteria, hotels []Hotel, total int, ttl time.Duration) (*CacheEntry, error)
	// RecordHit bumps hit count and last-accessed time; observability
	// only, never used for eviction.
	RecordHit(ctx context.Context, e *CacheEntry) error
	PurgeExpired(ctx context.Context) (int, error)
}

// InventoryClient talks to the third-party hotel inventory service. It
// never retries; the orchestrator owns failure handling.
type InventoryClient interface {
	Search(ctx context.Context, c SearchCriteria) (SearchResponse, error)
	// GetByID returns (nil, nil) on a not-found response.
	GetByID(ctx context.Context, hotelID string) (*Hotel, error)
	CheckAvailability(ctx context.Context, q AvailabilityQuery) (Availability, error)
}

// ItineraryGenerator produces a structured itinerary for a trip request.
type ItineraryGenerator interface {
	Generate(ctx context.Context, req TripRequest) (Itinerary, error)
}
