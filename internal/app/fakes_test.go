package app_test

import (
	"context"
	"errors"
	"time"

	"wayfare/internal/domain"
)

// ---- fakes ----

type fakeInventory struct {
	searchHotels []domain.Hotel
	searchErr    error
	searchCalls  int

	byID    map[string]domain.Hotel
	byIDErr error

	availability domain.Availability
}

func (f *fakeInventory) Search(ctx context.Context, c domain.SearchCriteria) (domain.SearchResponse, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return domain.SearchResponse{}, f.searchErr
	}
	return domain.SearchResponse{Hotels: f.searchHotels, Total: len(f.searchHotels), ResponseTimeMs: 5}, nil
}

func (f *fakeInventory) GetByID(ctx context.Context, hotelID string) (*domain.Hotel, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	if h, ok := f.byID[hotelID]; ok {
		return &h, nil
	}
	return nil, nil
}

func (f *fakeInventory) CheckAvailability(ctx context.Context, q domain.AvailabilityQuery) (domain.Availability, error) {
	return f.availability, nil
}

type fakeDirectory struct {
	hotels     map[string]domain.Hotel
	upserts    int
	upsertErr  error
	byLocation []domain.Hotel
	alts       []domain.Hotel
}

func (f *fakeDirectory) Upsert(ctx context.Context, h domain.Hotel) error {
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.hotels == nil {
		f.hotels = map[string]domain.Hotel{}
	}
	f.hotels[h.HotelID] = h
	return nil
}

func (f *fakeDirectory) GetByID(ctx context.Context, hotelID string) (domain.Hotel, error) {
	if h, ok := f.hotels[hotelID]; ok {
		return h, nil
	}
	return domain.Hotel{}, domain.ErrNotFound
}

func (f *fakeDirectory) FindByLocation(ctx context.Context, q domain.LocationQuery) ([]domain.Hotel, error) {
	return f.byLocation, nil
}

func (f *fakeDirectory) SearchByName(ctx context.Context, name string, loc *domain.LocationQuery) ([]domain.Hotel, error) {
	return nil, nil
}

func (f *fakeDirectory) FindAlternatives(ctx context.Context, original domain.Hotel, c domain.AlternativeCriteria) ([]domain.Hotel, error) {
	return f.alts, nil
}

type fakeCache struct {
	entries map[string]*domain.CacheEntry
	stores  int
	hits    int
}

func (f *fakeCache) Lookup(ctx context.Context, signature string) (*domain.CacheEntry, bool, error) {
	e, ok := f.entries[signature]
	if !ok || !e.Valid(time.Now().UTC()) {
		return nil, false, nil
	}
	cp := *e
	return &cp, true, nil
}

func (f *fakeCache) Store(ctx context.Context, signature string, criteria domain.SearchCriteria, hotels []domain.Hotel, total int, ttl time.Duration) (*domain.CacheEntry, error) {
	f.stores++
	if f.entries == nil {
		f.entries = map[string]*domain.CacheEntry{}
	}
	now := time.Now().UTC()
	e := &domain.CacheEntry{
		Signature:      signature,
		Criteria:       criteria,
		Hotels:         hotels,
		Total:          total,
		RetrievedAt:    now,
		ExpiresAt:      now.Add(ttl),
		Status:         domain.CacheStatusValid,
		HitCount:       1,
		LastAccessedAt: now,
	}
	if prev, ok := f.entries[signature]; ok {
		e.HitCount = prev.HitCount + 1
	}
	if !criteria.CheckOut.IsZero() && criteria.CheckOut.Before(domain.DayOf(now)) {
		e.Status = domain.CacheStatusExpired
	}
	f.entries[signature] = e
	return e, nil
}

func (f *fakeCache) RecordHit(ctx context.Context, e *domain.CacheEntry) error {
	f.hits++
	if stored, ok := f.entries[e.Signature]; ok {
		stored.HitCount++
		stored.LastAccessedAt = time.Now().UTC()
	}
	return nil
}

func (f *fakeCache) PurgeExpired(ctx context.Context) (int, error) {
	n := 0
	now := time.Now().UTC()
	for k, e := range f.entries {
		if !e.Valid(now) {
			delete(f.entries, k)
			n++
		}
	}
	return n, nil
}

// ---- helpers ----

var errBoom = errors.New("boom")

func parisCriteria() domain.SearchCriteria {
	return domain.SearchCriteria{
		Location: "Paris",
		CheckIn:  time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2027, 6, 3, 0, 0, 0, 0, time.UTC),
		Rooms:    1,
		Guests:   2,
	}
}

func hotel(id, name string, stars int, review float64) domain.Hotel {
	return domain.Hotel{
		HotelID:     id,
		Name:        name,
		City:        "Paris",
		Country:     "France",
		StarRating:  stars,
		ReviewScore: review,
		Active:      true,
	}
}

func mustSource(t interface{ Fatalf(string, ...any) }, got, want domain.Source) {
	if got != want {
		t.Fatalf("source: got %q want %q", got, want)
	}
}
