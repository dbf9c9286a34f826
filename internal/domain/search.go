package domain

import "time"

// SearchCriteria describes one hotel search. Dates carry day granularity;
// time-of-day is ignored everywhere.
type SearchCriteria struct {
	Location string    `json:"location"`
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
	Rooms    int       `json:"rooms"`
	Guests   int       `json:"guests"`

	// Optional filters; part of the cache signature when set.
	MinRating *float64 `json:"minRating,omitempty"`
	MaxPrice  *float64 `json:"maxPrice,omitempty"`
	Chain     *string  `json:"chain,omitempty"`
}

// Source tags which layer of the fallback chain produced a result set.
type Source string

const (
	SourceCache    Source = "cache"
	SourceAPI      Source = "api"
	SourceFallback Source = "fallback"
)

// SearchResponse is the inventory client's normalized answer to one search.
type SearchResponse struct {
	Hotels         []Hotel `json:"hotels"`
	Total          int     `json:"total"`
	ResponseTimeMs int64   `json:"responseTimeMs"`
}

// SearchResult is what the orchestrator hands back to the HTTP layer.
type SearchResult struct {
	Hotels         []Hotel `json:"hotels"`
	Total          int     `json:"total"`
	Source         Source  `json:"source"`
	Signature      string  `json:"signature"`
	ResponseTimeMs int64   `json:"responseTimeMs,omitempty"`

	// NeedsRefresh is advisory: set on cache hits whose entry has not been
	// accessed for over an hour. Nothing acts on it automatically.
	NeedsRefresh bool `json:"needsRefresh,omitempty"`
}

const (
	CacheStatusValid   = "valid"
	CacheStatusExpired = "expired"
)

// staleAfter is the advisory refresh threshold on cache entries.
const staleAfter = time.Hour

// CacheEntry memoizes the outcome of one search under its signature.
type CacheEntry struct {
	Signature      string         `json:"signature"`
	Criteria       SearchCriteria `json:"criteria"`
	Hotels         []Hotel        `json:"hotels"`
	Total          int            `json:"total"`
	RetrievedAt    time.Time      `json:"retrievedAt"`
	ExpiresAt      time.Time      `json:"expiresAt"`
	Status         string         `json:"status"` // valid | expired
	HitCount       int            `json:"hitCount"`
	LastAccessedAt time.Time      `json:"lastAccessedAt"`
}

// Valid reports whether the entry may be served at time now. An entry past
// its expiry, flagged expired, or whose check-out date already lies in the
// past is a miss even if the row still exists.
func (e *CacheEntry) Valid(now time.Time) bool {
	if e == nil || e.Status == CacheStatusExpired {
		return false
	}
	if !now.Before(e.ExpiresAt) {
		return false
	}
	if !e.Criteria.CheckOut.IsZero() && e.Criteria.CheckOut.Before(DayOf(now)) {
		return false
	}
	return true
}

// NeedsRefresh reports whether the entry has gone stale by access time.
// Informational only.
func (e *CacheEntry) NeedsRefresh(now time.Time) bool {
	return now.Sub(e.LastAccessedAt) > staleAfter
}

// DayOf truncates a timestamp to UTC day granularity.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LocationQuery narrows directory reads by place and optional commercial
// filters.
type LocationQuery struct {
	City     string
	Country  string
	MinStars *int
	MaxPrice *float64
	Limit    int
}

// AlternativeCriteria bounds an alternatives lookup. Star range is derived
// from the original hotel, not carried here.
type AlternativeCriteria struct {
	PriceMin *float64
	PriceMax *float64
	Limit    int
}

// AvailabilityQuery asks the inventory service about one stay.
type AvailabilityQuery struct {
	HotelID  string    `json:"hotelId"`
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
	Rooms    int       `json:"rooms"`
	Guests   int       `json:"guests"`
}

type RoomOption struct {
	Type          string  `json:"type"`
	PricePerNight float64 `json:"pricePerNight"`
	Currency      string  `json:"currency,omitempty"`
	Remaining     int     `json:"remaining,omitempty"`
}

type Pricing struct {
	Total    float64 `json:"total"`
	Currency string  `json:"currency,omitempty"`
}

// Availability is the pass-through availability shape from the inventory
// service.
type Availability struct {
	Available    bool         `json:"available"`
	Rooms        []RoomOption `json:"rooms,omitempty"`
	Pricing      Pricing      `json:"pricing"`
	Restrictions []string     `json:"restrictions,omitempty"`
}

// LookupResult is one item of a batch id lookup; errors stay inline.
type LookupResult struct {
	HotelID string `json:"hotelId"`
	Hotel   *Hotel `json:"hotel,omitempty"`
	Source  Source `json:"source,omitempty"`
	Error   string `json:"error,omitempty"`
}
