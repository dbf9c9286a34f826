package domain

import "math"

type Amenity struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Hotel is the normalized record of a lodging property, keyed by the
// inventory provider's opaque identifier.
type Hotel struct {
	HotelID     string   `json:"hotelId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	Country     string   `json:"country,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`

	StarRating  int     `json:"starRating"`  // 1..5, 0 = unknown
	ReviewScore float64 `json:"reviewScore"` // 0..10
	ReviewCount int     `json:"reviewCount"`

	PriceMin float64 `json:"priceMin,omitempty"`
	PriceMax float64 `json:"priceMax,omitempty"`
	Currency string  `json:"currency,omitempty"`

	Amenities []Amenity `json:"amenities,omitempty"`

	Active   bool `json:"active"`
	Verified bool `json:"verified"`
	Featured bool `json:"featured"`

	// VerificationRate is the fraction of verification attempts that
	// matched this hotel, in [0,1].
	VerificationRate float64 `json:"verificationRate"`

	// Popularity is derived; recomputed on every directory write.
	Popularity int `json:"popularity"`
}

// PopularityScore derives the 0-100 ranking metric from rating, reviews,
// verification history and featured status. Each term is capped before
// summing; the result is rounded and clamped to [0,100].
func (h Hotel) PopularityScore() int {
	stars := clamp(float64(h.StarRating), 0, 5)
	review := clamp(h.ReviewScore, 0, 10)
	rate := clamp(h.VerificationRate, 0, 1)

	score := 25 * stars / 5
	score += 30 * review / 10
	score += math.Min(20, 20*float64(h.ReviewCount)/1000)
	score += 15 * rate
	if h.Featured {
		score += 10
	}

	n := int(math.Round(score))
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return n
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
