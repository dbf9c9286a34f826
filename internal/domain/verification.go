package domain

import "time"

// RecommendedHotel is one AI-suggested hotel to verify against inventory.
type RecommendedHotel struct {
	Name       string `json:"name"`
	StarRating int    `json:"starRating,omitempty"` // 0 = unknown
}

// TripContext carries the stay parameters a verification batch runs under.
type TripContext struct {
	Location string    `json:"location"`
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
	Rooms    int       `json:"rooms"`
	Guests   int       `json:"guests"`
}

type VerificationStatus string

const (
	StatusVerified     VerificationStatus = "verified"
	StatusAlternatives VerificationStatus = "alternatives-found"
	StatusUnavailable  VerificationStatus = "unavailable"
)

// Match confidences for fuzzy name verification.
const (
	ConfidenceExact   = 1.0
	ConfidencePartial = 0.8
)

// VerificationResult classifies one recommended hotel. Not persisted.
type VerificationResult struct {
	Hotel        RecommendedHotel   `json:"hotel"`
	Status       VerificationStatus `json:"status"`
	Confidence   float64            `json:"confidence,omitempty"`
	Match        *Hotel             `json:"match,omitempty"`
	Alternatives []Hotel            `json:"alternatives,omitempty"`
	Reason       string             `json:"reason,omitempty"`
}
