package domain

import (
	"strings"
	"time"
)

// TripRequest describes the journey an itinerary is generated for.
type TripRequest struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	StartDate   time.Time `json:"startDate"`
	Days        int       `json:"days"`
	Travelers   int       `json:"travelers"`
	Preferences string    `json:"preferences,omitempty"`
}

type ItineraryDay struct {
	Day             int    `json:"day"`
	HotelName       string `json:"hotelName,omitempty"`
	ChargingStation string `json:"chargingStation,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// Itinerary is the structured object extracted from the generator's
// free-form completion text.
type Itinerary struct {
	ID            string         `json:"id"`
	DistanceKm    float64        `json:"distanceKm,omitempty"`
	DurationHours float64        `json:"durationHours,omitempty"`
	Days          []ItineraryDay `json:"days"`
}

// HotelNames returns the distinct, non-empty hotel suggestions in day
// order. Duplicates are dropped case-insensitively.
func (it Itinerary) HotelNames() []string {
	seen := make(map[string]struct{}, len(it.Days))
	var out []string
	for _, d := range it.Days {
		name := strings.TrimSpace(d.HotelName)
		if name == "" {
			continue
		}
		k := strings.ToLower(name)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, name)
	}
	return out
}
