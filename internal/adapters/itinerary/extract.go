package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"

	"wayfare/internal/domain"
)

// ErrNoItinerary: the completion text contained no parseable JSON object.
var ErrNoItinerary = errors.New("itinerary: no embedded JSON object in completion")

// Model output is loosely schema'd; accept the common key variants and
// coalesce, first present wins.
type wireItinerary struct {
	DistanceKm    *float64  `json:"distanceKm"`
	Distance      *float64  `json:"distance"`
	DurationHours *float64  `json:"durationHours"`
	Duration      *float64  `json:"duration"`
	Days          []wireDay `json:"days"`
	Itinerary     []wireDay `json:"itinerary"`
}

type wireDay struct {
	Day             int    `json:"day"`
	HotelName       string `json:"hotelName"`
	Hotel           string `json:"hotel"`
	ChargingStation string `json:"chargingStation"`
	Station         string `json:"station"`
	Notes           string `json:"notes"`
}

// ExtractItinerary locates the first balanced JSON object in free-form
// completion text and decodes it.
func ExtractItinerary(text string) (domain.Itinerary, error) {
	raw, ok := firstJSONObject(text)
	if !ok {
		return domain.Itinerary{}, ErrNoItinerary
	}
	var w wireItinerary
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return domain.Itinerary{}, fmt.Errorf("%w: %v", ErrNoItinerary, err)
	}

	var it domain.Itinerary
	if w.DistanceKm != nil {
		it.DistanceKm = *w.DistanceKm
	} else if w.Distance != nil {
		it.DistanceKm = *w.Distance
	}
	if w.DurationHours != nil {
		it.DurationHours = *w.DurationHours
	} else if w.Duration != nil {
		it.DurationHours = *w.Duration
	}

	days := w.Days
	if len(days) == 0 {
		days = w.Itinerary
	}
	it.Days = make([]domain.ItineraryDay, 0, len(days))
	for i, d := range days {
		day := domain.ItineraryDay{
			Day:             d.Day,
			HotelName:       coalesce(d.HotelName, d.Hotel),
			ChargingStation: coalesce(d.ChargingStation, d.Station),
			Notes:           d.Notes,
		}
		if day.Day == 0 {
			day.Day = i + 1
		}
		it.Days = append(it.Days, day)
	}
	return it, nil
}

// firstJSONObject scans for the first '{' and returns the balanced object
// starting there, tracking string literals and escapes.
func firstJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if start < 0 {
			if ch == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}
	return "", false
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
