package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"wayfare/internal/domain"
)

// inlineAltLimit caps the alternatives attached to a single verification
// outcome.
const inlineAltLimit = 3

// VerifyRecommendedHotels checks each AI-suggested hotel name against live
// or cached inventory for the trip's location and dates. Items are
// processed sequentially and isolated: a failure for one hotel is recorded
// as unavailable and never aborts the batch.
func (s *SearchService) VerifyRecommendedHotels(ctx context.Context, hotels []domain.RecommendedHotel, trip domain.TripContext) []domain.VerificationResult {
	out := make([]domain.VerificationResult, 0, len(hotels))
	for _, rh := range hotels {
		res, err := s.verifyOne(ctx, rh, trip)
		if err != nil {
			log.Warn().Err(err).Str("hotel", rh.Name).Msg("verification failed")
			res = domain.VerificationResult{
				Hotel:  rh,
				Status: domain.StatusUnavailable,
				Reason: err.Error(),
			}
		}
		out = append(out, res)
	}
	return out
}

func (s *SearchService) verifyOne(ctx context.Context, rh domain.RecommendedHotel, trip domain.TripContext) (domain.VerificationResult, error) {
	criteria := domain.SearchCriteria{
		Location: trip.Location,
		CheckIn:  trip.CheckIn,
		CheckOut: trip.CheckOut,
		Rooms:    max1(trip.Rooms),
		Guests:   max1(trip.Guests),
	}
	// The first item pays for the live search; repeats for the same trip
	// land on the cache entry it wrote.
	sr, err := s.SearchHotels(ctx, criteria)
	if err != nil {
		return domain.VerificationResult{}, err
	}

	if match, confidence := matchByName(rh.Name, sr.Hotels); match != nil {
		return domain.VerificationResult{
			Hotel:      rh,
			Status:     domain.StatusVerified,
			Confidence: confidence,
			Match:      match,
		}, nil
	}

	alts := inlineAlternatives(rh, sr.Hotels)
	if len(alts) > 0 {
		return domain.VerificationResult{
			Hotel:        rh,
			Status:       domain.StatusAlternatives,
			Alternatives: alts,
		}, nil
	}

	return domain.VerificationResult{
		Hotel:  rh,
		Status: domain.StatusUnavailable,
		Reason: fmt.Sprintf("no matching hotel or alternatives found in %s", trip.Location),
	}, nil
}

// matchByName applies the fuzzy rule: exact case-insensitive match wins
// with full confidence; a substring match in either direction scores 0.8.
func matchByName(name string, hotels []domain.Hotel) (*domain.Hotel, float64) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, 0
	}
	for i := range hotels {
		if strings.ToLower(strings.TrimSpace(hotels[i].Name)) == needle {
			return &hotels[i], domain.ConfidenceExact
		}
	}
	for i := range hotels {
		candidate := strings.ToLower(strings.TrimSpace(hotels[i].Name))
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			return &hotels[i], domain.ConfidencePartial
		}
	}
	return nil, 0
}

// inlineAlternatives picks same-search candidates within ±1 star of the
// suggestion (any rating when the suggestion carries none), ranked by the
// weighted star/review score.
func inlineAlternatives(rh domain.RecommendedHotel, hotels []domain.Hotel) []domain.Hotel {
	var pool []domain.Hotel
	if rh.StarRating > 0 {
		lo, hi := starWindow(rh.StarRating)
		for _, h := range hotels {
			if h.StarRating >= lo && h.StarRating <= hi {
				pool = append(pool, h)
			}
		}
	} else {
		pool = append(pool, hotels...)
	}
	rankAlternatives(pool)
	if len(pool) > inlineAltLimit {
		pool = pool[:inlineAltLimit]
	}
	return pool
}

// starWindow is the ±1 band around a rating, clamped to [1,5].
func starWindow(stars int) (int, int) {
	lo, hi := stars-1, stars+1
	if lo < 1 {
		lo = 1
	}
	if hi > 5 {
		hi = 5
	}
	return lo, hi
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
