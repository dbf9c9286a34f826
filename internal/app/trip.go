package app

import (
	"context"
	"fmt"

	"wayfare/internal/domain"
)

// TripService generates an itinerary and optionally verifies its hotel
// suggestions against inventory in one pass.
type TripService struct {
	gen    domain.ItineraryGenerator
	search *SearchService
}

func NewTripService(gen domain.ItineraryGenerator, search *SearchService) *TripService {
	return &TripService{gen: gen, search: search}
}

// TripPlan pairs the generated itinerary with the verification outcomes of
// its hotel suggestions.
type TripPlan struct {
	Itinerary    domain.Itinerary            `json:"itinerary"`
	Verification []domain.VerificationResult `json:"verification,omitempty"`
}

// PlanTrip calls the generator and, when verify is set, runs the suggested
// hotel names through the standard verification batch for the trip's
// destination and dates.
func (t *TripService) PlanTrip(ctx context.Context, req domain.TripRequest, verify bool) (TripPlan, error) {
	it, err := t.gen.Generate(ctx, req)
	if err != nil {
		return TripPlan{}, fmt.Errorf("generate itinerary: %w", err)
	}
	plan := TripPlan{Itinerary: it}
	if !verify {
		return plan, nil
	}

	names := it.HotelNames()
	if len(names) == 0 {
		return plan, nil
	}
	recommended := make([]domain.RecommendedHotel, 0, len(names))
	for _, n := range names {
		recommended = append(recommended, domain.RecommendedHotel{Name: n})
	}
	trip := domain.TripContext{
		Location: req.Destination,
		CheckIn:  req.StartDate,
		CheckOut: req.StartDate.AddDate(0, 0, max1(req.Days)),
		Rooms:    1,
		Guests:   max1(req.Travelers),
	}
	plan.Verification = t.search.VerifyRecommendedHotels(ctx, recommended, trip)
	return plan, nil
}
