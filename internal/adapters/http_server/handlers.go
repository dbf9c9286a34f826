package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"wayfare/internal/app"
	"wayfare/internal/domain"
)

type Handlers struct {
	Search *app.SearchService
	Trips  *app.TripService // nil when no generator is configured
	Cache  domain.SearchCache

	v *validator.Validate
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	h.v = validator.New()

	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/hotels/search", h.searchHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Post("/v1/hotels/availability", h.checkAvailability)
	s.mux.Post("/v1/hotels/alternatives", h.getAlternatives)
	s.mux.Post("/v1/hotels/lookup", h.batchLookup)
	s.mux.Post("/v1/hotels/verify", h.verifyHotels)
	s.mux.Post("/v1/itineraries", h.planTrip)
	s.mux.Post("/v1/cache/purge", h.purgeCache)
}

/********** request shapes **********/

const dateLayout = "2006-01-02"

type searchRequest struct {
	Location  string   `json:"location" validate:"required"`
	CheckIn   string   `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut  string   `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Rooms     int      `json:"rooms" validate:"min=1,max=10"`
	Guests    int      `json:"guests" validate:"min=1,max=20"`
	MinRating *float64 `json:"minRating" validate:"omitempty,gte=0,lte=5"`
	MaxPrice  *float64 `json:"maxPrice" validate:"omitempty,gt=0"`
	Chain     *string  `json:"chain"`
}

func (req *searchRequest) criteria() domain.SearchCriteria {
	in, _ := time.Parse(dateLayout, req.CheckIn)
	out, _ := time.Parse(dateLayout, req.CheckOut)
	return domain.SearchCriteria{
		Location:  req.Location,
		CheckIn:   in,
		CheckOut:  out,
		Rooms:     req.Rooms,
		Guests:    req.Guests,
		MinRating: req.MinRating,
		MaxPrice:  req.MaxPrice,
		Chain:     req.Chain,
	}
}

type availabilityRequest struct {
	HotelID  string `json:"hotelId" validate:"required"`
	CheckIn  string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Rooms    int    `json:"rooms" validate:"min=1,max=10"`
	Guests   int    `json:"guests" validate:"min=1,max=20"`
}

type alternativesRequest struct {
	HotelID  string   `json:"hotelId" validate:"required"`
	PriceMin *float64 `json:"priceMin" validate:"omitempty,gte=0"`
	PriceMax *float64 `json:"priceMax" validate:"omitempty,gt=0"`
	Limit    int      `json:"limit" validate:"omitempty,min=1,max=20"`
}

type lookupRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=100,dive,required"`
}

type verifyRequest struct {
	Hotels []recommendedHotel `json:"hotels" validate:"required,min=1,max=50,dive"`
	Trip   tripContext        `json:"trip" validate:"required"`
}

type recommendedHotel struct {
	Name       string `json:"name" validate:"required"`
	StarRating int    `json:"starRating" validate:"omitempty,min=1,max=5"`
}

type tripContext struct {
	Location string `json:"location" validate:"required"`
	CheckIn  string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	Rooms    int    `json:"rooms" validate:"min=0,max=10"`
	Guests   int    `json:"guests" validate:"min=0,max=20"`
}

type itineraryRequest struct {
	Origin       string `json:"origin" validate:"required"`
	Destination  string `json:"destination" validate:"required"`
	StartDate    string `json:"startDate" validate:"required,datetime=2006-01-02"`
	Days         int    `json:"days" validate:"min=1,max=30"`
	Travelers    int    `json:"travelers" validate:"min=1,max=20"`
	Preferences  string `json:"preferences"`
	VerifyHotels bool   `json:"verifyHotels"`
}

/********** handlers **********/

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !h.decode(w, r, &req, func() {
		if req.Rooms == 0 {
			req.Rooms = 1
		}
		if req.Guests == 0 {
			req.Guests = 1
		}
	}) {
		return
	}

	res, err := h.Search.SearchHotels(r.Context(), req.criteria())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must not be empty")
		return
	}
	hotel, err := h.Search.GetHotelByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	etag, body := calcETagAndBody(hotel)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

func (h *Handlers) checkAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if !h.decode(w, r, &req, func() {
		if req.Rooms == 0 {
			req.Rooms = 1
		}
		if req.Guests == 0 {
			req.Guests = 1
		}
	}) {
		return
	}
	in, _ := time.Parse(dateLayout, req.CheckIn)
	out, _ := time.Parse(dateLayout, req.CheckOut)

	av, err := h.Search.CheckAvailability(r.Context(), domain.AvailabilityQuery{
		HotelID:  req.HotelID,
		CheckIn:  in,
		CheckOut: out,
		Rooms:    req.Rooms,
		Guests:   req.Guests,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, av)
}

func (h *Handlers) getAlternatives(w http.ResponseWriter, r *http.Request) {
	var req alternativesRequest
	if !h.decode(w, r, &req, nil) {
		return
	}
	alts, err := h.Search.GetAlternativeHotels(r.Context(), app.AlternativesRequest{
		HotelID:  req.HotelID,
		PriceMin: req.PriceMin,
		PriceMax: req.PriceMax,
		Limit:    req.Limit,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alternatives": alts, "total": len(alts)})
}

func (h *Handlers) batchLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if !h.decode(w, r, &req, nil) {
		return
	}
	results := h.Search.BatchLookup(r.Context(), req.IDs)
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *Handlers) verifyHotels(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !h.decode(w, r, &req, nil) {
		return
	}
	in, _ := time.Parse(dateLayout, req.Trip.CheckIn)
	out, _ := time.Parse(dateLayout, req.Trip.CheckOut)

	hotels := make([]domain.RecommendedHotel, 0, len(req.Hotels))
	for _, rh := range req.Hotels {
		hotels = append(hotels, domain.RecommendedHotel{Name: rh.Name, StarRating: rh.StarRating})
	}
	results := h.Search.VerifyRecommendedHotels(r.Context(), hotels, domain.TripContext{
		Location: req.Trip.Location,
		CheckIn:  in,
		CheckOut: out,
		Rooms:    req.Trip.Rooms,
		Guests:   req.Trip.Guests,
	})
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *Handlers) planTrip(w http.ResponseWriter, r *http.Request) {
	if h.Trips == nil {
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "itinerary generation is not configured")
		return
	}
	var req itineraryRequest
	if !h.decode(w, r, &req, func() {
		if req.Days == 0 {
			req.Days = 1
		}
		if req.Travelers == 0 {
			req.Travelers = 1
		}
	}) {
		return
	}
	start, _ := time.Parse(dateLayout, req.StartDate)

	plan, err := h.Trips.PlanTrip(r.Context(), domain.TripRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		StartDate:   start,
		Days:        req.Days,
		Travelers:   req.Travelers,
		Preferences: req.Preferences,
	}, req.VerifyHotels)
	if err != nil {
		writeProblem(w, http.StatusBadGateway, "Generation Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handlers) purgeCache(w http.ResponseWriter, r *http.Request) {
	n, err := h.Cache.PurgeExpired(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Purge Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"purged": n})
}

/********** helpers **********/

// decode parses the JSON body, applies defaults, and validates. Returns
// false after writing the error response.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any, defaults func()) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return false
	}
	if defaults != nil {
		defaults()
	}
	if err := h.v.Struct(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
	case errors.Is(err, domain.ErrInventoryUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Inventory Unavailable", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}
