package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"wayfare/internal/adapters/observability"
	"wayfare/internal/domain"
)

// Defaults applied when a caller leaves limits unset.
const (
	defaultSearchLimit = 50
	defaultAltLimit    = 5
)

// SearchService sequences the cache → inventory → directory fallback
// chain and owns hotel lookup, availability and alternatives. It holds no
// state of its own.
type SearchService struct {
	inv   domain.InventoryClient
	dir   domain.HotelDirectory
	cache domain.SearchCache
	ttl   time.Duration
	limit int
}

func NewSearchService(inv domain.InventoryClient, dir domain.HotelDirectory, cache domain.SearchCache, ttl time.Duration, limit int) *SearchService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return &SearchService{inv: inv, dir: dir, cache: cache, ttl: ttl, limit: limit}
}

// probe is one layer of the fallback chain: it either produces a tagged
// result, declines (nil, nil), or fails.
type probe struct {
	source domain.Source
	run    func(ctx context.Context, c domain.SearchCriteria, sig string) (*domain.SearchResult, error)
}

// SearchHotels runs the ordered fallback chain. The first probe that
// yields a result wins and tags its provenance; a probe error on the cache
// or inventory layer demotes to the next layer, and an empty directory
// fallback fails with ErrInventoryUnavailable.
func (s *SearchService) SearchHotels(ctx context.Context, c domain.SearchCriteria) (domain.SearchResult, error) {
	sig := SearchSignature(c)

	chain := []probe{
		{domain.SourceCache, s.probeCache},
		{domain.SourceAPI, s.probeInventory},
		{domain.SourceFallback, s.probeDirectory},
	}
	for _, p := range chain {
		res, err := p.run(ctx, c, sig)
		if err != nil {
			if p.source == domain.SourceFallback {
				return domain.SearchResult{}, err
			}
			log.Warn().Err(err).Str("layer", string(p.source)).Str("signature", sig).Msg("search layer failed, falling through")
			continue
		}
		if res == nil {
			continue
		}
		observability.ObserveSearch(string(p.source))
		return *res, nil
	}
	return domain.SearchResult{}, fmt.Errorf("no hotels for %q: %w", c.Location, domain.ErrInventoryUnavailable)
}

func (s *SearchService) probeCache(ctx context.Context, c domain.SearchCriteria, sig string) (*domain.SearchResult, error) {
	entry, ok, err := s.cache.Lookup(ctx, sig)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	now := time.Now().UTC()
	stale := entry.NeedsRefresh(now)
	if err := s.cache.RecordHit(ctx, entry); err != nil {
		log.Warn().Err(err).Str("signature", sig).Msg("record cache hit failed")
	}
	return &domain.SearchResult{
		Hotels:       entry.Hotels,
		Total:        entry.Total,
		Source:       domain.SourceCache,
		Signature:    sig,
		NeedsRefresh: stale,
	}, nil
}

func (s *SearchService) probeInventory(ctx context.Context, c domain.SearchCriteria, sig string) (*domain.SearchResult, error) {
	resp, err := s.inv.Search(ctx, c)
	if err != nil {
		return nil, err
	}

	// Secondary writes must never fail the search response.
	for _, h := range resp.Hotels {
		if err := s.dir.Upsert(ctx, h); err != nil {
			log.Warn().Err(err).Str("hotel_id", h.HotelID).Msg("directory upsert failed")
		}
	}
	if _, err := s.cache.Store(ctx, sig, c, resp.Hotels, resp.Total, s.ttl); err != nil {
		log.Warn().Err(err).Str("signature", sig).Msg("cache store failed")
	}

	return &domain.SearchResult{
		Hotels:         resp.Hotels,
		Total:          resp.Total,
		Source:         domain.SourceAPI,
		Signature:      sig,
		ResponseTimeMs: resp.ResponseTimeMs,
	}, nil
}

func (s *SearchService) probeDirectory(ctx context.Context, c domain.SearchCriteria, sig string) (*domain.SearchResult, error) {
	q := domain.LocationQuery{City: c.Location, Limit: s.limit}
	if c.MinRating != nil {
		m := int(*c.MinRating)
		q.MinStars = &m
	}
	q.MaxPrice = c.MaxPrice

	hotels, err := s.dir.FindByLocation(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("directory fallback: %w", err)
	}
	if len(hotels) == 0 {
		return nil, fmt.Errorf("no hotels for %q: %w", c.Location, domain.ErrInventoryUnavailable)
	}
	return &domain.SearchResult{
		Hotels:    hotels,
		Total:     len(hotels),
		Source:    domain.SourceFallback,
		Signature: sig,
	}, nil
}

// GetHotelByID reads the directory first, then the inventory service. An
// inventory hit is written back to the directory best-effort.
func (s *SearchService) GetHotelByID(ctx context.Context, hotelID string) (domain.Hotel, error) {
	h, _, err := s.getHotelByID(ctx, hotelID)
	return h, err
}

func (s *SearchService) getHotelByID(ctx context.Context, hotelID string) (domain.Hotel, domain.Source, error) {
	h, err := s.dir.GetByID(ctx, hotelID)
	if err == nil {
		return h, domain.SourceFallback, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Hotel{}, "", err
	}

	remote, err := s.inv.GetByID(ctx, hotelID)
	if err != nil {
		return domain.Hotel{}, "", err
	}
	if remote == nil {
		return domain.Hotel{}, "", domain.ErrNotFound
	}
	if err := s.dir.Upsert(ctx, *remote); err != nil {
		log.Warn().Err(err).Str("hotel_id", hotelID).Msg("directory write-back failed")
	}
	return *remote, domain.SourceAPI, nil
}

// CheckAvailability passes through to the inventory service.
func (s *SearchService) CheckAvailability(ctx context.Context, q domain.AvailabilityQuery) (domain.Availability, error) {
	return s.inv.CheckAvailability(ctx, q)
}

// AlternativesRequest asks for substitutes of a known hotel.
type AlternativesRequest struct {
	HotelID  string
	PriceMin *float64
	PriceMax *float64
	Limit    int
}

// GetAlternativeHotels loads the original and queries the directory for
// same-city candidates within ±1 star, ranked by the weighted star/review
// score.
func (s *SearchService) GetAlternativeHotels(ctx context.Context, req AlternativesRequest) ([]domain.Hotel, error) {
	original, err := s.GetHotelByID(ctx, req.HotelID)
	if err != nil {
		return nil, err
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultAltLimit
	}
	alts, err := s.dir.FindAlternatives(ctx, original, domain.AlternativeCriteria{
		PriceMin: req.PriceMin,
		PriceMax: req.PriceMax,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	rankAlternatives(alts)
	return alts, nil
}

// BatchLookup resolves each id independently (directory then inventory);
// one failure never blocks the rest.
func (s *SearchService) BatchLookup(ctx context.Context, ids []string) []domain.LookupResult {
	out := make([]domain.LookupResult, 0, len(ids))
	for _, id := range ids {
		res := domain.LookupResult{HotelID: id}
		h, src, err := s.getHotelByID(ctx, id)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.Hotel = &h
			res.Source = src
		}
		out = append(out, res)
	}
	return out
}

// weightedScore ranks alternatives: star rating dominates, review score
// breaks it down further.
func weightedScore(h domain.Hotel) float64 {
	return 0.7*float64(h.StarRating) + 0.3*h.ReviewScore
}

// rankAlternatives sorts descending by weighted score; the stable sort
// keeps original retrieval order on ties.
func rankAlternatives(hotels []domain.Hotel) {
	sort.SliceStable(hotels, func(i, j int) bool {
		return weightedScore(hotels[i]) > weightedScore(hotels[j])
	})
}
