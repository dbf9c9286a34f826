package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "wayfare/internal/adapters/http_server"
	"wayfare/internal/app"
	"wayfare/internal/domain"
)

/********** fakes **********/

type stubInventory struct {
	hotels []domain.Hotel
	err    error
}

func (s *stubInventory) Search(ctx context.Context, c domain.SearchCriteria) (domain.SearchResponse, error) {
	if s.err != nil {
		return domain.SearchResponse{}, s.err
	}
	return domain.SearchResponse{Hotels: s.hotels, Total: len(s.hotels)}, nil
}

func (s *stubInventory) GetByID(ctx context.Context, id string) (*domain.Hotel, error) {
	for _, h := range s.hotels {
		if h.HotelID == id {
			cp := h
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubInventory) CheckAvailability(ctx context.Context, q domain.AvailabilityQuery) (domain.Availability, error) {
	return domain.Availability{Available: true, Pricing: domain.Pricing{Total: 480, Currency: "EUR"}}, nil
}

type stubDirectory struct{ hotels map[string]domain.Hotel }

func (s *stubDirectory) Upsert(ctx context.Context, h domain.Hotel) error {
	if s.hotels == nil {
		s.hotels = map[string]domain.Hotel{}
	}
	s.hotels[h.HotelID] = h
	return nil
}

func (s *stubDirectory) GetByID(ctx context.Context, id string) (domain.Hotel, error) {
	if h, ok := s.hotels[id]; ok {
		return h, nil
	}
	return domain.Hotel{}, domain.ErrNotFound
}

func (s *stubDirectory) FindByLocation(ctx context.Context, q domain.LocationQuery) ([]domain.Hotel, error) {
	return nil, nil
}

func (s *stubDirectory) SearchByName(ctx context.Context, name string, loc *domain.LocationQuery) ([]domain.Hotel, error) {
	return nil, nil
}

func (s *stubDirectory) FindAlternatives(ctx context.Context, original domain.Hotel, c domain.AlternativeCriteria) ([]domain.Hotel, error) {
	return nil, nil
}

type stubCache struct{ purged int }

func (s *stubCache) Lookup(ctx context.Context, sig string) (*domain.CacheEntry, bool, error) {
	return nil, false, nil
}

func (s *stubCache) Store(ctx context.Context, sig string, c domain.SearchCriteria, hotels []domain.Hotel, total int, ttl time.Duration) (*domain.CacheEntry, error) {
	return &domain.CacheEntry{Signature: sig, HitCount: 1}, nil
}

func (s *stubCache) RecordHit(ctx context.Context, e *domain.CacheEntry) error { return nil }

func (s *stubCache) PurgeExpired(ctx context.Context) (int, error) { return s.purged, nil }

/********** harness **********/

func newTestServer(t *testing.T, inv domain.InventoryClient, cache domain.SearchCache) *httptest.Server {
	t.Helper()
	search := app.NewSearchService(inv, &stubDirectory{}, cache, 2*time.Hour, 50)
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{Search: search, Cache: cache})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func demoHotel() domain.Hotel {
	return domain.Hotel{HotelID: "h1", Name: "Hotel Lumière", City: "Paris", StarRating: 4, ReviewScore: 8.6, Active: true}
}

/********** tests **********/

func TestSearchEndpoint_OK(t *testing.T) {
	ts := newTestServer(t, &stubInventory{hotels: []domain.Hotel{demoHotel()}}, &stubCache{})

	resp := postJSON(t, ts.URL+"/v1/hotels/search",
		`{"location":"Paris","checkIn":"2027-06-01","checkOut":"2027-06-03"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	var out domain.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Source != domain.SourceAPI || out.Total != 1 {
		t.Fatalf("payload: %+v", out)
	}
}

func TestSearchEndpoint_ValidationFailure(t *testing.T) {
	ts := newTestServer(t, &stubInventory{}, &stubCache{})

	cases := []string{
		`{"checkIn":"2027-06-01","checkOut":"2027-06-03"}`,   // no location
		`{"location":"Paris","checkIn":"June 1st","checkOut":"2027-06-03"}`, // bad date
		`not json`,
	}
	for _, body := range cases {
		resp := postJSON(t, ts.URL+"/v1/hotels/search", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status %d, want 400", body, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
			t.Errorf("body %q: content type %q", body, ct)
		}
	}
}

func TestSearchEndpoint_InventoryUnavailable(t *testing.T) {
	ts := newTestServer(t, &stubInventory{err: context.DeadlineExceeded}, &stubCache{})

	resp := postJSON(t, ts.URL+"/v1/hotels/search",
		`{"location":"Paris","checkIn":"2027-06-01","checkOut":"2027-06-03"}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("empty fallback must map to 503, got %d", resp.StatusCode)
	}
}

func TestGetHotelEndpoint_ETag(t *testing.T) {
	ts := newTestServer(t, &stubInventory{hotels: []domain.Hotel{demoHotel()}}, &stubCache{})

	resp, err := http.Get(ts.URL + "/v1/hotels/h1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("ETag missing")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/hotels/h1", nil)
	req.Header.Set("If-None-Match", etag)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotModified {
		t.Fatalf("matching If-None-Match must yield 304, got %d", resp2.StatusCode)
	}
}

func TestGetHotelEndpoint_NotFound(t *testing.T) {
	ts := newTestServer(t, &stubInventory{}, &stubCache{})

	resp, err := http.Get(ts.URL + "/v1/hotels/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status: %d", resp.StatusCode)
	}
}

func TestAvailabilityEndpoint_OK(t *testing.T) {
	ts := newTestServer(t, &stubInventory{}, &stubCache{})

	resp := postJSON(t, ts.URL+"/v1/hotels/availability",
		`{"hotelId":"h1","checkIn":"2027-06-01","checkOut":"2027-06-03"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var av domain.Availability
	if err := json.NewDecoder(resp.Body).Decode(&av); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !av.Available || av.Pricing.Total != 480 {
		t.Fatalf("payload: %+v", av)
	}
}

func TestLookupEndpoint_PerItemErrors(t *testing.T) {
	ts := newTestServer(t, &stubInventory{hotels: []domain.Hotel{demoHotel()}}, &stubCache{})

	resp := postJSON(t, ts.URL+"/v1/hotels/lookup", `{"ids":["h1","missing"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var out struct {
		Results []domain.LookupResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("payload: %+v", out)
	}
	if out.Results[0].Hotel == nil || out.Results[0].Hotel.HotelID != "h1" {
		t.Fatalf("first item should resolve: %+v", out.Results[0])
	}
	if out.Results[1].Error == "" {
		t.Fatalf("unknown id must carry its error inline: %+v", out.Results[1])
	}

	resp = postJSON(t, ts.URL+"/v1/hotels/lookup", `{"ids":[]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty id list must fail validation, got %d", resp.StatusCode)
	}
}

func TestVerifyEndpoint_OK(t *testing.T) {
	ts := newTestServer(t, &stubInventory{hotels: []domain.Hotel{demoHotel()}}, &stubCache{})

	resp := postJSON(t, ts.URL+"/v1/hotels/verify",
		`{"hotels":[{"name":"Hotel Lumière"}],"trip":{"location":"Paris","checkIn":"2027-06-01","checkOut":"2027-06-03"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var out struct {
		Results []domain.VerificationResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].Status != domain.StatusVerified {
		t.Fatalf("payload: %+v", out)
	}
}

func TestItinerariesEndpoint_UnconfiguredIs503(t *testing.T) {
	ts := newTestServer(t, &stubInventory{}, &stubCache{})

	resp := postJSON(t, ts.URL+"/v1/itineraries",
		`{"origin":"Paris","destination":"Nice","startDate":"2027-06-01","days":3,"travelers":2}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("no generator configured must yield 503, got %d", resp.StatusCode)
	}
}

func TestPurgeEndpoint_OK(t *testing.T) {
	ts := newTestServer(t, &stubInventory{}, &stubCache{purged: 4})

	resp := postJSON(t, ts.URL+"/v1/cache/purge", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var out map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["purged"] != 4 {
		t.Fatalf("payload: %+v", out)
	}
}
