package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"wayfare/internal/adapters/observability"
	"wayfare/internal/domain"
)

// Client calls the third-party hotel-inventory service. It rate-limits
// outbound calls client-side but never retries: a failed call is the
// orchestrator's signal to fall back to the directory.
type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, key string, rps int, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		key:  key,
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var (
	ErrNotFound     = errors.New("inventory: not found")
	ErrUnauthorized = errors.New("inventory: unauthorized")
	ErrForbidden    = errors.New("inventory: forbidden")
)

// Search issues POST /hotels/search and normalizes the heterogeneous
// result list into domain hotels.
func (c *Client) Search(ctx context.Context, crit domain.SearchCriteria) (domain.SearchResponse, error) {
	body := searchRequestBody(crit)

	start := time.Now()
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, c.base+"/hotels/search", body, &raw); err != nil {
		return domain.SearchResponse{}, err
	}
	elapsed := time.Since(start)

	hotels := mapHotels(rawList(raw, "hotels", "results", "data"))
	total := len(hotels)
	if n := firstInt(raw, "total", "totalResults", "total_results", "count"); n != nil {
		total = int(*n)
	}
	return domain.SearchResponse{
		Hotels:         hotels,
		Total:          total,
		ResponseTimeMs: elapsed.Milliseconds(),
	}, nil
}

// GetByID issues GET /hotels/{id}. A not-found response yields (nil, nil);
// any other failure is surfaced.
func (c *Client) GetByID(ctx context.Context, hotelID string) (*domain.Hotel, error) {
	var raw map[string]any
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/hotels/%s", c.base, hotelID), nil, &raw)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	h, ok := mapHotel(raw)
	if !ok {
		return nil, nil
	}
	return &h, nil
}

// CheckAvailability issues POST /hotels/availability.
func (c *Client) CheckAvailability(ctx context.Context, q domain.AvailabilityQuery) (domain.Availability, error) {
	body := map[string]any{
		"hotelId":  q.HotelID,
		"checkIn":  q.CheckIn.Format("2006-01-02"),
		"checkOut": q.CheckOut.Format("2006-01-02"),
		"rooms":    q.Rooms,
		"guests":   q.Guests,
	}
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, c.base+"/hotels/availability", body, &raw); err != nil {
		return domain.Availability{}, err
	}
	return mapAvailability(raw), nil
}

func searchRequestBody(c domain.SearchCriteria) map[string]any {
	body := map[string]any{
		"location": c.Location,
		"checkIn":  c.CheckIn.Format("2006-01-02"),
		"checkOut": c.CheckOut.Format("2006-01-02"),
		"rooms":    c.Rooms,
		"guests":   c.Guests,
	}
	filters := map[string]any{}
	if c.MinRating != nil {
		filters["minRating"] = *c.MinRating
	}
	if c.MaxPrice != nil {
		filters["maxPrice"] = *c.MaxPrice
	}
	if c.Chain != nil && *c.Chain != "" {
		filters["chain"] = *c.Chain
	}
	if len(filters) > 0 {
		body["filters"] = filters
	}
	return body
}

// do performs one request with rate limiting and JSON decode into out.
// No retry loop: status is mapped to a sentinel or surfaced as-is.
func (c *Client) do(ctx context.Context, method, url string, body any, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "wayfare/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("inventory", endpointLabel(method, url), 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("inventory", endpointLabel(method, url), resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNoContent:
		io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// endpointLabel keeps metric cardinality bounded: method plus the last
// static path segment.
func endpointLabel(method, url string) string {
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		seg := url[i+1:]
		if seg == "search" || seg == "availability" {
			return method + " /hotels/" + seg
		}
	}
	return method + " /hotels/{id}"
}
