package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"wayfare/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// Upsert inserts or updates by hotel_id. Popularity is recomputed from the
// incoming record as part of every write.
func (r *Repo) Upsert(ctx context.Context, h domain.Hotel) error {
	h.Popularity = h.PopularityScore()

	amen, _ := json.Marshal(h.Amenities)
	names := make([]string, 0, len(h.Amenities))
	for _, a := range h.Amenities {
		names = append(names, a.Name)
	}

	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.HotelID,
		h.Name,
		h.Description,
		h.Address,
		h.City,
		h.Country,
		valF64(h.Lat),
		valF64(h.Lon),
		h.StarRating,
		h.ReviewScore,
		h.ReviewCount,
		h.PriceMin,
		h.PriceMax,
		h.Currency,
		string(amen),
		strings.Join(names, " "),
		b2i(h.Active),
		b2i(h.Verified),
		b2i(h.Featured),
		h.VerificationRate,
		h.Popularity,
	)
	return err
}

func (r *Repo) GetByID(ctx context.Context, hotelID string) (domain.Hotel, error) {
	row := r.db.QueryRowContext(ctx, getHotelSQL, hotelID)
	h, err := scanHotel(row)
	if err == sql.ErrNoRows {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

// FindByLocation matches city and country case-insensitively (partial),
// with optional star floor and price ceiling, active rows only.
func (r *Repo) FindByLocation(ctx context.Context, q domain.LocationQuery) ([]domain.Hotel, error) {
	var sb strings.Builder
	sb.WriteString("SELECT" + hotelCols + " FROM hotels WHERE active = 1")
	var args []any

	if c := strings.TrimSpace(q.City); c != "" {
		sb.WriteString(" AND LOWER(city) LIKE ?")
		args = append(args, "%"+strings.ToLower(c)+"%")
	}
	if c := strings.TrimSpace(q.Country); c != "" {
		sb.WriteString(" AND LOWER(country) LIKE ?")
		args = append(args, "%"+strings.ToLower(c)+"%")
	}
	if q.MinStars != nil {
		sb.WriteString(" AND star_rating >= ?")
		args = append(args, *q.MinStars)
	}
	if q.MaxPrice != nil {
		sb.WriteString(" AND price_min <= ?")
		args = append(args, *q.MaxPrice)
	}

	sb.WriteString(" ORDER BY star_rating DESC, review_score DESC, popularity DESC LIMIT ?")
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	return r.queryHotels(ctx, sb.String(), args...)
}

func (r *Repo) SearchByName(ctx context.Context, name string, loc *domain.LocationQuery) ([]domain.Hotel, error) {
	var sb strings.Builder
	sb.WriteString(searchByNameSQL)
	args := []any{name, name}

	limit := 50
	if loc != nil {
		if c := strings.TrimSpace(loc.City); c != "" {
			sb.WriteString(" AND LOWER(city) LIKE ?")
			args = append(args, "%"+strings.ToLower(c)+"%")
		}
		if c := strings.TrimSpace(loc.Country); c != "" {
			sb.WriteString(" AND LOWER(country) LIKE ?")
			args = append(args, "%"+strings.ToLower(c)+"%")
		}
		if loc.Limit > 0 {
			limit = loc.Limit
		}
	}
	sb.WriteString(" ORDER BY relevance DESC, star_rating DESC LIMIT ?")
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, relevance, err := scanHotelRelevance(rows)
		if err != nil {
			return nil, err
		}
		_ = relevance // ordering only
		out = append(out, h)
	}
	return out, rows.Err()
}

// FindAlternatives excludes the original, pins city and country, keeps
// star ratings within ±1 clamped to [1,5], and honors optional price
// bounds.
func (r *Repo) FindAlternatives(ctx context.Context, original domain.Hotel, c domain.AlternativeCriteria) ([]domain.Hotel, error) {
	lo, hi := original.StarRating-1, original.StarRating+1
	if lo < 1 {
		lo = 1
	}
	if hi > 5 {
		hi = 5
	}

	var sb strings.Builder
	sb.WriteString("SELECT" + hotelCols + ` FROM hotels
WHERE active = 1
  AND hotel_id <> ?
  AND LOWER(city) = LOWER(?)
  AND LOWER(country) = LOWER(?)
  AND star_rating BETWEEN ? AND ?`)
	args := []any{original.HotelID, original.City, original.Country, lo, hi}

	if c.PriceMin != nil {
		sb.WriteString(" AND price_max >= ?")
		args = append(args, *c.PriceMin)
	}
	if c.PriceMax != nil {
		sb.WriteString(" AND price_min <= ?")
		args = append(args, *c.PriceMax)
	}

	sb.WriteString(" ORDER BY star_rating DESC, review_score DESC, popularity DESC LIMIT ?")
	limit := c.Limit
	if limit <= 0 {
		limit = 5
	}
	args = append(args, limit)

	return r.queryHotels(ctx, sb.String(), args...)
}

func (r *Repo) queryHotels(ctx context.Context, query string, args ...any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanHotel(row scanner) (domain.Hotel, error) {
	var (
		h             domain.Hotel
		lat, lon      sql.NullFloat64
		amenitiesJSON []byte
		active        int
		verified      int
		featured      int
	)
	if err := row.Scan(
		&h.HotelID, &h.Name, &h.Description, &h.Address, &h.City, &h.Country,
		&lat, &lon,
		&h.StarRating, &h.ReviewScore, &h.ReviewCount,
		&h.PriceMin, &h.PriceMax, &h.Currency,
		&amenitiesJSON, &active, &verified, &featured,
		&h.VerificationRate, &h.Popularity,
	); err != nil {
		return domain.Hotel{}, err
	}
	if lat.Valid {
		v := lat.Float64
		h.Lat = &v
	}
	if lon.Valid {
		v := lon.Float64
		h.Lon = &v
	}
	_ = json.Unmarshal(amenitiesJSON, &h.Amenities)
	h.Active = active == 1
	h.Verified = verified == 1
	h.Featured = featured == 1
	return h, nil
}

func scanHotelRelevance(row scanner) (domain.Hotel, float64, error) {
	var (
		h             domain.Hotel
		lat, lon      sql.NullFloat64
		amenitiesJSON []byte
		active        int
		verified      int
		featured      int
		relevance     float64
	)
	if err := row.Scan(
		&h.HotelID, &h.Name, &h.Description, &h.Address, &h.City, &h.Country,
		&lat, &lon,
		&h.StarRating, &h.ReviewScore, &h.ReviewCount,
		&h.PriceMin, &h.PriceMax, &h.Currency,
		&amenitiesJSON, &active, &verified, &featured,
		&h.VerificationRate, &h.Popularity,
		&relevance,
	); err != nil {
		return domain.Hotel{}, 0, err
	}
	if lat.Valid {
		v := lat.Float64
		h.Lat = &v
	}
	if lon.Valid {
		v := lon.Float64
		h.Lon = &v
	}
	_ = json.Unmarshal(amenitiesJSON, &h.Amenities)
	h.Active = active == 1
	h.Verified = verified == 1
	h.Featured = featured == 1
	return h, relevance, nil
}
