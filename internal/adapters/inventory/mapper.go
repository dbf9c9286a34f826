package inventory

import (
	"strconv"
	"strings"

	"wayfare/internal/domain"
)

// The inventory service answers with heterogeneous field names depending
// on which upstream supplier produced a record. Each alias list is tried
// in order; the first present, non-null value wins. Absent collections
// default to empty.

var hotelAliases = map[string][]string{
	"id":          {"id", "hotelId", "hotel_id", "propertyId", "property_id"},
	"name":        {"name", "hotelName", "hotel_name", "title"},
	"description": {"description", "summary", "about"},
	"address":     {"address.line", "address", "location.address", "full_address", "formatted_address"},
	"city":        {"city", "address.city", "location.city", "locality"},
	"country":     {"country", "address.country", "location.country", "countryCode", "country_code"},
	"currency":    {"currency", "price.currency", "pricing.currency"},
}

func mapHotels(in []map[string]any) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(in))
	for _, raw := range in {
		if h, ok := mapHotel(raw); ok {
			out = append(out, h)
		}
	}
	return out
}

// mapHotel normalizes one raw record. Records without a usable identifier
// are skipped (ok=false).
func mapHotel(m map[string]any) (domain.Hotel, bool) {
	id := firstStrAlias(m, "id")
	if id == "" {
		// some suppliers send numeric ids
		if n := firstInt(m, hotelAliases["id"]...); n != nil {
			id = strconv.FormatInt(*n, 10)
		}
	}
	if id == "" {
		return domain.Hotel{}, false
	}

	h := domain.Hotel{
		HotelID:     id,
		Name:        firstStrAlias(m, "name"),
		Description: firstStrAlias(m, "description"),
		Address:     firstStrAlias(m, "address"),
		City:        firstStrAlias(m, "city"),
		Country:     firstStrAlias(m, "country"),
		Currency:    firstStrAlias(m, "currency"),
		Lat:         firstFloat(m, "latitude", "lat", "location.lat", "coordinates.lat"),
		Lon:         firstFloat(m, "longitude", "lon", "lng", "location.lon", "location.lng", "coordinates.lon"),
		Active:      true,
	}

	if f := firstFloat(m, "starRating", "star_rating", "stars", "rating"); f != nil {
		s := int(*f)
		if s < 0 {
			s = 0
		}
		if s > 5 {
			s = 5
		}
		h.StarRating = s
	}
	if f := firstFloat(m, "reviewScore", "review_score", "guestRating", "guest_rating", "reviews.score"); f != nil {
		h.ReviewScore = *f
	}
	if n := firstInt(m, "reviewCount", "review_count", "reviews.count", "numReviews"); n != nil {
		h.ReviewCount = int(*n)
	}

	// price range: explicit bounds first, then a single total applied to both
	if f := firstFloat(m, "price.min", "priceMin", "price_min", "price.from", "minPrice"); f != nil {
		h.PriceMin = *f
	}
	if f := firstFloat(m, "price.max", "priceMax", "price_max", "price.to", "maxPrice"); f != nil {
		h.PriceMax = *f
	}
	if h.PriceMin == 0 && h.PriceMax == 0 {
		if f := firstFloat(m, "price.total", "totalPrice", "total_price", "price"); f != nil {
			h.PriceMin, h.PriceMax = *f, *f
		}
	}

	h.Amenities = mapAmenities(m, "amenities", "facilities", "features")
	h.Popularity = h.PopularityScore()
	return h, true
}

func mapAmenities(m map[string]any, paths ...string) []domain.Amenity {
	for _, p := range paths {
		raw, ok := lookupAny(m, p).([]any)
		if !ok {
			continue
		}
		out := make([]domain.Amenity, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, domain.Amenity{Name: t})
				}
			case map[string]any:
				name := firstStr(t, "name", "title", "label")
				if name == "" {
					continue
				}
				out = append(out, domain.Amenity{
					Name:     name,
					Category: firstStr(t, "category", "group", "type"),
				})
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []domain.Amenity{}
}

func mapAvailability(m map[string]any) domain.Availability {
	av := domain.Availability{
		Restrictions: []string{},
		Rooms:        []domain.RoomOption{},
	}
	if b, ok := lookupAny(m, "available").(bool); ok {
		av.Available = b
	} else if b, ok := lookupAny(m, "isAvailable").(bool); ok {
		av.Available = b
	}
	if f := firstFloat(m, "pricing.total", "price.total", "totalPrice", "total"); f != nil {
		av.Pricing.Total = *f
	}
	av.Pricing.Currency = firstStr(m, "pricing.currency", "price.currency", "currency")

	rooms, ok := lookupAny(m, "rooms").([]any)
	if !ok {
		rooms, _ = lookupAny(m, "roomOptions").([]any)
	}
	for _, it := range rooms {
		rm, ok := it.(map[string]any)
		if !ok {
			continue
		}
		opt := domain.RoomOption{
			Type:     firstStr(rm, "type", "name", "roomType"),
			Currency: firstStr(rm, "currency"),
		}
		if f := firstFloat(rm, "pricePerNight", "price_per_night", "price", "rate"); f != nil {
			opt.PricePerNight = *f
		}
		if n := firstInt(rm, "remaining", "available", "count"); n != nil {
			opt.Remaining = int(*n)
		}
		av.Rooms = append(av.Rooms, opt)
	}

	if raw, ok := lookupAny(m, "restrictions").([]any); ok {
		for _, it := range raw {
			if s, ok := it.(string); ok && s != "" {
				av.Restrictions = append(av.Restrictions, s)
			}
		}
	}
	return av
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstStr returns the first non-empty string among the given paths.
func firstStr(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s, ok := lookupAny(m, p).(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstStrAlias(m map[string]any, key string) string {
	return firstStr(m, hotelAliases[key]...)
}

// firstFloat: number from several paths (float64/int/string like "8,0").
func firstFloat(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt: int64 from several paths (float64/int/string).
func firstInt(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// rawList pulls the first list of objects found at any of the paths.
func rawList(m map[string]any, paths ...string) []map[string]any {
	for _, p := range paths {
		raw, ok := lookupAny(m, p).([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(raw))
		for _, it := range raw {
			if obj, ok := it.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
