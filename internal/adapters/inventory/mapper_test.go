package inventory

import "testing"

func TestMapHotel_AliasPrecedence(t *testing.T) {
	h, ok := mapHotel(map[string]any{
		"id":      "canonical",
		"hotelId": "legacy",
		"name":    "Primary Name",
		"title":   "Fallback Title",
	})
	if !ok {
		t.Fatal("record with id must map")
	}
	if h.HotelID != "canonical" {
		t.Fatalf("id alias order violated: %q", h.HotelID)
	}
	if h.Name != "Primary Name" {
		t.Fatalf("name alias order violated: %q", h.Name)
	}
}

func TestMapHotel_NumericAndNestedFields(t *testing.T) {
	h, ok := mapHotel(map[string]any{
		"propertyId": float64(4021),
		"hotelName":  "Nested Haus",
		"address":    map[string]any{"line": "1 Hauptstr.", "city": "Berlin", "country": "Germany"},
		"price":      map[string]any{"min": 90.0, "max": 140.0, "currency": "EUR"},
		"reviews":    map[string]any{"score": 8.4, "count": float64(312)},
		"stars":      4.0,
	})
	if !ok {
		t.Fatal("numeric id must map")
	}
	if h.HotelID != "4021" {
		t.Fatalf("numeric id: %q", h.HotelID)
	}
	if h.City != "Berlin" || h.Country != "Germany" || h.Address != "1 Hauptstr." {
		t.Fatalf("nested address: %+v", h)
	}
	if h.PriceMin != 90 || h.PriceMax != 140 || h.Currency != "EUR" {
		t.Fatalf("price bounds: %+v", h)
	}
	if h.ReviewScore != 8.4 || h.ReviewCount != 312 || h.StarRating != 4 {
		t.Fatalf("review fields: %+v", h)
	}
	if h.Popularity == 0 {
		t.Fatal("popularity must be computed on ingest")
	}
}

func TestMapHotel_SkipsWithoutID(t *testing.T) {
	if _, ok := mapHotel(map[string]any{"name": "Anonymous"}); ok {
		t.Fatal("record without any id alias must be skipped")
	}
}

func TestMapHotel_ClampsStars(t *testing.T) {
	h, _ := mapHotel(map[string]any{"id": "x", "stars": 9.0})
	if h.StarRating != 5 {
		t.Fatalf("stars must clamp to 5, got %d", h.StarRating)
	}
	h, _ = mapHotel(map[string]any{"id": "x", "stars": -2.0})
	if h.StarRating != 0 {
		t.Fatalf("stars must clamp to 0, got %d", h.StarRating)
	}
}

func TestMapHotel_EmptyCollectionsDefault(t *testing.T) {
	h, _ := mapHotel(map[string]any{"id": "x"})
	if h.Amenities == nil || len(h.Amenities) != 0 {
		t.Fatalf("absent amenities must default to empty, got %#v", h.Amenities)
	}
}

func TestMapAmenities_StringsAndObjects(t *testing.T) {
	got := mapAmenities(map[string]any{
		"facilities": []any{
			"wifi",
			map[string]any{"name": "pool", "category": "leisure"},
			map[string]any{"label": "parking"},
			map[string]any{"category": "no name, dropped"},
			"",
		},
	}, "amenities", "facilities")

	if len(got) != 3 {
		t.Fatalf("amenities: %+v", got)
	}
	if got[0].Name != "wifi" || got[1].Name != "pool" || got[1].Category != "leisure" || got[2].Name != "parking" {
		t.Fatalf("amenities: %+v", got)
	}
}

func TestFirstFloat_CommaDecimal(t *testing.T) {
	f := firstFloat(map[string]any{"rating": "8,5"}, "rating")
	if f == nil || *f != 8.5 {
		t.Fatalf("comma decimals must parse, got %v", f)
	}
}

func TestRawList_PicksFirstNonEmpty(t *testing.T) {
	m := map[string]any{
		"hotels": []any{},
		"data":   []any{map[string]any{"id": "x"}},
	}
	got := rawList(m, "hotels", "results", "data")
	if len(got) != 1 || got[0]["id"] != "x" {
		t.Fatalf("rawList: %+v", got)
	}
}
