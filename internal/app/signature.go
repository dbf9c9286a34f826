package app

import (
	"fmt"
	"strconv"
	"strings"

	"wayfare/internal/domain"
)

// SearchSignature derives the deterministic cache key for a search. It is
// a pure function: location is lower-cased and space-normalized, dates are
// truncated to day granularity, optional filters participate only when
// set.
func SearchSignature(c domain.SearchCriteria) string {
	loc := strings.Join(strings.Fields(strings.ToLower(c.Location)), " ")
	parts := []string{
		loc,
		c.CheckIn.UTC().Format("2006-01-02"),
		c.CheckOut.UTC().Format("2006-01-02"),
		strconv.Itoa(c.Rooms),
		strconv.Itoa(c.Guests),
	}
	if c.MinRating != nil {
		parts = append(parts, fmt.Sprintf("minr=%.1f", *c.MinRating))
	}
	if c.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("maxp=%.2f", *c.MaxPrice))
	}
	if c.Chain != nil && *c.Chain != "" {
		parts = append(parts, "chain="+strings.ToLower(strings.TrimSpace(*c.Chain)))
	}
	return strings.Join(parts, "|")
}
