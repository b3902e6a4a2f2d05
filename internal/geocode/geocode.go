package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/civicresolve/backend/internal/models"
)

var ErrNotFound = errors.New("geocode not found")

type Result struct {
	Lat         float64
	Lng         float64
	DisplayName string
	Confidence  float64
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

// BuildComplaintQuery joins the free-text location parts from most to least
// specific, skipping blanks.
func BuildComplaintQuery(loc models.Location) string {
	parts := []string{}
	for _, p := range []string{loc.Landmark, loc.Address, loc.City, loc.District, loc.State} {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ShouldGeocode reports whether a location still carries the 0,0 default and
// has an address to resolve.
func ShouldGeocode(loc models.Location) bool {
	if loc.Lat != 0 || loc.Lng != 0 {
		return false
	}
	return strings.TrimSpace(loc.Address) != ""
}
