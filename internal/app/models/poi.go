package models

import (
	"fmt"

	"github.com/paulmach/orb"
)

// POI is a single labeled, geolocated point of interest. Coordinates are
// stored as an orb.Point, so longitude comes first.
type POI struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Coordinates orb.Point `json:"coordinates"`
	Description string    `json:"description"`
}

// Validate checks the invariants a stored POI must hold.
func (p POI) Validate() error {
	if p.ID == "" || p.Name == "" {
		return fmt.Errorf("%w: poi requires id and name", ErrValidation)
	}
	if p.Category == CategoryAll || !p.Category.IsKnown() {
		return fmt.Errorf("%w: poi %s has category %q", ErrInvalidCategory, p.ID, p.Category)
	}
	if !ValidCoordinates(p.Coordinates) {
		return fmt.Errorf("%w: poi %s at %v", ErrInvalidCoordinates, p.ID, p.Coordinates)
	}
	return nil
}

// Matches reports whether p passes the filter.
func (p POI) Matches(filter Category) bool {
	return filter == CategoryAll || p.Category == filter
}

// ValidCoordinates checks longitude/latitude ranges.
func ValidCoordinates(pt orb.Point) bool {
	return pt.Lon() >= -180 && pt.Lon() <= 180 && pt.Lat() >= -90 && pt.Lat() <= 90
}

// FilterPOIs keeps the order of pois.
func FilterPOIs(pois []POI, filter Category) []POI {
	out := make([]POI, 0, len(pois))
	for _, p := range pois {
		if p.Matches(filter) {
			out = append(out, p)
		}
	}
	return out
}

// CountPOIs returns how many POIs pass the filter.
func CountPOIs(pois []POI, filter Category) int {
	n := 0
	for _, p := range pois {
		if p.Matches(filter) {
			n++
		}
	}
	return n
}
