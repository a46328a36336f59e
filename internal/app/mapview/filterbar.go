package mapview

import "github.com/FACorreiaa/loci-citymap/internal/app/models"

// Chip is one filter bar control.
type Chip struct {
	Category models.Category
	Style    models.CategoryStyle
	Selected bool
	// Count is only set on the selected chip.
	Count int
}

// BuildFilterBar lays out the chips in models.FilterOrder.
func BuildFilterBar(pois []models.POI, selected models.Category) []Chip {
	chips := make([]Chip, 0, len(models.FilterOrder))
	for _, c := range models.FilterOrder {
		chip := Chip{
			Category: c,
			Style:    c.Style(),
			Selected: c == selected,
		}
		if chip.Selected {
			chip.Count = models.CountPOIs(pois, c)
		}
		chips = append(chips, chip)
	}
	return chips
}
