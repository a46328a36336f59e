package mapview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

// DefaultTileURL is the OpenStreetMap raster tile template.
const DefaultTileURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

// DefaultAttribution is required by the OpenStreetMap tile usage policy.
const DefaultAttribution = "© OpenStreetMap contributors"

// MapOptions is the fixed configuration a host mounts its surface with.
type MapOptions struct {
	TileURL     string
	Attribution string
	TileSize    int
	MinZoom     int
	MaxZoom     int
	Center      orb.Point
	Zoom        float64
	Pitch       float64
}

// DefaultMapOptions centers the map on Paris.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		TileURL:     DefaultTileURL,
		Attribution: DefaultAttribution,
		TileSize:    256,
		MinZoom:     0,
		MaxZoom:     19,
		Center:      orb.Point{2.3522, 48.8566},
		Zoom:        12,
		Pitch:       0,
	}
}

func (o MapOptions) Validate() error {
	for _, placeholder := range []string{"{z}", "{x}", "{y}"} {
		if !strings.Contains(o.TileURL, placeholder) {
			return fmt.Errorf("%w: tile url %q lacks %s", models.ErrValidation, o.TileURL, placeholder)
		}
	}
	if o.Attribution == "" {
		return fmt.Errorf("%w: tile attribution is required", models.ErrValidation)
	}
	if o.MinZoom < 0 || o.MaxZoom > 19 || o.MinZoom > o.MaxZoom {
		return fmt.Errorf("%w: zoom range %d-%d", models.ErrValidation, o.MinZoom, o.MaxZoom)
	}
	if o.Zoom < float64(o.MinZoom) || o.Zoom > float64(o.MaxZoom) {
		return fmt.Errorf("%w: initial zoom %v outside %d-%d", models.ErrValidation, o.Zoom, o.MinZoom, o.MaxZoom)
	}
	if !models.ValidCoordinates(o.Center) {
		return fmt.Errorf("%w: center %v", models.ErrInvalidCoordinates, o.Center)
	}
	return nil
}

// TileURLFor expands the tile template for one tile.
func (o MapOptions) TileURLFor(z, x, y int) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	).Replace(o.TileURL)
}
