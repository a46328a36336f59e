package mapview

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

// MarkerOptions describes one marker to place.
type MarkerOptions struct {
	POIID  string
	Title  string
	LngLat orb.Point
	Style  models.CategoryStyle
}

// Marker is a handle to a visual marker on a surface. Event handlers are
// subscribed with OnClick/OnHover; the surface delivers events through the
// Emit methods.
type Marker interface {
	POIID() string
	Title() string
	LngLat() orb.Point
	Style() models.CategoryStyle
	Highlighted() bool
	SetHighlighted(on bool)

	OnClick(handler func())
	OnHover(handler func(over bool))
	EmitClick()
	EmitHover(over bool)

	// Remove takes the marker off the map and drops its handlers.
	Remove()
}

// Surface is a map instance bound to a display.
type Surface interface {
	AddMarker(opts MarkerOptions) Marker
	OpenPopup(popup models.Popup)
	ClosePopup()
	CurrentPopup() (models.Popup, bool)
	// Release frees the surface and every marker still on it.
	Release()
}

// SurfaceFactory constructs a surface. An error means the map could not be
// created and the host goes straight to the error state.
type SurfaceFactory func(ctx context.Context, opts MapOptions) (Surface, error)
