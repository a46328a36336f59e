package mapview

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

// MarkerView is the render snapshot of one marker.
type MarkerView struct {
	POIID       string
	Name        string
	Coordinates orb.Point
	Style       models.CategoryStyle
	Highlighted bool
}

// View is everything a renderer needs to draw one map session.
type View struct {
	SessionID    string
	State        models.MapState
	ErrorMessage string
	Filter       models.Category
	Chips        []Chip
	Markers      []MarkerView
	Popup        *models.Popup
	Options      MapOptions
}

// Bounds covers the visible markers. ok is false when there are none.
func (v View) Bounds() (bound orb.Bound, ok bool) {
	if len(v.Markers) == 0 {
		return orb.Bound{}, false
	}
	points := make(orb.MultiPoint, 0, len(v.Markers))
	for _, m := range v.Markers {
		points = append(points, m.Coordinates)
	}
	return points.Bound(), true
}

// FeatureCollection encodes the markers as GeoJSON points for the browser
// renderer.
func (v View) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range v.Markers {
		f := geojson.NewFeature(m.Coordinates)
		f.ID = m.POIID
		f.Properties["id"] = m.POIID
		f.Properties["name"] = m.Name
		f.Properties["label"] = m.Style.Label
		f.Properties["icon"] = m.Style.Icon
		f.Properties["color"] = m.Style.Color
		f.Properties["highlighted"] = m.Highlighted
		fc.Append(f)
	}
	return fc
}

// Loaded reports whether the map surface should be shown.
func (v View) Loaded() bool { return v.State == models.MapStateLoaded }

// Failed reports whether the error panel should replace the map.
func (v View) Failed() bool { return v.State == models.MapStateError }
