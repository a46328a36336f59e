package models

import "github.com/paulmach/orb"

// MapState is the lifecycle of a map host.
type MapState string

const (
	MapStateInitializing MapState = "initializing"
	MapStateLoaded       MapState = "loaded"
	MapStateError        MapState = "error"
)

// PopupOffset is the pixel distance between a marker anchor and its popup.
const PopupOffset = 25

// Popup is the detail card shown when a marker is clicked.
type Popup struct {
	POIID       string    `json:"poi_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Coordinates orb.Point `json:"coordinates"`
	Offset      int       `json:"offset"`
}

// NewPopup builds the popup payload for a POI.
func NewPopup(p POI) Popup {
	return Popup{
		POIID:       p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Coordinates: p.Coordinates,
		Offset:      PopupOffset,
	}
}
