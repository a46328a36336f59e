package citymap

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/loci-citymap/internal/app/mapview"
)

const (
	OverlayID    = "citymap-overlay"
	MarkersID    = "citymap-markers"
	MapElementID = "citymap-map"
)

func FilterURL(sessionID, category string) string {
	return "/map/" + sessionID + "/filter/" + category
}

func PopupURL(sessionID, poiID string) string {
	return "/map/" + sessionID + "/markers/" + poiID + "/popup"
}

// Overlay is the swappable part of the page: filter bar, marker data and
// the open popup. In the error state it is the error panel instead.
func Overlay(v mapview.View) templ.Component {
	if v.Failed() {
		return ErrorPanel(v.ErrorMessage)
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div`)
		h.attr("id", OverlayID)
		h.attr("class", "citymap-overlay flex flex-col gap-3")
		h.attr("data-state", string(v.State))
		h.attr("data-filter", v.Filter.String())
		h.raw(`>`)
		if h.err != nil {
			return h.err
		}
		if err := FilterBar(v).Render(ctx, w); err != nil {
			return err
		}
		if err := templ.JSONScript(MarkersID, v.FeatureCollection()).Render(ctx, w); err != nil {
			return err
		}

		h.raw(`<ul class="citymap-marker-list sr-only">`)
		for _, m := range v.Markers {
			h.raw(`<li class="citymap-marker"`)
			h.attr("data-poi-id", m.POIID)
			h.floatAttr("data-lng", m.Coordinates.Lon())
			h.floatAttr("data-lat", m.Coordinates.Lat())
			h.attr("data-color", m.Style.Color)
			h.raw(`><button type="button"`)
			h.attr("hx-get", PopupURL(v.SessionID, m.POIID))
			h.attr("hx-target", "#citymap-popup-slot")
			h.raw(`>`)
			h.text(m.Style.Icon + " " + m.Name)
			h.raw(`</button></li>`)
		}
		h.raw(`</ul><div id="citymap-popup-slot">`)
		if h.err != nil {
			return h.err
		}
		if v.Popup != nil {
			if err := PopupCard(*v.Popup).Render(ctx, w); err != nil {
				return err
			}
		}
		h.raw(`</div></div>`)
		return h.err
	})
}

// ErrorPanel replaces the map when the host failed to load.
func ErrorPanel(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div`)
		h.attr("id", OverlayID)
		h.attr("class", errorBase)
		h.attr("role", "alert")
		h.attr("data-state", "error")
		h.raw(`><span class="text-3xl" aria-hidden="true">🗺️</span><p class="citymap-error-message font-medium">`)
		h.text(message)
		h.raw(`</p></div>`)
		return h.err
	})
}
