package citymap

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/loci-citymap/internal/app/mapview"
)

const (
	maplibreVersion = "4.7.1"
	htmxVersion     = "2.0.4"
)

// PageProps carries the page-level data that is not part of the session view.
type PageProps struct {
	Title    string
	StyleURL string
}

// Page is the full document for one map session.
func Page(props PageProps, v mapview.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(props.Title)
		h.raw(`</title>`)
		h.raw(`<link rel="stylesheet" href="https://unpkg.com/maplibre-gl@` + maplibreVersion + `/dist/maplibre-gl.css">`)
		h.raw(`<link rel="stylesheet" href="/assets/css/citymap.css">`)
		h.raw(`<script src="https://unpkg.com/maplibre-gl@` + maplibreVersion + `/dist/maplibre-gl.js" defer></script>`)
		h.raw(`<script src="https://unpkg.com/htmx.org@` + htmxVersion + `" defer></script>`)
		h.raw(`<script src="/assets/js/citymap.js" defer></script>`)
		h.raw(`</head><body class="bg-gray-50 text-gray-900">`)
		h.raw(`<main class="citymap mx-auto flex h-screen max-w-6xl flex-col gap-4 p-4"`)
		h.attr("data-session-id", v.SessionID)
		h.raw(`><header><h1 class="text-2xl font-bold">`)
		h.text(props.Title)
		h.raw(`</h1></header>`)
		if h.err != nil {
			return h.err
		}
		if err := Overlay(v).Render(ctx, w); err != nil {
			return err
		}
		if !v.Failed() {
			h.raw(`<div`)
			h.attr("id", MapElementID)
			h.attr("class", "citymap-map relative flex-1 overflow-hidden rounded-xl border border-gray-200")
			h.attr("data-style-url", props.StyleURL)
			h.attr("data-state", string(v.State))
			h.floatAttr("data-center-lng", v.Options.Center.Lon())
			h.floatAttr("data-center-lat", v.Options.Center.Lat())
			h.floatAttr("data-zoom", v.Options.Zoom)
			h.floatAttr("data-pitch", v.Options.Pitch)
			h.attr("data-min-zoom", strconv.Itoa(v.Options.MinZoom))
			h.attr("data-max-zoom", strconv.Itoa(v.Options.MaxZoom))
			h.attr("data-loaded-url", "/map/"+v.SessionID+"/loaded")
			h.attr("data-error-url", "/map/"+v.SessionID+"/error")
			h.attr("data-close-url", "/map/"+v.SessionID)
			h.raw(`></div>`)
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}
