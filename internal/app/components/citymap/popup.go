package citymap

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

// PopupCard is the detail card anchored at a marker. The browser reads the
// anchor and offset from its data attributes.
func PopupCard(p models.Popup) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		style := p.Category.Style()
		h := &htmlWriter{w: w}
		h.raw(`<article`)
		h.attr("class", popupBase)
		h.attr("data-poi-id", p.POIID)
		h.floatAttr("data-lng", p.Coordinates.Lon())
		h.floatAttr("data-lat", p.Coordinates.Lat())
		h.attr("data-offset", strconv.Itoa(p.Offset))
		h.raw(`><h3 class="citymap-popup-title mb-1 text-base font-semibold text-gray-900">`)
		h.text(p.Name)
		h.raw(`</h3><p class="citymap-popup-description mb-3 text-sm text-gray-600">`)
		h.text(p.Description)
		h.raw(`</p><span class="citymap-popup-category inline-flex items-center gap-1 rounded-full px-2 py-0.5 text-xs font-medium text-white"`)
		h.attr("style", "background-color: "+style.Color)
		h.raw(`><span aria-hidden="true">`)
		h.text(style.Icon)
		h.raw(`</span>`)
		h.text(p.Category.String())
		h.raw(`</span></article>`)
		return h.err
	})
}
