package citymap

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/loci-citymap/internal/app/mapview"
)

// FilterBar renders one chip per category. Chips swap the overlay through htmx.
func FilterBar(v mapview.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<nav class="citymap-filterbar flex flex-wrap gap-2" aria-label="Filter points of interest">`)
		for _, chip := range v.Chips {
			h.raw(`<button type="button"`)
			h.attr("class", chipClass(chip.Selected))
			h.attr("data-category", chip.Category.String())
			h.attr("aria-pressed", strconv.FormatBool(chip.Selected))
			h.attr("hx-get", FilterURL(v.SessionID, chip.Category.String()))
			h.attr("hx-target", "#"+OverlayID)
			h.attr("hx-swap", "outerHTML")
			h.raw(`><span class="citymap-chip-icon" aria-hidden="true">`)
			h.text(chip.Style.Icon)
			h.raw(`</span><span class="citymap-chip-label">`)
			h.text(chip.Style.Label)
			h.raw(`</span>`)
			if chip.Selected {
				h.raw(`<span`)
				h.attr("class", badgeBase)
				h.raw(`>`)
				h.text(strconv.Itoa(chip.Count))
				h.raw(`</span>`)
			}
			h.raw(`</button>`)
		}
		h.raw(`</nav>`)
		return h.err
	})
}
