package citymap

import (
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter collects the first write error so components can stream markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with the value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *htmlWriter) floatAttr(name string, v float64) {
	h.attr(name, strconv.FormatFloat(v, 'f', -1, 64))
}
