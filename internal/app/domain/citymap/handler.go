package citymap

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	ui "github.com/FACorreiaa/loci-citymap/internal/app/components/citymap"
	"github.com/FACorreiaa/loci-citymap/internal/app/domain"
	"github.com/FACorreiaa/loci-citymap/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-citymap/internal/app/mapview"
	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

const (
	StyleURL = "/map/style.json"

	// maxClientErrorLen caps the message a browser may attach to an error report.
	maxClientErrorLen = 256
)

// Handlers serves the map page and the per-session htmx endpoints.
type Handlers struct {
	*domain.BaseHandler
	sessions *mapview.SessionStore
	pois     poi.Service
	factory  mapview.SurfaceFactory
	opts     mapview.MapOptions
	title    string
}

func NewHandlers(base *domain.BaseHandler, sessions *mapview.SessionStore, pois poi.Service,
	factory mapview.SurfaceFactory, opts mapview.MapOptions, title string) *Handlers {
	return &Handlers{
		BaseHandler: base,
		sessions:    sessions,
		pois:        pois,
		factory:     factory,
		opts:        opts,
		title:       title,
	}
}

// ShowMap mounts a fresh session and renders the whole page.
func (h *Handlers) ShowMap(c *gin.Context) {
	filter, err := models.ParseCategory(c.Query("category"))
	if err != nil {
		h.AbortWithError(c, err)
		return
	}

	pois, err := h.pois.ListPOIs(c.Request.Context())
	if err != nil {
		h.AbortWithError(c, err)
		return
	}

	ctrl := mapview.NewController(uuid.NewString(), pois, h.factory, h.opts, h.Logger)
	if err := ctrl.Mount(c.Request.Context()); err != nil {
		h.Logger.Warn("Map mount failed", zap.String("session_id", ctrl.ID()), zap.Error(err))
	}
	if filter != models.CategoryAll {
		if _, err := ctrl.SelectFilter(filter); err != nil {
			ctrl.Close()
			h.AbortWithError(c, err)
			return
		}
	}
	h.sessions.Add(ctrl)

	h.Render(c, http.StatusOK, "citymap.Page", ui.Page(ui.PageProps{Title: h.title, StyleURL: StyleURL}, ctrl.View()))
}

// MapLoaded is posted by the browser once the map style has loaded.
func (h *Handlers) MapLoaded(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	v, err := ctrl.HandleLoad()
	if err != nil {
		h.AbortWithError(c, err)
		return
	}
	h.Render(c, http.StatusOK, "citymap.Overlay", ui.Overlay(v))
}

// MapFailed is posted by the browser when the map cannot be created or loaded.
func (h *Handlers) MapFailed(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	msg := strings.TrimSpace(c.PostForm("message"))
	if msg == "" {
		msg = "unknown client error"
	}
	msg = truncate(msg, maxClientErrorLen)
	v, err := ctrl.HandleError(fmt.Errorf("%w: %s", models.ErrMapLoad, msg))
	if err != nil {
		h.AbortWithError(c, err)
		return
	}
	h.Logger.Warn("Map reported load error", zap.String("session_id", ctrl.ID()), zap.String("message", msg))
	h.Render(c, http.StatusOK, "citymap.Overlay", ui.Overlay(v))
}

// SelectFilter switches the active category and returns the refreshed overlay.
func (h *Handlers) SelectFilter(c *gin.Context) {
	filter, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		h.AbortWithError(c, err)
		return
	}
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	v, err := ctrl.SelectFilter(filter)
	if err != nil {
		h.AbortWithError(c, err)
		return
	}
	h.Render(c, http.StatusOK, "citymap.Overlay", ui.Overlay(v))
}

// MarkerPopup clicks a marker and renders the popup it opened.
func (h *Handlers) MarkerPopup(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	popup, err := ctrl.ClickMarker(c.Request.Context(), c.Param("poi"))
	if err != nil {
		h.AbortWithError(c, err)
		return
	}
	h.Render(c, http.StatusOK, "citymap.PopupCard", ui.PopupCard(popup))
}

// MarkerHover records the pointer entering (on=true) or leaving a marker.
func (h *Handlers) MarkerHover(c *gin.Context) {
	over, err := strconv.ParseBool(c.DefaultQuery("on", "true"))
	if err != nil {
		h.AbortWithError(c, fmt.Errorf("%w: on must be a boolean", models.ErrBadRequest))
		return
	}
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	if err := ctrl.HoverMarker(c.Param("poi"), over); err != nil {
		h.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Markers returns the visible markers as a GeoJSON FeatureCollection.
func (h *Handlers) Markers(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	v := ctrl.View()
	fc := v.FeatureCollection()
	if bound, ok := v.Bounds(); ok {
		fc.BBox = geojson.NewBBox(bound)
	}
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

// CloseSession tears a session down when the page goes away.
func (h *Handlers) CloseSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("session")) {
		h.AbortWithError(c, models.ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// Style serves the basemap style document the browser map is created with.
func (h *Handlers) Style(c *gin.Context) {
	c.JSON(http.StatusOK, mapview.NewStyleDocument(h.opts))
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (h *Handlers) session(c *gin.Context) (*mapview.Controller, bool) {
	ctrl, err := h.sessions.Get(c.Param("session"))
	if err != nil {
		h.AbortWithError(c, err)
		return nil, false
	}
	return ctrl, true
}
