package citymap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/FACorreiaa/loci-citymap/internal/app/domain"
	"github.com/FACorreiaa/loci-citymap/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-citymap/internal/app/mapview"
)

type testServer struct {
	router   *gin.Engine
	sessions *mapview.SessionStore
}

func newTestServer(t *testing.T, factory mapview.SurfaceFactory) *testServer {
	t.Helper()
	return newTestServerWithLogger(t, factory, zap.NewNop())
}

func newTestServerWithLogger(t *testing.T, factory mapview.SurfaceFactory, logger *zap.Logger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if factory == nil {
		factory = mapview.NewSceneFactory(nil)
	}
	sessions := mapview.NewSessionStore(time.Minute, logger)
	t.Cleanup(sessions.CloseAll)

	h := NewHandlers(domain.NewBaseHandler(logger), sessions,
		poi.NewServiceImpl(poi.NewSeededRepository(), 0, logger),
		factory, mapview.DefaultMapOptions(), "Explore Paris")

	r := gin.New()
	r.GET("/map", h.ShowMap)
	r.GET("/map/style.json", h.Style)
	r.POST("/map/:session/loaded", h.MapLoaded)
	r.POST("/map/:session/error", h.MapFailed)
	r.GET("/map/:session/filter/:category", h.SelectFilter)
	r.GET("/map/:session/markers.geojson", h.Markers)
	r.GET("/map/:session/markers/:poi/popup", h.MarkerPopup)
	r.POST("/map/:session/markers/:poi/hover", h.MarkerHover)
	r.DELETE("/map/:session", h.CloseSession)
	return &testServer{router: r, sessions: sessions}
}

func (s *testServer) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

// mount opens the page and returns the new session id.
func (s *testServer) mount(t *testing.T, query string) string {
	t.Helper()
	w := s.do(t, http.MethodGet, "/map"+query, nil)
	require.Equal(t, http.StatusOK, w.Code)
	id, ok := parse(t, w).Find("main.citymap").Attr("data-session-id")
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func (s *testServer) mountLoaded(t *testing.T) string {
	t.Helper()
	id := s.mount(t, "")
	w := s.do(t, http.MethodPost, "/map/"+id+"/loaded", nil)
	require.Equal(t, http.StatusOK, w.Code)
	return id
}

func TestShowMap(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/map", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc := parse(t, w)
	assert.Equal(t, "Explore Paris", doc.Find("title").Text())
	assert.Equal(t, 6, doc.Find(".citymap-chip").Length())
	assert.Equal(t, 0, doc.Find("li.citymap-marker").Length(), "no markers before the map loads")

	mapEl := doc.Find("#citymap-map")
	require.Equal(t, 1, mapEl.Length())
	state, _ := mapEl.Attr("data-state")
	assert.Equal(t, "initializing", state)
	styleURL, _ := mapEl.Attr("data-style-url")
	assert.Equal(t, StyleURL, styleURL)
	assert.Equal(t, 1, s.sessions.Len())
}

func TestShowMap_InitialCategory(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.mount(t, "?category=food")

	w := s.do(t, http.MethodPost, "/map/"+id+"/loaded", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)
	filter, _ := doc.Find("#citymap-overlay").Attr("data-filter")
	assert.Equal(t, "food", filter)
	assert.Equal(t, 2, doc.Find("li.citymap-marker").Length())
}

func TestShowMap_InvalidCategory(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/map?category=nightlife", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, s.sessions.Len())
}

func TestShowMap_MountFailureRendersErrorPanel(t *testing.T) {
	s := newTestServer(t, func(context.Context, mapview.MapOptions) (mapview.Surface, error) {
		return nil, errors.New("webgl unavailable")
	})
	w := s.do(t, http.MethodGet, "/map", nil)
	require.Equal(t, http.StatusOK, w.Code)

	doc := parse(t, w)
	assert.Equal(t, 0, doc.Find("#citymap-map").Length())
	assert.Equal(t, "The map could not be loaded. Please try again later.",
		strings.TrimSpace(doc.Find(".citymap-error-message").Text()))
}

func TestMapLoaded_PlacesAllMarkers(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.mount(t, "")

	w := s.do(t, http.MethodPost, "/map/"+id+"/loaded", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)
	state, _ := doc.Find("#citymap-overlay").Attr("data-state")
	assert.Equal(t, "loaded", state)
	assert.Equal(t, 8, doc.Find("li.citymap-marker").Length())
}

func TestMapFailed(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.mount(t, "")

	w := s.do(t, http.MethodPost, "/map/"+id+"/error", url.Values{"message": {"style fetch failed"}})
	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)
	role, _ := doc.Find("#citymap-overlay").Attr("role")
	assert.Equal(t, "alert", role)

	// A late load signal does not revive the map.
	w = s.do(t, http.MethodPost, "/map/"+id+"/loaded", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, parse(t, w).Find(".citymap-error-message").Length())
}

func TestSelectFilter(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.mountLoaded(t)

	w := s.do(t, http.MethodGet, "/map/"+id+"/filter/landmarks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)

	var ids []string
	doc.Find("li.citymap-marker").Each(func(_ int, sel *goquery.Selection) {
		v, _ := sel.Attr("data-poi-id")
		ids = append(ids, v)
	})
	assert.Equal(t, []string{"1", "4"}, ids)

	selected := doc.Find(`.citymap-chip[aria-pressed="true"]`)
	require.Equal(t, 1, selected.Length())
	assert.Equal(t, "2", strings.TrimSpace(selected.Find(".citymap-chip-count").Text()))

	w = s.do(t, http.MethodGet, "/map/"+id+"/filter/nightlife", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkerPopup(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.mountLoaded(t)

	w := s.do(t, http.MethodGet, "/map/"+id+"/markers/1/popup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)
	assert.Equal(t, "Eiffel Tower", doc.Find(".citymap-popup-title").Text())
	assert.Contains(t, doc.Find(".citymap-popup-category").Text(), "landmarks")
	offset, _ := doc.Find("article").Attr("data-offset")
	assert.Equal(t, "25", offset)

	_ = s.do(t, http.MethodGet, "/map/"+id+"/filter/food", nil)
	w = s.do(t, http.MethodGet, "/map/"+id+"/markers/1/popup", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "filtered-out marker is not clickable")
}

func TestMarkerHover(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.mountLoaded(t)

	w := s.do(t, http.MethodPost, "/map/"+id+"/markers/2/hover?on=true", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/map/"+id+"/markers.geojson", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fc struct {
		Type     string    `json:"type"`
		BBox     []float64 `json:"bbox"`
		Features []struct {
			ID         string         `json:"id"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.BBox, 4)
	require.Len(t, fc.Features, 8)
	for _, f := range fc.Features {
		assert.Equal(t, f.ID == "2", f.Properties["highlighted"], "feature %s", f.ID)
	}

	w = s.do(t, http.MethodPost, "/map/"+id+"/markers/2/hover?on=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPost, "/map/"+id+"/markers/99/hover?on=false", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCloseSession(t *testing.T) {
	s := newTestServer(t, nil)
	id := s.mountLoaded(t)

	w := s.do(t, http.MethodDelete, "/map/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, s.sessions.Len())

	w = s.do(t, http.MethodDelete, "/map/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, "/map/"+id+"/filter/all", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStyle(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/map/style.json", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.EqualValues(t, 8, doc["version"])
	assert.Contains(t, doc["sources"], "basemap")
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab", truncate("abé", 3), "é is two bytes and must not be split")
	assert.Equal(t, "abé", truncate("abé", 4))

	long := strings.Repeat("é", maxClientErrorLen)
	got := truncate(long, maxClientErrorLen)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxClientErrorLen)
	assert.Equal(t, maxClientErrorLen/2, utf8.RuneCountInString(got))
}

func TestMapFailed_LongMultibyteMessage(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := newTestServerWithLogger(t, nil, zap.New(core))
	id := s.mount(t, "")

	msg := "x" + strings.Repeat("🗺️", maxClientErrorLen)
	w := s.do(t, http.MethodPost, "/map/"+id+"/error", url.Values{"message": {msg}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, parse(t, w).Find(".citymap-error-message").Length())

	entries := logs.FilterMessage("Map reported load error").All()
	require.Len(t, entries, 1)
	logged, ok := entries[0].ContextMap()["message"].(string)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(logged))
	assert.LessOrEqual(t, len(logged), maxClientErrorLen)
}
