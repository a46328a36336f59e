package citymap

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-citymap/internal/app/mapview"
	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err, "failed to read rendered HTML")
	return doc
}

func loadedView(t *testing.T, filter models.Category) mapview.View {
	t.Helper()
	c := mapview.NewController("sess-1", poi.SeedPOIs(), mapview.NewSceneFactory(nil), mapview.DefaultMapOptions(), zap.NewNop())
	t.Cleanup(c.Close)
	require.NoError(t, c.Mount(context.Background()))
	_, err := c.HandleLoad()
	require.NoError(t, err)
	v, err := c.SelectFilter(filter)
	require.NoError(t, err)
	return v
}

func TestFilterBar(t *testing.T) {
	t.Run("renders chips in fixed order", func(t *testing.T) {
		doc := render(t, FilterBar(loadedView(t, models.CategoryAll)))

		var order []string
		doc.Find("button.citymap-chip").Each(func(i int, s *goquery.Selection) {
			cat, _ := s.Attr("data-category")
			order = append(order, cat)
		})
		assert.Equal(t, []string{"all", "landmarks", "food", "art", "history", "culture"}, order)
	})

	t.Run("only the selected chip shows its count", func(t *testing.T) {
		doc := render(t, FilterBar(loadedView(t, models.CategoryAll)))

		badges := doc.Find(".citymap-chip-count")
		require.Equal(t, 1, badges.Length())
		assert.Equal(t, "8", badges.Text())

		selected := doc.Find(`button[aria-pressed="true"]`)
		require.Equal(t, 1, selected.Length())
		cat, _ := selected.Attr("data-category")
		assert.Equal(t, "all", cat)
		assert.True(t, selected.HasClass("bg-indigo-600"))
		assert.False(t, selected.HasClass("bg-white"), "selected variant should replace the base background")
	})

	t.Run("chips target the overlay", func(t *testing.T) {
		doc := render(t, FilterBar(loadedView(t, models.CategoryFood)))
		food := doc.Find(`button[data-category="food"]`)
		href, _ := food.Attr("hx-get")
		assert.Equal(t, "/map/sess-1/filter/food", href)
		target, _ := food.Attr("hx-target")
		assert.Equal(t, "#"+OverlayID, target)
		assert.Equal(t, "2", food.Find(".citymap-chip-count").Text())
		assert.Contains(t, food.Find(".citymap-chip-label").Text(), "Food")
	})
}

func TestOverlay_MarkersData(t *testing.T) {
	doc := render(t, Overlay(loadedView(t, models.CategoryFood)))

	overlay := doc.Find("#" + OverlayID)
	require.Equal(t, 1, overlay.Length())
	state, _ := overlay.Attr("data-state")
	assert.Equal(t, "loaded", state)

	var ids []string
	doc.Find("li.citymap-marker").Each(func(i int, s *goquery.Selection) {
		id, _ := s.Attr("data-poi-id")
		ids = append(ids, id)
	})
	assert.Equal(t, []string{"5", "8"}, ids)

	raw := doc.Find("script#" + MarkersID).Text()
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, []float64{2.3387, 48.8522}, fc.Features[0].Geometry.Coordinates)
}

func TestOverlay_ErrorState(t *testing.T) {
	c := mapview.NewController("sess-err", poi.SeedPOIs(),
		func(context.Context, mapview.MapOptions) (mapview.Surface, error) { return nil, errors.New("boom") },
		mapview.DefaultMapOptions(), zap.NewNop())
	defer c.Close()
	require.Error(t, c.Mount(context.Background()))

	doc := render(t, Overlay(c.View()))
	panel := doc.Find(`[role="alert"]`)
	require.Equal(t, 1, panel.Length())
	assert.NotEmpty(t, strings.TrimSpace(panel.Find(".citymap-error-message").Text()))
	assert.Equal(t, 0, doc.Find("li.citymap-marker").Length())
	assert.Equal(t, 0, doc.Find(".citymap-filterbar").Length())

	page := render(t, Page(PageProps{Title: "Paris", StyleURL: "/map/style.json"}, c.View()))
	assert.Equal(t, 0, page.Find("#"+MapElementID).Length(), "map surface must be suppressed")
	assert.Equal(t, 1, page.Find(`[role="alert"]`).Length())
}

func TestPopupCard(t *testing.T) {
	pois := poi.SeedPOIs()
	doc := render(t, PopupCard(models.NewPopup(pois[0])))

	card := doc.Find("article.citymap-popup")
	require.Equal(t, 1, card.Length())
	assert.Contains(t, card.Text(), "Eiffel Tower")
	assert.Contains(t, card.Text(), "landmarks")
	lng, _ := card.Attr("data-lng")
	assert.Equal(t, "2.2945", lng)
	offset, _ := card.Attr("data-offset")
	assert.Equal(t, "25", offset)
}

func TestPopupCard_EscapesContent(t *testing.T) {
	p := models.Popup{Name: `<script>alert("x")</script>`, Category: models.CategoryArt}
	var sb strings.Builder
	require.NoError(t, PopupCard(p).Render(context.Background(), &sb))
	assert.NotContains(t, sb.String(), "<script>")
}

func TestPage(t *testing.T) {
	v := loadedView(t, models.CategoryAll)
	doc := render(t, Page(PageProps{Title: "Paris", StyleURL: "/map/style.json"}, v))

	assert.Equal(t, "Paris", doc.Find("title").Text())
	m := doc.Find("#" + MapElementID)
	require.Equal(t, 1, m.Length())
	styleURL, _ := m.Attr("data-style-url")
	assert.Equal(t, "/map/style.json", styleURL)
	zoom, _ := m.Attr("data-zoom")
	assert.Equal(t, "12", zoom)
	pitch, _ := m.Attr("data-pitch")
	assert.Equal(t, "0", pitch)
	loaded, _ := m.Attr("data-loaded-url")
	assert.Equal(t, "/map/sess-1/loaded", loaded)
	assert.Equal(t, 8, doc.Find("li.citymap-marker").Length())
}
