package poi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/domain"
)

func newAPIRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(domain.NewBaseHandler(zap.NewNop()), NewServiceImpl(repo, 0, zap.NewNop()))
	r := gin.New()
	r.GET("/api/pois", h.ListPOIs)
	r.GET("/api/pois/:id", h.GetPOI)
	r.GET("/api/categories", h.ListCategories)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandlers_ListPOIs(t *testing.T) {
	r := newAPIRouter(NewSeededRepository())

	tests := []struct {
		query string
		code  int
		count int
	}{
		{"", http.StatusOK, 8},
		{"?category=art", http.StatusOK, 2},
		{"?category=ART", http.StatusOK, 2},
		{"?category=culture", http.StatusOK, 1},
		{"?category=nightlife", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := get(r, "/api/pois"+tt.query)
			require.Equal(t, tt.code, w.Code)
			if tt.code != http.StatusOK {
				return
			}
			var body struct {
				Count int `json:"count"`
				POIs  []struct {
					ID          string     `json:"id"`
					Coordinates [2]float64 `json:"coordinates"`
				} `json:"pois"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.count, body.Count)
			assert.Len(t, body.POIs, tt.count)
		})
	}
}

func TestHandlers_GetPOI(t *testing.T) {
	r := newAPIRouter(NewSeededRepository())

	w := get(r, "/api/pois/7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Montmartre"`)

	w = get(r, "/api/pois/404")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlers_ListCategories(t *testing.T) {
	r := newAPIRouter(NewSeededRepository())

	w := get(r, "/api/categories")
	require.Equal(t, http.StatusOK, w.Code)

	var cats []categoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	require.Len(t, cats, 6)
	got := map[string]int{}
	for _, c := range cats {
		got[c.Category.String()] = c.Count
	}
	assert.Equal(t, map[string]int{"all": 8, "landmarks": 2, "food": 2, "art": 2, "history": 1, "culture": 1}, got)
	assert.Equal(t, "all", cats[0].Category.String())
	assert.Equal(t, "#6366f1", cats[0].Color)
}

func TestHandlers_RepositoryFailureIs500(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListPOIs", mock.Anything).Return(nil, errors.New("connection reset"))

	w := get(newAPIRouter(repo), "/api/pois")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}
