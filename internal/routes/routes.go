package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/domain"
	"github.com/FACorreiaa/loci-citymap/internal/app/domain/citymap"
	"github.com/FACorreiaa/loci-citymap/internal/app/domain/poi"
	"github.com/FACorreiaa/loci-citymap/internal/app/mapview"
	"github.com/FACorreiaa/loci-citymap/internal/pkg/config"
)

// Pinger is the health check view of the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the long-lived objects the server owns. DB is nil unless
// POIs come from Postgres.
type Dependencies struct {
	Config   *config.Config
	DB       poi.Querier
	Health   Pinger
	Sessions *mapview.SessionStore
}

type AppHandlers struct {
	Map *citymap.Handlers
	POI *poi.Handlers
}

func Setup(r *gin.Engine, deps Dependencies, log *zap.Logger) error {
	handlers, err := setupDependencies(deps, log)
	if err != nil {
		return err
	}
	setupRouter(r, handlers, deps)
	return nil
}

// MapOptions converts the map configuration into validated host options.
func MapOptions(cfg config.MapConfig) (mapview.MapOptions, error) {
	opts := mapview.DefaultMapOptions()
	opts.TileURL = cfg.TileURL
	opts.Attribution = cfg.Attribution
	opts.MinZoom = cfg.MinZoom
	opts.MaxZoom = cfg.MaxZoom
	opts.Center = orb.Point{cfg.CenterLng, cfg.CenterLat}
	opts.Zoom = cfg.Zoom
	if err := opts.Validate(); err != nil {
		return mapview.MapOptions{}, fmt.Errorf("invalid map configuration: %w", err)
	}
	return opts, nil
}

func setupDependencies(deps Dependencies, log *zap.Logger) (*AppHandlers, error) {
	cfg := deps.Config
	baseHandler := domain.NewBaseHandler(log)

	var poiRepo poi.Repository
	switch cfg.POI.Source {
	case config.POISourcePostgres:
		if deps.DB == nil {
			return nil, fmt.Errorf("poi source %q needs a database pool", cfg.POI.Source)
		}
		poiRepo = poi.NewPostgresRepository(deps.DB, log)
	default:
		poiRepo = poi.NewSeededRepository()
	}
	poiService := poi.NewServiceImpl(poiRepo, cfg.POI.CacheTTL, log)

	opts, err := MapOptions(cfg.Map)
	if err != nil {
		return nil, err
	}

	var prober mapview.TileProber
	if cfg.Map.ProbeTiles {
		prober = mapview.NewHTTPTileProber(cfg.Map.ProbeTimeout, cfg.Map.UserAgent)
	}

	log.Info("Map configured",
		zap.String("poi_source", string(cfg.POI.Source)),
		zap.String("tile_url", opts.TileURL),
		zap.Bool("probe_tiles", prober != nil))

	return &AppHandlers{
		Map: citymap.NewHandlers(baseHandler, deps.Sessions, poiService, mapview.NewSceneFactory(prober), opts, cfg.Map.Title),
		POI: poi.NewHandlers(baseHandler, poiService),
	}, nil
}

func setupRouter(r *gin.Engine, h *AppHandlers, deps Dependencies) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/map")
	})
	r.GET("/healthz", healthHandler(deps))

	mapGroup := r.Group("/map")
	{
		mapGroup.GET("", h.Map.ShowMap)
		mapGroup.GET("/style.json", h.Map.Style)
		mapGroup.DELETE("/:session", h.Map.CloseSession)
		mapGroup.POST("/:session/loaded", h.Map.MapLoaded)
		mapGroup.POST("/:session/error", h.Map.MapFailed)
		mapGroup.GET("/:session/filter/:category", h.Map.SelectFilter)
		mapGroup.GET("/:session/markers.geojson", h.Map.Markers)
		mapGroup.GET("/:session/markers/:poi/popup", h.Map.MarkerPopup)
		mapGroup.POST("/:session/markers/:poi/hover", h.Map.MarkerHover)
	}

	api := r.Group("/api")
	{
		api.GET("/pois", h.POI.ListPOIs)
		api.GET("/pois/:id", h.POI.GetPOI)
		api.GET("/categories", h.POI.ListCategories)
	}
}

func healthHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":     "ok",
			"poi_source": deps.Config.POI.Source,
			"sessions":   deps.Sessions.Len(),
		}
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Health.Ping(ctx); err != nil {
				body["status"] = "degraded"
				body["database"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
			body["database"] = "ok"
		}
		c.JSON(http.StatusOK, body)
	}
}
