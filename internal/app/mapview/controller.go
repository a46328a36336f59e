package mapview

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
	"github.com/FACorreiaa/loci-citymap/internal/app/observability/metrics"
)

// Controller is one mounted map session: a host, its presenter and the filter
// state. Every method takes the controller lock, so events for a session are
// handled one at a time.
type Controller struct {
	mu        sync.Mutex
	id        string
	logger    *zap.Logger
	pois      []models.POI
	host      *Host
	presenter *Presenter
	filter    models.Category
	closed    bool
}

func NewController(id string, pois []models.POI, factory SurfaceFactory, opts MapOptions, logger *zap.Logger) *Controller {
	logger = logger.With(zap.String("session_id", id))
	host := NewHost(factory, opts, logger)
	c := &Controller{
		id:        id,
		logger:    logger,
		pois:      slices.Clone(pois),
		host:      host,
		presenter: NewPresenter(host, pois, logger),
		filter:    models.CategoryAll,
	}
	host.OnLoad(func() { c.presenter.Rebuild(c.filter) })
	return c
}

func (c *Controller) ID() string { return c.id }

// Mount creates the map. A failure leaves the session in the error state; the
// error is returned for logging only.
func (c *Controller) Mount(ctx context.Context) error {
	ctx, span := otel.Tracer("MapController").Start(ctx, "Mount")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return models.ErrSessionNotFound
	}
	if err := c.host.Mount(ctx); err != nil {
		span.RecordError(err)
		metrics.Get().MapLoadFailuresTotal.Add(ctx, 1)
		return err
	}
	return nil
}

// HandleLoad signals that the map finished loading.
func (c *Controller) HandleLoad() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return View{}, models.ErrSessionNotFound
	}
	if c.host.HandleLoad() {
		c.logger.Info("Map loaded", zap.Int("markers", len(c.presenter.Markers())))
	}
	return c.viewLocked(), nil
}

// HandleError signals that the map failed to load.
func (c *Controller) HandleError(cause error) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return View{}, models.ErrSessionNotFound
	}
	if c.host.HandleError(cause) {
		c.presenter.Clear()
		metrics.Get().MapLoadFailuresTotal.Add(context.Background(), 1)
	}
	return c.viewLocked(), nil
}

// SelectFilter sets the filter state and rebuilds the markers. While the map
// is initializing only the filter state changes; once it failed nothing does.
func (c *Controller) SelectFilter(filter models.Category) (View, error) {
	if !filter.IsKnown() {
		return View{}, fmt.Errorf("%w: %q", models.ErrInvalidCategory, filter)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return View{}, models.ErrSessionNotFound
	}
	if c.host.State() == models.MapStateError {
		return c.viewLocked(), nil
	}
	c.filter = filter
	c.presenter.Rebuild(filter)
	return c.viewLocked(), nil
}

// ClickMarker delivers a click to the marker of poiID and returns the popup
// it opened.
func (c *Controller) ClickMarker(ctx context.Context, poiID string) (models.Popup, error) {
	_, span := otel.Tracer("MapController").Start(ctx, "ClickMarker")
	defer span.End()
	span.SetAttributes(attribute.String("poi.id", poiID))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return models.Popup{}, models.ErrSessionNotFound
	}
	m, ok := c.presenter.Marker(poiID)
	if !ok {
		return models.Popup{}, fmt.Errorf("marker for poi %s: %w", poiID, models.ErrNotFound)
	}
	m.EmitClick()
	popup, ok := c.host.Surface().CurrentPopup()
	if !ok {
		return models.Popup{}, errors.New("marker click did not open a popup")
	}
	return popup, nil
}

// HoverMarker delivers a hover enter/leave to the marker of poiID.
func (c *Controller) HoverMarker(poiID string, over bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return models.ErrSessionNotFound
	}
	m, ok := c.presenter.Marker(poiID)
	if !ok {
		return fmt.Errorf("marker for poi %s: %w", poiID, models.ErrNotFound)
	}
	m.EmitHover(over)
	return nil
}

// View snapshots the session for rendering.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	v := View{
		SessionID:    c.id,
		State:        c.host.State(),
		ErrorMessage: c.host.ErrorMessage(),
		Filter:       c.filter,
		Chips:        BuildFilterBar(c.pois, c.filter),
		Options:      c.host.Options(),
	}
	for _, m := range c.presenter.Markers() {
		v.Markers = append(v.Markers, MarkerView{
			POIID:       m.POIID(),
			Name:        m.Title(),
			Coordinates: m.LngLat(),
			Style:       m.Style(),
			Highlighted: m.Highlighted(),
		})
	}
	if s := c.host.Surface(); s != nil {
		if popup, ok := s.CurrentPopup(); ok {
			v.Popup = &popup
		}
	}
	return v
}

// Close tears the session down: markers first, then the map. It runs from
// any state and only once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.presenter.Clear()
	c.host.Close()
	c.logger.Debug("Map session closed")
}

func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
