package mapview

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
	"github.com/FACorreiaa/loci-citymap/internal/app/observability/metrics"
)

// Presenter keeps the marker set in step with the filter. It owns every
// marker handle it creates.
type Presenter struct {
	logger  *zap.Logger
	host    *Host
	pois    []models.POI
	markers []Marker
}

func NewPresenter(host *Host, pois []models.POI, logger *zap.Logger) *Presenter {
	return &Presenter{
		logger: logger,
		host:   host,
		pois:   slices.Clone(pois),
	}
}

// Rebuild replaces the marker set with one marker per POI passing filter,
// in store order. Before the host is loaded it does nothing and returns 0.
func (p *Presenter) Rebuild(filter models.Category) int {
	if !p.host.Ready() {
		p.logger.Debug("Skipping marker rebuild, map not ready",
			zap.String("state", string(p.host.State())),
			zap.String("filter", filter.String()))
		return 0
	}
	p.Clear()

	surface := p.host.Surface()
	for _, poi := range p.pois {
		if !poi.Matches(filter) {
			continue
		}
		m := surface.AddMarker(MarkerOptions{
			POIID:  poi.ID,
			Title:  poi.Name,
			LngLat: poi.Coordinates,
			Style:  poi.Category.Style(),
		})
		m.OnHover(m.SetHighlighted)
		m.OnClick(func() {
			surface.OpenPopup(models.NewPopup(poi))
			metrics.Get().PopupOpensTotal.Add(context.Background(), 1,
				metric.WithAttributes(attribute.String("category", poi.Category.String())))
		})
		p.markers = append(p.markers, m)
	}

	attrs := metric.WithAttributes(attribute.String("filter", filter.String()))
	metrics.Get().MarkerRebuildsTotal.Add(context.Background(), 1, attrs)
	metrics.Get().MarkersPlaced.Record(context.Background(), int64(len(p.markers)), attrs)
	p.logger.Debug("Markers rebuilt", zap.String("filter", filter.String()), zap.Int("markers", len(p.markers)))
	return len(p.markers)
}

// Clear removes every marker. Idempotent.
func (p *Presenter) Clear() {
	for _, m := range p.markers {
		m.Remove()
	}
	p.markers = nil
}

// Markers returns the current handles in placement order.
func (p *Presenter) Markers() []Marker {
	return slices.Clone(p.markers)
}

// Marker finds the handle placed for poiID.
func (p *Presenter) Marker(poiID string) (Marker, bool) {
	for _, m := range p.markers {
		if m.POIID() == poiID {
			return m, true
		}
	}
	return nil, false
}
