package poi

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// Service defines the read operations on the POI store.
type Service interface {
	ListPOIs(ctx context.Context) ([]models.POI, error)
	ListByCategory(ctx context.Context, filter models.Category) ([]models.POI, error)
	GetPOI(ctx context.Context, id string) (models.POI, error)
	CountByCategory(ctx context.Context) (map[models.Category]int, error)
}

const listCacheKey = "pois:all"

type ServiceImpl struct {
	logger        *zap.Logger
	poiRepository Repository
	cache         *cache.Cache
}

// NewServiceImpl wraps a repository with a short-lived list cache. A zero ttl
// disables caching.
func NewServiceImpl(poiRepository Repository, ttl time.Duration, logger *zap.Logger) *ServiceImpl {
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl, 2*ttl)
	}
	return &ServiceImpl{
		logger:        logger,
		poiRepository: poiRepository,
		cache:         c,
	}
}

func (s *ServiceImpl) ListPOIs(ctx context.Context) ([]models.POI, error) {
	ctx, span := otel.Tracer("POIService").Start(ctx, "ListPOIs")
	defer span.End()

	if s.cache != nil {
		if cached, found := s.cache.Get(listCacheKey); found {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return slices.Clone(cached.([]models.POI)), nil
		}
	}

	pois, err := s.poiRepository.ListPOIs(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository list failed")
		s.logger.Error("failed to list POIs", zap.Error(err))
		return nil, fmt.Errorf("failed to list POIs: %w", err)
	}
	if s.cache != nil {
		s.cache.SetDefault(listCacheKey, slices.Clone(pois))
	}
	span.SetAttributes(attribute.Bool("cache.hit", false), attribute.Int("pois.count", len(pois)))
	return pois, nil
}

func (s *ServiceImpl) ListByCategory(ctx context.Context, filter models.Category) ([]models.POI, error) {
	pois, err := s.ListPOIs(ctx)
	if err != nil {
		return nil, err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("poi.filter", filter.String()))
	return models.FilterPOIs(pois, filter), nil
}

func (s *ServiceImpl) GetPOI(ctx context.Context, id string) (models.POI, error) {
	pois, err := s.ListPOIs(ctx)
	if err != nil {
		return models.POI{}, err
	}
	for _, p := range pois {
		if p.ID == id {
			return p, nil
		}
	}
	return models.POI{}, fmt.Errorf("poi %s: %w", id, models.ErrNotFound)
}

// CountByCategory counts POIs per filter value, "all" included.
func (s *ServiceImpl) CountByCategory(ctx context.Context) (map[models.Category]int, error) {
	pois, err := s.ListPOIs(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[models.Category]int, len(models.FilterOrder))
	for _, c := range models.FilterOrder {
		counts[c] = models.CountPOIs(pois, c)
	}
	return counts, nil
}
