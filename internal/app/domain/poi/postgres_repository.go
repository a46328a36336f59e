package poi

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/models"
)

// Querier is the part of *pgxpool.Pool the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository reads the POI table seeded by the goose migrations.
type PostgresRepository struct {
	logger *zap.Logger
	pgpool Querier
}

func NewPostgresRepository(pgpool Querier, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func listPOIsQuery() (string, []any, error) {
	return psql.
		Select("id", "name", "category", "longitude", "latitude", "description").
		From("points_of_interest").
		OrderBy("sort_order", "id").
		ToSql()
}

func (r *PostgresRepository) ListPOIs(ctx context.Context) ([]models.POI, error) {
	ctx, span := otel.Tracer("PostgresRepository").Start(ctx, "ListPOIs")
	defer span.End()

	query, args, err := listPOIsQuery()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build query")
		return nil, fmt.Errorf("failed to build POI query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query POIs: %w", err)
	}
	defer rows.Close()

	var pois []models.POI
	for rows.Next() {
		var (
			p        models.POI
			category string
			lon, lat float64
		)
		if err := rows.Scan(&p.ID, &p.Name, &category, &lon, &lat, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan POI row: %w", err)
		}
		p.Category = models.Category(category)
		p.Coordinates = orb.Point{lon, lat}
		if err := p.Validate(); err != nil {
			r.logger.Warn("Skipping invalid POI row", zap.String("id", p.ID), zap.Error(err))
			continue
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rows iteration failed")
		return nil, fmt.Errorf("error iterating POI rows: %w", err)
	}

	span.SetAttributes(attribute.Int("pois.count", len(pois)))
	r.logger.Debug("POIs retrieved from postgres", zap.Int("count", len(pois)))
	return pois, nil
}
