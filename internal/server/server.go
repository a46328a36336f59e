package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/loci-citymap/internal/app/mapview"
	database "github.com/FACorreiaa/loci-citymap/internal/db"
	"github.com/FACorreiaa/loci-citymap/internal/pkg/config"
	"github.com/FACorreiaa/loci-citymap/internal/routes"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	dbPool   *pgxpool.Pool
	sessions *mapview.SessionStore
	router   http.Handler
}

// New creates a new Server instance. The database is only opened when POIs
// are served from Postgres.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: mapview.NewSessionStore(cfg.Sessions.TTL, logger),
	}

	if cfg.POI.Source == config.POISourcePostgres {
		dbPool, err := s.setupDatabase(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}
		s.dbPool = dbPool
	}

	return s, nil
}

// setupDatabase initializes the database connection and runs migrations
func (s *Server) setupDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	s.logger.Info("Setting up database connection and migrations")

	dbConfig, err := database.NewDatabaseConfig(s.cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database configuration: %w", err)
	}

	pool, err := database.Init(ctx, dbConfig, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if !database.WaitForDB(ctx, pool, s.logger) {
		pool.Close()
		return nil, fmt.Errorf("database at %s:%s is unreachable",
			s.cfg.Repositories.Postgres.Host, s.cfg.Repositories.Postgres.Port)
	}

	if err = database.RunMigrations(dbConfig.ConnectionURL, s.logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.logger.Info("Database setup completed successfully")
	return pool, nil
}

// Dependencies exposes what the routes need from the server.
func (s *Server) Dependencies() routes.Dependencies {
	deps := routes.Dependencies{
		Config:   s.cfg,
		Sessions: s.sessions,
	}
	if s.dbPool != nil {
		deps.DB = s.dbPool
		deps.Health = s.dbPool
	}
	return deps
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

func (s *Server) Sessions() *mapview.SessionStore {
	return s.sessions
}

// Close tears down every map session, then the pool.
func (s *Server) Close() {
	n := s.sessions.Len()
	s.sessions.CloseAll()
	s.logger.Info("Map sessions closed", zap.Int("count", n))
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
