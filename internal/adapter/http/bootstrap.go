package http

import (
	"context"
	"net/http"
	"os"
	"time"

	"todos/internal/adapter/cache"
	"todos/internal/adapter/database/postgres"
	"todos/internal/adapter/database/sqlite"
	"todos/internal/adapter/http/routes"
	"todos/internal/core/port"
	"todos/internal/core/telemetry"
	"todos/internal/shared"
)

// Server owns everything StartServer wires together, so main can shut it
// all down in order.
type Server struct {
	HTTP      *http.Server
	Container *Container

	sqliteDB  *sqlite.DB
	pgDB      *postgres.DB
	cacheRepo port.CacheRepository
}

func StartServer(logger *shared.LokiLogger, metrics *shared.AppMetrics) (*Server, error) {
	return StartServerWithConfig(logger, metrics, shared.GetDefaultConfig())
}

func StartServerWithConfig(logger *shared.LokiLogger, metrics *shared.AppMetrics, config *shared.AppConfig) (*Server, error) {
	probe := telemetry.NewOtelProbe("todos", metrics)

	srv := &Server{}

	// DATABASE_URL selects postgres; the default is the embedded sqlite file.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		db, err := postgres.NewDB(context.Background())
		if err != nil {
			return nil, err
		}

		srv.pgDB = db
		srv.Container = NewPostgresContainer(db, logger, probe)
	} else {
		db, err := sqlite.NewDB()
		if err != nil {
			return nil, err
		}

		srv.sqliteDB = db
		srv.Container = NewContainer(db, logger, probe)
	}

	cacheRepo, err := buildCacheBackend()
	if err != nil {
		return nil, err
	}
	srv.cacheRepo = cacheRepo

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		AuthHandler: srv.Container.AuthHandler,
		TodoHandler: srv.Container.TodoHandler,
	}, metrics, logger, cacheRepo, config)

	srv.HTTP = &http.Server{
		Addr:         ":" + shared.GetServerPort(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	return srv, nil
}

func buildCacheBackend() (port.CacheRepository, error) {
	if url := os.Getenv("CACHE_URL"); url != "" {
		return cache.NewRedisRepository(context.Background(), url)
	}

	return cache.NewMemoryRepository(), nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.HTTP.Shutdown(ctx)

	if s.cacheRepo != nil {
		s.cacheRepo.Close()
	}

	if s.sqliteDB != nil {
		s.sqliteDB.Close()
	}

	if s.pgDB != nil {
		s.pgDB.Close()
	}

	return err
}
