package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/config"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/database"
	dbpostgres "github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/database/postgres"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/database/seeder"
	dbsqlite "github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/database/sqlite"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/infrastructure/cache"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/ml"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/repository"
)

// Container owns every long-lived dependency: the score database, the model
// registry and the cache. Usecases and handlers are built from it in
// Bootstrap.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB     database.DB
	Scores repository.ScoreRepository
	Models *ml.Registry
	Cache  *cache.Redis
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := connectDB(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	scores := repository.NewSQLScoreRepository(db)
	if err := scores.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	run := seeder.Runner{Seeders: []seeder.Seeder{
		&seeder.ScoreSeeder{CSVPath: cfg.Models.ScoresCSV, Logger: logger},
	}}
	if err := run.Run(ctx, db); err != nil {
		// A missing CSV is survivable; lookups just miss until data lands.
		logger.Printf("seed step=scores status=error err=%v", err)
	}

	models := ml.NewRegistry(logger)
	if bundle, err := ml.LoadBundle(cfg.Models.Dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Printf("models dir=%s status=empty detail=\"serving starts after first retrain\"", cfg.Models.Dir)
		} else {
			logger.Printf("models dir=%s status=load_error err=%v", cfg.Models.Dir, err)
		}
	} else if _, err := models.Swap(bundle); err != nil {
		logger.Printf("models dir=%s status=invalid err=%v", cfg.Models.Dir, err)
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Scores: scores,
		Models: models,
		Cache:  cache.NewRedis(cfg.Redis, logger),
	}, nil
}

func connectDB(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return dbpostgres.Connect(ctx, cfg)
	case "sqlite":
		return dbsqlite.Connect(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
