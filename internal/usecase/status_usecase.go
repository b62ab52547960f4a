package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/ml"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/repository"
)

type StatusUsecase interface {
	ModelStatus(ctx context.Context) ModelStatus
	Vocabularies(ctx context.Context) (map[string][]string, error)
	ScoreStats(ctx context.Context) (repository.ScoreStats, error)
	Health(ctx context.Context) HealthStatus
}

// ModelStatus describes the serving bundle without exposing the models.
type ModelStatus struct {
	Loaded           bool           `json:"loaded"`
	Generation       int64          `json:"generation"`
	TrainedAt        time.Time      `json:"trained_at"`
	Stages           []string       `json:"stages"`
	VocabularyFields []string       `json:"vocabulary_fields"`
	Samples          map[string]int `json:"samples_per_stage"`
}

type HealthStatus struct {
	DatabaseHealthy bool      `json:"database_healthy"`
	RedisHealthy    bool      `json:"redis_healthy"`
	ModelsLoaded    bool      `json:"models_loaded"`
	ScoreRecords    int       `json:"score_records"`
	ServerTime      time.Time `json:"server_time"`
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	scores repository.ScoreRepository
	models *ml.Registry
	db     pinger
	redis  pinger
	log    *log.Logger
	now    func() time.Time
}

func NewStatusUsecase(scores repository.ScoreRepository, models *ml.Registry, db pinger, redis pinger, logger *log.Logger) *Status {
	if logger == nil {
		logger = log.Default()
	}
	return &Status{scores: scores, models: models, db: db, redis: redis, log: logger, now: time.Now}
}

func (u *Status) ModelStatus(_ context.Context) ModelStatus {
	bundle, err := u.models.Current()
	if err != nil {
		return ModelStatus{Loaded: false}
	}
	return ModelStatus{
		Loaded:           true,
		Generation:       bundle.Meta.Generation,
		TrainedAt:        bundle.Meta.TrainedAt,
		Stages:           bundle.StageNames(),
		VocabularyFields: bundle.Vocabs.Fields(),
		Samples:          bundle.Meta.Samples,
	}
}

// Vocabularies lists the accepted categorical values per field so clients
// can build input forms that never hit an unknown-category rejection.
func (u *Status) Vocabularies(_ context.Context) (map[string][]string, error) {
	bundle, err := u.models.Current()
	if err != nil {
		return nil, ErrModelsNotLoaded
	}

	out := make(map[string][]string)
	for _, field := range bundle.Vocabs.Fields() {
		vocab, err := bundle.Vocabs.Field(field)
		if err != nil {
			return nil, ErrInternal
		}
		out[field] = vocab.Values()
	}
	return out, nil
}

func (u *Status) ScoreStats(ctx context.Context) (repository.ScoreStats, error) {
	stats, err := u.scores.Stats(ctx)
	if err != nil {
		u.log.Printf("status step=score_stats err=%v", err)
		return repository.ScoreStats{}, ErrInternal
	}
	return stats, nil
}

// Health probes the dependencies concurrently; a slow database never delays
// the redis verdict.
func (u *Status) Health(ctx context.Context) HealthStatus {
	var (
		dbHealthy    bool
		redisHealthy bool
		records      int
	)

	wg := sync.WaitGroup{}

	if u.db != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			dbHealthy = u.db.Ping(pingCtx) == nil
		}()
	}

	if u.redis != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			redisHealthy = u.redis.Ping(pingCtx) == nil
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		n, err := u.scores.Count(ctx)
		if err != nil {
			u.log.Printf("status step=score_count err=%v", err)
			return
		}
		records = n
	}()

	wg.Wait()

	return HealthStatus{
		DatabaseHealthy: dbHealthy,
		RedisHealthy:    redisHealthy,
		ModelsLoaded:    u.models.Loaded(),
		ScoreRecords:    records,
		ServerTime:      u.now().UTC(),
	}
}
