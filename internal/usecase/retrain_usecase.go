package usecase

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/config"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/ml"
)

type RetrainUsecase interface {
	Retrain(ctx context.Context) (RetrainSummary, error)
}

// RetrainSummary is the operator-facing result of one retrain run.
type RetrainSummary struct {
	Generation  int64          `json:"generation"`
	TrainedAt   time.Time      `json:"trained_at"`
	Samples     map[string]int `json:"samples_per_stage"`
	RowsSkipped int            `json:"rows_skipped"`
	Duration    time.Duration  `json:"duration"`
}

type retrainLock interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	InvalidateRecommendations(ctx context.Context) error
}

// RetrainNotifier broadcasts retrain lifecycle events to connected
// websocket clients.
type RetrainNotifier interface {
	RetrainStarted()
	RetrainCompleted(generation int64, samples map[string]int)
	RetrainFailed(reason string)
}

type Retrain struct {
	cfg     config.ModelConfig
	models  *ml.Registry
	cache   retrainLock
	notify  RetrainNotifier
	log     *log.Logger
	running atomic.Bool
}

func NewRetrainUsecase(cfg config.ModelConfig, models *ml.Registry, cache retrainLock, notify RetrainNotifier, logger *log.Logger) *Retrain {
	if logger == nil {
		logger = log.Default()
	}
	return &Retrain{cfg: cfg, models: models, cache: cache, notify: notify, log: logger}
}

// Retrain rebuilds every stage model from the training CSV and installs the
// result with one atomic swap. Any failure before the swap leaves the
// serving bundle untouched. Only one retrain runs at a time, enforced both
// in-process and across replicas via the redis lock.
func (u *Retrain) Retrain(ctx context.Context) (RetrainSummary, error) {
	if !u.running.CompareAndSwap(false, true) {
		return RetrainSummary{}, ErrRetrainInProgress
	}
	defer u.running.Store(false)

	timeout := u.cfg.RetrainTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	if u.cache != nil {
		token := uuid.NewString()
		acquired, err := u.cache.SetIfNotExists(ctx, RetrainLockKey, token, timeout+time.Minute)
		if err != nil {
			u.log.Printf("retrain step=lock status=error err=%v", err)
		} else if !acquired {
			return RetrainSummary{}, ErrRetrainInProgress
		}
		defer func() {
			if err := u.cache.Delete(context.Background(), RetrainLockKey); err != nil {
				u.log.Printf("retrain step=unlock status=error err=%v", err)
			}
		}()
	}

	if u.notify != nil {
		u.notify.RetrainStarted()
	}
	started := time.Now()
	u.log.Printf("retrain step=start csv=%s", u.cfg.TrainingCSV)

	summary, err := u.run(ctx, timeout)
	if err != nil {
		u.log.Printf("retrain step=finish status=error err=%v", err)
		if u.notify != nil {
			u.notify.RetrainFailed(err.Error())
		}
		return RetrainSummary{}, fmt.Errorf("%w: %s", ErrRetrainFailed, err.Error())
	}

	summary.Duration = time.Since(started)
	u.log.Printf("retrain step=finish status=ok generation=%d duration=%s", summary.Generation, summary.Duration)
	if u.notify != nil {
		u.notify.RetrainCompleted(summary.Generation, summary.Samples)
	}
	return summary, nil
}

type trainOutcome struct {
	bundle  *ml.Bundle
	skipped int
	err     error
}

func (u *Retrain) run(ctx context.Context, timeout time.Duration) (RetrainSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Training itself is CPU-bound and cannot be interrupted mid-tree;
	// the timeout abandons the result instead.
	done := make(chan trainOutcome, 1)
	go func() {
		ds, err := ml.ReadTrainingCSV(u.cfg.TrainingCSV)
		if err != nil {
			done <- trainOutcome{err: err}
			return
		}
		bundle, err := ml.TrainBundle(ds, ml.ForestConfig{})
		done <- trainOutcome{bundle: bundle, skipped: ds.Skipped, err: err}
	}()

	var out trainOutcome
	select {
	case <-ctx.Done():
		return RetrainSummary{}, fmt.Errorf("timed out after %s", timeout)
	case out = <-done:
	}
	if out.err != nil {
		return RetrainSummary{}, out.err
	}

	gen, err := u.models.Swap(out.bundle)
	if err != nil {
		return RetrainSummary{}, fmt.Errorf("install bundle: %w", err)
	}

	if u.cfg.Dir != "" {
		if err := ml.SaveBundle(u.cfg.Dir, out.bundle); err != nil {
			// The new bundle already serves; persistence failure only
			// costs the warm start on next boot.
			u.log.Printf("retrain step=persist status=error dir=%s err=%v", u.cfg.Dir, err)
		}
	}

	if u.cache != nil {
		if err := u.cache.InvalidateRecommendations(context.Background()); err != nil {
			u.log.Printf("retrain step=cache_invalidate status=error err=%v", err)
		}
	}

	return RetrainSummary{
		Generation:  gen,
		TrainedAt:   out.bundle.Meta.TrainedAt,
		Samples:     out.bundle.Meta.Samples,
		RowsSkipped: out.skipped,
	}, nil
}
