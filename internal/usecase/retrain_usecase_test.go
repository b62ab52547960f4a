package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/config"
	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/ml"
)

type fakeLock struct {
	mu          sync.Mutex
	denyAcquire bool
	acquires    int
	releases    int
	invalidates int
}

func (f *fakeLock) SetIfNotExists(_ context.Context, _ string, _ string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acquires++
	return !f.denyAcquire, nil
}

func (f *fakeLock) Delete(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	return nil
}

func (f *fakeLock) InvalidateRecommendations(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidates++
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	started   int
	completed int
	failed    []string
}

func (f *fakeNotifier) RetrainStarted() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
}

func (f *fakeNotifier) RetrainCompleted(int64, map[string]int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed++
}

func (f *fakeNotifier) RetrainFailed(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, reason)
}

// writeTrainingCSV materialises the synthetic fixture as a file so the
// retrain path exercises the same CSV parser production uses.
func writeTrainingCSV(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("Age,Gender,Marital Status,Type of Property (Rented/Owned),Education level,Employment Status,Experience,Salary,CIBIL Score,Eligibility (0/1),Product Type,Loan Amount,Loan Tenure,Interest Rate\n")
	for _, r := range trainingDataset().Rows {
		elig := 0
		if r.Eligible {
			elig = 1
		}
		fmt.Fprintf(&b, "%.0f,%s,%s,%s,%s,%s,%.0f,%.0f,%.0f,%d,%s,%.0f,%.0f,%.1f\n",
			r.Age, r.Gender, r.Marital, r.Property, r.Education, r.Employment,
			r.Experience, r.Salary, r.Score, elig, r.Product, r.Amount, r.Tenure, r.Rate)
	}

	path := filepath.Join(t.TempDir(), "training.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write training csv: %v", err)
	}
	return path
}

func TestRetrain_SwapsAndInvalidates(t *testing.T) {
	cfg := config.ModelConfig{
		Dir:            filepath.Join(t.TempDir(), "models"),
		TrainingCSV:    writeTrainingCSV(t),
		RetrainTimeout: time.Minute,
	}
	registry := ml.NewRegistry(nil)
	lock := &fakeLock{}
	notify := &fakeNotifier{}
	uc := NewRetrainUsecase(cfg, registry, lock, notify, nil)

	summary, err := uc.Retrain(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if summary.Generation != 1 {
		t.Fatalf("generation = %d, want 1", summary.Generation)
	}
	if !registry.Loaded() {
		t.Fatalf("registry should serve the new bundle")
	}
	if summary.Samples[ml.StageEligibility] != 40 {
		t.Fatalf("eligibility samples = %d, want 40", summary.Samples[ml.StageEligibility])
	}
	if lock.acquires != 1 || lock.releases != 1 || lock.invalidates != 1 {
		t.Fatalf("lock interactions off: %+v", lock)
	}
	if notify.started != 1 || notify.completed != 1 || len(notify.failed) != 0 {
		t.Fatalf("notifier events off: %+v", notify)
	}

	// The swapped bundle is also persisted for the next boot.
	if _, err := ml.LoadBundle(cfg.Dir); err != nil {
		t.Fatalf("persisted bundle unreadable: %v", err)
	}
}

func TestRetrain_FailureLeavesRegistryUntouched(t *testing.T) {
	cfg := config.ModelConfig{
		TrainingCSV:    filepath.Join(t.TempDir(), "absent.csv"),
		RetrainTimeout: time.Minute,
	}
	registry := ml.NewRegistry(nil)
	lock := &fakeLock{}
	notify := &fakeNotifier{}
	uc := NewRetrainUsecase(cfg, registry, lock, notify, nil)

	if _, err := uc.Retrain(context.Background()); !errors.Is(err, ErrRetrainFailed) {
		t.Fatalf("expected ErrRetrainFailed, got %v", err)
	}

	if registry.Loaded() {
		t.Fatalf("failed retrain must not install a bundle")
	}
	if lock.invalidates != 0 {
		t.Fatalf("failed retrain must not flush the cache")
	}
	if lock.releases != 1 {
		t.Fatalf("lock must be released on failure, releases = %d", lock.releases)
	}
	if len(notify.failed) != 1 || notify.completed != 0 {
		t.Fatalf("notifier events off: %+v", notify)
	}
}

func TestRetrain_LockDeniedAcrossReplicas(t *testing.T) {
	cfg := config.ModelConfig{TrainingCSV: "unused.csv", RetrainTimeout: time.Minute}
	uc := NewRetrainUsecase(cfg, ml.NewRegistry(nil), &fakeLock{denyAcquire: true}, nil, nil)

	if _, err := uc.Retrain(context.Background()); !errors.Is(err, ErrRetrainInProgress) {
		t.Fatalf("expected ErrRetrainInProgress, got %v", err)
	}
}

func TestRetrain_SecondRunAfterFirstCompletes(t *testing.T) {
	cfg := config.ModelConfig{
		TrainingCSV:    writeTrainingCSV(t),
		RetrainTimeout: time.Minute,
	}
	registry := ml.NewRegistry(nil)
	uc := NewRetrainUsecase(cfg, registry, &fakeLock{}, nil, nil)

	if _, err := uc.Retrain(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	summary, err := uc.Retrain(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Generation != 2 {
		t.Fatalf("generation = %d, want 2", summary.Generation)
	}
}
