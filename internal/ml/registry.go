package ml

import (
	"errors"
	"log"
	"sync/atomic"
)

// ErrNoBundle means no model set has been loaded yet; recommendation
// requests cannot be served until one is.
var ErrNoBundle = errors.New("no model bundle loaded")

// Registry is the process-wide holder of the serving Bundle. Reads take a
// snapshot once per request; Swap replaces the whole set atomically so a
// request never mixes stage outputs from two generations. Retrain builds
// its candidate bundle entirely off to the side before calling Swap.
type Registry struct {
	current atomic.Pointer[Bundle]
	logger  *log.Logger
}

func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{logger: logger}
}

// Current returns the serving bundle snapshot.
func (r *Registry) Current() (*Bundle, error) {
	b := r.current.Load()
	if b == nil {
		return nil, ErrNoBundle
	}
	return b, nil
}

// Loaded reports whether a bundle is serving.
func (r *Registry) Loaded() bool {
	return r.current.Load() != nil
}

// Generation returns the serving generation, 0 when nothing is loaded.
func (r *Registry) Generation() int64 {
	b := r.current.Load()
	if b == nil {
		return 0
	}
	return b.Meta.Generation
}

// Swap validates and installs a new bundle, assigning it the next
// generation. The previous bundle keeps serving requests already holding
// it. Returns the installed generation.
func (r *Registry) Swap(b *Bundle) (int64, error) {
	if b == nil {
		return 0, errors.New("nil bundle")
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}

	for {
		old := r.current.Load()
		var gen int64 = 1
		if old != nil {
			gen = old.Meta.Generation + 1
		}
		b.Meta.Generation = gen
		if r.current.CompareAndSwap(old, b) {
			r.logger.Printf("model bundle swapped | generation=%d trained_at=%s", gen, b.Meta.TrainedAt.Format("2006-01-02T15:04:05Z07:00"))
			return gen, nil
		}
	}
}
