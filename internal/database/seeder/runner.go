package seeder

import (
	"context"
	"fmt"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/database"
)

// Seeder loads one dataset into the store at startup. Implementations must
// be idempotent; the runner may execute them on every boot.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Runner executes its seeders in order, stopping at the first failure.
type Runner struct {
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return nil
}
