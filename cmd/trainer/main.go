package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/ml"
)

// Offline training entry point. Produces the same artifact layout the
// server's retrain endpoint writes, so a bundle trained here is picked up
// on the next server start.
func main() {
	csvPath := flag.String("csv", "merged_training_dataset.csv", "training dataset CSV")
	outDir := flag.String("out", "models", "output directory for the model bundle")
	trees := flag.Int("trees", 0, "trees per forest (0 = default)")
	depth := flag.Int("depth", 0, "max tree depth (0 = default)")
	seed := flag.Int64("seed", 0, "rng seed (0 = default)")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	path := strings.TrimSpace(*csvPath)
	if path == "" {
		logger.Fatalf("provide -csv")
	}

	ds, err := ml.ReadTrainingCSV(path)
	if err != nil {
		logger.Fatalf("read training data: %v", err)
	}
	logger.Printf("training rows=%d skipped=%d", len(ds.Rows), ds.Skipped)

	bundle, err := ml.TrainBundle(ds, ml.ForestConfig{
		NumTrees: *trees,
		MaxDepth: *depth,
		Seed:     *seed,
	})
	if err != nil {
		logger.Fatalf("train: %v", err)
	}

	if err := ml.SaveBundle(*outDir, bundle); err != nil {
		logger.Fatalf("save bundle: %v", err)
	}

	for stage, n := range bundle.Meta.Samples {
		logger.Printf("trained stage=%s samples=%d", stage, n)
	}
	logger.Printf("bundle written dir=%s trained_at=%s", *outDir, bundle.Meta.TrainedAt.Format("2006-01-02T15:04:05Z07:00"))
}
