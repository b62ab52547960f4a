package seeder

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/database"
)

// Score CSV headers as the external dataset ships them.
const (
	colCreditID = "CIBIL ID"
	colScore    = "CIBIL Score"
)

// ScoreSeeder bulk-loads the credit score dataset into cibil_scores.
// It only runs against an empty table and inserts with conflict-ignore, so
// rerunning it (or racing a second instance) never duplicates rows.
// Loaded/Skipped are populated for the caller's startup log.
type ScoreSeeder struct {
	CSVPath string
	Logger  *log.Logger

	Loaded  int
	Skipped int
}

func (s *ScoreSeeder) Name() string { return "cibil_scores" }

func (s *ScoreSeeder) Run(ctx context.Context, db database.DB) error {
	var existing int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM cibil_scores`).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		s.logf("score store already populated | records=%d", existing)
		return nil
	}

	records, skipped, err := readScoreCSV(s.CSVPath)
	if err != nil {
		return err
	}
	s.Skipped = skipped

	insert := `INSERT INTO cibil_scores (cibil_id, cibil_score) VALUES ($1, $2) ON CONFLICT (cibil_id) DO NOTHING`
	if db.Dialect() == database.DialectSQLite {
		insert = `INSERT OR IGNORE INTO cibil_scores (cibil_id, cibil_score) VALUES (?, ?)`
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, rec := range records {
		affected, err := tx.Exec(ctx, insert, rec.creditID, rec.score)
		if err != nil {
			return fmt.Errorf("insert %s: %w", rec.creditID, err)
		}
		if affected > 0 {
			s.Loaded++
		} else {
			s.Skipped++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logf("score store seeded | loaded=%d skipped=%d source=%s", s.Loaded, s.Skipped, s.CSVPath)
	return nil
}

type scoreRecord struct {
	creditID string
	score    int
}

func readScoreCSV(path string) ([]scoreRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("score dataset: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	idIdx, scoreIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case colCreditID:
			idIdx = i
		case colScore:
			scoreIdx = i
		}
	}
	if idIdx < 0 || scoreIdx < 0 {
		return nil, 0, fmt.Errorf("score dataset missing %q or %q column", colCreditID, colScore)
	}

	var (
		out     []scoreRecord
		skipped int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}
		if idIdx >= len(rec) || scoreIdx >= len(rec) {
			skipped++
			continue
		}
		id := strings.TrimSpace(rec[idIdx])
		score, convErr := strconv.Atoi(strings.TrimSpace(rec[scoreIdx]))
		if id == "" || convErr != nil || score < 300 || score > 900 {
			skipped++
			continue
		}
		out = append(out, scoreRecord{creditID: id, score: score})
	}

	if len(out) == 0 {
		return nil, 0, fmt.Errorf("score dataset has no usable rows (%d skipped)", skipped)
	}
	return out, skipped, nil
}

func (s *ScoreSeeder) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
