package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/database"

	"github.com/jackc/pgx/v5"
)

// ErrScoreNotFound distinguishes a missing credit id from a malformed one;
// callers prompt for the identifier, not the whole profile.
var ErrScoreNotFound = errors.New("credit score not found")

// ScoreBand is one slice of the stored score distribution.
type ScoreBand struct {
	Label string
	Low   int
	High  int
	Count int
}

// ScoreStats summarizes the score store for the observability endpoints.
type ScoreStats struct {
	TotalRecords int
	MinScore     int
	MaxScore     int
	AvgScore     float64
	Bands        []ScoreBand
}

type ScoreRepository interface {
	EnsureSchema(ctx context.Context) error
	Lookup(ctx context.Context, creditID string) (int, error)
	Count(ctx context.Context) (int, error)
	Stats(ctx context.Context) (ScoreStats, error)
}

// scoreBands follows the lender's reporting bands.
var scoreBands = []ScoreBand{
	{Label: "poor", Low: 300, High: 549},
	{Label: "fair", Low: 550, High: 649},
	{Label: "good", Low: 650, High: 749},
	{Label: "excellent", Low: 750, High: 900},
}

// SQLScoreRepository serves score lookups from either Postgres or sqlite;
// the database dialect picks the placeholder and DDL flavor, mirroring the
// dual-backend support the score dataset has always had.
type SQLScoreRepository struct {
	db database.DB
}

func NewSQLScoreRepository(db database.DB) *SQLScoreRepository {
	return &SQLScoreRepository{db: db}
}

func (r *SQLScoreRepository) EnsureSchema(ctx context.Context) error {
	var ddl string
	if r.db.Dialect() == database.DialectSQLite {
		ddl = `CREATE TABLE IF NOT EXISTS cibil_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cibil_id TEXT UNIQUE NOT NULL,
			cibil_score INTEGER NOT NULL CHECK (cibil_score >= 300 AND cibil_score <= 900),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`
	} else {
		ddl = `CREATE TABLE IF NOT EXISTS cibil_scores (
			id SERIAL PRIMARY KEY,
			cibil_id VARCHAR(20) UNIQUE NOT NULL,
			cibil_score INT NOT NULL CHECK (cibil_score >= 300 AND cibil_score <= 900),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`
	}
	_, err := r.db.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensure cibil_scores: %w", err)
	}
	return nil
}

func (r *SQLScoreRepository) Lookup(ctx context.Context, creditID string) (int, error) {
	q := `SELECT cibil_score FROM cibil_scores WHERE cibil_id = $1`
	if r.db.Dialect() == database.DialectSQLite {
		q = `SELECT cibil_score FROM cibil_scores WHERE cibil_id = ?`
	}

	var score int
	err := r.db.QueryRow(ctx, q, creditID).Scan(&score)
	if err != nil {
		if isNoRows(err) {
			return 0, ErrScoreNotFound
		}
		return 0, err
	}
	return score, nil
}

func (r *SQLScoreRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cibil_scores`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SQLScoreRepository) Stats(ctx context.Context) (ScoreStats, error) {
	stats := ScoreStats{}

	var minScore, maxScore *int
	var avg *float64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), MIN(cibil_score), MAX(cibil_score), AVG(cibil_score) FROM cibil_scores`,
	).Scan(&stats.TotalRecords, &minScore, &maxScore, &avg)
	if err != nil {
		return ScoreStats{}, err
	}
	if stats.TotalRecords == 0 {
		return stats, nil
	}
	stats.MinScore = *minScore
	stats.MaxScore = *maxScore
	stats.AvgScore = math.Round(*avg*100) / 100

	stats.Bands = make([]ScoreBand, len(scoreBands))
	copy(stats.Bands, scoreBands)
	sums := make([]any, len(stats.Bands))
	selects := ""
	for i, b := range stats.Bands {
		if i > 0 {
			selects += ", "
		}
		selects += fmt.Sprintf(
			"SUM(CASE WHEN cibil_score BETWEEN %d AND %d THEN 1 ELSE 0 END)",
			b.Low, b.High,
		)
		sums[i] = &stats.Bands[i].Count
	}
	err = r.db.QueryRow(ctx, `SELECT `+selects+` FROM cibil_scores`).Scan(sums...)
	if err != nil {
		return ScoreStats{}, err
	}

	return stats, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
