package dto

import "github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/repository"

type ScoreBandData struct {
	Label string `json:"label"`
	Low   int    `json:"low"`
	High  int    `json:"high"`
	Count int    `json:"count"`
}

type ScoreStatsResponseData struct {
	TotalRecords int             `json:"total_records"`
	MinScore     int             `json:"min_score"`
	MaxScore     int             `json:"max_score"`
	AvgScore     float64         `json:"avg_score"`
	Bands        []ScoreBandData `json:"bands"`
}

func NewScoreStatsResponseData(s repository.ScoreStats) ScoreStatsResponseData {
	bands := make([]ScoreBandData, 0, len(s.Bands))
	for _, b := range s.Bands {
		bands = append(bands, ScoreBandData{Label: b.Label, Low: b.Low, High: b.High, Count: b.Count})
	}
	return ScoreStatsResponseData{
		TotalRecords: s.TotalRecords,
		MinScore:     s.MinScore,
		MaxScore:     s.MaxScore,
		AvgScore:     s.AvgScore,
		Bands:        bands,
	}
}

// ScoreProbeResponseData answers an existence check without running the
// prediction pipeline.
type ScoreProbeResponseData struct {
	CibilID string `json:"cibil_id"`
	Valid   bool   `json:"valid"`
	Score   int    `json:"score,omitempty"`
}
