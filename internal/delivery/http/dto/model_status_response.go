package dto

import (
	"time"

	"github.com/atharvapawar9/fintrust-ml-recommendationsystem/internal/usecase"
)

type ModelStatusResponseData struct {
	Loaded           bool           `json:"loaded"`
	Generation       int64          `json:"generation"`
	TrainedAt        *time.Time     `json:"trained_at,omitempty"`
	Stages           []string       `json:"stages"`
	VocabularyFields []string       `json:"vocabulary_fields"`
	SamplesPerStage  map[string]int `json:"samples_per_stage,omitempty"`
}

func NewModelStatusResponseData(s usecase.ModelStatus) ModelStatusResponseData {
	out := ModelStatusResponseData{
		Loaded:           s.Loaded,
		Generation:       s.Generation,
		Stages:           s.Stages,
		VocabularyFields: s.VocabularyFields,
		SamplesPerStage:  s.Samples,
	}
	if out.Stages == nil {
		out.Stages = []string{}
	}
	if out.VocabularyFields == nil {
		out.VocabularyFields = []string{}
	}
	if !s.TrainedAt.IsZero() {
		t := s.TrainedAt
		out.TrainedAt = &t
	}
	return out
}

type RetrainResponseData struct {
	Generation      int64          `json:"generation"`
	TrainedAt       time.Time      `json:"trained_at"`
	SamplesPerStage map[string]int `json:"samples_per_stage"`
	RowsSkipped     int            `json:"rows_skipped"`
	DurationMs      int64          `json:"duration_ms"`
}

func NewRetrainResponseData(s usecase.RetrainSummary) RetrainResponseData {
	return RetrainResponseData{
		Generation:      s.Generation,
		TrainedAt:       s.TrainedAt,
		SamplesPerStage: s.Samples,
		RowsSkipped:     s.RowsSkipped,
		DurationMs:      s.Duration.Milliseconds(),
	}
}
