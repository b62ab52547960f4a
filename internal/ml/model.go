package ml

import (
	"fmt"
	"time"
)

// Stage names, in pipeline order. Logged on failure; never surfaced to
// callers.
const (
	StageEligibility = "eligibility"
	StageProduct     = "product"
	StageAmount      = "amount"
	StageTenure      = "tenure"
	StageRate        = "rate"
)

// StageModel is the single capability every stage predictor exposes: one
// feature vector in, one scalar out. Implementations are pure functions of
// their input and safe for concurrent use.
type StageModel interface {
	Stage() string
	Predict(features []float64) (float64, error)
}

// StageError wraps a failing stage so the orchestrator can abort and log
// the stage name without leaking internals to the caller.
type StageError struct {
	StageName string
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.StageName, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ClassifierStage adapts a classification forest to the StageModel
// contract; Predict returns the winning class code.
type ClassifierStage struct {
	Name   string  `json:"name"`
	Forest *Forest `json:"forest"`
}

func (s *ClassifierStage) Stage() string {
	return s.Name
}

func (s *ClassifierStage) Predict(features []float64) (float64, error) {
	v, err := s.Forest.Predict(features)
	if err != nil {
		return 0, &StageError{StageName: s.Name, Err: err}
	}
	return v, nil
}

// Proba returns the ensemble probability of the given class label.
func (s *ClassifierStage) Proba(features []float64, label string) (float64, error) {
	dist, err := s.Forest.PredictProba(features)
	if err != nil {
		return 0, &StageError{StageName: s.Name, Err: err}
	}
	for i, c := range s.Forest.Classes {
		if c == label {
			return dist[i], nil
		}
	}
	return 0, nil
}

// Label decodes a class code produced by Predict.
func (s *ClassifierStage) Label(code float64) (string, error) {
	return s.Forest.ClassLabel(code)
}

// RegressorStage adapts a regression forest to the StageModel contract.
type RegressorStage struct {
	Name   string  `json:"name"`
	Forest *Forest `json:"forest"`
}

func (s *RegressorStage) Stage() string {
	return s.Name
}

func (s *RegressorStage) Predict(features []float64) (float64, error) {
	v, err := s.Forest.Predict(features)
	if err != nil {
		return 0, &StageError{StageName: s.Name, Err: err}
	}
	return v, nil
}

// Eligibility class labels: the training data encodes the decision as 0/1.
const (
	LabelIneligible = "0"
	LabelEligible   = "1"
)

// Meta describes one trained bundle. Generation increases on every swap
// and keys the recommendation cache.
type Meta struct {
	Generation int64          `json:"generation"`
	TrainedAt  time.Time      `json:"trained_at"`
	Samples    map[string]int `json:"samples_per_stage"`
}

// Bundle is one complete, immutable model set: the five stage models plus
// the vocabularies they were trained against. Requests take a Bundle
// snapshot from the Registry and never observe a partial swap.
type Bundle struct {
	Meta   Meta
	Vocabs *Vocabularies

	Eligibility *ClassifierStage
	Product     *ClassifierStage
	Amount      *RegressorStage
	Tenure      *RegressorStage
	Rate        *RegressorStage
}

// Validate checks the bundle is complete enough to serve.
func (b *Bundle) Validate() error {
	if b.Vocabs == nil {
		return fmt.Errorf("bundle has no vocabularies")
	}
	if err := b.Vocabs.Validate(); err != nil {
		return err
	}
	stages := []struct {
		name string
		ok   bool
	}{
		{StageEligibility, b.Eligibility != nil && b.Eligibility.Forest != nil},
		{StageProduct, b.Product != nil && b.Product.Forest != nil},
		{StageAmount, b.Amount != nil && b.Amount.Forest != nil},
		{StageTenure, b.Tenure != nil && b.Tenure.Forest != nil},
		{StageRate, b.Rate != nil && b.Rate.Forest != nil},
	}
	for _, s := range stages {
		if !s.ok {
			return fmt.Errorf("bundle missing %s model", s.name)
		}
	}
	return nil
}

// StageNames lists the loaded stages in pipeline order.
func (b *Bundle) StageNames() []string {
	return []string{StageEligibility, StageProduct, StageAmount, StageTenure, StageRate}
}
