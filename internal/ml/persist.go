package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	manifestFile = "manifest.json"
	vocabFile    = "label_encoders.json"
)

func stageFile(stage string) string {
	return stage + "_model.json"
}

// SaveBundle persists a bundle as one JSON artifact per model. Everything
// is written to a scratch directory first and renamed into place, so a
// crash mid-save never leaves a half-written bundle where LoadBundle looks.
func SaveBundle(dir string, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}

	tmp := dir + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return err
	}
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return err
	}

	artifacts := map[string]any{
		manifestFile:                b.Meta,
		vocabFile:                   b.Vocabs,
		stageFile(StageEligibility): b.Eligibility,
		stageFile(StageProduct):     b.Product,
		stageFile(StageAmount):      b.Amount,
		stageFile(StageTenure):      b.Tenure,
		stageFile(StageRate):        b.Rate,
	}
	for name, v := range artifacts {
		if err := writeJSON(filepath.Join(tmp, name), v); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	old := dir + ".old"
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	if _, err := os.Stat(dir); err == nil {
		if err := os.Rename(dir, old); err != nil {
			return err
		}
	}
	if err := os.Rename(tmp, dir); err != nil {
		return err
	}
	_ = os.RemoveAll(old)
	return nil
}

// LoadBundle reads a bundle saved by SaveBundle. A missing directory is
// reported as-is so callers can distinguish first boot from corruption.
func LoadBundle(dir string) (*Bundle, error) {
	b := &Bundle{
		Vocabs:      &Vocabularies{},
		Eligibility: &ClassifierStage{},
		Product:     &ClassifierStage{},
		Amount:      &RegressorStage{},
		Tenure:      &RegressorStage{},
		Rate:        &RegressorStage{},
	}

	artifacts := map[string]any{
		manifestFile:                &b.Meta,
		vocabFile:                   b.Vocabs,
		stageFile(StageEligibility): b.Eligibility,
		stageFile(StageProduct):     b.Product,
		stageFile(StageAmount):      b.Amount,
		stageFile(StageTenure):      b.Tenure,
		stageFile(StageRate):        b.Rate,
	}
	for name, out := range artifacts {
		if err := readJSON(filepath.Join(dir, name), out); err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func writeJSON(path string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
