package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

var (
	errWorkloadRead    = errors.New("cannot read workload file")
	errWorkloadInvalid = errors.New("invalid workload")
)

const (
	distUniform = "uniform"
	distZipf    = "zipf"
)

// Workload describes a synthetic access pattern.
type Workload struct {
	Keys         int     `json:"keys"`
	Ops          int     `json:"ops"`
	ReadRatio    float64 `json:"read_ratio"`
	Distribution string  `json:"distribution"`
	ZipfS        float64 `json:"zipf_s"`
	Seed         uint64  `json:"seed"`
}

func defaultWorkload() Workload {
	return Workload{
		Keys:         32,
		Ops:          100_000,
		ReadRatio:    0.8,
		Distribution: distZipf,
		ZipfS:        1.1,
		Seed:         1,
	}
}

func (w Workload) validate() error {
	switch {
	case w.Keys < 1:
		return fmt.Errorf("%w: keys must be positive, got %d", errWorkloadInvalid, w.Keys)
	case w.Ops < 0:
		return fmt.Errorf("%w: ops must not be negative, got %d", errWorkloadInvalid, w.Ops)
	case w.ReadRatio < 0 || w.ReadRatio > 1:
		return fmt.Errorf("%w: read_ratio must be in [0, 1], got %g", errWorkloadInvalid, w.ReadRatio)
	case w.Distribution != distUniform && w.Distribution != distZipf:
		return fmt.Errorf("%w: unknown distribution %q", errWorkloadInvalid, w.Distribution)
	case w.Distribution == distZipf && w.ZipfS <= 1:
		return fmt.Errorf("%w: zipf_s must be > 1, got %g", errWorkloadInvalid, w.ZipfS)
	}

	return nil
}

// loadWorkload reads a JSONC workload file. Fields missing from the file keep
// their value from base.
func loadWorkload(path string, base Workload) (Workload, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Workload{}, fmt.Errorf("%w: %s: %w", errWorkloadRead, path, err)
	}

	w, err := parseWorkload(data, base)
	if err != nil {
		return Workload{}, fmt.Errorf("%w %s: %w", errWorkloadInvalid, path, err)
	}

	return w, nil
}

func parseWorkload(data []byte, base Workload) (Workload, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Workload{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	w := base

	err = json.Unmarshal(standardized, &w)
	if err != nil {
		return Workload{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return w, nil
}
