// Filename: translate/report.go
package translate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/molt-dev/molt/internal/frontend/python"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Function outcome statuses.
const (
	StatusTranslated = "translated"
	StatusSkipped    = "skipped"
)

// FunctionOutcome records what happened to one function.
type FunctionOutcome struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Report is the machine-readable account of one translation run.
type Report struct {
	RunID       string              `json:"run_id"`
	File        string              `json:"file"`
	GeneratedAt time.Time           `json:"generated_at"`
	DurationMS  int64               `json:"duration_ms"`
	Translated  int                 `json:"translated"`
	Skipped     int                 `json:"skipped"`
	Functions   []FunctionOutcome   `json:"functions"`
	Diagnostics []python.Diagnostic `json:"diagnostics,omitempty"`
}

func newReport(file string, outcomes []FunctionOutcome, diags []python.Diagnostic, elapsed time.Duration) *Report {
	r := &Report{
		RunID:       uuid.NewString(),
		File:        file,
		GeneratedAt: time.Now().UTC(),
		DurationMS:  elapsed.Milliseconds(),
		Functions:   outcomes,
		Diagnostics: diags,
	}
	for _, o := range outcomes {
		switch o.Status {
		case StatusTranslated:
			r.Translated++
		case StatusSkipped:
			r.Skipped++
		}
	}
	return r
}

// Encode renders the report as indented JSON.
func (r *Report) Encode() ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report %s: %w", r.RunID, err)
	}
	return out, nil
}

// EncodeReports renders a batch of per-file reports as one JSON document.
func EncodeReports(reports []*Report) ([]byte, error) {
	out, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding reports: %w", err)
	}
	return out, nil
}
