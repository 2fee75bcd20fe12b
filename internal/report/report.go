// Package report writes the machine-readable result of a run.
//
// The JSON layout keeps the distinction between absent and zero values: fields
// the explorer did not return are omitted rather than written as defaults.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dmagro/solmeta/internal/explorer"
)

// Entry is one token in the report. Exactly one of Metadata and Error is set.
type Entry struct {
	Token    string             `json:"token"`
	Metadata *explorer.Metadata `json:"metadata,omitempty"`
	Error    *string            `json:"error,omitempty"`
}

// Report is the JSON document written by --output.
type Report struct {
	RunID        string    `json:"run_id"`
	Timestamp    time.Time `json:"timestamp"`
	APIURL       string    `json:"api_url"`
	Threads      int       `json:"threads"`
	SuccessCount int       `json:"success_count"`
	TotalCount   int       `json:"total_count"`
	Results      []Entry   `json:"results"`
}

// New stamps a report with a fresh run id and the current time.
func New(apiURL string, threads int) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		APIURL:    apiURL,
		Threads:   threads,
		Results:   []Entry{},
	}
}

// Add records the outcome for one token.
func (r *Report) Add(token string, md *explorer.Metadata, err error) {
	e := Entry{Token: token}
	if err != nil {
		msg := err.Error()
		e.Error = &msg
	} else {
		e.Metadata = md
		r.SuccessCount++
	}
	r.Results = append(r.Results, e)
	r.TotalCount++
}

// WriteJSON writes data as indented JSON to path, creating parent directories.
// An existing file is overwritten.
func WriteJSON(data interface{}, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return file.Close()
}
