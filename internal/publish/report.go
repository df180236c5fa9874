package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunReport summarizes one batch run, one entry per discovered draft.
type RunReport struct {
	GeneratedAt string            `json:"generated_at"`
	Total       int               `json:"total"`
	Published   int               `json:"published"`
	Failed      int               `json:"failed"`
	Results     []DocumentSummary `json:"results"`
}

// DocumentSummary is the per-draft outcome in the run report.
type DocumentSummary struct {
	File         string `json:"file"`
	Status       string `json:"status"` // published | failed
	PostID       int    `json:"post_id,omitempty"`
	Created      bool   `json:"created,omitempty"`
	Archived     bool   `json:"archived,omitempty"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// WriteReport saves the batch summary as a dated JSON file and returns
// its path.
func WriteReport(dir string, results []Result) (string, error) {
	report := RunReport{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Total:       len(results),
	}

	for _, r := range results {
		summary := DocumentSummary{File: r.FileName}
		if r.Failed() {
			report.Failed++
			summary.Status = "failed"
			summary.ErrorType = r.ErrorType
			summary.ErrorMessage = r.Error.Error()
		} else {
			report.Published++
			summary.Status = "published"
			summary.PostID = r.PostID
			summary.Created = r.Created
			summary.Archived = r.Archived
		}
		report.Results = append(report.Results, summary)
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.json", time.Now().Format("2006-01-02T15-04-05")))
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshalling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("error saving report: %w", err)
	}
	return path, nil
}
