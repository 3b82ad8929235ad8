package redline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/inkshed/redline/internal/core/review"
)

// SavedResult is the on-disk form of a finished review, written by the
// review command and consumed by the export command.
type SavedResult struct {
	DocumentTitle string        `json:"document_title"`
	Result        review.Result `json:"result"`
}

// SaveResult writes a finished review to path as JSON.
func SaveResult(path string, r SavedResult) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}
	return nil
}

// LoadResult reads a saved review from path.
func LoadResult(path string) (SavedResult, error) {
	var r SavedResult
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read result file: %w", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse result file: %w", err)
	}
	return r, nil
}
