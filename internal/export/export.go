// Package export processes result data and writes it to JSON files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tally/internal/calc"
)

// Item is one free-form data point carried through a run.
type Item struct {
	ID        int     `json:"id"`
	Value     float64 `json:"value"`
	Processed bool    `json:"processed,omitempty"`
}

// Results is the envelope written to the results file.
type Results struct {
	GeneratedAt time.Time `json:"generated_at"`
	Count       int       `json:"count"`
	Items       []Item    `json:"items"`
}

// HistoryExport is the envelope for an exported operation history.
type HistoryExport struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Count       int              `json:"count"`
	Operations  []calc.Operation `json:"operations"`
}

// Process keeps items with a positive value and marks them processed.
// The input slice is not modified.
func Process(items []Item) []Item {
	var processed []Item
	for _, item := range items {
		if item.Value > 0 {
			item.Processed = true
			processed = append(processed, item)
		}
	}
	return processed
}

// WriteResults saves processed items to a JSON file.
func WriteResults(path string, items []Item, pretty bool) error {
	results := Results{
		GeneratedAt: time.Now().UTC(),
		Count:       len(items),
		Items:       items,
	}
	return writeJSON(path, results, pretty)
}

// WriteHistory saves an operation history to a JSON file.
func WriteHistory(path string, ops []calc.Operation, pretty bool) error {
	out := HistoryExport{
		GeneratedAt: time.Now().UTC(),
		Count:       len(ops),
		Operations:  ops,
	}
	return writeJSON(path, out, pretty)
}

func writeJSON(path string, v interface{}, pretty bool) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// ReadResults loads a previously written results file.
func ReadResults(path string) (*Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	var results Results
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	return &results, nil
}
