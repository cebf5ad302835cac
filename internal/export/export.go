// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes normalized opinions to tabular files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

// Header is the fixed CSV header row, in column order.
var Header = []string{"case_name", "court", "date_filed", "url", "docket_number", "citation"}

// WriteError is a file-write failure during export. Export is best
// effort, not transactional: a partial file may remain at Path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WriteCSV writes results to a UTF-8 CSV file at path, one row per
// opinion in fetch order, under the fixed header.
func WriteCSV(results []types.Opinion, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	w := csv.NewWriter(f)
	writeErr := w.Write(Header)
	for _, r := range results {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{r.CaseName, r.Court, r.DateFiled, r.URL, r.DocketNumber, r.Citation})
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}

	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return &WriteError{Path: path, Err: writeErr}
	}
	return nil
}

// WriteJSON writes results to an indented JSON file at path.
func WriteJSON(results []types.Opinion, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
