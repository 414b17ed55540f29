package output

import (
	"fmt"
	"sync"

	"github.com/bstancham/capita-library-search/models"
)

// DualWriter outputs to both CSV and JSON formats simultaneously.
type DualWriter struct {
	csvWriter  *CSVWriter
	jsonWriter *JSONWriter
	mu         sync.Mutex
}

// NewDualWriter creates a dual writer for both CSV and JSON output.
func NewDualWriter(csvFilename, jsonFilename string) (*DualWriter, error) {
	csvWriter, err := NewCSVWriter(csvFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV writer: %w", err)
	}

	jsonWriter, err := NewJSONWriter(jsonFilename)
	if err != nil {
		csvWriter.Close()
		return nil, fmt.Errorf("failed to create JSON writer: %w", err)
	}

	return &DualWriter{
		csvWriter:  csvWriter,
		jsonWriter: jsonWriter,
	}, nil
}

// Write writes result sets to both formats.
func (dw *DualWriter) Write(sets []*models.SearchResultSet) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if err := dw.csvWriter.Write(sets); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}
	if err := dw.jsonWriter.Write(sets); err != nil {
		return fmt.Errorf("JSON write failed: %w", err)
	}
	return nil
}

// Close closes both writers.
func (dw *DualWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	var errs []error
	if err := dw.csvWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("CSV close failed: %w", err))
	}
	if err := dw.jsonWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("JSON close failed: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors: %v", errs)
	}
	return nil
}

// Validate validates both output files.
func (dw *DualWriter) Validate() error {
	var errs []error
	if err := dw.csvWriter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("CSV validation failed: %w", err))
	}
	if err := dw.jsonWriter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("JSON validation failed: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}
	return nil
}
