// Package output renders search result sets to files and the console.
package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bstancham/capita-library-search/models"
)

// Writer defines the interface for result output.
type Writer interface {
	Write(sets []*models.SearchResultSet) error
	Close() error
	Validate() error
}

// CSVWriter writes result sets as flattened rows, one row per physical copy.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

var csvHeader = []string{
	"search_title", "search_author", "borough", "item_id", "title",
	"publisher", "link", "available", "branch", "status", "barcode",
	"shelfmark", "item_type",
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends the result sets to the CSV output.
func (cw *CSVWriter) Write(sets []*models.SearchResultSet) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, set := range sets {
		for _, record := range flattenSet(set) {
			if err := cw.writer.Write(record); err != nil {
				return fmt.Errorf("write csv record: %w", err)
			}
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// flattenSet turns the nested item/branch/copy structure into CSV rows.
// Items without branch data still get one row so the listing-page fields
// are not lost.
func flattenSet(set *models.SearchResultSet) [][]string {
	var records [][]string

	prefix := func(item *models.SearchResultItem) []string {
		return []string{
			set.Title, set.Author, set.Borough,
			item.ItemID, item.Title, item.Publisher, item.Link,
			strings.TrimSpace(item.Available),
		}
	}

	for _, item := range set.Items {
		if len(item.Branches) == 0 {
			records = append(records, append(prefix(item), "", "", "", "", ""))
			continue
		}
		for _, branch := range item.Branches {
			if len(branch.Items) == 0 {
				records = append(records, append(prefix(item), branch.Name, "", "", "", ""))
				continue
			}
			for _, held := range branch.Items {
				records = append(records, append(prefix(item),
					branch.Name, held.Status, held.Barcode, held.Shelfmark, held.ItemType))
			}
		}
	}

	return records
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content besides the header.
func (cw *CSVWriter) Validate() error {
	info, err := cw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// JSONWriter writes newline-delimited JSON, one result set per line.
type JSONWriter struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	return &JSONWriter{
		file:    f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}, nil
}

// Write appends result sets in JSONL format.
func (jw *JSONWriter) Write(sets []*models.SearchResultSet) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	for _, set := range sets {
		if err := jw.encoder.Encode(set); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
	}

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}

	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSON file has data.
func (jw *JSONWriter) Validate() error {
	info, err := jw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
