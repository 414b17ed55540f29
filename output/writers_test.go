package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bstancham/capita-library-search/models"
)

func sampleSet() *models.SearchResultSet {
	item := models.NewSearchResultItem()
	item.ItemID = "111111"
	item.Title = "First Book"
	item.Publisher = "Penguin Books, 2001"
	item.Link = "https://capitadiscovery.co.uk/islington/items/111111"
	item.Summary = "A summary."
	item.Available = "Available at 1 branch"

	branch := &models.BranchResultItem{Name: "Central Library"}
	branch.AddItem(&models.CatalogueItem{
		Status:    "Available",
		Barcode:   "0123456789",
		Shelfmark: "823.8 GRO",
		ItemType:  "3 week loan",
	})
	branch.AddItem(&models.CatalogueItem{
		Status:    "On loan",
		Barcode:   "0987654321",
		Shelfmark: "823.8 GRO",
		ItemType:  "3 week loan",
	})
	item.AddBranchResult(branch)

	bare := models.NewSearchResultItem()
	bare.Title = "Second Book"

	return &models.SearchResultSet{
		Title:      "first book",
		Author:     "somebody",
		Borough:    "islington",
		BoroughURL: "https://capitadiscovery.co.uk/islington/",
		SearchURL:  "https://capitadiscovery.co.uk/islington/items?query=+title%3A%28first+book%29",
		Items:      []*models.SearchResultItem{item, bare},
	}
}

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := NewConsoleWriter(&buf)

	if err := cw.Write([]*models.SearchResultSet{sampleSet()}); err != nil {
		t.Fatalf("write: %v", err)
	}

	rendered := buf.String()
	for _, want := range []string{
		"ITEM 1:",
		"TITLE:     First Book",
		"AVAILABLE: Available at 1 branch",
		"Central Library (AVAILABLE)",
		"ITEM 2:",
		"2 ITEMS FOUND",
		"USING SEARCH URL: https://capitadiscovery.co.uk/islington/items?query=",
		"borough = islington",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("console output missing %q in:\n%s", want, rendered)
		}
	}
}

func TestConsoleWriterErrorMessage(t *testing.T) {
	var buf bytes.Buffer
	cw := NewConsoleWriter(&buf)

	set := &models.SearchResultSet{
		SearchURL:    "https://capitadiscovery.co.uk/islington/items?query=x",
		ErrorMessage: "could not get web page",
	}
	if err := cw.Write([]*models.SearchResultSet{set}); err != nil {
		t.Fatalf("write: %v", err)
	}

	if !strings.Contains(buf.String(), "ERROR: could not get web page") {
		t.Fatalf("console output missing error message:\n%s", buf.String())
	}
}

func TestJSONWriter(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "results.json")
	jw, err := NewJSONWriter(filename)
	if err != nil {
		t.Fatalf("new json writer: %v", err)
	}

	if err := jw.Write([]*models.SearchResultSet{sampleSet()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := jw.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := jw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var decoded models.SearchResultSet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.SearchURL != sampleSet().SearchURL {
		t.Errorf("search url = %q", decoded.SearchURL)
	}
	if len(decoded.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(decoded.Items))
	}
	if decoded.Items[0].Branches[0].Name != "Central Library" {
		t.Errorf("branch name = %q", decoded.Items[0].Branches[0].Name)
	}
}

func TestCSVWriterFlattensCopies(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "results.csv")
	cw, err := NewCSVWriter(filename)
	if err != nil {
		t.Fatalf("new csv writer: %v", err)
	}

	if err := cw.Write([]*models.SearchResultSet{sampleSet()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := cw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(filename)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	// Header + two copies of the first item + one row for the bare item.
	if len(records) != 4 {
		t.Fatalf("got %d rows, want 4", len(records))
	}
	if records[0][0] != "search_title" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][8] != "Central Library" || records[1][9] != "Available" {
		t.Errorf("first copy row = %v", records[1])
	}
	if records[2][9] != "On loan" {
		t.Errorf("second copy row = %v", records[2])
	}
	if records[3][4] != "Second Book" || records[3][8] != "" {
		t.Errorf("bare item row = %v", records[3])
	}
}

func TestDualWriter(t *testing.T) {
	dir := t.TempDir()
	csvFile := filepath.Join(dir, "results.csv")
	jsonFile := filepath.Join(dir, "results.json")

	dw, err := NewDualWriter(csvFile, jsonFile)
	if err != nil {
		t.Fatalf("new dual writer: %v", err)
	}

	if err := dw.Write([]*models.SearchResultSet{sampleSet()}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := dw.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := dw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, filename := range []string{csvFile, jsonFile} {
		info, err := os.Stat(filename)
		if err != nil {
			t.Fatalf("stat %s: %v", filename, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", filename)
		}
	}
}
