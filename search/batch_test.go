package search

import (
	"strings"
	"testing"

	"github.com/bstancham/capita-library-search/models"
)

type searchCall struct {
	title   string
	author  string
	borough string
}

func TestRunBatchAccumulatesState(t *testing.T) {
	input := strings.Join([]string{
		"-b camden",
		"-a austen",
		"-t pride and prejudice",
	}, "\n")

	var calls []searchCall
	sets, err := RunBatch(strings.NewReader(input), func(title, author, borough string) *models.SearchResultSet {
		calls = append(calls, searchCall{title: title, author: author, borough: borough})
		return &models.SearchResultSet{Title: title, Author: author, Borough: borough}
	})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	if len(calls) != 1 {
		t.Fatalf("got %d searches, want 1", len(calls))
	}
	want := searchCall{title: "pride and prejudice", author: "austen", borough: "camden"}
	if calls[0] != want {
		t.Fatalf("search call = %+v, want %+v", calls[0], want)
	}
	if len(sets) != 1 {
		t.Fatalf("got %d result sets, want 1", len(sets))
	}
}

func TestRunBatchStateCarriesAcrossSearches(t *testing.T) {
	input := strings.Join([]string{
		"-b camden",
		"-a austen",
		"-t pride and prejudice",
		"-t persuasion",
		"-b islington",
		"-a grossmith",
		"-t diary of a nobody",
	}, "\n")

	var calls []searchCall
	sets, err := RunBatch(strings.NewReader(input), func(title, author, borough string) *models.SearchResultSet {
		calls = append(calls, searchCall{title: title, author: author, borough: borough})
		return &models.SearchResultSet{}
	})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	want := []searchCall{
		{title: "pride and prejudice", author: "austen", borough: "camden"},
		{title: "persuasion", author: "austen", borough: "camden"},
		{title: "diary of a nobody", author: "grossmith", borough: "islington"},
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d searches, want %d", len(calls), len(want))
	}
	for i, call := range calls {
		if call != want[i] {
			t.Errorf("search %d = %+v, want %+v", i, call, want[i])
		}
	}
	if len(sets) != 3 {
		t.Fatalf("got %d result sets, want 3", len(sets))
	}
}

func TestRunBatchNoTitlesRunsNoSearches(t *testing.T) {
	sets, err := RunBatch(strings.NewReader("-b camden\n-a austen\n"), func(string, string, string) *models.SearchResultSet {
		t.Fatalf("no search should run without a title directive")
		return nil
	})
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(sets) != 0 {
		t.Fatalf("expected no result sets, got %d", len(sets))
	}
}
