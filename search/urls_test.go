package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/bstancham/capita-library-search/config"
)

func TestBuildQueryURLsTitleAndAuthor(t *testing.T) {
	cfg := config.DefaultConfig()

	boroughURL, searchURL, err := BuildQueryURLs(cfg, "diary of a nobody", "grossmith", "islington")
	if err != nil {
		t.Fatalf("BuildQueryURLs: %v", err)
	}

	if want := "https://capitadiscovery.co.uk/islington/"; boroughURL != want {
		t.Fatalf("boroughURL = %q, want %q", boroughURL, want)
	}
	want := "https://capitadiscovery.co.uk/islington/items?query=" +
		"+title%3A%28diary+of+a+nobody%29" +
		"+AND+author%3A%28grossmith%29#availability"
	if searchURL != want {
		t.Fatalf("searchURL = %q, want %q", searchURL, want)
	}
}

func TestBuildQueryURLsTitleOnly(t *testing.T) {
	cfg := config.DefaultConfig()

	_, searchURL, err := BuildQueryURLs(cfg, "persuasion", "", "camden")
	if err != nil {
		t.Fatalf("BuildQueryURLs: %v", err)
	}
	if want := "https://capitadiscovery.co.uk/camden/items?query=+title%3A%28persuasion%29"; searchURL != want {
		t.Fatalf("searchURL = %q, want %q", searchURL, want)
	}
	if strings.Contains(searchURL, "availability") {
		t.Fatalf("title-only search should not carry the availability anchor: %q", searchURL)
	}
}

// An author with no title contributes no clause at all. Long-standing
// behaviour, deliberately left as is.
func TestBuildQueryURLsAuthorOnlyQuirk(t *testing.T) {
	cfg := config.DefaultConfig()

	_, searchURL, err := BuildQueryURLs(cfg, "", "grossmith", "islington")
	if err != nil {
		t.Fatalf("BuildQueryURLs: %v", err)
	}
	if want := "https://capitadiscovery.co.uk/islington/items?query="; searchURL != want {
		t.Fatalf("searchURL = %q, want %q", searchURL, want)
	}
}

func TestBuildQueryURLsDefaultBorough(t *testing.T) {
	cfg := config.DefaultConfig()

	boroughURL, _, err := BuildQueryURLs(cfg, "persuasion", "", "")
	if err != nil {
		t.Fatalf("BuildQueryURLs: %v", err)
	}
	if want := "https://capitadiscovery.co.uk/islington/"; boroughURL != want {
		t.Fatalf("boroughURL = %q, want %q", boroughURL, want)
	}
}

func TestBuildQueryURLsInvalidQuery(t *testing.T) {
	cfg := config.DefaultConfig()

	_, _, err := BuildQueryURLs(cfg, "", "", "islington")
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestBuildQueryURLsIdempotent(t *testing.T) {
	cfg := config.DefaultConfig()

	_, first, err := BuildQueryURLs(cfg, "diary of a nobody", "grossmith", "islington")
	if err != nil {
		t.Fatalf("BuildQueryURLs: %v", err)
	}
	_, second, err := BuildQueryURLs(cfg, "diary of a nobody", "grossmith", "islington")
	if err != nil {
		t.Fatalf("BuildQueryURLs: %v", err)
	}
	if first != second {
		t.Fatalf("same inputs produced different URLs:\n%q\n%q", first, second)
	}
}

func TestItemURL(t *testing.T) {
	got := ItemURL("https://capitadiscovery.co.uk/islington/", "123456")
	if want := "https://capitadiscovery.co.uk/islington/items/123456"; got != want {
		t.Fatalf("ItemURL = %q, want %q", got, want)
	}
}
