package search

import (
	"errors"
	"net/url"

	"github.com/bstancham/capita-library-search/config"
)

// ErrInvalidQuery is returned when neither a title nor an author is supplied.
var ErrInvalidQuery = errors.New("must supply title and/or author")

// BuildQueryURLs constructs the borough namespace URL and the search URL for
// a query. The clause wrappers are the catalogue platform's pre-encoded
// query grammar; only the user-supplied terms are escaped.
//
// Known quirk: an author with no title contributes no clause at all, leaving
// the query empty, so author-only search returns the catalogue's unfiltered
// listing.
func BuildQueryURLs(cfg *config.Config, title, author, borough string) (boroughURL, searchURL string, err error) {
	if title == "" && author == "" {
		return "", "", ErrInvalidQuery
	}

	if borough == "" {
		borough = cfg.DefaultBorough
	}
	boroughURL = cfg.CatalogueRoot + borough + "/"

	searchURL = boroughURL + "items?query="
	if title != "" {
		searchURL += "+title%3A%28" + url.QueryEscape(title) + "%29"
	}
	if author != "" && title != "" {
		searchURL += "+AND"
		searchURL += "+author%3A%28" + url.QueryEscape(author) + "%29"
		searchURL += "#availability"
	}

	return boroughURL, searchURL, nil
}

// ItemURL constructs the detail-page URL for an extracted catalogue id.
func ItemURL(boroughURL, itemID string) string {
	return boroughURL + "items/" + itemID
}
