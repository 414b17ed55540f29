// Package search queries a CapitaDiscovery library catalogue and assembles
// structured availability records from the returned HTML.
package search

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/bstancham/capita-library-search/config"
	"github.com/bstancham/capita-library-search/models"
)

// Searcher drives catalogue searches: it validates the query, fetches the
// listing page, and extracts result items along with their per-branch
// availability. For N resolvable result items a search performs 1+N
// sequential fetches.
type Searcher struct {
	cfg     *config.Config
	fetcher *Fetcher
	Metrics *Metrics
}

// NewSearcher builds a searcher from cfg.
func NewSearcher(cfg *config.Config) (*Searcher, error) {
	metrics := NewMetrics()
	fetcher, err := NewFetcher(cfg, metrics)
	if err != nil {
		return nil, err
	}
	return &Searcher{
		cfg:     cfg,
		fetcher: fetcher,
		Metrics: metrics,
	}, nil
}

// WithTransport replaces the fetcher's HTTP transport. Used by tests.
func (s *Searcher) WithTransport(rt http.RoundTripper) {
	s.fetcher.WithTransport(rt)
}

// Search runs one catalogue search. Failures never panic or abort: an
// invalid query or an unreachable listing page comes back as a result set
// with an error message, and a failed detail fetch leaves only that item
// without availability data.
func (s *Searcher) Search(title, author, borough string) *models.SearchResultSet {
	set := &models.SearchResultSet{
		Title:   title,
		Author:  author,
		Borough: borough,
	}

	boroughURL, searchURL, err := BuildQueryURLs(s.cfg, title, author, borough)
	if err != nil {
		slog.Error("invalid query",
			slog.String("title", title),
			slog.String("author", author),
			slog.Any("error", err),
		)
		set.ErrorMessage = err.Error()
		return set
	}
	set.BoroughURL = boroughURL
	set.SearchURL = searchURL

	body, err := s.fetcher.Fetch(searchURL, "listing")
	if err != nil {
		slog.Error("listing fetch failed",
			slog.String("url", searchURL),
			slog.Any("error", err),
		)
		set.ErrorMessage = "could not get web page"
		return set
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		slog.Error("listing parse failed",
			slog.String("url", searchURL),
			slog.Any("error", err),
		)
		set.ErrorMessage = "could not get web page"
		return set
	}

	extractor := &Extractor{
		BoroughURL: boroughURL,
		FetchDetail: func(pageURL string) ([]byte, error) {
			return s.fetcher.Fetch(pageURL, "detail")
		},
	}
	set.Items, set.Warnings = extractor.SearchResults(doc)
	s.Metrics.IncItems(len(set.Items))

	slog.Info("search complete",
		slog.String("url", searchURL),
		slog.Int("items", len(set.Items)),
		slog.Int("warnings", len(set.Warnings)),
	)
	return set
}
