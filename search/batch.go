package search

import (
	"io"
	"log/slog"

	"github.com/bstancham/capita-library-search/models"
	"github.com/bstancham/capita-library-search/parser"
)

// SearchFunc runs one search for a (title, author, borough) triple.
type SearchFunc func(title, author, borough string) *models.SearchResultSet

// RunBatch executes the searches described by a batch command file. Borough
// and author directives accumulate across lines; each title directive
// triggers one search with the state accumulated so far.
func RunBatch(r io.Reader, search SearchFunc) ([]*models.SearchResultSet, error) {
	directives, err := parser.ParseBatch(r)
	if err != nil {
		return nil, err
	}

	var sets []*models.SearchResultSet
	var borough, author string

	for _, d := range directives {
		switch d.Kind {
		case parser.DirectiveBorough:
			borough = d.Content
			slog.Info("borough set", slog.String("borough", borough))
		case parser.DirectiveAuthor:
			author = d.Content
			slog.Info("author set", slog.String("author", author))
		case parser.DirectiveTitle:
			slog.Info("title set", slog.String("title", d.Content))
			sets = append(sets, search(d.Content, author, borough))
		}
	}

	return sets, nil
}

// RunBatch runs the batch file against this searcher.
func (s *Searcher) RunBatch(r io.Reader) ([]*models.SearchResultSet, error) {
	return RunBatch(r, s.Search)
}
