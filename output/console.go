package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/bstancham/capita-library-search/models"
	"github.com/bstancham/capita-library-search/parser"
	"github.com/jedib0t/go-pretty/v6/table"
)

// ConsoleWriter pretty-prints result sets to a terminal-style stream.
type ConsoleWriter struct {
	out io.Writer
	mu  sync.Mutex
}

// NewConsoleWriter builds a console writer targeting out.
func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{out: out}
}

// Write renders each result set as an item-by-item summary with a holdings
// table per item.
func (cw *ConsoleWriter) Write(sets []*models.SearchResultSet) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, set := range sets {
		cw.writeSet(set)
	}
	return nil
}

func (cw *ConsoleWriter) writeSet(set *models.SearchResultSet) {
	for i, item := range set.Items {
		fmt.Fprintf(cw.out, "ITEM %d:\n", i+1)
		fmt.Fprintf(cw.out, "ID:        %s\n", item.ItemID)
		fmt.Fprintf(cw.out, "TITLE:     %s\n", item.Title)
		fmt.Fprintf(cw.out, "PUBLISHER: %s\n", item.Publisher)
		fmt.Fprintf(cw.out, "LINK:      %s\n", item.Link)
		fmt.Fprintf(cw.out, "SUMMARY:   %s\n", item.Summary)
		fmt.Fprintf(cw.out, "AVAILABLE: %s\n", parser.NormalizeText(item.Available))
		if len(item.Branches) > 0 {
			cw.writeBranches(item.Branches)
		}
		fmt.Fprintln(cw.out)
	}

	fmt.Fprintf(cw.out, "%d ITEMS FOUND\n", len(set.Items))
	fmt.Fprintf(cw.out, "\nUSING SEARCH URL: %s\n\n", set.SearchURL)
	fmt.Fprintf(cw.out, "title = %s\n", set.Title)
	fmt.Fprintf(cw.out, "author = %s\n", set.Author)
	fmt.Fprintf(cw.out, "borough = %s\n\n", set.Borough)

	for _, warning := range set.Warnings {
		fmt.Fprintf(cw.out, "WARNING: %s\n", warning)
	}
	if set.ErrorMessage != "" {
		fmt.Fprintf(cw.out, "ERROR: %s\n\n", set.ErrorMessage)
	}
}

func (cw *ConsoleWriter) writeBranches(branches []*models.BranchResultItem) {
	t := table.NewWriter()
	t.SetOutputMirror(cw.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Branch", "Status", "Barcode", "Shelfmark", "Type"})

	for _, branch := range branches {
		name := branch.Name
		if branch.IsAvailable() {
			name += " (AVAILABLE)"
		}
		if len(branch.Items) == 0 {
			t.AppendRow(table.Row{name, "", "", "", ""})
			continue
		}
		for _, item := range branch.Items {
			t.AppendRow(table.Row{name, item.Status, item.Barcode, item.Shelfmark, item.ItemType})
			name = ""
		}
	}

	t.Render()
}

// Close is a no-op for the console writer.
func (cw *ConsoleWriter) Close() error {
	return nil
}

// Validate is a no-op for the console writer.
func (cw *ConsoleWriter) Validate() error {
	return nil
}
