// Package models defines the record types produced by a catalogue search.
package models

import (
	"fmt"
	"strings"
)

// Sentinel values used for fields the extractor could not populate. The
// catalogue markup carries no schema guarantee, so absent fields are the
// norm rather than the exception.
const (
	DefaultSentinel  = "default"
	NotFoundSentinel = "NOT FOUND"
)

// CatalogueItem is one physical copy held by a branch.
type CatalogueItem struct {
	Status    string `csv:"status" json:"status"`
	Barcode   string `csv:"barcode" json:"barcode"`
	Shelfmark string `csv:"shelfmark" json:"shelfmark"`
	ItemType  string `csv:"item_type" json:"item_type"`
}

// IsAvailable reports whether this copy can be borrowed right now.
func (c *CatalogueItem) IsAvailable() bool {
	return strings.EqualFold(c.Status, "available")
}

func (c *CatalogueItem) String() string {
	return fmt.Sprintf("status=%s | barcode=%s | shelfmark=%s | type=%s",
		c.Status, c.Barcode, c.Shelfmark, c.ItemType)
}

// BranchResultItem is one library branch's holdings for a catalogue entry.
// Items appear in document order.
type BranchResultItem struct {
	Name  string           `json:"name"`
	Items []*CatalogueItem `json:"items"`
}

// AddItem appends a copy to the branch's holdings.
func (b *BranchResultItem) AddItem(item *CatalogueItem) {
	b.Items = append(b.Items, item)
}

// IsAvailable reports whether any copy at this branch is available.
func (b *BranchResultItem) IsAvailable() bool {
	for _, item := range b.Items {
		if item.IsAvailable() {
			return true
		}
	}
	return false
}

func (b *BranchResultItem) String() string {
	var sb strings.Builder
	available := ""
	if b.IsAvailable() {
		available = " (AVAILABLE)"
	}
	fmt.Fprintf(&sb, "BRANCH: %s%s\n", b.Name, available)
	for _, item := range b.Items {
		fmt.Fprintf(&sb, "... %s\n", item)
	}
	return sb.String()
}

// SearchResultItem is one catalogue entry returned by a search. ItemID and
// Link keep their sentinel values when the numeric id could not be extracted
// from the listing markup; in that case no detail page is fetched and
// Available/Branches stay unpopulated.
type SearchResultItem struct {
	ItemID    string              `json:"item_id"`
	Title     string              `json:"title"`
	Publisher string              `json:"publisher"`
	Link      string              `json:"link"`
	Summary   string              `json:"summary"`
	Available string              `json:"available"`
	Branches  []*BranchResultItem `json:"branches"`
}

// NewSearchResultItem returns an item with every field set to its sentinel.
func NewSearchResultItem() *SearchResultItem {
	return &SearchResultItem{
		ItemID:    DefaultSentinel,
		Title:     DefaultSentinel,
		Publisher: DefaultSentinel,
		Link:      DefaultSentinel,
		Summary:   DefaultSentinel,
		Available: DefaultSentinel,
	}
}

// AddBranchResult appends a branch record to the item.
func (s *SearchResultItem) AddBranchResult(branch *BranchResultItem) {
	s.Branches = append(s.Branches, branch)
}

// HasItemID reports whether the numeric catalogue id was extracted.
func (s *SearchResultItem) HasItemID() bool {
	return s.ItemID != DefaultSentinel
}

func (s *SearchResultItem) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ID:        %s\n", s.ItemID)
	fmt.Fprintf(&sb, "TITLE:     %s\n", s.Title)
	fmt.Fprintf(&sb, "PUBLISHER: %s\n", s.Publisher)
	fmt.Fprintf(&sb, "LINK:      %s\n", s.Link)
	fmt.Fprintf(&sb, "SUMMARY:   %s\n", s.Summary)
	fmt.Fprintf(&sb, "AVAILABLE: %s\n", s.Available)
	for _, branch := range s.Branches {
		sb.WriteString(branch.String())
	}
	return sb.String()
}

// SearchResultSet is the top-level output of one search operation.
type SearchResultSet struct {
	Title        string              `json:"title"`
	Author       string              `json:"author"`
	Borough      string              `json:"borough"`
	BoroughURL   string              `json:"borough_url"`
	SearchURL    string              `json:"search_url"`
	Items        []*SearchResultItem `json:"items"`
	ErrorMessage string              `json:"error_message,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
}

// AddWarning records a non-fatal extraction anomaly.
func (r *SearchResultSet) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
