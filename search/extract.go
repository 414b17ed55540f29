package search

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/bstancham/capita-library-search/models"
	"github.com/bstancham/capita-library-search/parser"
)

// Detail-page links look like "items/1234567?query=...", the capture group
// is the catalogue id.
var itemIDPattern = regexp.MustCompile(`items/([0-9]+)\?`)

// Extractor turns catalogue HTML documents into domain records. The markup
// carries no schema guarantee, so every lookup degrades independently: a
// missing element leaves the sentinel value in place and extraction of the
// remaining fields carries on.
type Extractor struct {
	// BoroughURL is the namespace root used to build detail-page links.
	BoroughURL string
	// FetchDetail retrieves a detail page by URL. When nil, availability
	// and branch data are left unpopulated.
	FetchDetail func(pageURL string) ([]byte, error)
}

// SearchResults extracts one SearchResultItem per result container, in
// document order. Items whose numeric id resolves get their detail page
// fetched for availability and branch data; a failed detail fetch is
// isolated to that one item. Non-fatal anomalies come back as warnings.
func (e *Extractor) SearchResults(doc *goquery.Document) ([]*models.SearchResultItem, []string) {
	var items []*models.SearchResultItem
	var warnings []string

	doc.Find("div#searchResults").Each(func(_ int, results *goquery.Selection) {
		results.Find("div.summary").Each(func(_ int, div *goquery.Selection) {
			item := models.NewSearchResultItem()

			anchor := div.Find("h2.title").First().Find("a").First()
			if anchor.Length() > 0 {
				item.Title = anchor.AttrOr("title", models.NotFoundSentinel)
				href := anchor.AttrOr("href", models.NotFoundSentinel)
				if match := itemIDPattern.FindStringSubmatch(href); match != nil {
					item.ItemID = match[1]
					item.Link = ItemURL(e.BoroughURL, item.ItemID)
				}
			}

			publisher := div.Find("div.publisher").First().Find("span.publisher").First()
			if publisher.Length() > 0 {
				item.Publisher = publisher.Text()
			}

			summary := div.Find("div.summarydetail").First().Find("span.summarydetail").First()
			if summary.Length() > 0 {
				item.Summary = summary.Text()
			}

			if item.HasItemID() && e.FetchDetail != nil {
				warnings = append(warnings, e.populateAvailability(item)...)
			}

			items = append(items, item)
		})
	})

	return items, warnings
}

// populateAvailability fetches the item's detail page and fills in the
// availability synopsis and per-branch holdings.
func (e *Extractor) populateAvailability(item *models.SearchResultItem) []string {
	var warnings []string

	body, err := e.FetchDetail(item.Link)
	if err != nil {
		return append(warnings, fmt.Sprintf("item %s: could not get detail page", item.ItemID))
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return append(warnings, fmt.Sprintf("item %s: could not parse detail page", item.ItemID))
	}

	availability := doc.Find("div#availability").First()
	if availability.Length() == 0 {
		return warnings
	}

	synopsis := availability.Find("div.status").First().Find("p.branches").First()
	if synopsis.Length() > 0 {
		item.Available = synopsis.Text()
	}

	options := availability.Find("ul.options").First()
	if options.Length() == 0 {
		return warnings
	}

	skipped := 0
	options.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		branch := branchResult(li)
		if branch == nil {
			skipped++
			return
		}
		item.AddBranchResult(branch)
	})
	if skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("item %s: %d branches skipped due to missing name", item.ItemID, skipped))
	}

	return warnings
}

// branchResult extracts one branch's holdings from its list element. A
// branch without a name element yields nil: there is nothing to key the
// holdings on.
func branchResult(li *goquery.Selection) *models.BranchResultItem {
	name := li.Find(`span[itemprop="name"]`).First()
	if name.Length() == 0 {
		return nil
	}

	branch := &models.BranchResultItem{Name: name.Text()}

	tbody := li.Find("tbody").First()
	tbody.Find("tr").Each(func(_ int, row *goquery.Selection) {
		branch.AddItem(catalogueItem(row))
	})

	return branch
}

// catalogueItem extracts one physical copy from a table row. Each field is
// looked up independently; a missing cell leaves the zero value.
func catalogueItem(row *goquery.Selection) *models.CatalogueItem {
	item := &models.CatalogueItem{}

	if span := row.Find(`span[itemprop="serialNumber"]`).First(); span.Length() > 0 {
		item.Barcode = span.Text()
	}
	if span := row.Find(`span[itemprop="sku"]`).First(); span.Length() > 0 {
		item.Shelfmark = span.Text()
	}
	if td := row.Find("td.loan").First(); td.Length() > 0 {
		item.ItemType = td.Text()
	}
	// The status cell's class carries a varying trailing token, e.g.
	// "item-status available".
	if td := row.Find(`td[class^="item-status "]`).First(); td.Length() > 0 {
		item.Status = parser.NormalizeStatus(td.Text())
	}

	return item
}
