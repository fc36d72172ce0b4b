package domriafetcher

import (
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/constants"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// ExtractTotalPages: без пагинации страница одна, иначе - число на последней ссылке
func ExtractTotalPages(doc *goquery.Document) (int, error) {
	links := doc.Find(constants.PaginationSelector)
	if links.Length() == 0 {
		return 1, nil
	}

	label := selectionText(links.Last())
	total, err := strconv.Atoi(label)
	if err != nil {
		return 0, &domain.ParseError{Field: "total_pages", Selector: constants.PaginationSelector, Err: err}
	}
	if total < 1 {
		return 0, &domain.ParseError{
			Field:    "total_pages",
			Selector: constants.PaginationSelector,
			Err:      fmt.Errorf("page count %d is below 1", total),
		}
	}
	return total, nil
}
