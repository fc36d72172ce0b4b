package domriafetcher

import (
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/constants"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractDetailLinks возвращает абсолютные ссылки на детальные страницы в порядке документа.
// Дубликаты не убираются: порядок и количество должны совпадать с карточками.
// Якорь без пригодного href остается на своем месте пустой строкой, а его
// ParseError лежит в linkErrs под тем же индексом.
func ExtractDetailLinks(doc *goquery.Document, baseURL string) (links []string, linkErrs map[int]error, err error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}

	selection := doc.Find(constants.ListingLinkSelector)
	links = make([]string, 0, selection.Length())

	selection.Each(func(i int, s *goquery.Selection) {
		field := fmt.Sprintf("detail_link[%d]", i)

		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			linkErrs = setLinkErr(linkErrs, i, domain.MissingField(field, constants.ListingLinkSelector))
			links = append(links, "")
			return
		}

		ref, parseErr := url.Parse(href)
		if parseErr != nil {
			linkErrs = setLinkErr(linkErrs, i, &domain.ParseError{
				Field:    field,
				Selector: constants.ListingLinkSelector,
				Err:      parseErr,
			})
			links = append(links, "")
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})

	return links, linkErrs, nil
}

func setLinkErr(linkErrs map[int]error, i int, err error) map[int]error {
	if linkErrs == nil {
		linkErrs = make(map[int]error)
	}
	linkErrs[i] = err
	return linkErrs
}

// ExtractIndexMetadata собирает метаданные каждой карточки в порядке документа.
// Карточка без города или адреса получает ParseError вместо пустой строки.
func ExtractIndexMetadata(doc *goquery.Document) domain.IndexMetadata {
	selection := doc.Find(constants.ListingCardSelector)
	cards := make([]domain.CardMetadata, 0, selection.Length())

	selection.Each(func(_ int, card *goquery.Selection) {
		cards = append(cards, extractCard(card))
	})

	return domain.IndexMetadata{Cards: cards}
}

func extractCard(card *goquery.Selection) domain.CardMetadata {
	var meta domain.CardMetadata

	city, err := requiredText(card, "city", constants.CityAnchorSelector)
	if err != nil {
		meta.Err = err
		return meta
	}
	meta.City = city

	address, err := requiredText(card, "address", constants.TitleAnchorSelector)
	if err != nil {
		meta.Err = err
		return meta
	}
	meta.Address = address

	// район - последний якорь уровня area, если он есть
	meta.Region = optionalText(card.Find(constants.AreaAnchorSelector).Last())
	meta.Subway = optionalText(card.Find(constants.MetroAnchorSelector).First())

	return meta
}
