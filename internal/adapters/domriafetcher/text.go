package domriafetcher

import (
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// cleanText приводит текст к NFC и схлопывает пробельные символы
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

func selectionText(s *goquery.Selection) string {
	return cleanText(s.Text())
}

// optionalText возвращает nil, если элемент не найден или пуст
func optionalText(s *goquery.Selection) *string {
	if s.Length() == 0 {
		return nil
	}
	text := selectionText(s)
	if text == "" {
		return nil
	}
	return &text
}

// requiredText - текст первого элемента selector внутри root. Отсутствующий
// элемент и элемент из одних пробелов одинаково дают ParseError поля field.
func requiredText(root *goquery.Selection, field, selector string) (string, error) {
	s := root.Find(selector).First()
	if s.Length() == 0 {
		return "", domain.MissingField(field, selector)
	}
	text := selectionText(s)
	if text == "" {
		return "", domain.MissingField(field, selector)
	}
	return text, nil
}
