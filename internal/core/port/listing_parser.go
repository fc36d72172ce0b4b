package port

import "github.com/Ihor-MA/flats-data-analytics/internal/core/domain"

// ListingParserPort извлекает данные из уже скачанных HTML-страниц сайта
type ListingParserPort interface {
	// ParseIndexPage возвращает ссылки на детальные страницы и метаданные карточек
	ParseIndexPage(body []byte) (*domain.IndexPage, error)

	// ParseTotalPages возвращает количество индексных страниц (>= 1)
	ParseTotalPages(body []byte) (int, error)

	// ParseDetailPage собирает ListingRecord из детальной страницы и метаданных ее карточки
	ParseDetailPage(body []byte, card domain.CardMetadata, detailURL string) (*domain.ListingRecord, error)
}
