package domain

import (
	"fmt"
	"time"
)

// ListingRecord - одна квартира, собранная из карточки индексной страницы
// и детальной страницы объявления. Создается один раз и больше не меняется.
type ListingRecord struct {
	City             string
	Region           *string
	Address          string
	Price            string
	PricePerArea     string
	TotalArea        string
	Floor            string
	FloorCount       *int
	RoomCount        *int
	Subway           *string
	ApartmentComplex *string

	// Не попадают в CSV, нужны для хранилища и событий
	DetailURL string
	ScrapedAt time.Time
}

// CardMetadata - данные одной карточки, доступные прямо на индексной странице.
// Если обязательный якорь (город или адрес) не найден, Err содержит *ParseError.
type CardMetadata struct {
	City    string
	Region  *string
	Subway  *string
	Address string
	Err     error
}

// IndexMetadata - карточки индексной страницы в порядке документа,
// по одной на каждую ссылку на детальную страницу.
type IndexMetadata struct {
	Cards []CardMetadata
}

func (m IndexMetadata) Len() int { return len(m.Cards) }

// IndexPage объединяет две синхронные последовательности одной индексной страницы
type IndexPage struct {
	DetailLinks []string
	// LinkErrors - ошибки разбора ссылок по индексу; на таком месте в DetailLinks пустая строка
	LinkErrors map[int]error
	Metadata   IndexMetadata
}

// LinkError возвращает ошибку ссылки i или nil
func (p *IndexPage) LinkError(i int) error {
	return p.LinkErrors[i]
}

// Validate проверяет, что ссылок ровно столько же, сколько карточек
func (p *IndexPage) Validate() error {
	if len(p.DetailLinks) != p.Metadata.Len() {
		return fmt.Errorf("%w: %d detail links vs %d listing cards",
			ErrStructuralMismatch, len(p.DetailLinks), p.Metadata.Len())
	}
	return nil
}

// PageBatch - результат обработки одной индексной страницы
type PageBatch struct {
	Page            int
	Records         []ListingRecord
	FailedFetches   int
	InvalidListings int
}

// PageRange - включительный диапазон индексных страниц
type PageRange struct {
	Start int
	End   int
}

func (r PageRange) Validate() error {
	if r.Start < 1 || r.End < r.Start {
		return fmt.Errorf("%w: start=%d end=%d (want 1 <= start <= end)", ErrInvalidPageRange, r.Start, r.End)
	}
	return nil
}

// Pages возвращает количество страниц в диапазоне
func (r PageRange) Pages() int {
	return r.End - r.Start + 1
}
