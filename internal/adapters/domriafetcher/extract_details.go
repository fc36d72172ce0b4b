package domriafetcher

import (
	"github.com/Ihor-MA/flats-data-analytics/internal/constants"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// detailRule - правило поиска факта на детальной странице: первый текстовый узел
// области scope, содержащий token, передается в apply уже разбитым на слова.
type detailRule struct {
	field string
	scope string
	token string
	apply func(rec *domain.ListingRecord, tokens []string)
}

// detailRules проверяются по порядку, каждое правило срабатывает не более одного раза
var detailRules = []detailRule{
	{field: "total_area", scope: constants.FactItemSelector, token: constants.TotalAreaToken, apply: applyTotalArea},
	{field: "floor", scope: constants.AdditionalFactSelector, token: constants.FloorToken, apply: applyFloor},
	{field: "room_count", scope: constants.AdditionalSpanSelector, token: constants.RoomsToken, apply: applyRoomCount},
}

// "Загальна площа: 50 м²" -> "50 м²" (третье и четвертое слово)
func applyTotalArea(rec *domain.ListingRecord, tokens []string) {
	if len(tokens) < 3 {
		return
	}
	end := 4
	if len(tokens) < end {
		end = len(tokens)
	}
	rec.TotalArea = strings.Join(tokens[2:end], " ")
}

// "3 поверх з 9" -> этаж "3", этажность 9
func applyFloor(rec *domain.ListingRecord, tokens []string) {
	rec.Floor = tokens[0]
	rec.FloorCount = atoiPtr(tokens[len(tokens)-1])
}

// "2 кімнати" -> 2
func applyRoomCount(rec *domain.ListingRecord, tokens []string) {
	rec.RoomCount = atoiPtr(tokens[0])
}

// atoiPtr разбирает счетчик (этажность, комнаты); отрицательное значение - не счетчик
func atoiPtr(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// textNodes возвращает очищенный текст каждого элемента области в порядке документа
func textNodes(doc *goquery.Document, scope string) []string {
	selection := doc.Find(scope)
	texts := make([]string, 0, selection.Length())
	selection.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, selectionText(s))
	})
	return texts
}

func applyDetailRules(doc *goquery.Document, rec *domain.ListingRecord) {
	for _, rule := range detailRules {
		for _, text := range textNodes(doc, rule.scope) {
			if !strings.Contains(text, rule.token) {
				continue
			}
			if tokens := strings.Fields(text); len(tokens) > 0 {
				rule.apply(rec, tokens)
			}
			break
		}
	}
}

// ExtractListing собирает запись из детальной страницы и метаданных карточки.
// Цена и цена за метр обязательны: пустые или отсутствующие дают ParseError для этого объявления.
func ExtractListing(doc *goquery.Document, card domain.CardMetadata, detailURL string) (*domain.ListingRecord, error) {
	if card.Err != nil {
		return nil, card.Err
	}

	price, err := requiredText(doc.Selection, "price", constants.PriceSelector)
	if err != nil {
		return nil, err
	}
	pricePerArea, err := requiredText(doc.Selection, "price_per_area", constants.PricePerAreaSelector)
	if err != nil {
		return nil, err
	}

	rec := &domain.ListingRecord{
		City:         card.City,
		Region:       card.Region,
		Address:      card.Address,
		Subway:       card.Subway,
		Price:        price,
		PricePerArea: pricePerArea,
		DetailURL:    detailURL,
	}

	applyDetailRules(doc, rec)

	if block := doc.Find(constants.NewBuildingSelector).First(); block.Length() > 0 {
		if text := selectionText(block); strings.HasPrefix(text, constants.ComplexMarkerPrefix) {
			rec.ApartmentComplex = &text
		}
	}

	return rec, nil
}
