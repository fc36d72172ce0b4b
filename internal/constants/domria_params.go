package constants

// Параметры сайта dom.ria.com. Разметка сайта - внешний контракт,
// при ее изменении правятся только эти константы.
const (
	BaseURL   = "https://dom.ria.com"
	IndexPath = "/uk/prodazha-kvartir/"

	// PageQueryParam - номер индексной страницы; первая страница запрашивается без него
	PageQueryParam = "page"

	UserAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	AcceptLanguage = "uk-UA,uk;q=0.9,ru;q=0.8,en-US;q=0.7,en;q=0.6"
)

// Селекторы индексной страницы
const (
	// ListingLinkSelector и ListingCardSelector обязаны выбирать одинаковое
	// количество элементов в одном и том же порядке
	ListingLinkSelector = "section.realty-item a.realtyPhoto"
	ListingCardSelector = "section.realty-item div.wrap_desc"

	CityAnchorSelector  = "a[data-level='city']"
	AreaAnchorSelector  = "a[data-level='area']"
	MetroAnchorSelector = "a[data-level='metro']"
	TitleAnchorSelector = "h2.tit a.blue b"

	PaginationSelector = "#pagination a.page-link"
)

// Селекторы и маркеры детальной страницы
const (
	PriceSelector        = "#showLeftBarView div.price b.size30"
	PricePerAreaSelector = "#showLeftBarView div.price span.pricePerM"

	FactItemSelector       = "ul.main-list li"
	AdditionalFactSelector = "#additionalInfo li"
	AdditionalSpanSelector = "#additionalInfo li span"
	NewBuildingSelector    = "#newbuildingInfo"

	TotalAreaToken      = "Загальна площа"
	FloorToken          = "поверх"
	RoomsToken          = "кімнат"
	ComplexMarkerPrefix = "ЖК"
)

// CSVColumns - порядок колонок выходного файла
var CSVColumns = []string{
	"city",
	"region",
	"address",
	"price",
	"price_per_area",
	"total_area",
	"floor",
	"floor_count",
	"room_count",
	"subway",
	"apartment_complex",
}
