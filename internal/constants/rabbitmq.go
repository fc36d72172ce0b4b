package constants

const (
	ParserExchange           = "parser_exchange"
	RoutingKeyScrapedListing = "listings.scraped"

	ScrapedListingEventType    = "ScrapedListingEvent"
	ScrapedListingEventVersion = "1.0.0"
)
