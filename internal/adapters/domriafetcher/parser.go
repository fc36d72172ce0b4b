package domriafetcher

import (
	"bytes"
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Parser реализует ListingParserPort поверх функций извлечения
type Parser struct {
	baseURL string
	now     func() time.Time
}

func NewParser(baseURL string) *Parser {
	return &Parser{
		baseURL: baseURL,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func loadDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

func (p *Parser) ParseIndexPage(body []byte) (*domain.IndexPage, error) {
	doc, err := loadDocument(body)
	if err != nil {
		return nil, err
	}

	links, linkErrs, err := ExtractDetailLinks(doc, p.baseURL)
	if err != nil {
		return nil, err
	}

	return &domain.IndexPage{
		DetailLinks: links,
		LinkErrors:  linkErrs,
		Metadata:    ExtractIndexMetadata(doc),
	}, nil
}

func (p *Parser) ParseTotalPages(body []byte) (int, error) {
	doc, err := loadDocument(body)
	if err != nil {
		return 0, err
	}
	return ExtractTotalPages(doc)
}

func (p *Parser) ParseDetailPage(body []byte, card domain.CardMetadata, detailURL string) (*domain.ListingRecord, error) {
	doc, err := loadDocument(body)
	if err != nil {
		return nil, err
	}

	rec, err := ExtractListing(doc, card, detailURL)
	if err != nil {
		return nil, err
	}
	rec.ScrapedAt = p.now()
	return rec, nil
}
