package rabbitmq

import (
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// ScrapedListingEventDTO - тело сообщения ScrapedListingEvent v1.0.0
type ScrapedListingEventDTO struct {
	EventID   uuid.UUID  `json:"event_id"`
	RunID     uuid.UUID  `json:"run_id"`
	ScrapedAt time.Time  `json:"scraped_at"`
	Listing   ListingDTO `json:"listing"`
}

type ListingDTO struct {
	City             string  `json:"city"`
	Region           *string `json:"region"`
	Address          string  `json:"address"`
	Price            string  `json:"price"`
	PricePerArea     string  `json:"price_per_area"`
	TotalArea        string  `json:"total_area"`
	Floor            string  `json:"floor"`
	FloorCount       *int    `json:"floor_count"`
	RoomCount        *int    `json:"room_count"`
	Subway           *string `json:"subway"`
	ApartmentComplex *string `json:"apartment_complex"`
	DetailURL        string  `json:"detail_url"`
}

func toEventDTO(eventID, runID uuid.UUID, rec *domain.ListingRecord) ScrapedListingEventDTO {
	return ScrapedListingEventDTO{
		EventID:   eventID,
		RunID:     runID,
		ScrapedAt: rec.ScrapedAt.UTC(),
		Listing: ListingDTO{
			City:             rec.City,
			Region:           rec.Region,
			Address:          rec.Address,
			Price:            rec.Price,
			PricePerArea:     rec.PricePerArea,
			TotalArea:        rec.TotalArea,
			Floor:            rec.Floor,
			FloorCount:       rec.FloorCount,
			RoomCount:        rec.RoomCount,
			Subway:           rec.Subway,
			ApartmentComplex: rec.ApartmentComplex,
			DetailURL:        rec.DetailURL,
		},
	}
}
