package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunStats - итоги одного запуска парсера
type RunStats struct {
	RunID     uuid.UUID
	Requested PageRange
	Effective PageRange

	PagesProcessed  int
	PagesFailed     int
	ListingsWritten int
	ListingsSkipped int

	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// AddBatch учитывает результат одной индексной страницы
func (s *RunStats) AddBatch(b *PageBatch) {
	s.PagesProcessed++
	s.ListingsWritten += len(b.Records)
	s.ListingsSkipped += b.FailedFetches + b.InvalidListings
}
