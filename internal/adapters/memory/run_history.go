package memory

import (
	"context"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"sync"
)

// RunHistory хранит историю запусков в памяти процесса.
// Используется, когда база данных не настроена.
type RunHistory struct {
	mu   sync.Mutex
	runs []domain.RunStats
}

func NewRunHistory() *RunHistory {
	return &RunHistory{}
}

func (h *RunHistory) StartRun(ctx context.Context, stats *domain.RunStats) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs = append(h.runs, *stats)
	return nil
}

func (h *RunHistory) FinishRun(ctx context.Context, stats *domain.RunStats) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.runs {
		if h.runs[i].RunID == stats.RunID {
			h.runs[i] = *stats
			return nil
		}
	}
	h.runs = append(h.runs, *stats)
	return nil
}

// Runs возвращает копию истории
func (h *RunHistory) Runs() []domain.RunStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.RunStats, len(h.runs))
	copy(out, h.runs)
	return out
}
