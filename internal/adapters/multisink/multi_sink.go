package multisink

import (
	"context"
	"errors"
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"
)

// MultiSink отдает каждую пачку всем sink'ам по порядку.
// Ошибка одного sink'а не мешает записи в остальные.
type MultiSink struct {
	sinks []port.ListingSinkPort
}

func NewMultiSink(sinks ...port.ListingSinkPort) (port.ListingSinkPort, error) {
	if len(sinks) == 0 {
		return nil, fmt.Errorf("multisink: at least one sink is required")
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return &MultiSink{sinks: sinks}, nil
}

func (m *MultiSink) Open(ctx context.Context, mode port.SinkMode) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Open(ctx, mode); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) Write(ctx context.Context, records []domain.ListingRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
