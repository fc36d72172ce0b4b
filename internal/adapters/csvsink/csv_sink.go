package csvsink

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/constants"
	"github.com/Ihor-MA/flats-data-analytics/internal/contextkeys"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"
	"os"
	"strconv"
)

// CSVSink пишет записи в CSV-файл. Файл открывается заново на каждую пачку
// в режиме дозаписи, поэтому уже записанные страницы переживают падение процесса.
type CSVSink struct {
	path string
}

func NewCSVSink(path string) (*CSVSink, error) {
	if path == "" {
		return nil, fmt.Errorf("csv sink: output path cannot be empty")
	}
	return &CSVSink{path: path}, nil
}

// Open в режиме truncate очищает файл и пишет заголовок. В режиме append
// заголовок пишется только если файла еще нет.
func (s *CSVSink) Open(ctx context.Context, mode port.SinkMode) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CSVSink",
		"path":      s.path,
	})

	if mode == port.SinkModeAppend {
		_, err := os.Stat(s.path)
		if err == nil {
			logger.Info("Appending to existing CSV file", nil)
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("csv sink: stat %s: %w", s.path, err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("csv sink: create %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(constants.CSVColumns); err != nil {
		return fmt.Errorf("csv sink: write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv sink: flush header: %w", err)
	}

	logger.Info("CSV file truncated, header written", nil)
	return nil
}

func (s *CSVSink) Write(ctx context.Context, records []domain.ListingRecord) error {
	if len(records) == 0 {
		return nil
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("csv sink: open %s for append: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for i := range records {
		if err := w.Write(Row(&records[i])); err != nil {
			return fmt.Errorf("csv sink: write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv sink: flush: %w", err)
	}

	contextkeys.LoggerFromContext(ctx).Debug("Rows appended to CSV", port.Fields{
		"component": "CSVSink",
		"rows":      len(records),
	})
	return nil
}

func (s *CSVSink) Close() error { return nil }

// Row раскладывает запись по колонкам constants.CSVColumns
func Row(r *domain.ListingRecord) []string {
	return []string{
		r.City,
		deref(r.Region),
		r.Address,
		r.Price,
		r.PricePerArea,
		r.TotalArea,
		r.Floor,
		intOrEmpty(r.FloorCount),
		intOrEmpty(r.RoomCount),
		deref(r.Subway),
		deref(r.ApartmentComplex),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
