package csvsink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ihor-MA/flats-data-analytics/internal/constants"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCSVSink_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	sink, err := NewCSVSink(path)
	require.NoError(t, err)

	records := []domain.ListingRecord{
		{
			City: "Київ", Region: strPtr("Печерський"), Address: "вул. Хрещатик, 1",
			Price: "100 000 $", PricePerArea: "2 000 $", TotalArea: "50 m2",
			Floor: "3", FloorCount: intPtr(9), RoomCount: intPtr(2),
			Subway: strPtr("Хрещатик"), ApartmentComplex: strPtr(`ЖК "Зірка", черга 2`),
		},
		{City: "Львів", Address: "вул. Городоцька, 5", Price: "40 000 $", PricePerArea: "800 $"},
	}

	ctx := context.Background()
	require.NoError(t, sink.Open(ctx, port.SinkModeTruncate))
	require.NoError(t, sink.Write(ctx, records))
	require.NoError(t, sink.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, constants.CSVColumns, rows[0])
	assert.Equal(t, []string{
		"Київ", "Печерський", "вул. Хрещатик, 1", "100 000 $", "2 000 $", "50 m2",
		"3", "9", "2", "Хрещатик", `ЖК "Зірка", черга 2`,
	}, rows[1])
	assert.Equal(t, []string{
		"Львів", "", "вул. Городоцька, 5", "40 000 $", "800 $", "", "", "", "", "", "",
	}, rows[2])
}

func TestCSVSink_TruncateDiscardsPreviousRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old,data\n"), 0o644))
	sink, _ := NewCSVSink(path)

	require.NoError(t, sink.Open(context.Background(), port.SinkModeTruncate))

	rows := readRows(t, path)
	assert.Equal(t, [][]string{constants.CSVColumns}, rows)
}

func TestCSVSink_AppendKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	sink, _ := NewCSVSink(path)
	ctx := context.Background()

	require.NoError(t, sink.Open(ctx, port.SinkModeTruncate))
	require.NoError(t, sink.Write(ctx, []domain.ListingRecord{{City: "A"}}))
	require.NoError(t, sink.Open(ctx, port.SinkModeAppend))
	require.NoError(t, sink.Write(ctx, []domain.ListingRecord{{City: "B"}}))

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "B", rows[2][0])
}

func TestCSVSink_AppendToMissingFileWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.csv")
	sink, _ := NewCSVSink(path)

	require.NoError(t, sink.Open(context.Background(), port.SinkModeAppend))

	assert.Equal(t, [][]string{constants.CSVColumns}, readRows(t, path))
}

func TestCSVSink_EmptyBatchDoesNotTouchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.csv")
	sink, _ := NewCSVSink(path)

	require.NoError(t, sink.Write(context.Background(), nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewCSVSink_RequiresPath(t *testing.T) {
	_, err := NewCSVSink("")
	assert.Error(t, err)
}
