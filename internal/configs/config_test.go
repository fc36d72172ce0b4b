package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv убирает переменные, которые могли прийти из окружения разработчика
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "DOMRIA_BASE_URL", "DOMRIA_INDEX_PATH", "CSV_OUTPUT_PATH",
		"FETCH_MAX_ATTEMPTS", "FETCH_BACKOFF_UNIT", "FETCH_TIMEOUT", "FETCH_PARALLELISM", "FETCH_RATE_PER_SECOND",
		"DETAIL_CONCURRENCY", "DATABASE_URL", "RABBITMQ_URL", "FLUENTBIT_ENABLED",
		"FLUENTBIT_HOST", "FLUENTBIT_PORT", "FLUENTBIT_LOG_LEVEL", "STDOUT_LOG_LEVEL", "STDOUT_LOG_FORMAT",
	} {
		if value, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestLoadConfig_DefaultsWithoutEnvFile(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, "domria-parser", cfg.AppName)
	assert.Equal(t, "https://dom.ria.com/uk/prodazha-kvartir/", cfg.Site.IndexURL())
	assert.Equal(t, 6, cfg.Site.FetchMaxAttempts)
	assert.Equal(t, time.Second, cfg.Site.FetchBackoffUnit)
	assert.Equal(t, 30*time.Second, cfg.Site.FetchTimeout)
	assert.Equal(t, "flats.csv", cfg.Output.CSVPath)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.RabbitMQ.URL)
	assert.False(t, cfg.FluentBit.Enabled)
	assert.Equal(t, "color", cfg.StdoutLogger.Format)
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	clearEnv(t)
	envPath := filepath.Join(t.TempDir(), ".env")
	content := "CSV_OUTPUT_PATH=/tmp/kyiv.csv\n" +
		"FETCH_BACKOFF_UNIT=250ms\n" +
		"DETAIL_CONCURRENCY=8\n" +
		"FLUENTBIT_ENABLED=true\n" +
		"FLUENTBIT_HOST=fluent-bit\n" +
		"STDOUT_LOG_FORMAT=json\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"CSV_OUTPUT_PATH", "FETCH_BACKOFF_UNIT", "DETAIL_CONCURRENCY", "FLUENTBIT_ENABLED", "FLUENTBIT_HOST", "STDOUT_LOG_FORMAT"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig(envPath)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/kyiv.csv", cfg.Output.CSVPath)
	assert.Equal(t, 250*time.Millisecond, cfg.Site.FetchBackoffUnit)
	assert.Equal(t, 8, cfg.Site.DetailConcurrency)
	assert.True(t, cfg.FluentBit.Enabled)
	assert.Equal(t, 24224, cfg.FluentBit.Port)
	assert.Equal(t, "json", cfg.StdoutLogger.Format)
}

func TestLoadConfig_FluentWithoutHostIsDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLUENTBIT_ENABLED", "true")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.False(t, cfg.FluentBit.Enabled)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	testCases := map[string]string{
		"FETCH_MAX_ATTEMPTS":    "0",
		"FETCH_BACKOFF_UNIT":    "0s",
		"FETCH_RATE_PER_SECOND": "-2",
		"STDOUT_LOG_FORMAT":     "xml",
		"CSV_OUTPUT_PATH":       "",
	}
	for key, value := range testCases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestGetEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("FLATS_TEST_INT", "many")
	t.Setenv("FLATS_TEST_BOOL", "perhaps")
	t.Setenv("FLATS_TEST_DURATION", "soon")
	t.Setenv("FLATS_TEST_FLOAT", "fast")

	assert.Equal(t, 3, getEnvAsInt("FLATS_TEST_INT", 3))
	assert.True(t, getEnvAsBool("FLATS_TEST_BOOL", true))
	assert.Equal(t, time.Minute, getEnvAsDuration("FLATS_TEST_DURATION", time.Minute))
	assert.Equal(t, 1.5, getEnvAsFloat("FLATS_TEST_FLOAT", 1.5))
}
