package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SiteConfig - откуда и как часто качаем страницы
type SiteConfig struct {
	BaseURL           string
	IndexPath         string
	FetchMaxAttempts  int
	FetchBackoffUnit  time.Duration
	FetchTimeout      time.Duration
	FetchParallelism  int
	// FetchRatePerSecond - потолок запросов в секунду, 0 - без ограничения
	FetchRatePerSecond float64
	DetailConcurrency  int
}

// IndexURL - адрес первой индексной страницы
func (c SiteConfig) IndexURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(c.IndexPath, "/")
}

type OutputConfig struct {
	CSVPath string
}

// DBconfig - пустой URL отключает запись в PostgreSQL
type DBconfig struct {
	URL string
}

// RabbitMQConfig - пустой URL отключает публикацию событий
type RabbitMQConfig struct {
	URL string
}

type StdoutLogConfig struct {
	Level  string
	Format string // color, text или json
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Site         SiteConfig
	Output       OutputConfig
	Database     DBconfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig читает .env (если он есть) и переменные окружения.
// Уже заданные переменные окружения не перезаписываются файлом.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 && envPath[0] != "" {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
		}
		log.Printf("Info: .env file not found (path: %v), using process environment.\n", envPath)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "domria-parser")

	cfg.Site.BaseURL = getEnvAsString("DOMRIA_BASE_URL", "https://dom.ria.com")
	cfg.Site.IndexPath = getEnvAsString("DOMRIA_INDEX_PATH", "/uk/prodazha-kvartir/")
	cfg.Site.FetchMaxAttempts = getEnvAsInt("FETCH_MAX_ATTEMPTS", 6)
	cfg.Site.FetchBackoffUnit = getEnvAsDuration("FETCH_BACKOFF_UNIT", time.Second)
	cfg.Site.FetchTimeout = getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second)
	cfg.Site.FetchParallelism = getEnvAsInt("FETCH_PARALLELISM", 0)
	cfg.Site.FetchRatePerSecond = getEnvAsFloat("FETCH_RATE_PER_SECOND", 0)
	cfg.Site.DetailConcurrency = getEnvAsInt("DETAIL_CONCURRENCY", 0)

	cfg.Output.CSVPath = getEnvAsString("CSV_OUTPUT_PATH", "flats.csv")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "info")
	cfg.StdoutLogger.Format = getEnvAsString("STDOUT_LOG_FORMAT", "color")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("DOMRIA_BASE_URL cannot be empty")
	}
	if c.Output.CSVPath == "" {
		return fmt.Errorf("CSV_OUTPUT_PATH cannot be empty")
	}
	if c.Site.FetchMaxAttempts < 1 {
		return fmt.Errorf("FETCH_MAX_ATTEMPTS must be at least 1, got %d", c.Site.FetchMaxAttempts)
	}
	if c.Site.FetchBackoffUnit <= 0 || c.Site.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_BACKOFF_UNIT and FETCH_TIMEOUT must be positive")
	}
	if c.Site.FetchRatePerSecond < 0 {
		return fmt.Errorf("FETCH_RATE_PER_SECOND must be non-negative, got %g", c.Site.FetchRatePerSecond)
	}
	switch c.StdoutLogger.Format {
	case "color", "text", "json":
	default:
		return fmt.Errorf("STDOUT_LOG_FORMAT must be one of color, text, json; got %q", c.StdoutLogger.Format)
	}
	return nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valFloat, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %g\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valFloat
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration понимает "1s", "500ms" и т.п.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}
