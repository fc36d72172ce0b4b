package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/Ihor-MA/flats-data-analytics/internal/adapters/csvsink"
	"github.com/Ihor-MA/flats-data-analytics/internal/adapters/domriafetcher"
	logger_adapter "github.com/Ihor-MA/flats-data-analytics/internal/adapters/logger"
	"github.com/Ihor-MA/flats-data-analytics/internal/adapters/memory"
	"github.com/Ihor-MA/flats-data-analytics/internal/adapters/multisink"
	postgres_adapter "github.com/Ihor-MA/flats-data-analytics/internal/adapters/postgres"
	rabbitmq_adapter "github.com/Ihor-MA/flats-data-analytics/internal/adapters/rabbitmq"
	"github.com/Ihor-MA/flats-data-analytics/internal/configs"
	"github.com/Ihor-MA/flats-data-analytics/internal/constants"
	"github.com/Ihor-MA/flats-data-analytics/internal/contextkeys"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"
	usecases_port "github.com/Ihor-MA/flats-data-analytics/internal/core/port/usecases"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/usecase"
	fluentlogger "github.com/Ihor-MA/flats-data-analytics/pkg/fluent_logger"
	"github.com/Ihor-MA/flats-data-analytics/pkg/postgres"
	"github.com/Ihor-MA/flats-data-analytics/pkg/rabbitmq/rabbitmq_common"
	"github.com/Ihor-MA/flats-data-analytics/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const startupTimeout = 15 * time.Second

// App - структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	connManager  *rabbitmq_common.ConnectionManager
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	sink        port.ListingSinkPort
	scrapeRange usecases_port.ScrapeRangePort
}

// NewApp - composition root: здесь создаются и связываются все зависимости.
// PostgreSQL и RabbitMQ подключаются, только если заданы их URL.
func NewApp(ctx context.Context, appConfig *configs.AppConfig) (app *App, err error) {
	a := &App{config: appConfig}
	// при ошибке закрываем все, что уже успели открыть
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	// --- 1. ЛОГГЕРЫ ---
	if err = a.initLoggers(); err != nil {
		return nil, err
	}
	appLogger := a.logger.WithFields(port.Fields{"component": "app"})

	// --- 2. ВНЕШНИЕ ЗАВИСИМОСТИ ---
	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	csvSink, err := csvsink.NewCSVSink(appConfig.Output.CSVPath)
	if err != nil {
		return nil, err
	}
	sinks := []port.ListingSinkPort{csvSink}
	var history port.RunHistoryPort = memory.NewRunHistory()

	if appConfig.Database.URL != "" {
		a.dbPool, err = postgres.NewClient(startupCtx, postgres.Config{
			DatabaseURL:    appConfig.Database.URL,
			ConnectTimeout: startupTimeout,
		})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		listingRepo, rerr := postgres_adapter.NewListingRepository(a.dbPool)
		if rerr != nil {
			return nil, rerr
		}
		runRepo, rerr := postgres_adapter.NewRunHistoryRepository(a.dbPool)
		if rerr != nil {
			return nil, rerr
		}
		if err = runRepo.EnsureSchema(startupCtx); err != nil {
			return nil, err
		}
		sinks = append(sinks, listingRepo)
		history = runRepo
	}

	if appConfig.RabbitMQ.URL != "" {
		bridge := rabbitmq_adapter.NewPkgLoggerBridge(a.logger.WithFields(port.Fields{"component": "rabbitmq"}))
		a.connManager, err = rabbitmq_common.NewManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, bridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}

		producer, perr := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.ParserExchange,
			ExchangeType:             "direct",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   bridge,
		}, a.connManager)
		if perr != nil {
			appLogger.Error("Failed to create event producer", perr, nil)
			return nil, fmt.Errorf("failed to create event producer: %w", perr)
		}

		publisher, perr := rabbitmq_adapter.NewListingPublisher(producer, constants.RoutingKeyScrapedListing)
		if perr != nil {
			_ = producer.Close()
			return nil, perr
		}
		sinks = append(sinks, publisher)
		appLogger.Info("RabbitMQ listing publisher initialized.", nil)
	}

	a.sink, err = multisink.NewMultiSink(sinks...)
	if err != nil {
		return nil, err
	}

	fetcher, err := domriafetcher.NewDomRiaFetcherAdapter(domriafetcher.Config{
		BaseURL:        appConfig.Site.BaseURL,
		UserAgent:      constants.UserAgent,
		AcceptLanguage: constants.AcceptLanguage,
		MaxAttempts:    appConfig.Site.FetchMaxAttempts,
		BackoffUnit:    appConfig.Site.FetchBackoffUnit,
		Timeout:        appConfig.Site.FetchTimeout,
		Parallelism:    appConfig.Site.FetchParallelism,
		RatePerSecond:  appConfig.Site.FetchRatePerSecond,
	})
	if err != nil {
		appLogger.Error("Failed to create dom.ria fetcher", err, nil)
		return nil, fmt.Errorf("failed to initialize fetcher: %w", err)
	}
	parser := domriafetcher.NewParser(appConfig.Site.BaseURL)

	// --- 3. USE CASES ---
	indexURL := appConfig.Site.IndexURL()
	resolver := usecase.NewResolveTotalPagesUseCase(fetcher, parser, indexURL)
	processPage := usecase.NewProcessIndexPageUseCase(fetcher, parser, appConfig.Site.DetailConcurrency)
	a.scrapeRange = usecase.NewScrapeRangeUseCase(
		fetcher, resolver, processPage, a.sink, history,
		indexURL, constants.PageQueryParam, nil,
	)

	appLogger.Info("Application initialized", port.Fields{
		"sinks":     len(sinks),
		"index_url": indexURL,
		"csv_path":  appConfig.Output.CSVPath,
	})
	return a, nil
}

func (a *App) initLoggers() error {
	cfg := a.config

	var activeLoggers []port.LoggerPort
	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.Format == "json",
		UseColor: cfg.StdoutLogger.Format == "color",
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if cfg.FluentBit.Enabled {
		client, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
			Timeout:   3 * time.Second,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		a.fluentClient = client

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(client, parseLogLevel(cfg.FluentBit.Level))
		if err != nil {
			return err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}
	a.logger = multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	return nil
}

// Run выполняет один запуск парсера по диапазону страниц
func (a *App) Run(ctx context.Context, pages domain.PageRange) (*domain.RunStats, error) {
	ctx = contextkeys.ContextWithLogger(ctx, a.logger)
	return a.scrapeRange.Execute(ctx, pages)
}

// Close освобождает ресурсы в обратном порядке создания
func (a *App) Close() {
	logger := a.logger
	if logger == nil {
		logger = contextkeys.LoggerFromContext(context.Background())
	}

	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			logger.Error("Error closing sinks", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		logger.Debug("PostgreSQL pool closed.", nil)
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			log.Printf("App: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
