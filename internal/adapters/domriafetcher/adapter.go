package domriafetcher

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultMaxAttempts = 6
	DefaultBackoffUnit = time.Second
	DefaultTimeout     = 30 * time.Second
)

// Sleeper - шов для ожидания между попытками, в тестах подменяется
type Sleeper func(ctx context.Context, d time.Duration) error

// Config настраивает фетчер
type Config struct {
	BaseURL        string
	UserAgent      string
	AcceptLanguage string

	MaxAttempts int
	BackoffUnit time.Duration
	Timeout     time.Duration
	// Parallelism ограничивает число одновременных запросов к хосту, 0 - без ограничения
	Parallelism int
	// RatePerSecond - общий темп попыток, 0 - без ограничения
	RatePerSecond float64

	Sleep Sleeper
}

// DomRiaFetcherAdapter отвечает за все HTTP-взаимодействия с сайтом.
// Родительский коллектор - общая сессия: клоны разделяют его HTTP-клиент и лимиты.
type DomRiaFetcherAdapter struct {
	collector      *colly.Collector
	acceptLanguage string
	maxAttempts    int
	backoffUnit    time.Duration
	limiter        *rate.Limiter
	sleep          Sleeper
}

// NewDomRiaFetcherAdapter - конструктор
func NewDomRiaFetcherAdapter(cfg Config) (*DomRiaFetcherAdapter, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Hostname() == "" {
		return nil, fmt.Errorf("DomRiaFetcherAdapter: invalid base URL %q: %v", cfg.BaseURL, err)
	}

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = DefaultBackoffUnit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}

	// родительский коллектор
	options := []colly.CollectorOption{
		colly.AllowedDomains(allowedHosts(base.Hostname())...),
		colly.AllowURLRevisit(),
	}
	if cfg.UserAgent != "" {
		options = append(options, colly.UserAgent(cfg.UserAgent))
	}
	c := colly.NewCollector(options...)
	// Код ответа оцениваем сами: любой не-2xx - неудачная попытка
	c.ParseHTTPErrorResponse = true
	c.SetRequestTimeout(cfg.Timeout)

	if cfg.Parallelism > 0 {
		err = c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Parallelism: cfg.Parallelism,
		})
		if err != nil {
			return nil, fmt.Errorf("DomRiaFetcherAdapter: failed to set limit rule: %w", err)
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &DomRiaFetcherAdapter{
		collector:      c,
		acceptLanguage: cfg.AcceptLanguage,
		maxAttempts:    cfg.MaxAttempts,
		backoffUnit:    cfg.BackoffUnit,
		limiter:        limiter,
		sleep:          cfg.Sleep,
	}, nil
}

// siteSubdomains - поддомены, между которыми сайт перенаправляет запросы
var siteSubdomains = []string{"www", "m"}

// allowedHosts - хост базового URL, его корень без www/m и их варианты,
// чтобы редиректы между ними не обрывались коллектором
func allowedHosts(host string) []string {
	root := host
	for _, sub := range siteSubdomains {
		if trimmed, ok := strings.CutPrefix(host, sub+"."); ok {
			root = trimmed
			break
		}
	}

	hosts := []string{root}
	for _, sub := range siteSubdomains {
		hosts = append(hosts, sub+"."+root)
	}
	return hosts
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
