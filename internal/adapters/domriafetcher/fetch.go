package domriafetcher

import (
	"context"
	"errors"
	"fmt"
	"github.com/Ihor-MA/flats-data-analytics/internal/contextkeys"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/domain"
	"github.com/Ihor-MA/flats-data-analytics/internal/core/port"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

var ErrUnexpectedStatus = errors.New("unexpected response status")

// Backoff возвращает задержку после неудачной попытки attempt (с нуля): unit * 2^attempt
func Backoff(unit time.Duration, attempt int) time.Duration {
	return unit << uint(attempt)
}

// Fetch выполняет GET с повторами. После исчерпания попыток возвращает
// domain.Exhausted, ошибка наружу не пробрасывается.
func (a *DomRiaFetcherAdapter) Fetch(ctx context.Context, rawURL string, params url.Values) domain.FetchResult {
	return a.fetch(ctx, rawURL, params, a.maxAttempts)
}

// FetchOnce выполняет ровно одну попытку
func (a *DomRiaFetcherAdapter) FetchOnce(ctx context.Context, rawURL string, params url.Values) domain.FetchResult {
	return a.fetch(ctx, rawURL, params, 1)
}

func (a *DomRiaFetcherAdapter) fetch(ctx context.Context, rawURL string, params url.Values, maxAttempts int) domain.FetchResult {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{"component": "DomRiaFetcherAdapter"})

	target, err := withParams(rawURL, params)
	if err != nil {
		fetchLogger.Error("Failed to build request URL", err, port.Fields{"url": rawURL})
		return domain.Exhausted(rawURL, 0, err)
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if waitErr := a.limiter.Wait(ctx); waitErr != nil {
			lastErr = waitErr
			break
		}

		attempts++
		status, body, err := a.visit(ctx, target)
		if err == nil {
			fetchLogger.Debug("Fetched page", port.Fields{"url": target, "status": status, "attempt": attempt})
			return domain.Succeeded(target, status, body, attempts)
		}
		lastErr = err

		fetchLogger.Warn("Fetch attempt failed", port.Fields{
			"url":     target,
			"attempt": attempt,
			"status":  status,
			"error":   err.Error(),
		})

		if attempt == maxAttempts-1 {
			break
		}
		if sleepErr := a.sleep(ctx, Backoff(a.backoffUnit, attempt)); sleepErr != nil {
			lastErr = sleepErr
			break
		}
	}

	if maxAttempts > 1 {
		fetchLogger.Error("Giving up on page", lastErr, port.Fields{"url": target, "attempts": attempts})
	}
	return domain.Exhausted(target, attempts, lastErr)
}

// visit - одна попытка через клон родительского коллектора. Отмена ctx
// обрывает и запрос, который уже в полете.
func (a *DomRiaFetcherAdapter) visit(ctx context.Context, target string) (int, []byte, error) {
	collector := a.collector.Clone()
	collector.Context = ctx
	collector.ParseHTTPErrorResponse = true
	extensions.Referer(collector)

	var status int
	var body []byte

	collector.OnRequest(func(r *colly.Request) {
		if a.acceptLanguage != "" {
			r.Headers.Set("Accept-Language", a.acceptLanguage)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	if err := collector.Visit(target); err != nil {
		return status, nil, err
	}
	collector.Wait()

	if status < 200 || status > 299 {
		return status, nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, status)
	}
	return status, body, nil
}

func withParams(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
