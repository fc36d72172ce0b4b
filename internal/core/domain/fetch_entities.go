package domain

import "net/http"

// StatusUnavailable - статус, который несет результат после исчерпания всех попыток
const StatusUnavailable = http.StatusServiceUnavailable

type FetchOutcome int

const (
	FetchSucceeded FetchOutcome = iota + 1
	FetchExhausted
)

func (o FetchOutcome) String() string {
	switch o {
	case FetchSucceeded:
		return "succeeded"
	case FetchExhausted:
		return "exhausted_retries"
	default:
		return "unknown"
	}
}

// FetchResult - ответ фетчера. Успех определяется по Outcome, а не по коду:
// исчерпанные попытки тоже несут код (503), но это не ответ сервера.
type FetchResult struct {
	Outcome    FetchOutcome
	URL        string
	StatusCode int
	Body       []byte
	Attempts   int
	// Err - ошибка последней неудачной попытки
	Err error
}

func (r FetchResult) Succeeded() bool {
	return r.Outcome == FetchSucceeded
}

// Succeeded собирает успешный результат
func Succeeded(url string, status int, body []byte, attempts int) FetchResult {
	return FetchResult{
		Outcome:    FetchSucceeded,
		URL:        url,
		StatusCode: status,
		Body:       body,
		Attempts:   attempts,
	}
}

// Exhausted собирает терминальный результат после последней неудачной попытки
func Exhausted(url string, attempts int, lastErr error) FetchResult {
	return FetchResult{
		Outcome:    FetchExhausted,
		URL:        url,
		StatusCode: StatusUnavailable,
		Attempts:   attempts,
		Err:        lastErr,
	}
}
