package domriatest

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// Site - фейковый dom.ria на httptest. Страницы адресуются путем с query: "/list?page=2".
type Site struct {
	Server *httptest.Server

	mu       sync.Mutex
	pages    map[string][]byte
	failures map[string]int // сколько раз еще отвечать 500, -1 - всегда
	hits     map[string]int
	headers  map[string]http.Header
	hangs    map[string]bool

	release   chan struct{}
	closeOnce sync.Once
}

func NewSite() *Site {
	s := &Site{
		pages:    make(map[string][]byte),
		failures: make(map[string]int),
		hits:     make(map[string]int),
		headers:  make(map[string]http.Header),
		hangs:    make(map[string]bool),
		release:  make(chan struct{}),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *Site) URL() string { return s.Server.URL }

func (s *Site) Close() {
	s.closeOnce.Do(func() { close(s.release) })
	s.Server.Close()
}

// Handle регистрирует тело страницы
func (s *Site) Handle(key string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[key] = body
}

// FailTimes заставляет страницу отвечать 500 первые n раз
func (s *Site) FailTimes(key string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = n
}

// Hang заставляет страницу не отвечать, пока клиент не оборвет запрос
func (s *Site) Hang(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hangs[key] = true
}

// FailAlways заставляет страницу всегда отвечать 500
func (s *Site) FailAlways(key string) {
	s.FailTimes(key, -1)
}

func (s *Site) Hits(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

// LastHeader возвращает заголовок последнего запроса к странице
func (s *Site) LastHeader(key, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.headers[key]; ok {
		return h.Get(name)
	}
	return ""
}

func (s *Site) serve(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	s.mu.Lock()
	s.hits[key]++
	s.headers[key] = r.Header.Clone()
	remaining := s.failures[key]
	if remaining > 0 {
		s.failures[key] = remaining - 1
	}
	body, ok := s.pages[key]
	hang := s.hangs[key]
	s.mu.Unlock()

	if hang {
		select {
		case <-r.Context().Done():
		case <-s.release:
		}
		return
	}

	if remaining != 0 {
		http.Error(w, "upstream error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}
