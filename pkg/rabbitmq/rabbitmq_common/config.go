package rabbitmq_common

import (
	"fmt"
	"net/url"
)

// Config - общие настройки подключения для producer'ов
type Config struct {
	URL string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rabbitmq: URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: invalid URL: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return fmt.Errorf("rabbitmq: unsupported URL scheme %q", u.Scheme)
	}
	return nil
}
