package relay

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the broker-facing environment for every relay process. The
// defaults match the platform's compose setup: a broker container named
// "rabbitmq" with the shared guest credentials.
type Config struct {
	Host     string `env:"RABBITMQ_HOST" envDefault:"rabbitmq"`
	User     string `env:"RABBITMQ_USER" envDefault:"guest"`
	Password string `env:"RABBITMQ_PASS" envDefault:"guest123"`

	WireFormat string `env:"WIRE_FORMAT" envDefault:"legacy"`

	RetryInterval time.Duration `env:"BROKER_RETRY_INTERVAL" envDefault:"5s"`
	// MaxRetries of zero retries forever, waiting out a broker that is
	// still starting.
	MaxRetries int `env:"BROKER_MAX_RETRIES" envDefault:"0"`

	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// URL assembles the AMQP connection URL. A Host without a port gets the
// default AMQP port.
func (c Config) URL() string {
	host := c.Host
	if !strings.Contains(host, ":") {
		host += ":5672"
	}
	return fmt.Sprintf("amqp://%s:%s@%s", c.User, c.Password, host)
}

// Codec resolves the configured wire format.
func (c Config) Codec() (Codec, error) {
	return CodecByName(c.WireFormat)
}
