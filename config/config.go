package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/pkg/configparser"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
)

// Flags
var (
	modeFlag = flag.String("mode", string(types.WebClient), "application mode")
)

// Errors
var (
	ErrModeNotProvided   = errors.New("mode flag not provided")
	ErrInvalidStorage    = errors.New("invalid session storage")
	ErrInvalidBackendURL = errors.New("invalid backend base url")
	ErrInvalidLogLevel   = errors.New("invalid log level")
	ErrCSRFKeyLength     = errors.New("csrf auth key must be 32 bytes")
	ErrInvalidSessionTTL = errors.New("session ttl must be positive")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		HTTP     HTTPConfig
		Backend  BackendConfig
		Session  SessionConfig
		Redis    RedisConfig
		Database DatabaseConfig
		RabbitMQ RabbitMQConfig
		CSRF     CSRFConfig
		Log      LogConfig
	}

	HTTPConfig struct {
		Port            string        `env:"HTTP_PORT" default:"3000"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" default:"10s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	}

	BackendConfig struct {
		BaseURL string        `env:"BACKEND_BASE_URL" default:"https://safebike.onrender.com/api/v1"`
		Timeout time.Duration `env:"BACKEND_TIMEOUT" default:"15s"`
	}

	SessionConfig struct {
		Storage    types.SessionStorage `env:"SESSION_STORAGE" default:"memory"`
		CookieName string               `env:"SESSION_COOKIE_NAME" default:"safebike_session"`
		TTL        time.Duration        `env:"SESSION_TTL" default:"168h"`
		Secure     bool                 `env:"SESSION_SECURE" default:"false"`
	}

	RedisConfig struct {
		URL string `env:"REDIS_URL" default:"redis://localhost:6379/0"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"safebike_user"`
		Password string `env:"DATABASE_PASSWORD" default:"safebike_pass"`
		Database string `env:"DATABASE_DATABASE" default:"safebike_web"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	CSRFConfig struct {
		AuthKey string `env:"CSRF_AUTH_KEY" default:"0123456789abcdef0123456789abcdef"`
		Secure  bool   `env:"CSRF_SECURE" default:"false"`
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"INFO"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c DatabaseConfig) GetPoolLimits() (int32, int32, time.Duration, time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	// Parsing flags
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the values the application cannot start without.
func (c *Config) Validate() error {
	switch c.Session.Storage {
	case types.MemoryStorage, types.RedisStorage, types.PostgresStorage:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStorage, c.Session.Storage)
	}

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBackendURL, c.Backend.BaseURL)
	}

	c.Log.Level = strings.ToUpper(c.Log.Level)
	if !logger.ValidateLogLevel(c.Log.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}

	if len(c.CSRF.AuthKey) != 32 {
		return ErrCSRFKeyLength
	}

	if c.Session.TTL <= 0 {
		return ErrInvalidSessionTTL
	}

	return nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	cfg.Mode = types.ServiceMode(*modeFlag)

	return nil
}

func (c RedisConfig) GetURL() string {
	return c.URL
}
