package config

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// PrintConfig writes the effective configuration to stdout with secrets masked.
func PrintConfig(cfg *Config) {
	WriteConfig(os.Stdout, cfg)
}

func WriteConfig(w io.Writer, cfg *Config) {
	if cfg == nil {
		return
	}

	lines := []struct{ key, value string }{
		{"mode", string(cfg.Mode)},
		{"http.port", cfg.HTTP.Port},
		{"backend.base_url", cfg.Backend.BaseURL},
		{"backend.timeout", cfg.Backend.Timeout.String()},
		{"session.storage", string(cfg.Session.Storage)},
		{"session.cookie_name", cfg.Session.CookieName},
		{"session.ttl", cfg.Session.TTL.String()},
		{"session.secure", fmt.Sprint(cfg.Session.Secure)},
		{"redis.url", maskURL(cfg.Redis.URL)},
		{"database.host", cfg.Database.Host},
		{"database.port", cfg.Database.Port},
		{"database.user", cfg.Database.User},
		{"database.password", mask(cfg.Database.Password)},
		{"database.database", cfg.Database.Database},
		{"rabbitmq.enabled", fmt.Sprint(cfg.RabbitMQ.Enabled)},
		{"rabbitmq.host", cfg.RabbitMQ.Host},
		{"rabbitmq.user", cfg.RabbitMQ.User},
		{"rabbitmq.password", mask(cfg.RabbitMQ.Password)},
		{"csrf.auth_key", mask(cfg.CSRF.AuthKey)},
		{"log.level", cfg.Log.Level},
	}

	fmt.Fprintln(w, "Configuration:")
	for _, l := range lines {
		fmt.Fprintf(w, "  %-22s %s\n", l.key, l.value)
	}
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}

// maskURL hides the password part of a connection url.
func maskURL(raw string) string {
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return raw
	}
	creds := raw[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		creds = creds[:colon] + ":****"
	}
	return raw[:scheme+3] + creds + raw[at:]
}
