package middleware

import (
	"time"

	"github.com/Temutjin2k/safebike-web/internal/session"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
)

type (
	// SessionOptions describes the session cookie.
	SessionOptions struct {
		CookieName string
		TTL        time.Duration
		Secure     bool
	}

	Middleware struct {
		storage session.Storage
		opts    SessionOptions
		log     logger.Logger
	}
)

func NewMiddleware(storage session.Storage, opts SessionOptions, log logger.Logger) *Middleware {
	return &Middleware{
		storage: storage,
		opts:    opts,
		log:     log,
	}
}
