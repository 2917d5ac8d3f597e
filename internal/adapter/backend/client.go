package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	wrap "github.com/Temutjin2k/safebike-web/pkg/logger/wrapper"
	"github.com/Temutjin2k/safebike-web/pkg/metrics"
)

const maxBodySize = 4 << 20

// TokenSource supplies the bearer token of the current session.
type TokenSource interface {
	Token() string
}

// Client is the single place outbound requests to the courier backend are built.
// It has no retries and does not queue requests.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logger.Logger
}

func New(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// NewWithHTTPClient lets tests and callers supply their own transport.
func NewWithHTTPClient(baseURL string, hc *http.Client, log logger.Logger) *Client {
	c := New(baseURL, 0, log)
	c.http = hc
	return c
}

// With returns a copy of the client bound to a session's token.
func (c *Client) With(tokens TokenSource) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// do sends one request. A nil body sends no payload; a nil out discards the response.
func (c *Client) do(ctx context.Context, op, method, path string, body any, out func([]byte) error) error {
	started := time.Now()
	status := 0
	defer func() {
		metrics.RecordBackendCall(op, status, time.Since(started))
	}()

	fullURL := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		err = wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrBackendUnavailable, err))
		c.log.Error(ctx, "backend request failed", err, "method", method, "url", fullURL)
		return err
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: read response: %w: %w", op, types.ErrBackendUnavailable, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Method:  method,
			URL:     fullURL,
			Message: errorMessage(raw),
		}
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		if resp.StatusCode >= 500 {
			c.log.Error(ctx, "backend answered with an error", apiErr, "status", resp.StatusCode)
		} else {
			c.log.Warn(ctx, "backend rejected request", "status", resp.StatusCode, "method", method, "url", fullURL, "message", apiErr.Message)
		}
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, apiErr))
	}

	c.log.Debug(ctx, "backend request done", "method", method, "url", fullURL, "status", resp.StatusCode, "duration", time.Since(started).String())

	if out == nil {
		return nil
	}
	if err := out(raw); err != nil {
		ctx = wrap.WithAction(ctx, "decode_backend_response")
		return wrap.Error(ctx, fmt.Errorf("%s: decode response: %w: %w", op, types.ErrBackendFailed, err))
	}
	return nil
}

func packagePath(id string, suffix string) string {
	return "/packages/" + url.PathEscape(id) + suffix
}

// IsUnauthorized reports whether err came from a 401 answer.
func IsUnauthorized(err error) bool {
	return errors.Is(err, types.ErrUnauthorized)
}
