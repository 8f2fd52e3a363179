// Package backend talks to the retail REST backend. Every request goes through Client,
// which attaches the session token, maps failures onto apperror kinds and forces a logout
// when the backend rejects the token.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/utils"
	"golang.org/x/oauth2"
)

const maxErrorBody = 1 << 20

// SessionReader gives the client the current session, if any
type SessionReader interface {
	Get() (*entity.Session, bool)
}

// Config holds the client settings
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Sessions supplies the bearer token of authenticated calls
	Sessions SessionReader
	// OnUnauthorized runs when the backend answers 401 to an authenticated call
	OnUnauthorized func()
	Logger         *slog.Logger
	// Transport overrides http.DefaultTransport
	Transport http.RoundTripper
}

// Client is the single wrapper every backend call goes through
type Client struct {
	baseURL        string
	authed         *http.Client
	public         *http.Client
	onUnauthorized func()
	logger         *slog.Logger
}

// sessionTokenSource feeds the session token to oauth2.Transport. It is read on every
// request so a login or logout takes effect immediately.
type sessionTokenSource struct {
	sessions SessionReader
}

func (s sessionTokenSource) Token() (*oauth2.Token, error) {
	if s.sessions == nil {
		return nil, apperror.ErrNoSession
	}
	session, ok := s.sessions.Get()
	if !ok || session.Token == "" {
		return nil, apperror.ErrNoSession
	}
	return &oauth2.Token{AccessToken: session.Token, TokenType: "Bearer", Expiry: session.ExpiresAt}, nil
}

// NewClient creates a new backend client
func NewClient(cfg Config) *Client {
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		authed: &http.Client{
			Timeout:   timeout,
			Transport: &oauth2.Transport{Source: sessionTokenSource{sessions: cfg.Sessions}, Base: base},
		},
		public:         &http.Client{Timeout: timeout, Transport: base},
		onUnauthorized: cfg.OnUnauthorized,
		logger:         logger.With("component", "backend"),
	}
}

// request describes one backend call
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// public calls carry no token and never trigger a forced logout
	public bool
	// resource names the entity in NotFound errors
	resource string
	// fallback is the message used when the backend sends none
	fallback string
}

func (c *Client) newHTTPRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", r.path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", r.path, err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", utils.RequestIDFrom(ctx))
	return req, nil
}

// send performs the call and returns the response of a 2xx answer. Any other outcome is
// mapped to an AppError and the body is closed.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	req, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	client := c.authed
	if r.public {
		client = c.public
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, apperror.ErrNoSession) {
			return nil, apperror.ErrNoSession
		}
		c.logger.Warn("backend unreachable",
			"method", r.method,
			"path", r.path,
			"request_id", req.Header.Get("X-Request-ID"),
			"error", err,
		)
		return nil, apperror.NewTransportError(err)
	}

	c.logger.Debug("backend call",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"latency", time.Since(start),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, c.statusError(r, resp.StatusCode, body, req.Header.Get("X-Request-ID"))
}

func (c *Client) statusError(r request, status int, body []byte, requestID string) error {
	msg := backendMessage(body)

	switch {
	case status == http.StatusUnauthorized && !r.public:
		c.logger.Warn("backend rejected the session token", "path", r.path, "request_id", requestID)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return apperror.ErrUnauthorized
	case status == http.StatusNotFound:
		if r.resource != "" {
			return apperror.NewNotFoundError(r.resource)
		}
		return apperror.NewAppError(apperror.KindNotFound, http.StatusNotFound, firstNonEmpty(msg, "Not found"))
	case status == http.StatusForbidden:
		return apperror.NewAppError(apperror.KindForbidden, http.StatusForbidden, firstNonEmpty(msg, apperror.ErrForbidden.Message))
	case status >= 500:
		c.logger.Error("backend server error",
			"method", r.method,
			"path", r.path,
			"status", status,
			"message", msg,
			"request_id", requestID,
		)
	}
	return apperror.NewServerError(status, msg, r.fallback)
}

// do sends r and decodes a JSON answer into out. out may be nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		c.logger.Warn("undecodable backend response", "path", r.path, "error", err)
		return apperror.NewServerError(resp.StatusCode, "", "Unexpected response from the server")
	}
	return nil
}

// download sends r and returns the raw body
func (c *Client) download(ctx context.Context, r request) ([]byte, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewTransportError(err)
	}
	return data, nil
}

func pathf(format string, args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(format, escaped...)
}
