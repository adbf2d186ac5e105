package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/config"
	"github.com/stemsi/seatdesk/internal/response"
)

// maxBodyBytes caps how much of a reply is read.
const maxBodyBytes = 16 << 20

// Client talks to the exam administration server. It keeps the session and
// CSRF cookies in a jar and echoes the CSRF cookie on every mutating call.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	jar        http.CookieJar
	csrfCookie string
	csrfHeader string
	log        zerolog.Logger
	now        func() time.Time
}

// New creates a Client for cfg.ServerURL.
func New(cfg *config.Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", cfg.ServerURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    base,
		http:       &http.Client{Timeout: timeout, Jar: jar},
		jar:        jar,
		csrfCookie: cfg.CSRFCookieName,
		csrfHeader: cfg.CSRFHeaderName,
		log:        log.With().Str("component", "apiclient").Logger(),
		now:        time.Now,
	}, nil
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string {
	return strings.TrimRight(c.baseURL.String(), "/")
}

// CSRFToken returns the current CSRF cookie value, or "" if none was issued.
func (c *Client) CSRFToken() string {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == c.csrfCookie {
			return ck.Value
		}
	}
	return ""
}

// ────────────────────────────────────────────────────────────────────────────
// Request plumbing
// ────────────────────────────────────────────────────────────────────────────

// getJSON issues a GET and decodes the success body into out.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	// Cache buster; list views must never render a stale copy.
	query.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))

	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return response.Transport(op, err)
	}
	_, err = c.send(op, req, out)
	return err
}

// postJSON issues a JSON POST and decodes the success body into out.
func (c *Client) postJSON(ctx context.Context, op, path string, body, out interface{}) error {
	_, err := c.postRaw(ctx, op, path, body, out)
	return err
}

// postRaw is postJSON that also returns the undecoded success body.
func (c *Client) postRaw(ctx context.Context, op, path string, body, out interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, response.Transport(op, fmt.Errorf("encode body: %w", err))
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, response.Transport(op, err)
	}
	return c.send(op, req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set(response.HeaderRequestID, response.NewRequestID())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if method != http.MethodGet {
		if token := c.CSRFToken(); token != "" {
			req.Header.Set(c.csrfHeader, token)
		}
	}
	return req, nil
}

// send executes req and classifies the outcome. The success body is decoded
// into out (when non-nil) and returned undecoded.
func (c *Client) send(op string, req *http.Request, out interface{}) ([]byte, error) {
	start := time.Now()
	reqID := req.Header.Get(response.HeaderRequestID)

	resp, err := c.http.Do(req)
	if err != nil {
		ev := c.log.Error()
		if isCanceled(err) {
			ev = c.log.Warn()
		}
		ev.Err(err).Str("op", op).Str("request_id", reqID).Msg("Request failed")
		return nil, response.Transport(op, err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "br") {
		body = brotli.NewReader(resp.Body)
	}
	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Str("request_id", reqID).Msg("Read body failed")
		return nil, response.Transport(op, fmt.Errorf("read body: %w", err))
	}

	c.log.Debug().
		Str("op", op).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("request_id", reqID).
		Msg("Request completed")

	var env response.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// No envelope at all: proxy pages, HTML error screens, empty bodies.
		if resp.StatusCode >= http.StatusBadRequest {
			err = fmt.Errorf("http %d", resp.StatusCode)
		} else {
			err = fmt.Errorf("decode envelope: %w", err)
		}
		c.log.Error().Err(err).Str("op", op).Str("request_id", reqID).Msg("Unreadable reply")
		return nil, response.Transport(op, err)
	}

	if !env.OK() {
		appErr := response.Application(op, resp.StatusCode, env.Code, env.Message)
		appErr.RequestID = reqID
		c.log.Warn().Str("op", op).Str("request_id", reqID).Str("message", env.Message).Msg("Server reported failure")
		return nil, appErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, response.Transport(op, fmt.Errorf("decode payload: %w", err))
		}
	}
	return raw, nil
}

// isCanceled reports whether err came from the caller giving up.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
