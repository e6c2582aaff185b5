// Package discord provides the REST client behind the bot's directory port
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"rolelink/internal/core/rate"
	perr "rolelink/internal/platform/errors"
	"rolelink/internal/platform/logger"
)

const (
	baseURLDefault   = "https://discord.com/api/v10"
	defaultTimeout   = 10 * time.Second
	defaultUA        = "rolelink-bot"
	defaultMaxRetry  = 5
	defaultRetryBase = 500 * time.Millisecond
)

// RoleRule computes the role ids to grant and revoke for a member during a
// refresh. Wiring supplies it so the client stays pure transport.
type RoleRule func(ctx context.Context, userID string) (add, remove []string, err error)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Token is the bot token, sent on every request
	Token string

	// GuildIDs are the servers whose membership a refresh touches
	GuildIDs []string

	// Rule decides role changes per member, required for RefreshUserRoles
	Rule RoleRule

	MaxRetries int
	RetryBase  time.Duration
}

// Client is a minimal Discord REST client with retry and rate-window handling
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time

	mu     sync.Mutex
	window rate.Rate
}

// New creates a Client with sane defaults
func New(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("discord"),
		now:  time.Now,
	}
}

// waitForWindow blocks while the local rate window says the next call would
// be throttled. An expired window never limits.
func (c *Client) waitForWindow(ctx context.Context) error {
	for {
		c.mu.Lock()
		w := c.window
		c.mu.Unlock()

		if !w.ShouldLimit() {
			return nil
		}
		wait := time.Until(w.ResetAt)
		if wait <= 0 {
			return nil
		}
		c.log.Debug().Dur("wait", wait).Msg("rate window exhausted, waiting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// observeRate refreshes the local window from response headers, falling back
// to consuming a permit when the server sent none
func (c *Client) observeRate(h http.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()

	remStr := h.Get("X-RateLimit-Remaining")
	resetStr := h.Get("X-RateLimit-Reset-After")
	if remStr == "" || resetStr == "" {
		c.window = c.window.Consume()
		return
	}
	rem, err1 := strconv.ParseInt(remStr, 10, 64)
	resetAfter, err2 := strconv.ParseFloat(resetStr, 64)
	if err1 != nil || err2 != nil {
		c.window = c.window.Consume()
		return
	}
	c.window = rate.New(rem, c.now().Add(time.Duration(resetAfter*float64(time.Second))))
}

// do issues one JSON request with auth, retry, and rate handling. The decoded
// body lands in out when out is non-nil and the response carries content.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "encode request body")
		}
		payload = b
	}

	attempts := 0
	for {
		if err := c.waitForWindow(ctx); err != nil {
			return err
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.opts.BaseURL+path, body)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnknown, "discord new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Authorization", "Bot "+c.opts.Token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if attempts >= c.opts.MaxRetries {
				return perr.Wrap(err, perr.ErrorCodeUnavailable, "discord request failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempts).
				Msg("discord transport error, retrying")
			if err := sleepCtx(ctx, back); err != nil {
				return err
			}
			attempts++
			continue
		}

		c.observeRate(resp.Header)

		switch {
		case resp.StatusCode == http.StatusNoContent:
			_ = resp.Body.Close()
			return nil
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			defer resp.Body.Close()
			if out == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return perr.Wrap(err, perr.ErrorCodeJSON, "decode discord response")
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp.Header)
			_ = drain(resp.Body)
			if attempts >= c.opts.MaxRetries {
				return perr.Newf(perr.ErrorCodeTooManyRequests, "discord rate limited on %s %s", method, path)
			}
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			c.log.Warn().Dur("sleep", wait).Str("path", path).Msg("discord rate limited, backing off")
			if err := sleepCtx(ctx, wait); err != nil {
				return err
			}
			attempts++
			continue
		case resp.StatusCode == http.StatusBadGateway ||
			resp.StatusCode == http.StatusServiceUnavailable ||
			resp.StatusCode == http.StatusGatewayTimeout:
			_ = drain(resp.Body)
			if attempts >= c.opts.MaxRetries {
				return perr.Newf(perr.ErrorCodeUnavailable, "discord unavailable on %s %s", method, path)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("status", resp.StatusCode).
				Msg("discord transient error, retrying")
			if err := sleepCtx(ctx, back); err != nil {
				return err
			}
			attempts++
			continue
		case resp.StatusCode == http.StatusNotFound:
			_ = drain(resp.Body)
			return perr.NotFoundf("discord %s %s returned 404", method, path)
		default:
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return perr.Newf(perr.ErrorCodeUnknown,
				"discord unexpected status %d on %s %s: %s", resp.StatusCode, method, path, string(tail))
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if ceil := 30 * time.Second; d > ceil {
		d = ceil
	}
	return d
}

func retryAfter(h http.Header) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return 0
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func drain(r io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 4096))
	return r.Close()
}
