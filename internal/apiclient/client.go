// Package apiclient is the HTTP client the scheduled jobs use to reach the
// CRM API: client-credentials token handling, per-call timeout, and a small
// fixed retry budget for transient failures.
package apiclient

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
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration // per attempt
	Attempts     int
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func New(cfg Config, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// Wire shapes mirroring the API's JSON responses.

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type Order struct {
	ID            string          `json:"id"`
	OrderDate     time.Time       `json:"order_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CustomerEmail string          `json:"customer_email"`
}

type Report struct {
	Customers int             `json:"customers"`
	Orders    int             `json:"orders"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type RestockResult struct {
	Products []Product `json:"products"`
	Message  string    `json:"message"`
}

// Health checks the API without auth; used by the heartbeat job.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, false)
}

func (c *Client) Customers(ctx context.Context) ([]Customer, error) {
	var resp struct {
		Customers []Customer `json:"customers"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/customers", nil, &resp, true)
	return resp.Customers, err
}

func (c *Client) OrdersSince(ctx context.Context, since time.Time) ([]Order, error) {
	var resp struct {
		Orders []Order `json:"orders"`
	}
	path := "/v1/orders?since=" + url.QueryEscape(since.Format(time.RFC3339))
	err := c.do(ctx, http.MethodGet, path, nil, &resp, true)
	return resp.Orders, err
}

func (c *Client) RestockLowStock(ctx context.Context) (RestockResult, error) {
	var resp RestockResult
	err := c.do(ctx, http.MethodPost, "/v1/products/restock-low", nil, &resp, true)
	return resp, err
}

func (c *Client) Report(ctx context.Context) (Report, error) {
	var resp Report
	err := c.do(ctx, http.MethodGet, "/v1/report", nil, &resp, true)
	return resp, err
}

// do runs one API call with the configured retry budget. Network errors and
// 5xx responses are retried; any other non-2xx fails fast. A 401 refreshes
// the token once per attempt.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any, authed bool) error {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt) * 250 * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.once(ctx, method, path, body, out, authed)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
		if c.log != nil {
			c.log.Warn("api call failed, retrying", "method", method, "path", path, "attempt", attempt, "err", err)
		}
	}
	return fmt.Errorf("%s %s after %d attempts: %w", method, path, c.cfg.Attempts, lastErr)
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	// transport-level failure
	return true
}

func (c *Client) once(ctx context.Context, method, path string, body []byte, out any, authed bool) error {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		tok, err := c.bearer(ctx, false)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && authed {
		// token may have expired server-side; refresh and replay once
		tok, err := c.bearer(ctx, true)
		if err != nil {
			return err
		}
		req2, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		if len(body) > 0 {
			req2.Header.Set("Content-Type", "application/json")
		}
		req2.Header.Set("Authorization", "Bearer "+tok)
		resp2, err := c.http.Do(req2)
		if err != nil {
			return err
		}
		defer resp2.Body.Close()
		resp = resp2
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// bearer returns a cached token, fetching a fresh one when missing, near
// expiry, or when force is set.
func (c *Client) bearer(ctx context.Context, force bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !force && c.token != "" && time.Until(c.tokenExp) > 30*time.Second {
		return c.token, nil
	}

	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(b))}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access_token")
	}
	c.token = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}
