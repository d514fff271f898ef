package jikan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	DefaultBaseURL   = "https://api.jikan.moe/v4"
	DefaultUserAgent = "Jikan-Proxy/1.0"
	DefaultTimeout   = 12 * time.Second

	maxBodyBytes = 8 << 20
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	maxRetries int
	retryDelay time.Duration
}

type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:  cfg.UserAgent,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries: cfg.MaxRetries,
		retryDelay: 500 * time.Millisecond,
	}
}

// Payload is the Jikan v4 response envelope. Data is left raw because its shape
// depends on the endpoint and may be an object, an array or null.
type Payload struct {
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	CurrentPage     int  `json:"current_page"`
}

// HasNextPage reports the pagination flag, false when pagination is absent.
func (p *Payload) HasNextPage() bool {
	return p != nil && p.Pagination != nil && p.Pagination.HasNextPage
}

// IsArray reports whether Data holds a JSON array.
func (p *Payload) IsArray() bool {
	if p == nil {
		return false
	}
	trimmed := bytes.TrimSpace(p.Data)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// IsEmpty reports whether Data is missing or null.
func (p *Payload) IsEmpty() bool {
	if p == nil {
		return true
	}
	trimmed := bytes.TrimSpace(p.Data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Error is returned for every failed call. Status is the upstream HTTP status,
// or 500 when no response was received.
type Error struct {
	Status  int
	Message string
	Details json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("jikan: status %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MaxCallDuration is the longest a single Get can take: every attempt running
// into the timeout, plus the backoff delays between attempts.
func (c *Client) MaxCallDuration() time.Duration {
	total := time.Duration(c.maxRetries+1) * c.httpClient.Timeout
	for n := 0; n < c.maxRetries; n++ {
		total += c.retryDelay << min(n, 30)
	}
	return total
}

func (e *Error) retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Get requests path with params and decodes the envelope. Failed attempts with
// status 429, 5xx or a transport error are retried up to the configured limit.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*Payload, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var payload *Payload
	err := retry.Do(
		func() error {
			p, err := c.get(ctx, u)
			if err != nil {
				return err
			}
			payload = p
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)+1),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var jerr *Error
			return errors.As(err, &jerr) && jerr.retryable()
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("jikan retry attempt=%d url=%s error=%v", n+1, u, err)
		}),
	)
	if err != nil {
		var jerr *Error
		if errors.As(err, &jerr) {
			return nil, jerr
		}
		return nil, &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, u string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, retry.Unrecoverable(&Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err})
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, body)
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, retry.Unrecoverable(&Error{
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("decode response: %v", err),
			Err:     err,
		})
	}
	return &p, nil
}

func newStatusError(status int, body []byte) *Error {
	e := &Error{Status: status, Message: http.StatusText(status)}
	if !json.Valid(body) {
		return e
	}
	e.Details = json.RawMessage(body)

	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		e.Message = msg.Message
	}
	return e
}
