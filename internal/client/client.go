// Package client is an OrderRepository backed by the dry-cleaner HTTP API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dry-cleaner/internal/model"
	"dry-cleaner/internal/wire"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every request made by the client.
const DefaultTimeout = 10 * time.Second

// Client talks to the API server. Request and response bodies cross the wire
// package, so payloads are snake_case on the network.
type Client struct {
	baseURL    string
	apiKey     string
	sessionID  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client for the API at baseURL.
func New(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		sessionID:  uuid.NewString(),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger.With().Str("component", "api-client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope wraps every success body; Data holds the destination pointer.
type envelope struct {
	Data any `json:"data"`
}

type updateBody struct {
	Status        *model.Status        `json:"status,omitempty"`
	PaymentStatus *model.PaymentStatus `json:"paymentStatus,omitempty"`
}

// List fetches every order.
func (c *Client) List(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single order.
func (c *Client) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var out model.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create submits the order. The server assigns ID, order code, status and
// timestamps; only the client-entered fields are sent.
func (c *Client) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	req := model.OrderRequest{
		ClientName:    order.ClientName,
		ClientPhone:   order.ClientPhone,
		ClientEmail:   order.ClientEmail,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
	}
	for _, item := range order.Items {
		req.Items = append(req.Items, model.LineItemRequest(item))
	}

	var out model.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update sends a partial status/payment-status change.
func (c *Client) Update(ctx context.Context, id string, update model.OrderUpdate) (*model.Order, error) {
	body := updateBody{Status: update.Status, PaymentStatus: update.PaymentStatus}

	var out model.Order
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an order.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/orders/"+url.PathEscape(id), nil, nil)
}

// Search runs a server-side search.
func (c *Client) Search(ctx context.Context, query string) ([]model.Order, error) {
	var out []model.Order
	path := "/api/orders/search?query=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats fetches the dashboard counters. The server computes them against its
// own clock, so today is not sent.
func (c *Client) Stats(ctx context.Context, _ time.Time) (*model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/orders/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := wire.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Session-ID", c.sessionID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return classify(err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	return wire.Decode(resp.Body, &envelope{Data: out})
}

// classify maps transport failures onto the domain error taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", model.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", model.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", model.ErrNetwork, err)
}

func decodeError(resp *http.Response) error {
	var body model.ErrorResponse
	if err := wire.Decode(resp.Body, &body); err != nil || body.Error == "" {
		return model.NewDomainError(model.ErrCodeInternalError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}
	if body.Error == model.ErrCodeNotFound {
		return fmt.Errorf("%w: %s", model.ErrOrderNotFound, body.Message)
	}
	return model.NewDomainError(body.Error, body.Message)
}
