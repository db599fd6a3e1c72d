// Package payment talks to the hosted checkout-session gateway. The gateway
// is opaque: we hand it line items and metadata, it hosts the payment page
// and redirects back with a session id we can verify.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// LineItem is one purchasable row shown on the hosted payment page.
type LineItem struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amountCents"`
	Quantity    int    `json:"quantity"`
	Currency    string `json:"currency"`
}

// SessionInput creates a hosted checkout session. Metadata is echoed back on
// verification and carries the serialized order payload.
type SessionInput struct {
	OrderNumber string            `json:"orderNumber"`
	Email       string            `json:"email"`
	LineItems   []LineItem        `json:"lineItems"`
	SuccessURL  string            `json:"successUrl"`
	CancelURL   string            `json:"cancelUrl"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Session is a created checkout session; URL is where the shopper pays.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Status is the verified state of a session.
type Status struct {
	ID          string            `json:"id"`
	OrderNumber string            `json:"orderNumber"`
	Email       string            `json:"email"`
	Paid        bool              `json:"paid"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Gateway is what checkout needs from the payment provider.
type Gateway interface {
	CreateSession(ctx context.Context, in SessionInput) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Status, error)
}

// Client is the HTTP Gateway implementation.
type Client struct {
	baseURL string
	secret  string
	httpc   *http.Client
}

func NewClient(baseURL, secret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		httpc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateSession(ctx context.Context, in SessionInput) (*Session, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session: gateway returned %d", resp.StatusCode)
	}

	var out Session
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("create session: decode: %w", err)
	}
	return &out, nil
}

func (c *Client) GetSession(ctx context.Context, sessionID string) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get session: gateway returned %d", resp.StatusCode)
	}

	var out Status
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("get session: decode: %w", err)
	}
	return &out, nil
}
