package payment

import (
	"fmt"
	"math"

	"github.com/go-resty/resty/v2"
)

// Client is the payment provider boundary. Checkout and refund services
// receive it at construction time; tests substitute a fake.
type Client interface {
	CreateCheckoutSession(params CheckoutParams) (*CheckoutSession, error)
	CreateRefund(params RefundParams) (*RefundResult, error)
}

// LineItem is one displayed line on the provider's checkout page.
type LineItem struct {
	Name        string `json:"name"`
	AmountMinor int64  `json:"amount"`
	Quantity    int    `json:"quantity"`
}

// CheckoutParams describes a payment to collect. Metadata must carry the
// internal order id so webhook events can be correlated back.
type CheckoutParams struct {
	AmountMinor   int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Description   string            `json:"description"`
	CustomerEmail string            `json:"customer_email"`
	LineItems     []LineItem        `json:"line_items"`
	Metadata      map[string]string `json:"metadata"`
}

// CheckoutSession is the provider's handle for collecting payment.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type RefundParams struct {
	PaymentRef  string            `json:"payment_ref"`
	AmountMinor int64             `json:"amount"`
	Reason      string            `json:"reason"`
	Metadata    map[string]string `json:"metadata"`
}

type RefundResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// MinorUnits converts a decimal amount to the provider's minor currency
// units (e.g. 29.99 -> 2999).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// RestClient talks to the provider's REST API.
type RestClient struct {
	client  *resty.Client
	baseURL string
}

func NewClient(baseURL, apiKey, secretKey string) *RestClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+apiKey).
		SetHeader("X-Api-Secret", secretKey)

	return &RestClient{client: client, baseURL: baseURL}
}

func (c *RestClient) CreateCheckoutSession(params CheckoutParams) (*CheckoutSession, error) {
	var session CheckoutSession
	resp, err := c.client.R().
		SetBody(params).
		SetResult(&session).
		Post("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create checkout session: provider returned %d: %s", resp.StatusCode(), resp.String())
	}
	if session.ID == "" {
		return nil, fmt.Errorf("create checkout session: provider response missing session id")
	}
	return &session, nil
}

func (c *RestClient) CreateRefund(params RefundParams) (*RefundResult, error) {
	var result RefundResult
	resp, err := c.client.R().
		SetBody(params).
		SetResult(&result).
		Post("/refunds")
	if err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create refund: provider returned %d: %s", resp.StatusCode(), resp.String())
	}
	return &result, nil
}
