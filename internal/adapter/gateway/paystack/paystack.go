// Package paystack verifies checkout references against the Paystack API.
package paystack

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"sacco-backend/internal/domain/payment"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://api.paystack.co"

type Client struct {
	http *resty.Client
}

var _ payment.Gateway = (*Client)(nil)

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		PaidAt    string `json:"paid_at"`
	} `json:"data"`
}

func New(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &Client{http: c}
}

// Verify looks up a transaction by reference. An unknown reference is
// payment.ErrNotVerified; transport failures are returned as-is.
func (c *Client) Verify(ctx context.Context, reference string) (*payment.Verification, error) {
	var body verifyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		SetError(&body).
		Get("/transaction/verify/" + url.PathEscape(reference))
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound || resp.StatusCode() == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", payment.ErrNotVerified, body.Message)
	case resp.IsError():
		return nil, fmt.Errorf("paystack verify: status %d: %s", resp.StatusCode(), body.Message)
	case !body.Status:
		return nil, fmt.Errorf("%w: %s", payment.ErrNotVerified, body.Message)
	}

	return &payment.Verification{
		Reference:   body.Data.Reference,
		Success:     body.Data.Status == "success",
		AmountMinor: body.Data.Amount,
		Currency:    body.Data.Currency,
		PaidAt:      body.Data.PaidAt,
	}, nil
}
