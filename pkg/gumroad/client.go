package gumroad

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// Sale is the subset of a Gumroad sale record the backend cares about.
type Sale struct {
	Success        bool   `json:"success"`
	ProductID      string `json:"product_id"`
	Email          string `json:"email"`
	SubscriptionID string `json:"subscription_id"`
	Refunded       bool   `json:"refunded"`
}

// Client verifies Gumroad sales against their API
type Client struct {
	baseURL  string
	sellerID string
	client   *http.Client
}

// NewClient creates a Gumroad client
func NewClient(baseURL, sellerID string) *Client {
	if baseURL == "" {
		baseURL = "https://api.gumroad.com"
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		sellerID: sellerID,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// VerifySale fetches the sale record for a ping payload. Transient failures
// retry with exponential backoff; a definitive rejection does not.
func (c *Client) VerifySale(ctx context.Context, saleID string) (*Sale, error) {
	var sale *Sale

	fetch := func() error {
		form := url.Values{}
		form.Set("seller_id", c.sellerID)

		req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/v2/sales/%s?%s", c.baseURL, saleID, form.Encode()), nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("gumroad returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("gumroad rejected sale lookup with status %d", resp.StatusCode))
		}

		var payload struct {
			Success bool `json:"success"`
			Sale    Sale `json:"sale"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode gumroad response: %w", err))
		}
		payload.Sale.Success = payload.Success
		sale = &payload.Sale
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 20 * time.Second

	if err := backoff.Retry(fetch, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return sale, nil
}
