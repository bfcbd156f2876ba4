package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when no store/token pair was supplied.
var ErrNotConfigured = errors.New("shopify client not configured")

// ErrOrderNotFound indicates the platform doesn't know the order.
var ErrOrderNotFound = errors.New("order not found")

const apiVersion = "2024-01"

// Client reads orders back from the source e-commerce platform.
type Client interface {
	FetchOrder(ctx context.Context, orderID string) (json.RawMessage, error)
}

// HTTPClient implements Client against the Shopify admin API.
type HTTPClient struct {
	store      string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates an admin-API client. Store and token may be empty, in
// which case every call reports ErrNotConfigured.
func NewHTTPClient(store, token string) *HTTPClient {
	return &HTTPClient{
		store: store,
		token: token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Configured reports whether the client can reach the platform.
func (c *HTTPClient) Configured() bool {
	return c.store != "" && c.token != ""
}

// FetchOrder retrieves one order by platform id as the raw response body.
func (c *HTTPClient) FetchOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("https://%s.myshopify.com/admin/api/%s/orders/%s.json", c.store, apiVersion, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrOrderNotFound
	default:
		return nil, fmt.Errorf("shopify error: %s", resp.Status)
	}
}
