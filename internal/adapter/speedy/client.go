package speedy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// PickupExpiredContext is the remote error context the courier returns when
// the requested pickup window has already passed for the day.
const PickupExpiredContext = "planned.pickup.date.expired"

// RemoteError mirrors the error object embedded in courier API responses.
type RemoteError struct {
	Context string          `json:"context"`
	Message string          `json:"message"`
	Raw     json.RawMessage `json:"-"`
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("courier error: %s", e.Context)
}

// PickupExpired reports whether the failure was the expired pickup window.
func (e *RemoteError) PickupExpired() bool {
	return e.Context == PickupExpiredContext
}

// Credentials identify this integration against the courier API. They are
// injected into every request body, which is how the API authenticates.
type Credentials struct {
	UserName string
	Password string
	Language string
}

// Client exposes courier API operations.
type Client interface {
	FindSite(ctx context.Context, countryID int64, cityName, postCode string) ([]Site, error)
	FindStreet(ctx context.Context, siteID int64, name string) ([]Street, error)
	CreateShipment(ctx context.Context, req ShipmentRequest) (*ShipmentResult, error)
	ListOffices(ctx context.Context, countryID, siteID int64) (json.RawMessage, error)
}

// HTTPClient implements Client via the courier's JSON-over-POST API.
type HTTPClient struct {
	baseURL     *url.URL
	credentials Credentials
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewHTTPClient creates an HTTP courier client with default timeout.
func NewHTTPClient(baseURL string, credentials Credentials, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse courier url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("courier url must be absolute")
	}
	if credentials.Language == "" {
		credentials.Language = "EN"
	}
	return &HTTPClient{
		baseURL:     parsed,
		credentials: credentials,
		logger:      logger,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// FindSite queries the courier gazetteer for city candidates. An empty slice
// is a legitimate response, not an error.
func (c *HTTPClient) FindSite(ctx context.Context, countryID int64, cityName, postCode string) ([]Site, error) {
	payload := siteRequest{
		UserName:  c.credentials.UserName,
		Password:  c.credentials.Password,
		Language:  c.credentials.Language,
		CountryID: countryID,
		Name:      cityName,
		PostCode:  postCode,
	}

	var data siteResponse
	if err := c.post(ctx, "/location/site/", payload, &data); err != nil {
		return nil, err
	}
	if data.Error != nil {
		return nil, data.Error
	}
	return data.Sites, nil
}

// FindStreet queries the courier gazetteer for street candidates within a site.
func (c *HTTPClient) FindStreet(ctx context.Context, siteID int64, name string) ([]Street, error) {
	payload := streetRequest{
		UserName: c.credentials.UserName,
		Password: c.credentials.Password,
		Language: c.credentials.Language,
		SiteID:   siteID,
		Name:     name,
	}

	var data streetResponse
	if err := c.post(ctx, "/location/street/", payload, &data); err != nil {
		return nil, err
	}
	if data.Error != nil {
		return nil, data.Error
	}
	return data.Streets, nil
}

// CreateShipment registers a shipment with the courier. On remote rejection
// the returned error is a *RemoteError carrying the courier's error context
// and raw body.
func (c *HTTPClient) CreateShipment(ctx context.Context, req ShipmentRequest) (*ShipmentResult, error) {
	req.UserName = c.credentials.UserName
	req.Password = c.credentials.Password
	req.Language = c.credentials.Language

	body, err := c.postRaw(ctx, "/shipment/", req)
	if err != nil {
		return nil, err
	}

	var data shipmentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode shipment response: %w", err)
	}
	if data.Error != nil {
		data.Error.Raw = body
		c.logger.Error("shipment creation rejected",
			slog.String("context", data.Error.Context),
			slog.String("message", data.Error.Message),
		)
		return nil, data.Error
	}
	if data.ShipmentOrderNumber == "" {
		return nil, fmt.Errorf("shipment response missing order number")
	}

	return &ShipmentResult{
		ShipmentOrderNumber: data.ShipmentOrderNumber,
		Waybill:             data.Waybill,
		Raw:                 body,
	}, nil
}

// ListOffices returns the courier's office list, optionally narrowed to one
// site, as the raw response body.
func (c *HTTPClient) ListOffices(ctx context.Context, countryID, siteID int64) (json.RawMessage, error) {
	payload := officeRequest{
		UserName:  c.credentials.UserName,
		Password:  c.credentials.Password,
		Language:  c.credentials.Language,
		CountryID: countryID,
		SiteID:    siteID,
	}
	return c.postRaw(ctx, "/location/office/", payload)
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := c.postRaw(ctx, endpoint, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode courier response: %w", err)
	}
	return nil
}

func (c *HTTPClient) postRaw(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint) + "/"

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
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

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		remote := decodeRemoteError(body)
		if remote != nil {
			return nil, remote
		}
		return nil, fmt.Errorf("courier request rejected: %s", resp.Status)
	default:
		c.logger.Error("courier request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("courier error: %s", resp.Status)
	}
}

func decodeRemoteError(body []byte) *RemoteError {
	var envelope struct {
		Error *RemoteError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == nil {
		return nil
	}
	envelope.Error.Raw = body
	return envelope.Error
}
