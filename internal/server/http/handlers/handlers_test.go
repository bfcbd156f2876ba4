package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/petkovbg/shipgate/internal/adapter/shopify"
	domainErrors "github.com/petkovbg/shipgate/internal/domain/errors"
	"github.com/petkovbg/shipgate/internal/domain/model"
	"github.com/petkovbg/shipgate/internal/server/http/dto"
	"github.com/petkovbg/shipgate/internal/usecase"
)

type stubFacade struct {
	result    *usecase.SubmissionResult
	submitErr error
	lastOrder model.Order

	offices    json.RawMessage
	officesErr error

	platformOrder json.RawMessage
	platformErr   error
	lastOrderID   string
}

func (s *stubFacade) SubmitShipment(ctx context.Context, order model.Order) (*usecase.SubmissionResult, error) {
	s.lastOrder = order
	return s.result, s.submitErr
}

func (s *stubFacade) Offices(ctx context.Context) (json.RawMessage, error) {
	return s.offices, s.officesErr
}

func (s *stubFacade) PlatformOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	s.lastOrderID = orderID
	return s.platformOrder, s.platformErr
}

func performShipmentRequest(facade *stubFacade, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/api/shipments", NewShipmentHandler(facade).Create)

	req := httptest.NewRequest(http.MethodPost, "/api/shipments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorBody {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error
}

const webhookBody = `{
	"id": 42,
	"order_number": 1001,
	"email": "ivan@petrov.bg",
	"current_total_price": "19.90",
	"currency": "BGN",
	"financial_status": "paid",
	"shipping_address": {
		"address1": "ul. Vitosha 15",
		"city": "Sofia",
		"zip": "1000",
		"country": "Bulgaria",
		"phone": "0899000000",
		"first_name": "Ivan",
		"last_name": "Petrov"
	}
}`

func TestCreateShipmentSuccess(t *testing.T) {
	facade := &stubFacade{result: &usecase.SubmissionResult{
		ShipmentData: json.RawMessage(`{"shipmentOrderNumber":"SP123"}`),
	}}

	rec := performShipmentRequest(facade, webhookBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.ShipmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Shipment created successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if string(resp.ShipmentData) != `{"shipmentOrderNumber":"SP123"}` {
		t.Fatalf("unexpected shipment data: %s", resp.ShipmentData)
	}

	if facade.lastOrder.SourceOrderID != 42 {
		t.Fatalf("expected source order id 42, got %d", facade.lastOrder.SourceOrderID)
	}
	if facade.lastOrder.TotalPrice != 19.90 {
		t.Fatalf("expected parsed total price, got %v", facade.lastOrder.TotalPrice)
	}
	if facade.lastOrder.CustomerName != "Ivan Petrov" {
		t.Fatalf("expected recipient name from address, got %q", facade.lastOrder.CustomerName)
	}
	if facade.lastOrder.OrderNumber != "1001" {
		t.Fatalf("expected order number string, got %q", facade.lastOrder.OrderNumber)
	}
}

func TestCreateShipmentReplayMessage(t *testing.T) {
	facade := &stubFacade{result: &usecase.SubmissionResult{
		ShipmentData: json.RawMessage(`{"shipmentOrderNumber":"SP123"}`),
		Replayed:     true,
	}}

	rec := performShipmentRequest(facade, webhookBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp dto.ShipmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Shipment already created" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestCreateShipmentRejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"id": 42,`},
		{"missing shipping address", `{"id": 42}`},
		{"missing id", `{"shipping_address": {"city": "Sofia"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facade := &stubFacade{}
			rec := performShipmentRequest(facade, tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if body := decodeError(t, rec); body.Context != "validation.error" {
				t.Fatalf("expected validation.error context, got %q", body.Context)
			}
			if facade.lastOrder.SourceOrderID != 0 {
				t.Fatal("facade must not be called for rejected payloads")
			}
		})
	}
}

func TestCreateShipmentErrorMapping(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantContext string
	}{
		{
			"field validation",
			&domainErrors.ValidationError{Field: "shipping_address.city"},
			http.StatusBadRequest, "validation.error",
		},
		{
			"site not found",
			&domainErrors.ResolutionError{Kind: domainErrors.SiteNotFound, City: "Nowhere"},
			http.StatusBadRequest, "siteId.error",
		},
		{
			"street not found",
			&domainErrors.ResolutionError{Kind: domainErrors.StreetNotFound, City: "Sofia", Street: "Nonexistent"},
			http.StatusBadRequest, "streetId.error",
		},
		{
			"courier down during site lookup",
			&domainErrors.ResolutionError{Kind: domainErrors.RemoteUnavailable, City: "Sofia", Err: errors.New("connection refused")},
			http.StatusInternalServerError, "siteId.error",
		},
		{
			"courier down during street lookup",
			&domainErrors.ResolutionError{Kind: domainErrors.RemoteUnavailable, City: "Sofia", Street: "Vitosha 15", Err: errors.New("connection refused")},
			http.StatusInternalServerError, "streetId.error",
		},
		{
			"remote rejection",
			&domainErrors.ShipmentCreationError{RemoteContext: "invalid.recipient", Message: "bad recipient"},
			http.StatusInternalServerError, "shipment_creation_error",
		},
		{
			"persistence failure",
			&domainErrors.PersistenceError{Op: "claim shipment", Err: errors.New("boom")},
			http.StatusInternalServerError, "shipment_creation_error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			facade := &stubFacade{submitErr: tc.err}
			rec := performShipmentRequest(facade, webhookBody)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			if body := decodeError(t, rec); body.Context != tc.wantContext {
				t.Fatalf("expected context %q, got %q", tc.wantContext, body.Context)
			}
		})
	}
}

func TestCreateShipmentIncludesOfficeSuggestion(t *testing.T) {
	facade := &stubFacade{submitErr: &domainErrors.ShipmentCreationError{
		RemoteContext: "planned.pickup.date.expired",
		Message:       "pickup no longer possible today",
		Suggestion: &domainErrors.OfficeSuggestion{
			Reason:  "planned.pickup.date.expired",
			SiteID:  68134,
			Offices: json.RawMessage(`{"offices":[{"id":1}]}`),
		},
	}}

	rec := performShipmentRequest(facade, webhookBody)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Suggestion == nil {
		t.Fatal("expected office suggestion in response")
	}
	if body.Suggestion.SiteID != 68134 {
		t.Fatalf("unexpected suggestion site: %d", body.Suggestion.SiteID)
	}
}

func TestOfficeList(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		facade := &stubFacade{offices: json.RawMessage(`{"offices":[{"id":1}]}`)}
		engine := gin.New()
		engine.GET("/api/offices", NewOfficeHandler(facade).List)

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/offices", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != `{"offices":[{"id":1}]}` {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("courier failure", func(t *testing.T) {
		facade := &stubFacade{officesErr: errors.New("courier down")}
		engine := gin.New()
		engine.GET("/api/offices", NewOfficeHandler(facade).List)

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/offices", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Context != "office_fetch_error" {
			t.Fatalf("unexpected context %q", body.Context)
		}
	})
}

func TestOrderFetch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newEngine := func(facade *stubFacade) *gin.Engine {
		engine := gin.New()
		engine.GET("/api/orders/:orderID", NewOrderHandler(facade).Fetch)
		return engine
	}

	t.Run("success", func(t *testing.T) {
		facade := &stubFacade{platformOrder: json.RawMessage(`{"order":{"id":42}}`)}
		rec := httptest.NewRecorder()
		newEngine(facade).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/42", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if facade.lastOrderID != "42" {
			t.Fatalf("expected order id 42, got %q", facade.lastOrderID)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		facade := &stubFacade{platformErr: shopify.ErrNotConfigured}
		rec := httptest.NewRecorder()
		newEngine(facade).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/42", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		facade := &stubFacade{platformErr: shopify.ErrOrderNotFound}
		rec := httptest.NewRecorder()
		newEngine(facade).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/42", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("platform failure", func(t *testing.T) {
		facade := &stubFacade{platformErr: errors.New("rate limited")}
		rec := httptest.NewRecorder()
		newEngine(facade).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/42", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if body := decodeError(t, rec); body.Context != "order_fetch_error" {
			t.Fatalf("unexpected context %q", body.Context)
		}
	})
}
