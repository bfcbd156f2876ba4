package test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/petkovbg/shipgate/internal/adapter/speedy"
	domainErrors "github.com/petkovbg/shipgate/internal/domain/errors"
	"github.com/petkovbg/shipgate/internal/domain/model"
	"github.com/petkovbg/shipgate/internal/domain/repository"
)

// OrderRepositoryStub keeps orders in memory keyed by source order id.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[int64]*model.Order
	Next   int64
	Err    error
}

// NewOrderRepositoryStub constructs the stub with initialized state.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[int64]*model.Order), Next: 1}
}

// Upsert stores the order once; redeliveries return the stored row.
func (s *OrderRepositoryStub) Upsert(ctx context.Context, order model.Order) (*model.Order, bool, error) {
	if s.Err != nil {
		return nil, false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.Orders[order.SourceOrderID]; ok {
		return existing, false, nil
	}
	stored := order
	stored.ID = s.Next
	s.Next++
	s.Orders[order.SourceOrderID] = &stored
	return &stored, true, nil
}

// GetBySourceID returns the stored order or ErrNotFound.
func (s *OrderRepositoryStub) GetBySourceID(ctx context.Context, sourceOrderID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.Orders[sourceOrderID]; ok {
		return order, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID scans stored orders by primary key.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.Orders {
		if order.ID == orderID {
			return order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ShipmentRepositoryStub keeps at most one shipment per order in memory.
type ShipmentRepositoryStub struct {
	mu        sync.Mutex
	Shipments map[int64]*model.Shipment
	Next      int64
	Batch     []repository.RetryCandidate
	Err       error
}

// NewShipmentRepositoryStub constructs the stub with initialized state.
func NewShipmentRepositoryStub() *ShipmentRepositoryStub {
	return &ShipmentRepositoryStub{Shipments: make(map[int64]*model.Shipment), Next: 1}
}

// ClaimForSubmission reuses the existing row for the order or inserts a
// pending one.
func (s *ShipmentRepositoryStub) ClaimForSubmission(ctx context.Context, orderID int64) (*model.Shipment, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.Shipments[orderID]; ok {
		return existing, nil
	}
	shipment := &model.Shipment{ID: s.Next, OrderID: orderID, Status: model.ShipmentStatusPending}
	s.Next++
	s.Shipments[orderID] = shipment
	return shipment, nil
}

// FindActiveByOrder returns the stored shipment or ErrNotFound.
func (s *ShipmentRepositoryStub) FindActiveByOrder(ctx context.Context, orderID int64) (*model.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if shipment, ok := s.Shipments[orderID]; ok {
		return shipment, nil
	}
	return nil, domainErrors.ErrNotFound
}

// MarkCreated transitions the shipment to created.
func (s *ShipmentRepositoryStub) MarkCreated(ctx context.Context, shipmentID int64, courierShipmentID, waybill string, rawResponse json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, shipment := range s.Shipments {
		if shipment.ID == shipmentID {
			shipment.Status = model.ShipmentStatusCreated
			shipment.CourierShipmentID = &courierShipmentID
			shipment.WaybillReference = &waybill
			shipment.RawResponse = rawResponse
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// MarkFailed transitions the shipment to failed.
func (s *ShipmentRepositoryStub) MarkFailed(ctx context.Context, shipmentID int64, rawError json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, shipment := range s.Shipments {
		if shipment.ID == shipmentID {
			shipment.Status = model.ShipmentStatusFailed
			shipment.RawResponse = rawError
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// SelectRetryBatch returns the preconfigured batch.
func (s *ShipmentRepositoryStub) SelectRetryBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]repository.RetryCandidate, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if limit < len(s.Batch) {
		return s.Batch[:limit], nil
	}
	return s.Batch, nil
}

// CourierStub simulates the courier API with canned lookup and creation data.
type CourierStub struct {
	Sites      []speedy.Site
	Streets    []speedy.Street
	Result     *speedy.ShipmentResult
	CreateErr  error
	OfficeData json.RawMessage
	OfficesErr error

	mu      sync.Mutex
	Created []speedy.ShipmentRequest
}

// FindSite returns the canned site candidates.
func (c *CourierStub) FindSite(ctx context.Context, countryID int64, cityName, postCode string) ([]speedy.Site, error) {
	return c.Sites, nil
}

// FindStreet returns the canned street candidates.
func (c *CourierStub) FindStreet(ctx context.Context, siteID int64, name string) ([]speedy.Street, error) {
	return c.Streets, nil
}

// CreateShipment records the request and returns the canned result.
func (c *CourierStub) CreateShipment(ctx context.Context, req speedy.ShipmentRequest) (*speedy.ShipmentResult, error) {
	c.mu.Lock()
	c.Created = append(c.Created, req)
	c.mu.Unlock()

	if c.CreateErr != nil {
		return nil, c.CreateErr
	}
	if c.Result != nil {
		return c.Result, nil
	}
	return &speedy.ShipmentResult{
		ShipmentOrderNumber: "SP123",
		Waybill:             "WB456",
		Raw:                 json.RawMessage(`{"shipmentOrderNumber":"SP123","waybill":"WB456"}`),
	}, nil
}

// ListOffices returns the canned office listing.
func (c *CourierStub) ListOffices(ctx context.Context, countryID, siteID int64) (json.RawMessage, error) {
	if c.OfficesErr != nil {
		return nil, c.OfficesErr
	}
	if c.OfficeData != nil {
		return c.OfficeData, nil
	}
	return json.RawMessage(`{"offices":[]}`), nil
}
