package test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/petkovbg/shipgate/internal/domain/model"
	"github.com/petkovbg/shipgate/internal/domain/repository"
	"github.com/petkovbg/shipgate/internal/usecase"
)

// GatewayFacadeStub provides controllable behaviour for the HTTP handlers.
type GatewayFacadeStub struct {
	SubmitFn        func(context.Context, model.Order) (*usecase.SubmissionResult, error)
	OfficesFn       func(context.Context) (json.RawMessage, error)
	PlatformOrderFn func(context.Context, string) (json.RawMessage, error)

	mu        sync.Mutex
	Submitted []model.Order
}

// SubmitShipment delegates to the provided function or returns a canned result.
func (s *GatewayFacadeStub) SubmitShipment(ctx context.Context, order model.Order) (*usecase.SubmissionResult, error) {
	s.mu.Lock()
	s.Submitted = append(s.Submitted, order)
	s.mu.Unlock()

	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, order)
	}
	return &usecase.SubmissionResult{
		Order:        &order,
		Shipment:     &model.Shipment{ID: 1, Status: model.ShipmentStatusCreated},
		ShipmentData: json.RawMessage(`{"shipmentOrderNumber":"SP123"}`),
	}, nil
}

// Offices returns predefined office data.
func (s *GatewayFacadeStub) Offices(ctx context.Context) (json.RawMessage, error) {
	if s.OfficesFn != nil {
		return s.OfficesFn(ctx)
	}
	return json.RawMessage(`{"offices":[]}`), nil
}

// PlatformOrder returns predefined platform order data.
func (s *GatewayFacadeStub) PlatformOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	if s.PlatformOrderFn != nil {
		return s.PlatformOrderFn(ctx, orderID)
	}
	return json.RawMessage(`{"order":{}}`), nil
}

// RetryFacadeStub simulates the application surface used by the retry worker.
type RetryFacadeStub struct {
	BatchFn    func(context.Context, int) ([]repository.RetryCandidate, error)
	ResubmitFn func(context.Context, repository.RetryCandidate) (*usecase.SubmissionResult, error)

	mu          sync.Mutex
	Resubmitted []repository.RetryCandidate
}

// ShipmentsForRetry delegates to the provided function or returns an empty batch.
func (s *RetryFacadeStub) ShipmentsForRetry(ctx context.Context, limit int) ([]repository.RetryCandidate, error) {
	if s.BatchFn != nil {
		return s.BatchFn(ctx, limit)
	}
	return nil, nil
}

// ResubmitShipment records the candidate and delegates or succeeds.
func (s *RetryFacadeStub) ResubmitShipment(ctx context.Context, candidate repository.RetryCandidate) (*usecase.SubmissionResult, error) {
	s.mu.Lock()
	s.Resubmitted = append(s.Resubmitted, candidate)
	s.mu.Unlock()

	if s.ResubmitFn != nil {
		return s.ResubmitFn(ctx, candidate)
	}
	return &usecase.SubmissionResult{
		Order:    &candidate.Order,
		Shipment: &candidate.Shipment,
	}, nil
}

// ResubmitCount reports how many candidates reached the submission flow.
func (s *RetryFacadeStub) ResubmitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Resubmitted)
}
