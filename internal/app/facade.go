package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/petkovbg/shipgate/internal/adapter/shopify"
	"github.com/petkovbg/shipgate/internal/adapter/speedy"
	"github.com/petkovbg/shipgate/internal/config"
	"github.com/petkovbg/shipgate/internal/domain/model"
	"github.com/petkovbg/shipgate/internal/domain/repository"
	"github.com/petkovbg/shipgate/internal/usecase"
)

// PlatformClient reads order data back from the source e-commerce platform.
type PlatformClient interface {
	FetchOrder(ctx context.Context, orderID string) (json.RawMessage, error)
}

// ShipmentFacade aggregates the application operations exposed to the HTTP
// layer and the retry worker.
type ShipmentFacade struct {
	submitter  *usecase.ShipmentSubmitter
	shipments  repository.ShipmentRepository
	courier    speedy.Client
	platform   PlatformClient
	countryID  int64
	staleAfter time.Duration
}

// NewShipmentFacade constructs ShipmentFacade.
func NewShipmentFacade(
	submitter *usecase.ShipmentSubmitter,
	shipments repository.ShipmentRepository,
	courier speedy.Client,
	platform *shopify.HTTPClient,
	cfg *config.Config,
) *ShipmentFacade {
	return &ShipmentFacade{
		submitter:  submitter,
		shipments:  shipments,
		courier:    courier,
		platform:   platform,
		countryID:  cfg.CountryID,
		staleAfter: cfg.PendingStaleAfter,
	}
}

// SubmitShipment runs one submission attempt for an inbound order event.
func (f *ShipmentFacade) SubmitShipment(ctx context.Context, order model.Order) (*usecase.SubmissionResult, error) {
	return f.submitter.Submit(ctx, order)
}

// ShipmentsForRetry claims a batch of non-terminal shipments for the worker.
func (f *ShipmentFacade) ShipmentsForRetry(ctx context.Context, limit int) ([]repository.RetryCandidate, error) {
	return f.shipments.SelectRetryBatch(ctx, limit, f.staleAfter)
}

// ResubmitShipment re-drives one claimed shipment through the submission flow.
func (f *ShipmentFacade) ResubmitShipment(ctx context.Context, candidate repository.RetryCandidate) (*usecase.SubmissionResult, error) {
	return f.submitter.Resubmit(ctx, candidate)
}

// Offices lists the courier's offices for the configured country.
func (f *ShipmentFacade) Offices(ctx context.Context) (json.RawMessage, error) {
	return f.courier.ListOffices(ctx, f.countryID, 0)
}

// PlatformOrder proxies an order read from the source platform.
func (f *ShipmentFacade) PlatformOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	return f.platform.FetchOrder(ctx, orderID)
}
