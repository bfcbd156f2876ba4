package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/petkovbg/shipgate/internal/domain/model"
)

// RetryCandidate pairs a non-terminal shipment with the order it belongs to.
type RetryCandidate struct {
	Shipment model.Shipment
	Order    model.Order
}

// ShipmentRepository describes persistence operations with shipments. It is
// the only writer of shipment rows; transitions commit atomically so a row is
// never observable half-written.
type ShipmentRepository interface {
	// ClaimForSubmission returns the shipment to use for the current attempt
	// in a single atomic operation: an existing created shipment (caller
	// short-circuits), an existing pending/failed shipment (retry reuses the
	// row), or a freshly inserted pending one. Two concurrent deliveries of
	// the same order can never both insert.
	ClaimForSubmission(ctx context.Context, orderID int64) (*model.Shipment, error)
	FindActiveByOrder(ctx context.Context, orderID int64) (*model.Shipment, error)
	MarkCreated(ctx context.Context, shipmentID int64, courierShipmentID, waybill string, rawResponse json.RawMessage) error
	MarkFailed(ctx context.Context, shipmentID int64, rawError json.RawMessage) error
	// SelectRetryBatch claims up to limit shipments left in failed state, or
	// stuck pending longer than staleAfter, for background resubmission.
	SelectRetryBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]RetryCandidate, error)
}
