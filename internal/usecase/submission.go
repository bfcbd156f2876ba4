package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/petkovbg/shipgate/internal/adapter/speedy"
	domainErrors "github.com/petkovbg/shipgate/internal/domain/errors"
	"github.com/petkovbg/shipgate/internal/domain/model"
	"github.com/petkovbg/shipgate/internal/domain/repository"
)

// CourierClient is the subset of the courier API the submitter needs.
type CourierClient interface {
	CreateShipment(ctx context.Context, req speedy.ShipmentRequest) (*speedy.ShipmentResult, error)
	ListOffices(ctx context.Context, countryID, siteID int64) (json.RawMessage, error)
}

// SubmissionResult is the outcome of one submission attempt.
type SubmissionResult struct {
	Order        *model.Order
	Shipment     *model.Shipment
	ShipmentData json.RawMessage
	// Replayed reports an idempotent short-circuit: the order already has a
	// created shipment and ShipmentData is its stored courier response.
	Replayed bool
}

// ShipmentSubmitter orchestrates one submission attempt:
// validate -> resolve -> claim ledger row -> submit -> reconcile.
type ShipmentSubmitter struct {
	resolver  *AddressResolver
	builder   *PayloadBuilder
	orders    repository.OrderRepository
	shipments repository.ShipmentRepository
	courier   CourierClient
	countryID int64
	logger    *slog.Logger
}

// NewShipmentSubmitter constructs ShipmentSubmitter.
func NewShipmentSubmitter(
	resolver *AddressResolver,
	builder *PayloadBuilder,
	orders repository.OrderRepository,
	shipments repository.ShipmentRepository,
	courier CourierClient,
	countryID int64,
	logger *slog.Logger,
) *ShipmentSubmitter {
	return &ShipmentSubmitter{
		resolver:  resolver,
		builder:   builder,
		orders:    orders,
		shipments: shipments,
		courier:   courier,
		countryID: countryID,
		logger:    logger,
	}
}

// Submit handles one inbound order event. Redelivery of an already shipped
// order replays the stored courier response without touching the remote API.
func (s *ShipmentSubmitter) Submit(ctx context.Context, order model.Order) (*SubmissionResult, error) {
	if err := ValidateSubmission(order); err != nil {
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, order.Shipping)
	if err != nil {
		return nil, err
	}

	stored, created, err := s.orders.Upsert(ctx, order)
	if err != nil {
		return nil, &domainErrors.PersistenceError{Op: "upsert order", Err: err}
	}
	if !created {
		s.logger.Info("order already known", slog.Int64("source_order_id", stored.SourceOrderID))
	}

	shipment, err := s.shipments.ClaimForSubmission(ctx, stored.ID)
	if err != nil {
		return nil, &domainErrors.PersistenceError{Op: "claim shipment", Err: err}
	}

	if shipment.Status == model.ShipmentStatusCreated {
		s.logger.Info("short-circuit: shipment already created",
			slog.Int64("source_order_id", stored.SourceOrderID),
			slog.Int64("shipment_id", shipment.ID),
		)
		return &SubmissionResult{Order: stored, Shipment: shipment, ShipmentData: shipment.RawResponse, Replayed: true}, nil
	}

	return s.submit(ctx, stored, shipment, resolved)
}

// Resubmit re-drives a shipment left in a non-terminal state through the same
// flow, using the persisted order data.
func (s *ShipmentSubmitter) Resubmit(ctx context.Context, candidate repository.RetryCandidate) (*SubmissionResult, error) {
	if candidate.Shipment.Status.Terminal() {
		return &SubmissionResult{
			Order:        &candidate.Order,
			Shipment:     &candidate.Shipment,
			ShipmentData: candidate.Shipment.RawResponse,
			Replayed:     true,
		}, nil
	}

	if err := ValidateSubmission(candidate.Order); err != nil {
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, candidate.Order.Shipping)
	if err != nil {
		return nil, err
	}

	return s.submit(ctx, &candidate.Order, &candidate.Shipment, resolved)
}

// submit performs the remote call for a claimed pending/failed shipment and
// reconciles the ledger with the outcome. The remote call is made exactly
// once per attempt; retries happen across attempts, never in-process.
func (s *ShipmentSubmitter) submit(ctx context.Context, order *model.Order, shipment *model.Shipment, resolved *model.ResolvedAddress) (*SubmissionResult, error) {
	request := s.builder.Build(*order, *resolved)

	result, err := s.courier.CreateShipment(ctx, request)
	if err != nil {
		return nil, s.reconcileFailure(ctx, order, shipment, resolved, err)
	}

	if err := s.shipments.MarkCreated(ctx, shipment.ID, result.ShipmentOrderNumber, result.Waybill, result.Raw); err != nil {
		// The courier shipment exists; surface the ledger failure so the
		// caller retries and the short-circuit path can take over once the
		// row is consistent again.
		return nil, &domainErrors.PersistenceError{Op: "mark shipment created", Err: err}
	}

	courierID := result.ShipmentOrderNumber
	waybill := result.Waybill
	shipment.Status = model.ShipmentStatusCreated
	shipment.CourierShipmentID = &courierID
	shipment.WaybillReference = &waybill
	shipment.RawResponse = result.Raw

	s.logger.Info("shipment created",
		slog.Int64("source_order_id", order.SourceOrderID),
		slog.String("courier_shipment_id", courierID),
		slog.String("waybill", waybill),
	)

	return &SubmissionResult{Order: order, Shipment: shipment, ShipmentData: result.Raw}, nil
}

func (s *ShipmentSubmitter) reconcileFailure(ctx context.Context, order *model.Order, shipment *model.Shipment, resolved *model.ResolvedAddress, cause error) error {
	creationErr := &domainErrors.ShipmentCreationError{Message: cause.Error(), Err: cause}

	var remote *speedy.RemoteError
	if errors.As(cause, &remote) {
		creationErr.RemoteContext = remote.Context
		creationErr.Message = remote.Message
		creationErr.Raw = remote.Raw
		if remote.PickupExpired() {
			creationErr.Suggestion = s.suggestOffices(ctx, resolved.SiteID)
		}
	}

	rawError := creationErr.Raw
	if rawError == nil {
		encoded, err := json.Marshal(map[string]any{"error": map[string]string{"message": cause.Error()}})
		if err == nil {
			rawError = encoded
		}
	}

	if err := s.shipments.MarkFailed(ctx, shipment.ID, rawError); err != nil {
		s.logger.Error("mark shipment failed did not persist",
			slog.Int64("shipment_id", shipment.ID),
			slog.String("error", err.Error()),
		)
	}
	shipment.Status = model.ShipmentStatusFailed
	shipment.RawResponse = rawError

	s.logger.Error("shipment creation failed",
		slog.Int64("source_order_id", order.SourceOrderID),
		slog.String("remote_context", creationErr.RemoteContext),
		slog.String("error", creationErr.Error()),
	)

	return creationErr
}

// suggestOffices fetches drop-off offices for the recipient's site. A failed
// office lookup degrades to a suggestion without the office list.
func (s *ShipmentSubmitter) suggestOffices(ctx context.Context, siteID int64) *domainErrors.OfficeSuggestion {
	suggestion := &domainErrors.OfficeSuggestion{
		Reason: "pickup window expired, drop the parcel at a courier office",
		SiteID: siteID,
	}

	offices, err := s.courier.ListOffices(ctx, s.countryID, siteID)
	if err != nil {
		s.logger.Warn("office lookup for suggestion failed", slog.String("error", err.Error()))
		return suggestion
	}
	suggestion.Offices = offices
	return suggestion
}
