package handlers

import (
	"context"
	"encoding/json"

	"github.com/petkovbg/shipgate/internal/domain/model"
	"github.com/petkovbg/shipgate/internal/usecase"
)

// ShipmentFacade encapsulates shipment submission exposed via HTTP.
type ShipmentFacade interface {
	SubmitShipment(ctx context.Context, order model.Order) (*usecase.SubmissionResult, error)
}

// OfficeFacade provides courier office lookups.
type OfficeFacade interface {
	Offices(ctx context.Context) (json.RawMessage, error)
}

// OrderFacade proxies order reads from the source platform.
type OrderFacade interface {
	PlatformOrder(ctx context.Context, orderID string) (json.RawMessage, error)
}

// GatewayFacade aggregates the full set of operations used across handlers.
type GatewayFacade interface {
	ShipmentFacade
	OfficeFacade
	OrderFacade
}
