package model

import (
	"encoding/json"
	"time"
)

// ShipmentStatus describes the shipment lifecycle.
type ShipmentStatus string

const (
	ShipmentStatusPending ShipmentStatus = "pending"
	ShipmentStatusCreated ShipmentStatus = "created"
	ShipmentStatusFailed  ShipmentStatus = "failed"
)

// Terminal reports whether the status needs no further submission attempts.
// Failed shipments stay retry-eligible across deliveries, so only created
// is terminal.
func (s ShipmentStatus) Terminal() bool {
	return s == ShipmentStatusCreated
}

// Shipment tracks one courier submission for an order. A created shipment
// always carries the courier id, waybill and raw courier response.
type Shipment struct {
	ID                int64
	OrderID           int64
	Status            ShipmentStatus
	CourierShipmentID *string
	WaybillReference  *string
	RawResponse       json.RawMessage
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
