package dto

import (
	"encoding/json"

	domainErrors "github.com/petkovbg/shipgate/internal/domain/errors"
)

// ShipmentResponse is the success body for shipment submission, including
// idempotent replays.
type ShipmentResponse struct {
	Message      string          `json:"message"`
	ShipmentData json.RawMessage `json:"shipmentData"`
}

// ErrorBody carries the stage context tag plus a human readable message.
type ErrorBody struct {
	Context    string                         `json:"context"`
	Message    string                         `json:"message"`
	Suggestion *domainErrors.OfficeSuggestion `json:"suggestion,omitempty"`
}

// ErrorResponse is the error envelope for every failure response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
