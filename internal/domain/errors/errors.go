package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
)

// ValidationError reports a missing or malformed field in the inbound order
// payload. Always a caller problem, never retried.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// ResolutionKind classifies address resolution failures. Not-found kinds are
// permanent data problems; RemoteUnavailable is a transient dependency
// problem and must stay distinguishable from a legitimate empty result.
type ResolutionKind string

const (
	SiteNotFound      ResolutionKind = "site_not_found"
	StreetNotFound    ResolutionKind = "street_not_found"
	RemoteUnavailable ResolutionKind = "remote_unavailable"
)

// ResolutionError reports a failed site or street lookup.
type ResolutionError struct {
	Kind   ResolutionKind
	City   string
	Zip    string
	Street string
	Err    error
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case SiteNotFound:
		return fmt.Sprintf("city %q with ZIP code %q not found", e.City, e.Zip)
	case StreetNotFound:
		return fmt.Sprintf("street %q not found in city %q", e.Street, e.City)
	default:
		return fmt.Sprintf("address lookup unavailable: %v", e.Err)
	}
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// OfficeSuggestion carries drop-off alternatives attached to a shipment
// creation failure when the courier reports the pickup window has expired.
type OfficeSuggestion struct {
	Reason  string          `json:"reason"`
	SiteID  int64           `json:"siteId"`
	Offices json.RawMessage `json:"offices,omitempty"`
}

// ShipmentCreationError reports a failed remote shipment creation. The
// courier's error context string is preserved for caller-side handling.
type ShipmentCreationError struct {
	RemoteContext string
	Message       string
	Raw           json.RawMessage
	Suggestion    *OfficeSuggestion
	Err           error
}

func (e *ShipmentCreationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "shipment creation failed"
}

func (e *ShipmentCreationError) Unwrap() error { return e.Err }

// PersistenceError wraps a ledger read or write failure. Submission must not
// proceed to the courier with unknown idempotency state.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
