package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "shipping_address.city"}
	if err.Error() != "missing required field: shipping_address.city" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestResolutionErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  *ResolutionError
		want string
	}{
		{
			"site not found",
			&ResolutionError{Kind: SiteNotFound, City: "Nowhere", Zip: "0000"},
			`city "Nowhere" with ZIP code "0000" not found`,
		},
		{
			"street not found",
			&ResolutionError{Kind: StreetNotFound, City: "Sofia", Street: "Nonexistent"},
			`street "Nonexistent" not found in city "Sofia"`,
		},
		{
			"remote unavailable",
			&ResolutionError{Kind: RemoteUnavailable, Err: errors.New("connection refused")},
			"address lookup unavailable: connection refused",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Error() != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, tc.err.Error())
			}
		})
	}
}

func TestResolutionErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("resolve: %w", &ResolutionError{Kind: RemoteUnavailable, Err: cause})

	var resolutionErr *ResolutionError
	if !errors.As(err, &resolutionErr) {
		t.Fatal("expected ResolutionError in chain")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause in chain")
	}
}

func TestShipmentCreationErrorMessage(t *testing.T) {
	if got := (&ShipmentCreationError{Message: "bad recipient"}).Error(); got != "bad recipient" {
		t.Fatalf("unexpected message %q", got)
	}

	cause := errors.New("boom")
	if got := (&ShipmentCreationError{Err: cause}).Error(); got != "boom" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (&ShipmentCreationError{}).Error(); got != "shipment creation failed" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(&ShipmentCreationError{Err: cause}, cause) {
		t.Fatal("expected unwrap to expose cause")
	}
}

func TestPersistenceErrorMessage(t *testing.T) {
	cause := errors.New("connection reset")
	err := &PersistenceError{Op: "claim shipment", Err: cause}

	if err.Error() != "ledger claim shipment: connection reset" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected unwrap to expose cause")
	}
}
