package usecase

import (
	domainErrors "github.com/petkovbg/shipgate/internal/domain/errors"
	"github.com/petkovbg/shipgate/internal/domain/model"
)

// ValidateSubmission checks the fields a submission cannot proceed without.
// It runs before any remote or database call, so rejecting bad input costs
// nothing but this pass.
func ValidateSubmission(order model.Order) error {
	checks := []struct {
		field string
		value string
	}{
		{"shipping_address.city", order.Shipping.City},
		{"shipping_address.zip", order.Shipping.Zip},
		{"shipping_address.address1", order.Shipping.Street},
		{"shipping_address.phone", order.Shipping.Phone},
	}
	for _, c := range checks {
		if c.value == "" {
			return &domainErrors.ValidationError{Field: c.field}
		}
	}

	if order.Shipping.RecipientName() == "" && order.CustomerName == "" {
		return &domainErrors.ValidationError{Field: "shipping_address.first_name"}
	}

	return nil
}
