package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/petkovbg/shipgate/internal/domain/errors"
	"github.com/petkovbg/shipgate/internal/domain/model"
)

func validOrder() model.Order {
	return model.Order{
		SourceOrderID: 42,
		Shipping: model.ShippingAddress{
			Street: "ul. Vitosha 15", City: "Sofia", Zip: "1000",
			Phone: "0899000000", FirstName: "Ivan", LastName: "Petrov",
		},
	}
}

func TestValidateSubmission(t *testing.T) {
	if err := ValidateSubmission(validOrder()); err != nil {
		t.Fatalf("expected valid order to pass, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*model.Order)
		field  string
	}{
		{"missing city", func(o *model.Order) { o.Shipping.City = "" }, "shipping_address.city"},
		{"missing zip", func(o *model.Order) { o.Shipping.Zip = "" }, "shipping_address.zip"},
		{"missing street", func(o *model.Order) { o.Shipping.Street = "" }, "shipping_address.address1"},
		{"missing phone", func(o *model.Order) { o.Shipping.Phone = "" }, "shipping_address.phone"},
		{"missing recipient name", func(o *model.Order) {
			o.Shipping.FirstName = ""
			o.Shipping.LastName = ""
			o.CustomerName = ""
		}, "shipping_address.first_name"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := validOrder()
			tc.mutate(&order)

			err := ValidateSubmission(order)
			var validationErr *domainErrors.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, validationErr.Field)
			}
		})
	}
}

func TestValidateSubmissionAcceptsCustomerNameFallback(t *testing.T) {
	order := validOrder()
	order.Shipping.FirstName = ""
	order.Shipping.LastName = ""
	order.CustomerName = "Ivan Petrov"

	if err := ValidateSubmission(order); err != nil {
		t.Fatalf("expected customer name to satisfy recipient check, got %v", err)
	}
}
