package dto

import (
	"encoding/json"
	"strconv"

	"github.com/petkovbg/shipgate/internal/domain/model"
)

// ShippingAddress mirrors the shipping_address block of the platform webhook.
type ShippingAddress struct {
	Address1  string `json:"address1"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// OrderWebhook mirrors the order-placed webhook payload sent by the
// e-commerce platform. Monetary amounts arrive as decimal strings.
type OrderWebhook struct {
	ID                int64            `json:"id"`
	OrderNumber       json.Number      `json:"order_number"`
	Email             string           `json:"email"`
	Phone             string           `json:"phone"`
	CurrentTotalPrice string           `json:"current_total_price"`
	Currency          string           `json:"currency"`
	FinancialStatus   string           `json:"financial_status"`
	ShippingAddress   *ShippingAddress `json:"shipping_address"`
}

// ToModel converts the webhook payload into a domain order. Presence of the
// shipping_address block is the caller's responsibility; field-level
// validation happens in the submission flow.
func (w OrderWebhook) ToModel() model.Order {
	order := model.Order{
		SourceOrderID: w.ID,
		OrderNumber:   w.OrderNumber.String(),
		Email:         w.Email,
		Phone:         w.Phone,
		Currency:      w.Currency,
		OrderStatus:   w.FinancialStatus,
	}

	if w.CurrentTotalPrice != "" {
		if price, err := strconv.ParseFloat(w.CurrentTotalPrice, 64); err == nil {
			order.TotalPrice = price
		}
	}

	if w.ShippingAddress != nil {
		order.Shipping = model.ShippingAddress{
			Street:    w.ShippingAddress.Address1,
			City:      w.ShippingAddress.City,
			Zip:       w.ShippingAddress.Zip,
			Country:   w.ShippingAddress.Country,
			Phone:     w.ShippingAddress.Phone,
			FirstName: w.ShippingAddress.FirstName,
			LastName:  w.ShippingAddress.LastName,
		}
		order.CustomerName = order.Shipping.RecipientName()
	}

	return order
}
