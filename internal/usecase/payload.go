package usecase

import (
	"fmt"

	"github.com/petkovbg/shipgate/internal/adapter/speedy"
	"github.com/petkovbg/shipgate/internal/domain/model"
)

// SenderConfig carries the configured sender identity and shipment defaults.
type SenderConfig struct {
	Name      string
	Phone     string
	Email     string
	CountryID int64
	ServiceID int64
	Payer     string
	Contents  string
	Package   string
	Weight    float64
}

// PayloadBuilder maps a validated order and its resolved address into the
// courier's shipment-creation request. Pure: identical inputs produce an
// identical payload, so retries re-send exactly the same request.
type PayloadBuilder struct {
	sender SenderConfig
}

// NewPayloadBuilder constructs PayloadBuilder.
func NewPayloadBuilder(sender SenderConfig) *PayloadBuilder {
	return &PayloadBuilder{sender: sender}
}

// Build assembles the shipment request. Inputs are assumed validated; only
// omitted optional fields receive defaults. Sub-address fields stay unset.
func (b *PayloadBuilder) Build(order model.Order, resolved model.ResolvedAddress) speedy.ShipmentRequest {
	recipientName := order.Shipping.RecipientName()
	if recipientName == "" {
		recipientName = order.CustomerName
	}

	return speedy.ShipmentRequest{
		Sender: speedy.Party{
			Phone1:      speedy.Phone{Number: b.sender.Phone},
			ContactName: b.sender.Name,
			Email:       b.sender.Email,
		},
		Recipient: speedy.Recipient{
			Phone1:        speedy.Phone{Number: order.Shipping.Phone},
			ClientName:    recipientName,
			PrivatePerson: true,
			Address: speedy.Address{
				CountryID: b.sender.CountryID,
				SiteID:    resolved.SiteID,
				StreetID:  resolved.StreetID,
			},
		},
		Service: speedy.Service{
			ServiceID:            b.sender.ServiceID,
			AutoAdjustPickupDate: true,
		},
		Content: speedy.Content{
			ParcelsCount: 1,
			Contents:     b.sender.Contents,
			Package:      b.sender.Package,
			TotalWeight:  b.sender.Weight,
		},
		Payment: speedy.Payment{
			CourierServicePayer: b.sender.Payer,
		},
		Ref1: fmt.Sprintf("Order-%d", order.SourceOrderID),
	}
}
