package model

import "time"

// Order describes an e-commerce order captured from the source platform.
// SourceOrderID is the natural idempotency key: a given source order is
// persisted at most once.
type Order struct {
	ID            int64
	SourceOrderID int64
	OrderNumber   string
	CustomerName  string
	Email         string
	Phone         string
	Shipping      ShippingAddress
	TotalPrice    float64
	Currency      string
	OrderStatus   string
	CreatedAt     time.Time
}
