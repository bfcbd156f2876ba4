package model

// ShippingAddress is the structured address blob persisted alongside an order.
type ShippingAddress struct {
	Street    string `json:"street"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RecipientName joins the recipient's first and last name the way the courier
// expects a client name.
func (a ShippingAddress) RecipientName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

// ResolvedAddress holds the courier's internal identifiers for an address.
// It lives only for the duration of one submission attempt.
type ResolvedAddress struct {
	SiteID   int64
	StreetID int64
}
