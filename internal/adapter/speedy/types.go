package speedy

import "encoding/json"

// Site is a courier-internal city/locality identifier with its metadata.
type Site struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	PostCode string `json:"postCode"`
}

// Street is a courier-internal street identifier within a site.
type Street struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type siteRequest struct {
	UserName  string `json:"userName"`
	Password  string `json:"password"`
	Language  string `json:"language"`
	CountryID int64  `json:"countryId"`
	Name      string `json:"name"`
	PostCode  string `json:"postCode"`
}

type siteResponse struct {
	Sites []Site       `json:"sites"`
	Error *RemoteError `json:"error"`
}

type streetRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
	Language string `json:"language"`
	SiteID   int64  `json:"siteId"`
	Name     string `json:"name"`
}

type streetResponse struct {
	Streets []Street     `json:"streets"`
	Error   *RemoteError `json:"error"`
}

type officeRequest struct {
	UserName  string `json:"userName"`
	Password  string `json:"password"`
	Language  string `json:"language"`
	CountryID int64  `json:"countryId"`
	SiteID    int64  `json:"siteId,omitempty"`
}

// Phone wraps a phone number the way the courier API nests it.
type Phone struct {
	Number string `json:"number"`
}

// Party identifies the sender side of a shipment.
type Party struct {
	Phone1      Phone  `json:"phone1"`
	ContactName string `json:"contactName"`
	Email       string `json:"email,omitempty"`
}

// Address carries resolved courier identifiers plus optional sub-address
// fields. Optional fields stay unset rather than defaulted to placeholder
// text, which would reach the courier as a literal address component.
type Address struct {
	CountryID  int64  `json:"countryId"`
	SiteID     int64  `json:"siteId"`
	StreetID   int64  `json:"streetId"`
	StreetNo   string `json:"streetNo,omitempty"`
	BlockNo    string `json:"blockNo,omitempty"`
	EntranceNo string `json:"entranceNo,omitempty"`
	FloorNo    string `json:"floorNo,omitempty"`
	ApartmentNo string `json:"apartmentNo,omitempty"`
}

// Recipient identifies the receiving side of a shipment.
type Recipient struct {
	Phone1        Phone   `json:"phone1"`
	ClientName    string  `json:"clientName"`
	PrivatePerson bool    `json:"privatePerson"`
	Address       Address `json:"address"`
}

// Service selects the courier product.
type Service struct {
	ServiceID            int64 `json:"serviceId"`
	AutoAdjustPickupDate bool  `json:"autoAdjustPickupDate"`
}

// Content describes the parcel.
type Content struct {
	ParcelsCount int     `json:"parcelsCount"`
	Contents     string  `json:"contents"`
	Package      string  `json:"package"`
	TotalWeight  float64 `json:"totalWeight"`
}

// Payment selects who pays the courier.
type Payment struct {
	CourierServicePayer string `json:"courierServicePayer"`
}

// ShipmentRequest is the shipment-creation payload. Credentials and language
// are filled in by the client before sending.
type ShipmentRequest struct {
	UserName  string    `json:"userName"`
	Password  string    `json:"password"`
	Language  string    `json:"language"`
	Sender    Party     `json:"sender"`
	Recipient Recipient `json:"recipient"`
	Service   Service   `json:"service"`
	Content   Content   `json:"content"`
	Payment   Payment   `json:"payment"`
	Ref1      string    `json:"ref1"`
}

// ShipmentResult is the successful shipment-creation response.
type ShipmentResult struct {
	ShipmentOrderNumber string          `json:"shipmentOrderNumber"`
	Waybill             string          `json:"waybill"`
	Raw                 json.RawMessage `json:"-"`
}

type shipmentResponse struct {
	ShipmentOrderNumber string       `json:"shipmentOrderNumber"`
	Waybill             string       `json:"waybill"`
	Error               *RemoteError `json:"error"`
}
