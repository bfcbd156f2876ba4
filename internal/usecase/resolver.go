package usecase

import (
	"context"
	"strings"

	"github.com/petkovbg/shipgate/internal/adapter/speedy"
	domainErrors "github.com/petkovbg/shipgate/internal/domain/errors"
	"github.com/petkovbg/shipgate/internal/domain/model"
)

// LocationClient is the subset of the courier API the resolver needs.
type LocationClient interface {
	FindSite(ctx context.Context, countryID int64, cityName, postCode string) ([]speedy.Site, error)
	FindStreet(ctx context.Context, siteID int64, name string) ([]speedy.Street, error)
}

// AddressResolver maps free-text address fields to the courier's internal
// site and street identifiers.
type AddressResolver struct {
	locations LocationClient
	countryID int64
}

// NewAddressResolver constructs AddressResolver.
func NewAddressResolver(locations LocationClient, countryID int64) *AddressResolver {
	return &AddressResolver{locations: locations, countryID: countryID}
}

// Street-type words the source addresses embed but the courier gazetteer does
// not expect. Longer variants come first so "ulitsa" is not cut as "ul".
var streetPrefixes = []string{
	"улица",
	"булевард",
	"ulitsa",
	"bulevard",
	"street",
	"blvd",
	"бул",
	"ул",
	"str",
	"bul",
	"ul",
}

// NormalizeStreet strips a leading street-type prefix case-insensitively and
// trims the remainder. "ul. Vitosha 15", "street Vitosha 15" and
// "Vitosha 15" all normalize to the same query.
func NormalizeStreet(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	for _, prefix := range streetPrefixes {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		rest := s[len(prefix):]
		if rest != "" && rest[0] != '.' && rest[0] != ' ' {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(rest, ". "))
	}
	return s
}

// Resolve runs both lookups in order: the street lookup depends on the site
// id, so a failed site resolution means the street lookup is never attempted.
func (r *AddressResolver) Resolve(ctx context.Context, address model.ShippingAddress) (*model.ResolvedAddress, error) {
	siteID, err := r.ResolveSite(ctx, address.City, address.Zip)
	if err != nil {
		return nil, err
	}

	streetID, err := r.ResolveStreet(ctx, siteID, address.Street, address.City)
	if err != nil {
		return nil, err
	}

	return &model.ResolvedAddress{SiteID: siteID, StreetID: streetID}, nil
}

// ResolveSite maps (city, postal code) to a site id. The first candidate wins
// to keep resolution deterministic.
func (r *AddressResolver) ResolveSite(ctx context.Context, cityName, postCode string) (int64, error) {
	sites, err := r.locations.FindSite(ctx, r.countryID, cityName, postCode)
	if err != nil {
		return 0, &domainErrors.ResolutionError{Kind: domainErrors.RemoteUnavailable, City: cityName, Zip: postCode, Err: err}
	}
	if len(sites) == 0 {
		return 0, &domainErrors.ResolutionError{Kind: domainErrors.SiteNotFound, City: cityName, Zip: postCode}
	}
	return sites[0].ID, nil
}

// ResolveStreet maps (site, raw street text) to a street id. The raw name is
// normalized before querying; the first candidate wins.
func (r *AddressResolver) ResolveStreet(ctx context.Context, siteID int64, rawStreet, cityName string) (int64, error) {
	name := NormalizeStreet(rawStreet)
	if name == "" {
		return 0, &domainErrors.ResolutionError{Kind: domainErrors.StreetNotFound, City: cityName, Street: rawStreet}
	}

	streets, err := r.locations.FindStreet(ctx, siteID, name)
	if err != nil {
		return 0, &domainErrors.ResolutionError{Kind: domainErrors.RemoteUnavailable, City: cityName, Street: rawStreet, Err: err}
	}
	if len(streets) == 0 {
		return 0, &domainErrors.ResolutionError{Kind: domainErrors.StreetNotFound, City: cityName, Street: rawStreet}
	}
	return streets[0].ID, nil
}
