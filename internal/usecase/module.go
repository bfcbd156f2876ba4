package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/petkovbg/shipgate/internal/adapter/speedy"
	"github.com/petkovbg/shipgate/internal/config"
	"github.com/petkovbg/shipgate/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newAddressResolver,
	newPayloadBuilder,
	newShipmentSubmitter,
)

func newAddressResolver(client speedy.Client, cfg *config.Config) *AddressResolver {
	return NewAddressResolver(client, cfg.CountryID)
}

func newPayloadBuilder(cfg *config.Config) *PayloadBuilder {
	return NewPayloadBuilder(SenderConfig{
		Name:      cfg.SenderName,
		Phone:     cfg.SenderPhone,
		Email:     cfg.SenderEmail,
		CountryID: cfg.CountryID,
		ServiceID: cfg.ServiceID,
		Payer:     cfg.CourierPayer,
		Contents:  cfg.DefaultContents,
		Package:   cfg.DefaultPackage,
		Weight:    cfg.DefaultWeight,
	})
}

type submitterParams struct {
	fx.In

	Resolver  *AddressResolver
	Builder   *PayloadBuilder
	Orders    repository.OrderRepository
	Shipments repository.ShipmentRepository
	Courier   speedy.Client
	Config    *config.Config
	Logger    *slog.Logger
}

func newShipmentSubmitter(p submitterParams) *ShipmentSubmitter {
	return NewShipmentSubmitter(p.Resolver, p.Builder, p.Orders, p.Shipments, p.Courier, p.Config.CountryID, p.Logger)
}
