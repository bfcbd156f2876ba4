package di

import (
	"go.uber.org/fx"

	"github.com/petkovbg/shipgate/internal/adapter/shopify"
	"github.com/petkovbg/shipgate/internal/adapter/speedy"
	"github.com/petkovbg/shipgate/internal/app"
	"github.com/petkovbg/shipgate/internal/config"
	"github.com/petkovbg/shipgate/internal/logger"
	"github.com/petkovbg/shipgate/internal/server/http/handlers"
	"github.com/petkovbg/shipgate/internal/server/http/router"
	"github.com/petkovbg/shipgate/internal/storage/postgres"
	"github.com/petkovbg/shipgate/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		speedy.Module,
		shopify.Module,
		usecase.Module,
		fx.Provide(func(facade *app.ShipmentFacade) handlers.GatewayFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
