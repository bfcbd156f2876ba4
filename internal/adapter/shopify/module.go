package shopify

import (
	"go.uber.org/fx"

	"github.com/petkovbg/shipgate/internal/config"
)

// Module exposes the platform order client to the fx graph.
var Module = fx.Provide(func(cfg *config.Config) *HTTPClient {
	return NewHTTPClient(cfg.ShopifyStore, cfg.ShopifyAPIToken)
})
