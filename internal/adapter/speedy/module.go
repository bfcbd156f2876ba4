package speedy

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/petkovbg/shipgate/internal/config"
)

// Module exposes the courier client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	credentials := Credentials{
		UserName: p.Config.SpeedyUserName,
		Password: p.Config.SpeedyPassword,
		Language: p.Config.SpeedyLanguage,
	}
	return NewHTTPClient(p.Config.SpeedyBaseURL, credentials, p.Logger)
}
