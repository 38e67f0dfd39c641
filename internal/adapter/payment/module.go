package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/poruchai/poruchai/internal/config"
)

// Module exposes the gateway client implementation to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.PaymentAPIURL, p.Config.PaymentTerminalKey, p.Config.PaymentSecret, p.Config.PaymentTimeout, p.Logger)
}
