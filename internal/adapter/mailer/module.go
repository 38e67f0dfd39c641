package mailer

import (
	"go.uber.org/fx"

	"github.com/poruchai/poruchai/internal/config"
)

// Module exposes the SMTP mailer to the fx graph.
var Module = fx.Provide(newMailer)

type mailerParams struct {
	fx.In

	Config *config.Config
}

func newMailer(p mailerParams) Mailer {
	return NewSMTPMailer(p.Config.SMTPAddr, p.Config.SMTPFrom)
}
