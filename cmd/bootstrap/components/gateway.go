package components

import (
	"karabox/internal/infra/notify"
	"karabox/internal/infra/payments"
	"karabox/internal/usecase/commands"

	"go.uber.org/fx"
)

// GatewayModule wires the external collaborators. Each constructor degrades to
// an unconfigured variant when its settings are absent, so the workflow never
// holds a nil dependency.
var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			payments.NewClient,
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			notify.NewMailer,
			fx.As(new(commands.Mailer)),
		),
		fx.Annotate(
			notify.NewEventPublisher,
			fx.As(new(commands.EventPublisher)),
		),
	),
)
