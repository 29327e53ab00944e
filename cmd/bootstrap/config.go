package bootstrap

import (
	"karabox/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
		func(cfg config.Config) config.PaymentConfig { return cfg.Payment },
		func(cfg config.Config) config.MailConfig { return cfg.Mail },
		func(cfg config.Config) config.EventsConfig { return cfg.Events },
	),
)
