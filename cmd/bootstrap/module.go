package bootstrap

import (
	"karabox/cmd/bootstrap/components"
	"karabox/internal/pkg/clock"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	RedisModule,
	JWTModule,
	fx.Provide(clock.NewRealClock),
	components.RepositoryModule,
	components.GatewayModule,
	components.UseCaseModule,
	components.HandlerModule,
)
