package components

import (
	"karabox/internal/handler"
	"karabox/internal/handler/api"
	"karabox/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewPaymentHandler,
		api.NewAccessHandler,
		api.NewLoyaltyHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
