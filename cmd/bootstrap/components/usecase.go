package components

import (
	"karabox/internal/usecase/commands"
	"karabox/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		commands.NewReservationCommands,
		commands.NewPaymentCommands,
		commands.NewLoyaltyCommands,
		queries.NewReservationQueries,
		queries.NewLoyaltyQueries,
	),
)
