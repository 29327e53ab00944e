package components

import (
	"karabox/internal/infra/repository"
	"karabox/internal/usecase/commands"
	"karabox/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// Reservation
		fx.Annotate(
			repository.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
			fx.As(new(queries.ReservationReadStore)),
		),
		// Promo
		fx.Annotate(
			repository.NewPromoRepository,
			fx.As(new(commands.PromoRepository)),
		),
		// Loyalty
		fx.Annotate(
			repository.NewLoyaltyRepository,
			fx.As(new(commands.LoyaltyRepository)),
			fx.As(new(queries.LoyaltyReadStore)),
		),
	),
)
