package components

import (
	"restaurant-booking/internal/pkg/clock"
	"restaurant-booking/internal/pkg/config"
	"restaurant-booking/internal/usecase"
	"restaurant-booking/internal/usecase/commands"
	"restaurant-booking/internal/usecase/queries"
	"restaurant-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	func(cfg config.Config) clock.Clock {
		return clock.NewRealClockIn(cfg.Booking.Location())
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		func(uow shared.UnitOfWork, q queries.ReservationQueries, clk clock.Clock, cfg config.Config) commands.ReservationCommands {
			return commands.NewReservationCommands(uow, q, clk, cfg.Booking.IdempotencyTTL)
		},
		commands.NewNotificationCommands,
		commands.NewWaiterCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewClientQueries,
		queries.NewTableQueries,
		func(store queries.ReservationReadStore, clk clock.Clock, cfg config.Config) queries.ReservationQueries {
			return queries.NewReservationQueries(store, clk, cfg.Booking.HistoryWindow)
		},
		queries.NewNotificationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
