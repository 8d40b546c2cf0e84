// Package app assembles the service graph with fx.
package app

import (
	"go.uber.org/fx"

	"github.com/aerayy/fithub-backend/internal/auth"
	"github.com/aerayy/fithub-backend/internal/clients"
	"github.com/aerayy/fithub-backend/internal/coaches"
	"github.com/aerayy/fithub-backend/internal/config"
	"github.com/aerayy/fithub-backend/internal/database"
	"github.com/aerayy/fithub-backend/internal/exercises"
	"github.com/aerayy/fithub-backend/internal/foods"
	"github.com/aerayy/fithub-backend/internal/handlers"
	"github.com/aerayy/fithub-backend/internal/logger"
	"github.com/aerayy/fithub-backend/internal/messaging"
	"github.com/aerayy/fithub-backend/internal/nutrition"
	"github.com/aerayy/fithub-backend/internal/store"
	"github.com/aerayy/fithub-backend/internal/subscriptions"
	"github.com/aerayy/fithub-backend/internal/workouts"
)

var domainModule = fx.Module(
	"domain",
	fx.Provide(
		foods.NewService,
		workouts.NewService,
		coaches.NewService,
		subscriptions.NewService,
		messaging.NewService,
		nutrition.NewService,
		clients.NewService,
		exercises.NewService,
		newAuthenticator,
	),
)

func newAuthenticator(cfg *config.Config, users auth.Users) *auth.Authenticator {
	return auth.New(cfg.Auth.JWTSecret, users, cfg.Database.QueryTimeout)
}

// CreateApp builds the HTTP server graph for the config files at paths.
func CreateApp(paths config.Paths) fx.Option {
	return fx.Options(
		fx.Supply(paths),
		fx.Provide(config.Load),

		logger.Module,
		database.Module,
		store.Module,

		domainModule,

		handlers.Module,
	)
}
