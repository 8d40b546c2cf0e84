package handlers

import (
	"context"
	"database/sql"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/aerayy/fithub-backend/internal/auth"
	"github.com/aerayy/fithub-backend/internal/clients"
	"github.com/aerayy/fithub-backend/internal/coaches"
	"github.com/aerayy/fithub-backend/internal/config"
	"github.com/aerayy/fithub-backend/internal/database"
	"github.com/aerayy/fithub-backend/internal/exercises"
	"github.com/aerayy/fithub-backend/internal/foods"
	"github.com/aerayy/fithub-backend/internal/messaging"
	"github.com/aerayy/fithub-backend/internal/nutrition"
	"github.com/aerayy/fithub-backend/internal/ratelimit"
	"github.com/aerayy/fithub-backend/internal/subscriptions"
	"github.com/aerayy/fithub-backend/internal/workouts"
)

var Module = fx.Module(
	"http",
	fx.Provide(
		newServices,
		newLimiterStorage,
		newHandler,
		NewServer,
	),
	fx.Invoke(registerServer),
)

func newServices(
	f *foods.Service,
	w *workouts.Service,
	c *coaches.Service,
	s *subscriptions.Service,
	m *messaging.Service,
	n *nutrition.Service,
	cl *clients.Service,
	e *exercises.Service,
) Services {
	return Services{
		Foods: f, Workouts: w, Coaches: c, Subscriptions: s, Messaging: m,
		Nutrition: n, Clients: cl, Exercises: e,
	}
}

// newLimiterStorage returns nil, meaning in-memory counters, when no Redis
// address is configured.
func newLimiterStorage(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) fiber.Storage {
	if cfg.RateLimit.RedisAddr == "" {
		log.Info().Msg("rate limiter uses in-memory storage")
		return nil
	}
	s := ratelimit.New(cfg.RateLimit.RedisAddr)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := s.Ping(ctx); err != nil {
				log.Error().Err(err).Str("addr", cfg.RateLimit.RedisAddr).Msg("redis unreachable")
				return err
			}
			log.Info().Str("addr", cfg.RateLimit.RedisAddr).Msg("rate limiter uses redis storage")
			return nil
		},
		OnStop: func(context.Context) error { return s.Close() },
	})
	return s
}

func newHandler(svc Services, a *auth.Authenticator, db *sql.DB, cfg *config.Config, log zerolog.Logger) *Handler {
	ping := PingFunc(func(ctx context.Context) error { return database.Ping(ctx, db) })
	return New(svc, a, ping, Options{
		UploadPath:   cfg.Server.UploadPath,
		QueryTimeout: cfg.Database.QueryTimeout,
	}, log)
}

func registerServer(lc fx.Lifecycle, app *fiber.App, h *Handler, cfg *config.Config, log zerolog.Logger) {
	h.Register(app)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Server.Port)
			if err != nil {
				log.Error().Err(err).Str("addr", cfg.Server.Port).Msg("failed to listen for HTTP")
				return err
			}
			go func() {
				log.Info().Str("addr", cfg.Server.Port).Msg("HTTP server started")
				if err := app.Listener(ln); err != nil {
					log.Error().Err(err).Msg("HTTP server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping HTTP server...")
			return app.ShutdownWithContext(ctx)
		},
	})
}
