package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/aerayy/fithub-backend/internal/config"
)

var Module = fx.Module(
	"logger",
	fx.Provide(NewLogger),
)

func NewLogger(cfg *config.Config) zerolog.Logger {
	return New(cfg.Log.Level)
}
