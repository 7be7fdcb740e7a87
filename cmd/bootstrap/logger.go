package bootstrap

import (
	"log/slog"

	"restaurant-booking/internal/pkg/config"
	"restaurant-booking/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

// NewLogger emits JSON in release mode and text otherwise.
func NewLogger(cfg config.Config) *slog.Logger {
	l := logger.New(cfg.Log, gin.Mode() == gin.ReleaseMode)
	slog.SetDefault(l)
	return l
}
