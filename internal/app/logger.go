package app

import (
	"os"

	"service-delivery/internal/config"
	"service-delivery/internal/logx"
)

// NewLogger returns a JSON logger on stdout at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, cfg.LogLevel)
}
