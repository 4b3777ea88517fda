package main

import (
	config "github.com/NordCoder/ProjectEye/internal/config/syncer"
	"github.com/NordCoder/ProjectEye/internal/obs"
	"go.uber.org/zap"
)

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return obs.NewLogger(cfg.Log.AsLoggerConfig(cfg.App))
}
