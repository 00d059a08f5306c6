package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/unattended/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"UNATTEND_RUNTIME_PATH"`
	// Keep a build history in the runtime directory
	EnableHistory bool `env:"UNATTEND_HISTORY" envDefault:"true"`
	HistoryLimit  int  `env:"UNATTEND_HISTORY_LIMIT" envDefault:"20"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = GetRuntimePath()
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "history.db")
}
