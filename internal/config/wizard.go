package config

import (
	"context"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/unattended/internal/wizard"
	"github.com/sandevgo/unattended/pkg/log"
)

type WizardConfig struct {
	HomeDir      string        `env:"UNATTEND_WIZARD_HOME"`
	Subpath      string        `env:"UNATTEND_WIZARD_SUBPATH" envDefault:"Qt"`
	Component    string        `env:"UNATTEND_WIZARD_COMPONENT" envDefault:"qt.qt5.5110.gcc_64"`
	WelcomeDelay time.Duration `env:"UNATTEND_WIZARD_WELCOME_DELAY" envDefault:"3s"`
}

func NewWizardConfig(ctx context.Context) *WizardConfig {
	c := &WizardConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Wizard config")
	}
	if c.HomeDir == "" {
		c.HomeDir, _ = os.UserHomeDir()
	}
	return c
}

// DriverOptions maps the settings onto wizard driver options.
func (c WizardConfig) DriverOptions() []wizard.Option {
	return []wizard.Option{
		wizard.WithHomeDir(c.HomeDir),
		wizard.WithTargetSubpath(c.Subpath),
		wizard.WithComponent(c.Component),
		wizard.WithWelcomeDelay(c.WelcomeDelay),
	}
}
