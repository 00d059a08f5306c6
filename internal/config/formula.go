package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/unattended/internal/formula"
	"github.com/sandevgo/unattended/pkg/log"
)

// FormulaConfig is the environment side of a build. Flags override it.
type FormulaConfig struct {
	Prefix    string `env:"UNATTEND_PREFIX" envDefault:"/usr/local"`
	Jobs      int    `env:"UNATTEND_JOBS"`
	OS        string `env:"UNATTEND_OS"`
	Arch      string `env:"UNATTEND_ARCH"`
	SourceDir string `env:"UNATTEND_SOURCE_DIR" envDefault:"."`
	Recipe    string `env:"UNATTEND_FORMULA"`
	Verbose   bool   `env:"UNATTEND_VERBOSE"`
}

func NewFormulaConfig(ctx context.Context) *FormulaConfig {
	c, err := ParseFormulaConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Formula config")
	}
	return c
}

// ParseFormulaConfig reads the environment and fills host-derived defaults.
func ParseFormulaConfig() (*FormulaConfig, error) {
	c := &FormulaConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	c.SetJobs(c.Jobs)
	return c, nil
}

// SetJobs sets the parallel job count; 0 means one job per CPU.
func (c *FormulaConfig) SetJobs(n int) {
	if n == 0 {
		n = runtime.NumCPU()
	}
	c.Jobs = n
}

// Platform resolves the target platform, falling back to the host for unset parts.
// OS may carry an arch ("darwin/arm64"); an explicit Arch still wins.
func (c FormulaConfig) Platform() (formula.Platform, error) {
	p := formula.DetectPlatform()
	if c.OS == "" && c.Arch == "" {
		return p, nil
	}
	if c.OS != "" {
		parsed, err := formula.ParsePlatform(c.OS)
		if err != nil {
			return formula.Platform{}, err
		}
		p.OS = parsed.OS
		if strings.Contains(c.OS, "/") {
			p.Arch = parsed.Arch
		}
	}
	if c.Arch != "" {
		p.Arch = c.Arch
	}
	return p, nil
}

// Recipe loads the recipe file, or the built-in one when none is configured.
func (c FormulaConfig) LoadRecipe() (formula.Recipe, error) {
	if c.Recipe == "" {
		return formula.DefaultRecipe(), nil
	}
	r, err := formula.LoadRecipe(c.Recipe)
	if err != nil {
		return formula.Recipe{}, fmt.Errorf("recipe %s: %w", c.Recipe, err)
	}
	return r, nil
}

// BuildConfig turns the settings into the immutable config the runner takes.
func (c FormulaConfig) BuildConfig(recipe formula.Recipe) (formula.BuildConfig, error) {
	p, err := c.Platform()
	if err != nil {
		return formula.BuildConfig{}, err
	}
	return formula.NewBuildConfig(recipe.Name, c.Prefix, c.Jobs, p)
}
