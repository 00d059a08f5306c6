package formula

import (
	"fmt"
	"path"
	"strings"
)

// InstallPaths are the data, doc and man directories handed to bootstrap.
// They are relative to the prefix and keep their leading slash.
type InstallPaths struct {
	Data string
	Doc  string
	Man  string
}

// BuildConfig holds everything one build invocation needs. It is created once,
// never mutated, and discarded when the run ends.
type BuildConfig struct {
	Tool              string
	Prefix            string
	Parallelism       int
	InstallPaths      InstallPaths
	PlatformExtraArgs []string
	EmacsDir          string
	Platform          Platform
}

// NewBuildConfig validates the inputs and derives the install paths for tool.
func NewBuildConfig(tool, prefix string, parallelism int, platform Platform) (BuildConfig, error) {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return BuildConfig{}, fmt.Errorf("%w: tool name is empty", ErrInvalidConfig)
	}
	if prefix == "" {
		return BuildConfig{}, fmt.Errorf("%w: prefix is empty", ErrInvalidConfig)
	}
	if !path.IsAbs(prefix) {
		return BuildConfig{}, fmt.Errorf("%w: prefix %q is not absolute", ErrInvalidConfig, prefix)
	}
	if parallelism < 1 {
		return BuildConfig{}, fmt.Errorf("%w: parallelism must be at least 1, got %d", ErrInvalidConfig, parallelism)
	}
	if platform.OS == "" {
		return BuildConfig{}, fmt.Errorf("%w: platform OS is empty", ErrInvalidConfig)
	}

	prefix = path.Clean(prefix)
	return BuildConfig{
		Tool:        tool,
		Prefix:      prefix,
		Parallelism: parallelism,
		InstallPaths: InstallPaths{
			Data: "/share/" + tool,
			Doc:  "/share/doc/" + tool,
			Man:  "/share/man",
		},
		PlatformExtraArgs: ResolvePlatformArgs(platform),
		EmacsDir:          path.Join(prefix, "share", "emacs", "site-lisp", tool),
		Platform:          platform,
	}, nil
}

// BinDir is where the installed executables end up.
func (c BuildConfig) BinDir() string {
	return path.Join(c.Prefix, "bin")
}
