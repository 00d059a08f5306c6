package formula

import "fmt"

// BuildArgList assembles the bootstrap flags. The prefix always comes first and
// the platform switches always come after the fixed flags.
func BuildArgList(cfg BuildConfig) []string {
	args := []string{
		"--prefix=" + cfg.Prefix,
		"--no-system-libs",
		fmt.Sprintf("--parallel=%d", cfg.Parallelism),
		"--datadir=" + cfg.InstallPaths.Data,
		"--docdir=" + cfg.InstallPaths.Doc,
		"--mandir=" + cfg.InstallPaths.Man,
	}
	for _, a := range cfg.PlatformExtraArgs {
		args = append(args, "--"+a)
	}
	return args
}

// StandardArgs are the CMake cache definitions every formula passes through
// bootstrap to the first cmake configure.
func StandardArgs(prefix string) []string {
	return []string{
		"-DCMAKE_INSTALL_PREFIX=" + prefix,
		"-DCMAKE_INSTALL_LIBDIR=lib",
		"-DCMAKE_BUILD_TYPE=Release",
		"-DCMAKE_FIND_FRAMEWORK=LAST",
		"-DCMAKE_VERBOSE_MAKEFILE=ON",
		"-Wno-dev",
		"-DBUILD_TESTING=OFF",
	}
}

// BootstrapArgs is the full argument list for the bootstrap script: the build
// flags, a "--" separator, then the cache definitions for the inner configure.
func BootstrapArgs(cfg BuildConfig, recipe Recipe) []string {
	args := BuildArgList(cfg)
	args = append(args, "--")
	args = append(args, StandardArgs(cfg.Prefix)...)
	args = append(args, "-DCMake_INSTALL_EMACS_DIR="+cfg.EmacsDir)
	if recipe.LTO {
		args = append(args, "-DCMake_BUILD_LTO=ON")
	}
	return args
}
