// Package formula builds and installs a CMake-style source tree the way a package
// manager formula does: it resolves the host platform, assembles the bootstrap
// argument list, and runs bootstrap, build and install as an ordered pipeline that
// stops at the first failing step.
//
// Basic usage:
//
//	cfg, err := formula.NewBuildConfig("cmake", "/opt/tool", 4, formula.DetectPlatform())
//	if err != nil {
//	    return err
//	}
//	r := formula.NewRunner(cfg, formula.DefaultRecipe(), srcDir)
//	if _, err := r.Run(ctx); err != nil {
//	    var failure *formula.ExternalToolFailure
//	    if errors.As(err, &failure) {
//	        os.Exit(failure.ExitCode)
//	    }
//	    return err
//	}
package formula
