package cli

import (
	"context"
	"os"

	"github.com/matzehuels/scenebridge/pkg/buildinfo"
)

// SetVersion overrides the build information shown by --version. It is meant
// for embedders that do not set the buildinfo variables through ldflags.
func SetVersion(v, c, d string) {
	buildinfo.Version = v
	buildinfo.Commit = c
	buildinfo.Date = d
}

// Execute runs the scenebridge CLI with info-level logging on stderr.
//
//	func main() {
//	    cli.SetVersion("v1.0.0", "abc123", "2025-12-20")
//	    if err := cli.Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a caller-supplied context, typically one
// cancelled on SIGINT.
func ExecuteContext(ctx context.Context) error {
	return New(os.Stderr, LogInfo).RootCommand().ExecuteContext(ctx)
}
