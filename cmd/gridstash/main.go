// GridStash - CLI for the GridStash tabular file service.
package main

import (
	"fmt"
	"os"

	"github.com/gridstash/gridstash/internal/cli"
	"github.com/gridstash/gridstash/internal/version"
)

// Version information, overridden by ldflags in release builds.
var (
	Version   = "v0.3.0-dev"
	BuildTime = "unknown"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
