// GridStash - client for the GridStash tabular file service.
//
// Root entry point so 'go run .' works during development; release
// builds use cmd/gridstash.
package main

import (
	"fmt"
	"os"

	"github.com/gridstash/gridstash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
